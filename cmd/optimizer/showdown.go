package main

import (
	"github.com/spf13/cobra"

	"github.com/jstittsworth/portfolio-optimizer/internal/showdown"
	"github.com/jstittsworth/portfolio-optimizer/internal/solver"
)

var showdownCommand = &cobra.Command{
	Use:   "showdown",
	Short: "Generate single-game showdown lineups",
	Long: `Selects captains by value (score per salary dollar) with the 1.5x captain salary
and score multiplier, then solves one five-FLEX model per lineup. Captains rotate
across the batch unless a locked captain id is supplied, in which case the locked
captain's budget viability is validated before any lineup is attempted.`,
	RunE: runShowdown,
}

var (
	showdownPlayersPath   string
	showdownOutputPath    string
	showdownLineups       int
	showdownSalaryCap     int
	showdownSalaryFloor   int
	showdownMaxOwnership  float64
	showdownScoreCutoff   float64
	showdownLockedCaptain string
)

func init() {
	showdownCommand.Flags().StringVarP(&showdownPlayersPath, "players", "p", "", "Path to JSON file with the eligible player pool (required)")
	showdownCommand.Flags().StringVarP(&showdownOutputPath, "output", "o", "", "Write the lineups JSON here instead of stdout")
	showdownCommand.Flags().IntVarP(&showdownLineups, "lineups", "n", 0, "Number of lineups to generate (defaults to LINEUP_COUNT)")
	showdownCommand.Flags().IntVar(&showdownSalaryCap, "salary-cap", 0, "Salary cap per lineup (defaults to SALARY_CAP)")
	showdownCommand.Flags().IntVar(&showdownSalaryFloor, "salary-floor", 0, "Salary floor per lineup (defaults to SHOWDOWN_SALARY_FLOOR)")
	showdownCommand.Flags().Float64Var(&showdownMaxOwnership, "max-ownership", 0, "Drop players with projected ownership above this percentage")
	showdownCommand.Flags().Float64Var(&showdownScoreCutoff, "score-percentile", 0, "Drop players with scores below this percentile of the pool")
	showdownCommand.Flags().StringVar(&showdownLockedCaptain, "captain", "", "Lock this player id as captain for every lineup")
	showdownCommand.MarkFlagRequired("players")
	rootCmd.AddCommand(showdownCommand)
}

func runShowdown(cmd *cobra.Command, _ []string) error {
	players, err := loadPlayers(showdownPlayersPath)
	if err != nil {
		return err
	}

	showdownConfig := showdown.DefaultConfig()
	showdownConfig.LineupCount = cfg.LineupCount
	showdownConfig.SalaryCap = cfg.SalaryCap
	showdownConfig.SalaryFloor = cfg.ShowdownSalaryFloor

	flags := cmd.Flags()
	if flags.Changed("lineups") {
		showdownConfig.LineupCount = showdownLineups
	}
	if flags.Changed("salary-cap") {
		showdownConfig.SalaryCap = showdownSalaryCap
	}
	if flags.Changed("salary-floor") {
		showdownConfig.SalaryFloor = showdownSalaryFloor
	}
	showdownConfig.MaxOwnership = showdownMaxOwnership
	showdownConfig.ScorePercentileCutoff = showdownScoreCutoff
	showdownConfig.LockedCaptainID = showdownLockedCaptain

	builder := showdown.New(solver.Options{MaxNodes: cfg.SolverMaxNodes})
	lineups, err := builder.GenerateLineups(players, showdownConfig)
	if err != nil {
		return err
	}

	return writeJSON(showdownOutputPath, lineups)
}
