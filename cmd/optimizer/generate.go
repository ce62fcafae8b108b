package main

import (
	"github.com/spf13/cobra"

	"github.com/jstittsworth/portfolio-optimizer/internal/optimizer"
	"github.com/jstittsworth/portfolio-optimizer/internal/solver"
)

var generateCommand = &cobra.Command{
	Use:   "generate",
	Short: "Generate a classic-contest lineup portfolio",
	Long: `Builds one combined optimization model across the requested batch, enforces the
configured elite appearance targets, and recovers from infeasibility by progressively
relaxing appearance constraints before falling back to sequential generation.

Reads the eligible player pool from a JSON file and writes the portfolio as JSON.`,
	RunE: runGenerate,
}

var (
	generatePlayersPath  string
	generateOutputPath   string
	generateLineups      int
	generateSalaryCap    int
	generateSalaryFloor  int
	generateMaxPerTeam   int
	generateMaxPerGame   int
	generateStacking     bool
	generateMaxOwnership float64
	generateScoreCutoff  float64
	generateEliteCutoff  int
	generateNoTargets    bool
)

func init() {
	generateCommand.Flags().StringVarP(&generatePlayersPath, "players", "p", "", "Path to JSON file with the eligible player pool (required)")
	generateCommand.Flags().StringVarP(&generateOutputPath, "output", "o", "", "Write the portfolio JSON here instead of stdout")
	generateCommand.Flags().IntVarP(&generateLineups, "lineups", "n", 0, "Number of lineups to generate (defaults to LINEUP_COUNT)")
	generateCommand.Flags().IntVar(&generateSalaryCap, "salary-cap", 0, "Salary cap per lineup (defaults to SALARY_CAP)")
	generateCommand.Flags().IntVar(&generateSalaryFloor, "salary-floor", 0, "Salary floor per lineup (defaults to SALARY_FLOOR)")
	generateCommand.Flags().IntVar(&generateMaxPerTeam, "max-per-team", 0, "Maximum players from one team (defaults to MAX_PER_TEAM)")
	generateCommand.Flags().IntVar(&generateMaxPerGame, "max-per-game", 0, "Maximum players from one game (defaults to MAX_PER_GAME)")
	generateCommand.Flags().BoolVar(&generateStacking, "stacking", false, "Require a same-team receiver for every rostered quarterback")
	generateCommand.Flags().Float64Var(&generateMaxOwnership, "max-ownership", 0, "Drop players with projected ownership above this percentage")
	generateCommand.Flags().Float64Var(&generateScoreCutoff, "score-percentile", 0, "Drop players with scores below this percentile of the pool")
	generateCommand.Flags().IntVar(&generateEliteCutoff, "elite-cutoff", 0, "Per-position elite rank cutoff (defaults to ELITE_CUTOFF)")
	generateCommand.Flags().BoolVar(&generateNoTargets, "no-targets", false, "Disable elite appearance targets (allows any lineup count)")
	generateCommand.MarkFlagRequired("players")
	rootCmd.AddCommand(generateCommand)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	players, err := loadPlayers(generatePlayersPath)
	if err != nil {
		return err
	}

	optimizeConfig := optimizer.DefaultOptimizeConfig()
	optimizeConfig.LineupCount = cfg.LineupCount
	optimizeConfig.SalaryCap = cfg.SalaryCap
	optimizeConfig.SalaryFloor = cfg.SalaryFloor
	optimizeConfig.MaxPerTeam = cfg.MaxPerTeam
	optimizeConfig.MaxPerGame = cfg.MaxPerGame
	optimizeConfig.EliteCutoff = cfg.EliteCutoff

	flags := cmd.Flags()
	if flags.Changed("lineups") {
		optimizeConfig.LineupCount = generateLineups
	}
	if flags.Changed("salary-cap") {
		optimizeConfig.SalaryCap = generateSalaryCap
	}
	if flags.Changed("salary-floor") {
		optimizeConfig.SalaryFloor = generateSalaryFloor
	}
	if flags.Changed("max-per-team") {
		optimizeConfig.MaxPerTeam = generateMaxPerTeam
	}
	if flags.Changed("max-per-game") {
		optimizeConfig.MaxPerGame = generateMaxPerGame
	}
	if flags.Changed("elite-cutoff") {
		optimizeConfig.EliteCutoff = generateEliteCutoff
	}
	optimizeConfig.EnableStacking = generateStacking
	optimizeConfig.MaxOwnership = generateMaxOwnership
	optimizeConfig.ScorePercentileCutoff = generateScoreCutoff

	if generateNoTargets {
		table, err := optimizer.NewTargetTable(optimizeConfig.LineupCount, nil)
		if err != nil {
			return err
		}
		optimizeConfig.Targets = table
	}

	opt := optimizer.New(solver.Options{MaxNodes: cfg.SolverMaxNodes})
	portfolio, err := opt.GeneratePortfolio(players, optimizeConfig)
	if err != nil {
		return err
	}

	return writeJSON(generateOutputPath, portfolio)
}
