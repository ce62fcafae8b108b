// Package main provides the portfolio optimizer command line interface.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jstittsworth/portfolio-optimizer/internal/models"
	"github.com/jstittsworth/portfolio-optimizer/pkg/config"
	"github.com/jstittsworth/portfolio-optimizer/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "optimizer",
	Short: "Salary-capped lineup portfolio optimizer",
	Long: `Generates batches of salary-capped fantasy lineups that maximize projected score,
enforcing elite appearance targets across the batch with progressive relaxation and a
sequential fallback. The showdown command covers single-game contests with captain
selection and the 1.5x captain multiplier.`,
}

var cfg *config.Config

func main() {
	var err error
	cfg, err = config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadPlayers(path string) ([]models.Player, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read players file: %w", err)
	}
	var players []models.Player
	if err := json.Unmarshal(data, &players); err != nil {
		return nil, fmt.Errorf("failed to parse players file: %w", err)
	}
	if len(players) == 0 {
		return nil, fmt.Errorf("players file %s contains no players", path)
	}
	return players, nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
