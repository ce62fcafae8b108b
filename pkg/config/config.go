package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	// Environment
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Salary bounds
	SalaryCap   int `mapstructure:"SALARY_CAP"`
	SalaryFloor int `mapstructure:"SALARY_FLOOR"`

	// Portfolio sizing
	LineupCount int `mapstructure:"LINEUP_COUNT"`
	EliteCutoff int `mapstructure:"ELITE_CUTOFF"`
	MaxPerTeam  int `mapstructure:"MAX_PER_TEAM"`
	MaxPerGame  int `mapstructure:"MAX_PER_GAME"`

	// Showdown
	ShowdownSalaryFloor int `mapstructure:"SHOWDOWN_SALARY_FLOOR"`

	// Solver
	SolverMaxNodes int64 `mapstructure:"SOLVER_MAX_NODES"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	// Set defaults
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "")
	viper.SetDefault("SALARY_CAP", 50000)
	viper.SetDefault("SALARY_FLOOR", 45000)
	viper.SetDefault("LINEUP_COUNT", 10)
	viper.SetDefault("ELITE_CUTOFF", 15)
	viper.SetDefault("MAX_PER_TEAM", 4)
	viper.SetDefault("MAX_PER_GAME", 6)
	viper.SetDefault("SHOWDOWN_SALARY_FLOOR", 0)
	viper.SetDefault("SOLVER_MAX_NODES", 0) // 0 = exhaustive search

	// Read from environment
	viper.AutomaticEnv()

	// Read config file if exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
