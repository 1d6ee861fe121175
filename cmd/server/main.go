package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rickeysan/hiit-score-app/internal"
	"github.com/rickeysan/hiit-score-app/internal/config"
	"github.com/rickeysan/hiit-score-app/internal/exercise"
)

var rootCmd = &cobra.Command{
	Use:   "hiit-score",
	Short: "HIIT score server, notification scheduler and pose replay tool",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, replayCmd, exercisesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup() (*config.Config, *internal.ZapLogger, *exercise.Catalog, error) {
	cfg := config.Load()
	logger, err := internal.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to init logger: %w", err)
	}
	catalog, err := exercise.Load(cfg.ExercisesFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load exercises: %w", err)
	}
	return cfg, logger, catalog, nil
}
