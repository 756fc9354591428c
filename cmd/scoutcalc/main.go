// Package main provides the scoutcalc batch CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/okian/scoutcalc/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		logLevel  string
		logFormat string
	)

	cmd := &cobra.Command{
		Use:   "scoutcalc",
		Short: "Score scouting records and build team aggregate tables",
		Long: `Score per-match scouting records with a season rubric and aggregate them per team.

Examples:
  scoutcalc run --input export.csv --season 2026
  scoutcalc run --input export.csv --db scouting_data.db --json
  scoutcalc seed --teams 24 --matches 12 --out export.csv
  scoutcalc seed --post http://localhost:9080
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.InitWithWriter(cmd.ErrOrStderr(), logger.Format(logFormat)); err != nil {
				return err
			}
			return logger.SetLevelString(logLevel)
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", string(logger.FormatText), "Log format: text or json")

	cmd.AddCommand(runCmd())
	cmd.AddCommand(seedCmd())
	return cmd
}
