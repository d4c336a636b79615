// Package cmd is the command-line entry point.
package cmd

import (
	"os"

	"careerlink/config"
	"careerlink/logs"

	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "careerlink",
	Short: "CareerLink API server",
	Long:  `CareerLink serves the jobs, courses, badges, mentoring and career-fair API.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.LoadConfig()
		logs.Init(logs.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(remindersCmd)
}

// Execute runs the root command; serve is the default.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logs.Logger.WithError(err).Error("command failed")
		os.Exit(1)
	}
}
