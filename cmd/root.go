package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kmears/orgrun/internal/config"
	"github.com/kmears/orgrun/internal/logger"
)

var (
	quietMode             bool
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "orgrun",
	Short: "Salesforce CLI companion for queries, deploys, and bulk loads",
	Long: `orgrun wraps the Salesforce CLI (sfdx) with a JSON-first contract:
every subcommand runs with --json, output is classified into a typed
outcome, and long-running server jobs (deploys, bulk loads) are tracked
to completion with fixed-interval polling.

Set a default org once with 'orgrun use <alias>'; identity-scoped
commands run against it. Diagnostics go to ~/.orgrun/debug.log.`,
	Example: `  orgrun use dev-hub                          # Set the default org
  orgrun query "SELECT Id, Name FROM Account" # Run a SOQL query
  orgrun deploy force-app --watch             # Deploy source and track progress
  orgrun bulk Account accounts.csv --watch    # Bulk upsert and track the batch
  orgrun run -- force:limits:api:display      # Raw passthrough`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Reduce logging to info level only")

	// Command groups
	rootCmd.AddGroup(
		&cobra.Group{ID: "org", Title: "Org Commands:"},
		&cobra.Group{ID: "ops", Title: "Operation Commands:"},
	)

	// Hide the auto-generated completion command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
}

func initConfig() {
	logger.SetDebug(!quietMode)
	if dir, err := config.DefaultDir(); err == nil {
		logger.Setup(dir)
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	defer logger.Close()
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("orgrun %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("orgrun %s\n", version)
}
