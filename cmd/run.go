package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/kmears/orgrun/internal/sfdx"
)

var (
	runUseOrg       bool
	runTolerateExit bool
)

var runCmd = &cobra.Command{
	Use:     "run -- <sfdx subcommand and flags>",
	Short:   "Run a raw sfdx subcommand with the JSON contract applied",
	GroupID: "ops",
	Long: `Runs any sfdx subcommand through the same pipeline as the built-in
commands: --json is appended, stdout is classified into a typed outcome,
and the result payload is printed.

Use --tolerate-exit for subcommands that exit nonzero as a normal signal
(status reports); the result is then extracted best-effort and the
command never fails on exit status alone.`,
	Args:    cobra.MinimumNArgs(1),
	Example: `  orgrun run -- force:limits:api:display
  orgrun run --use-org -- force:apex:test:run -r human
  orgrun run --tolerate-exit -- force:source:status`,
	RunE: runRaw,
}

func init() {
	runCmd.Flags().BoolVar(&runUseOrg, "use-org", false, "Append the default org flag to the subcommand")
	runCmd.Flags().BoolVar(&runTolerateExit, "tolerate-exit", false, "Treat nonzero exit as success and extract the result best-effort")
	rootCmd.AddCommand(runCmd)
}

func runRaw(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if runUseOrg {
		if err := requireDefaultOrg(cfg); err != nil {
			return err
		}
	}
	runner := newRunner(cfg)

	opts := sfdx.RunOptions{UseDefaultOrg: runUseOrg, TolerateExitCode: runTolerateExit}
	result, err := runner.Run(cmd.Context(), strings.Join(args, " "), buildTarget(cfg), opts)
	if err != nil {
		return err
	}
	return printJSON(result)
}
