package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kmears/orgrun/internal/argcodec"
	"github.com/kmears/orgrun/internal/config"
	"github.com/kmears/orgrun/internal/job"
	"github.com/kmears/orgrun/internal/sfdx"
)

var (
	deployWatch bool

	progressStyle = lipgloss.NewStyle().Faint(true)
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	failureStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

var deployCmd = &cobra.Command{
	Use:     "deploy <path>",
	Short:   "Deploy source to the default org",
	GroupID: "ops",
	Args:    cobra.ExactArgs(1),
	Example: `  orgrun deploy force-app            # Start a deploy, print the job id
  orgrun deploy force-app --watch    # Start a deploy and track it to completion`,
	RunE: runDeploy,
}

func init() {
	deployCmd.Flags().BoolVarP(&deployWatch, "watch", "w", false, "Poll deploy status until it finishes")
	rootCmd.AddCommand(deployCmd)
}

func runDeploy(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := requireDefaultOrg(cfg); err != nil {
		return err
	}
	runner := newRunner(cfg)
	target := buildTarget(cfg)

	// --wait 0 queues the deploy server-side and returns the job id
	// immediately; progress is tracked by polling, not by the CLI blocking.
	line := "force:source:deploy -p " + argcodec.Encode(args[0]) + " --wait 0"
	result, err := runner.Run(cmd.Context(), line, target, sfdx.RunOptions{UseDefaultOrg: true, TolerateExitCode: true})
	if err != nil {
		return err
	}

	var queued struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(result, &queued); err != nil || queued.ID == "" {
		return fmt.Errorf("deploy did not return a job id (payload: %s)", result)
	}

	if !deployWatch {
		fmt.Printf("Deploy queued: %s\nTrack it with: orgrun deploy-report %s --watch\n", queued.ID, queued.ID)
		return nil
	}
	return watchDeploy(cmd.Context(), runner, cfg, target, queued.ID)
}

var deployReportCmd = &cobra.Command{
	Use:     "deploy-report <id>",
	Short:   "Check (or watch) the status of a deploy job",
	GroupID: "ops",
	Args:    cobra.ExactArgs(1),
	RunE:    runDeployReport,
}

var deployReportWatch bool

func init() {
	deployReportCmd.Flags().BoolVarP(&deployReportWatch, "watch", "w", false, "Poll deploy status until it finishes")
	rootCmd.AddCommand(deployReportCmd)
}

func runDeployReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := requireDefaultOrg(cfg); err != nil {
		return err
	}
	runner := newRunner(cfg)
	target := buildTarget(cfg)

	if deployReportWatch {
		return watchDeploy(cmd.Context(), runner, cfg, target, args[0])
	}

	status, err := job.NewDeployCheck(runner, target, args[0])(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Println(status.Summary())
	return nil
}

// watchDeploy polls the deploy until it reaches a terminal state, streaming
// one progress line per observation.
func watchDeploy(ctx context.Context, runner *sfdx.Runner, cfg *config.Config, target sfdx.Target, deployID string) error {
	var final *job.DeployStatus
	poller := &job.Poller[job.DeployStatus]{
		Interval: cfg.PollInterval(),
		Check:    job.NewDeployCheck(runner, target, deployID),
		OnUpdate: func(s job.DeployStatus) {
			final = &s
			fmt.Println(progressStyle.Render(s.Summary()))
		},
		IsTerminal: job.DeployStatus.Terminal,
		OnAbort: func(err error) {
			fmt.Println(progressStyle.Render("status check failed, polling stopped: " + err.Error()))
		},
	}
	poller.Run(ctx)

	if final == nil || !final.Done {
		// Abandoned (ctx cancelled) or aborted before any terminal status.
		return nil
	}
	if final.ComponentErrors > 0 || final.TestErrors > 0 || final.Status == "Failed" {
		fmt.Println(failureStyle.Render("Deploy failed: " + final.Summary()))
		if final.ErrorMessage != "" {
			fmt.Println(final.ErrorMessage)
		}
		return fmt.Errorf("deploy %s failed", deployID)
	}
	fmt.Println(successStyle.Render("Deploy succeeded: " + final.Summary()))
	return nil
}
