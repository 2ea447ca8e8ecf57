package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kmears/orgrun/internal/argcodec"
	"github.com/kmears/orgrun/internal/config"
	"github.com/kmears/orgrun/internal/job"
	"github.com/kmears/orgrun/internal/sfdx"
)

var (
	bulkWatch      bool
	bulkExternalID string
)

var bulkCmd = &cobra.Command{
	Use:     "bulk <object> <csv>",
	Short:   "Bulk upsert records from a CSV file",
	GroupID: "ops",
	Args:    cobra.ExactArgs(2),
	Example: `  orgrun bulk Account accounts.csv
  orgrun bulk Contact contacts.csv --watch --external-id Ext_Ref__c`,
	RunE: runBulk,
}

func init() {
	bulkCmd.Flags().BoolVarP(&bulkWatch, "watch", "w", false, "Poll batch status until it finishes")
	bulkCmd.Flags().StringVar(&bulkExternalID, "external-id", "Id", "External ID field for upsert matching")
	rootCmd.AddCommand(bulkCmd)
}

func runBulk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := requireDefaultOrg(cfg); err != nil {
		return err
	}
	runner := newRunner(cfg)
	target := buildTarget(cfg)

	line := fmt.Sprintf("force:data:bulk:upsert -s %s -f %s -i %s",
		args[0], argcodec.Encode(args[1]), bulkExternalID)
	result, err := runner.Run(cmd.Context(), line, target, sfdx.RunOptions{UseDefaultOrg: true})
	if err != nil {
		return err
	}

	// The upsert returns one batch info per created batch.
	var batches []struct {
		ID    string `json:"id"`
		JobID string `json:"jobId"`
		State string `json:"state"`
	}
	if err := json.Unmarshal(result, &batches); err != nil || len(batches) == 0 {
		return fmt.Errorf("bulk upsert did not return batch info (payload: %s)", result)
	}
	batch := batches[0]
	fmt.Printf("Bulk job %s, batch %s queued (%s)\n", batch.JobID, batch.ID, batch.State)

	if !bulkWatch {
		return nil
	}
	return watchBulk(cmd.Context(), runner, cfg, target, batch.JobID, batch.ID)
}

// watchBulk polls the batch until it reaches a terminal state.
func watchBulk(ctx context.Context, runner *sfdx.Runner, cfg *config.Config, target sfdx.Target, jobID, batchID string) error {
	var final *job.BulkStatus
	poller := &job.Poller[job.BulkStatus]{
		Interval: cfg.PollInterval(),
		Check:    job.NewBulkCheck(runner, target, jobID, batchID),
		OnUpdate: func(s job.BulkStatus) {
			final = &s
			fmt.Println(progressStyle.Render(s.Summary()))
		},
		IsTerminal: job.BulkStatus.Terminal,
		OnAbort: func(err error) {
			fmt.Println(progressStyle.Render("status check failed, polling stopped: " + err.Error()))
		},
	}
	poller.Run(ctx)

	if final == nil || !final.Terminal() {
		return nil
	}
	if final.State != job.BulkCompleted || final.Failed > 0 {
		msg := final.Summary()
		if final.Message != "" {
			msg += ": " + final.Message
		}
		fmt.Println(failureStyle.Render("Bulk load finished with errors: " + msg))
		return fmt.Errorf("bulk batch %s finished in state %s with %d failed records", batchID, final.State, final.Failed)
	}
	fmt.Println(successStyle.Render("Bulk load complete: " + final.Summary()))
	return nil
}
