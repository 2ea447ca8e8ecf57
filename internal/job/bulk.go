package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kmears/orgrun/internal/sfdx"
)

// Bulk batch states reported by force:data:bulk:status.
const (
	BulkQueued       = "Queued"
	BulkInProgress   = "InProgress"
	BulkCompleted    = "Completed"
	BulkFailed       = "Failed"
	BulkNotProcessed = "NotProcessed"
)

// BulkStatus is one observation of a bulk API batch.
type BulkStatus struct {
	ID        string `json:"id"`
	JobID     string `json:"jobId"`
	State     string `json:"state"`
	Processed int    `json:"numberRecordsProcessed"`
	Failed    int    `json:"numberRecordsFailed"`
	Message   string `json:"stateMessage"`
}

// Terminal reports whether the batch has reached a final state.
func (s BulkStatus) Terminal() bool {
	switch s.State {
	case BulkCompleted, BulkFailed, BulkNotProcessed:
		return true
	}
	return false
}

// Summary renders the status as a one-line progress report.
func (s BulkStatus) Summary() string {
	return fmt.Sprintf("%s: %d records processed, %d failed", s.State, s.Processed, s.Failed)
}

// NewBulkCheck returns a status-check closure for the batch identified by
// jobID/batchID, suitable for a Poller.
func NewBulkCheck(runner *sfdx.Runner, target sfdx.Target, jobID, batchID string) func(ctx context.Context) (BulkStatus, error) {
	return func(ctx context.Context) (BulkStatus, error) {
		line := fmt.Sprintf("force:data:bulk:status -i %s -b %s", jobID, batchID)
		result, err := runner.Run(ctx, line, target, sfdx.RunOptions{UseDefaultOrg: true})
		if err != nil {
			return BulkStatus{}, err
		}
		var status BulkStatus
		if err := json.Unmarshal(result, &status); err != nil {
			return BulkStatus{}, fmt.Errorf("unexpected bulk status payload: %w", err)
		}
		return status, nil
	}
}
