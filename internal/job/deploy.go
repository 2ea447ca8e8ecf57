package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kmears/orgrun/internal/sfdx"
)

// DeployStatus is one observation of a metadata deployment.
type DeployStatus struct {
	ID                 string `json:"id"`
	Status             string `json:"status"`
	Done               bool   `json:"done"`
	ComponentsDeployed int    `json:"numberComponentsDeployed"`
	ComponentsTotal    int    `json:"numberComponentsTotal"`
	ComponentErrors    int    `json:"numberComponentErrors"`
	TestsCompleted     int    `json:"numberTestsCompleted"`
	TestsTotal         int    `json:"numberTestsTotal"`
	TestErrors         int    `json:"numberTestErrors"`
	ErrorMessage       string `json:"errorMessage"`
}

// Terminal reports whether the deployment has finished (succeeded, failed, or
// was canceled server-side); the server's done flag is authoritative.
func (s DeployStatus) Terminal() bool {
	return s.Done
}

// Summary renders the status as a one-line progress report.
func (s DeployStatus) Summary() string {
	line := fmt.Sprintf("%s: %d/%d components", s.Status, s.ComponentsDeployed, s.ComponentsTotal)
	if s.TestsTotal > 0 {
		line += fmt.Sprintf(", %d/%d tests", s.TestsCompleted, s.TestsTotal)
	}
	if s.ComponentErrors > 0 || s.TestErrors > 0 {
		line += fmt.Sprintf(" (%d component errors, %d test errors)", s.ComponentErrors, s.TestErrors)
	}
	return line
}

// NewDeployCheck returns a status-check closure for the deployment identified
// by deployID, suitable for a Poller.
//
// The report subcommand exits nonzero while the deployment is failing, which
// is a normal signal here, so the check opts into exit-code tolerance and
// judges the payload instead.
func NewDeployCheck(runner *sfdx.Runner, target sfdx.Target, deployID string) func(ctx context.Context) (DeployStatus, error) {
	return func(ctx context.Context) (DeployStatus, error) {
		line := "force:source:deploy:report -i " + deployID
		result, err := runner.Run(ctx, line, target, sfdx.RunOptions{UseDefaultOrg: true, TolerateExitCode: true})
		if err != nil {
			return DeployStatus{}, err
		}
		var status DeployStatus
		if err := json.Unmarshal(result, &status); err != nil {
			return DeployStatus{}, fmt.Errorf("unexpected deploy status payload: %w", err)
		}
		return status, nil
	}
}
