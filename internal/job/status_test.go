package job

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/kmears/orgrun/internal/exec"
	"github.com/kmears/orgrun/internal/notify"
	"github.com/kmears/orgrun/internal/sfdx"
	"github.com/kmears/orgrun/internal/testutil"
)

func newJobTestRunner(mockExec *exec.MockExecutor) *sfdx.Runner {
	return sfdx.New(mockExec, notify.NewRecorder(), testutil.DiscardLogger())
}

func TestBulkStatusTerminalStates(t *testing.T) {
	cases := map[string]bool{
		BulkQueued:       false,
		BulkInProgress:   false,
		BulkCompleted:    true,
		BulkFailed:       true,
		BulkNotProcessed: true,
	}
	for state, want := range cases {
		if got := (BulkStatus{State: state}).Terminal(); got != want {
			t.Errorf("Terminal(%q) = %v, want %v", state, got, want)
		}
	}
}

func TestBulkCheckParsesStatus(t *testing.T) {
	mockExec := exec.NewMockExecutor(nil)
	mockExec.AddPrefixMatch("sfdx", []string{"force:data:bulk:status"}, exec.MockResponse{
		Stdout: []byte(`{"status":0,"result":{"id":"751x0","jobId":"750x0","state":"InProgress","numberRecordsProcessed":42,"numberRecordsFailed":3}}`),
	})
	runner := newJobTestRunner(mockExec)

	check := NewBulkCheck(runner, sfdx.Target{Org: "dev"}, "750x0", "751x0")
	status, err := check(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.State != BulkInProgress || status.Processed != 42 || status.Failed != 3 {
		t.Errorf("unexpected status: %+v", status)
	}

	args := mockExec.Calls()[0].Args
	joined := ""
	for _, a := range args {
		joined += a + " "
	}
	for _, want := range []string{"-i 750x0", "-b 751x0", "-u dev"} {
		if !strings.Contains(joined, want) {
			t.Errorf("command line missing %q: %s", want, joined)
		}
	}
}

func TestDeployCheckToleratesNonZeroExit(t *testing.T) {
	// A failing deploy makes the report subcommand exit nonzero while still
	// printing a status payload; the check must use it.
	mockExec := exec.NewMockExecutor(nil)
	mockExec.AddPrefixMatch("sfdx", []string{"force:source:deploy:report"}, exec.MockResponse{
		Stdout:   []byte(`{"status":1,"result":{"id":"0Afx0","status":"Failed","done":true,"numberComponentsDeployed":7,"numberComponentsTotal":9,"numberComponentErrors":2}}`),
		ExitCode: 1,
	})
	runner := newJobTestRunner(mockExec)

	check := NewDeployCheck(runner, sfdx.Target{Org: "dev"}, "0Afx0")
	status, err := check(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !status.Terminal() || status.Status != "Failed" || status.ComponentErrors != 2 {
		t.Errorf("unexpected status: %+v", status)
	}
}

func TestBulkPollingEndToEnd(t *testing.T) {
	// Poll against a mock whose answer flips to terminal after the first call.
	mockExec := exec.NewMockExecutor(nil)
	mockExec.AddPrefixMatch("sfdx", []string{"force:data:bulk:status"}, exec.MockResponse{
		Stdout: []byte(`{"status":0,"result":{"state":"InProgress","numberRecordsProcessed":5}}`),
	})
	runner := newJobTestRunner(mockExec)

	var updates []BulkStatus
	p := &Poller[BulkStatus]{
		Interval:   time.Millisecond,
		Check:      NewBulkCheck(runner, sfdx.Target{}, "750x0", "751x0"),
		OnUpdate:   func(s BulkStatus) { updates = append(updates, s) },
		IsTerminal: BulkStatus.Terminal,
	}

	go func() {
		// After the first poll lands, swap in the terminal response.
		for mockExec.CallCount() == 0 {
			time.Sleep(time.Millisecond)
		}
		mockExec.AddPrefixMatch("sfdx", []string{"force:data:bulk:status"}, exec.MockResponse{
			Stdout: []byte(`{"status":0,"result":{"state":"Completed","numberRecordsProcessed":10,"numberRecordsFailed":1}}`),
		})
	}()

	done := make(chan struct{})
	go func() {
		p.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("polling did not reach a terminal state")
	}

	last := updates[len(updates)-1]
	if last.State != BulkCompleted || last.Processed != 10 || last.Failed != 1 {
		t.Errorf("unexpected final status: %+v", last)
	}
}

func TestDeploySummary(t *testing.T) {
	s := DeployStatus{Status: "InProgress", ComponentsDeployed: 3, ComponentsTotal: 9, TestsTotal: 4, TestsCompleted: 1}
	want := "InProgress: 3/9 components, 1/4 tests"
	if got := s.Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}
