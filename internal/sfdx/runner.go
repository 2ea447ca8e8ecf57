// Package sfdx wraps the Salesforce CLI as a subprocess and turns its JSON
// output into typed outcomes.
//
// Every call to Run is independent: it builds its own Invocation, owns its
// own output buffers, and shares nothing with concurrent calls. Cancellation
// is cooperative through the caller's context; when it fires, the whole
// process tree under the CLI is killed and Run settles with whatever the
// close observed.
package sfdx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	osexec "os/exec"
	"strings"

	"github.com/kmears/orgrun/internal/exec"
	"github.com/kmears/orgrun/internal/notify"
)

// DefaultBinary is the CLI executable name, resolved via PATH.
const DefaultBinary = "sfdx"

// Runner executes sfdx subcommands. Construct with New; the zero value is not
// usable.
type Runner struct {
	binary   string
	executor exec.Executor
	notifier notify.Notifier
	log      *slog.Logger
}

// New creates a Runner. The executor seam lets tests run against canned
// responses instead of real processes.
func New(executor exec.Executor, notifier notify.Notifier, log *slog.Logger) *Runner {
	return &Runner{
		binary:   DefaultBinary,
		executor: executor,
		notifier: notifier,
		log:      log,
	}
}

// SetBinary overrides the executable name (e.g. an absolute path from config).
func (r *Runner) SetBinary(name string) {
	if name != "" {
		r.binary = name
	}
}

// Run executes one sfdx command line and returns the envelope's result
// payload.
//
// The command line is the subcommand and flags only ("force:org:list -a");
// --json is appended when absent and the target-org flag is appended when
// opts.UseDefaultOrg is set. Tokens pass through argcodec.Decode, so values
// encoded with argcodec.Encode survive with their spaces intact.
//
// Errors: ErrNotInstalled when the binary is missing (also raises one
// user-visible remediation notification), *InvocationError when the tool ran
// but reported failure. With opts.TolerateExitCode the call never fails on
// exit status or unparsable output; the result is best-effort and may be nil.
func (r *Runner) Run(ctx context.Context, commandLine string, target Target, opts RunOptions) (json.RawMessage, error) {
	inv, err := r.buildInvocation(commandLine, target, opts)
	if err != nil {
		return nil, err
	}

	log := r.log.With("invocation", inv.ID)
	log.Debug("running command", "binary", r.binary, "args", strings.Join(inv.Args, " "), "dir", target.Dir)

	res, runErr := r.executor.Run(ctx, exec.Spec{
		Binary: r.binary,
		Args:   inv.Args,
		Dir:    target.Dir,
		Env:    target.Env,
	})

	toolMissing := false
	if runErr != nil {
		if isSpawnNotFound(runErr) {
			toolMissing = true
		} else {
			return nil, fmt.Errorf("failed to start %s: %w", r.binary, runErr)
		}
	}

	stderrText := string(res.Stderr)
	if stderrText != "" {
		log.Debug("stderr", "text", stderrText)
		if stderrIndicatesMissingTool(stderrText) {
			toolMissing = true
		}
	}

	var env *Envelope
	if len(bytes.TrimSpace(res.Stdout)) > 0 {
		env, err = parseEnvelope(res.Stdout)
		if err != nil {
			// Non-fatal: classification proceeds without an envelope.
			log.Warn("stdout was not valid JSON", "error", err)
			env = nil
		}
	}

	result, cErr := classify(inv, res.ExitCode, env, toolMissing, opts.TolerateExitCode)
	if errors.Is(cErr, ErrNotInstalled) {
		r.notifier.Error(InstallHint)
		log.Info("sfdx binary missing", "stderr", stderrText)
	} else if cErr != nil {
		log.Debug("command failed", "exitCode", res.ExitCode, "error", cErr)
	} else {
		log.Debug("command succeeded", "exitCode", res.ExitCode)
	}
	return result, cErr
}

// isSpawnNotFound reports whether a spawn error means the binary itself is
// absent, as opposed to some other start failure.
func isSpawnNotFound(err error) bool {
	return errors.Is(err, osexec.ErrNotFound) || errors.Is(err, os.ErrNotExist) ||
		strings.Contains(strings.ToLower(err.Error()), "not found")
}

// stderrIndicatesMissingTool scans stderr for the shell's flavor of "no such
// binary". Covers "command not found" (sh/bash), "not recognized as an
// internal or external command" (cmd.exe).
func stderrIndicatesMissingTool(stderr string) bool {
	lower := strings.ToLower(stderr)
	return strings.Contains(lower, "not found") || strings.Contains(lower, "not recognized")
}
