package sfdx

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kmears/orgrun/internal/argcodec"
)

// Target is the per-call configuration an invocation runs against. It is
// built by the caller and passed in explicitly; the runner never reads
// ambient state.
type Target struct {
	// Org is the username or alias of the default org. Empty means none is
	// configured; callers that require one fail fast before reaching the
	// runner.
	Org string
	// Dir is the working directory for the CLI (usually the project root).
	Dir string
	// Env holds extra KEY=VALUE entries merged over the parent environment.
	Env []string
}

// RunOptions carries per-call policy for a single invocation.
type RunOptions struct {
	// UseDefaultOrg appends the target-org flag so the subcommand runs
	// against Target.Org.
	UseDefaultOrg bool
	// TolerateExitCode opts into best-effort result extraction: the call
	// succeeds even on nonzero exit or unparsable output. Some sfdx
	// subcommands use nonzero exit as a normal signal (e.g. status reports),
	// so exit-code policy belongs to the caller.
	TolerateExitCode bool
}

// Invocation is one fully-built request to run the CLI. Immutable once built
// and owned exclusively by the Run call that executes it.
type Invocation struct {
	ID        string
	Args      []string
	Target    Target
	StartedAt time.Time
}

// Describe returns the invocation context used in error messages when the
// tool's own output offers nothing better.
func (inv *Invocation) Describe() string {
	return "sfdx " + strings.Join(inv.Args, " ")
}

// buildInvocation turns a composed command line into an argument vector:
// append --json if absent, append the target-org flag when requested, then
// split on whitespace and decode each token.
func (r *Runner) buildInvocation(commandLine string, target Target, opts RunOptions) (*Invocation, error) {
	line := strings.TrimSpace(commandLine)
	if line == "" {
		return nil, fmt.Errorf("empty command line")
	}

	if !strings.Contains(line, "--json") {
		line += " --json"
	}
	if opts.UseDefaultOrg && target.Org != "" {
		line += " -u " + target.Org
	}

	tokens := strings.Fields(line)
	args := make([]string, len(tokens))
	for i, tok := range tokens {
		args[i] = argcodec.Decode(tok)
	}

	return &Invocation{
		ID:        uuid.NewString(),
		Args:      args,
		Target:    target,
		StartedAt: time.Now(),
	}, nil
}
