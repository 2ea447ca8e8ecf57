package sfdx

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNotInstalled reports that the sfdx binary itself is missing or cannot be
// executed. It is surfaced to the user with remediation guidance regardless of
// the caller's exit-code tolerance.
var ErrNotInstalled = errors.New("sfdx CLI not found")

// InstallHint is the remediation message shown when the CLI is missing.
const InstallHint = "sfdx command not found. Install the Salesforce CLI and make sure it is on your PATH: https://developer.salesforce.com/tools/salesforcecli"

// InvocationError reports that the tool ran but signalled a failure. Message
// carries the best available detail: per-item errors, then the envelope's own
// message, then the invocation context.
type InvocationError struct {
	Command string
	Message string
}

func (e *InvocationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Command + " failed"
}

// Envelope is the JSON document sfdx prints on stdout in --json mode. The
// result payload stays opaque here; only the fields classification needs are
// typed.
type Envelope struct {
	Status  int             `json:"status"`
	Result  json.RawMessage `json:"result"`
	Message string          `json:"message"`
	Name    string          `json:"name"`
}

// parseEnvelope decodes stdout into an Envelope. Parse failure is not fatal to
// an invocation; the caller logs it and classifies with a nil envelope.
func parseEnvelope(stdout []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(stdout, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// itemErrors extracts per-item error strings when the result payload is an
// array of objects carrying an "error" field (bulk-style partial failures).
// Order is preserved.
func itemErrors(result json.RawMessage) []string {
	if len(result) == 0 {
		return nil
	}
	var items []struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(result, &items); err != nil {
		return nil
	}
	var errs []string
	for _, item := range items {
		if item.Error != "" {
			errs = append(errs, item.Error)
		}
	}
	return errs
}

// hasPayload reports whether a result field holds an actual value.
func hasPayload(result json.RawMessage) bool {
	trimmed := bytes.TrimSpace(result)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// classify decides the outcome of an invocation. It is a pure function over
// the exit code, the decoded envelope (nil when stdout wasn't JSON), the
// tool-missing flag, and the caller's exit-code tolerance, so it is testable
// without spawning anything.
//
// The precedence is deliberate and layered (mirrors sfdx's inconsistent
// exit-code semantics across subcommands): missing tool wins over everything,
// tolerance wins over any failure signal, then exit code and envelope status
// are consulted with message sourcing falling back from per-item errors to
// the envelope message to the invocation context.
func classify(inv *Invocation, exitCode int, env *Envelope, toolMissing, tolerate bool) (json.RawMessage, error) {
	if toolMissing {
		return nil, ErrNotInstalled
	}

	if tolerate {
		if env != nil {
			return env.Result, nil
		}
		return nil, nil
	}

	if exitCode != 0 && env == nil {
		return nil, &InvocationError{
			Command: inv.Describe(),
			Message: fmt.Sprintf("%s exited with code %d", inv.Describe(), exitCode),
		}
	}

	if env != nil && env.Status > 0 {
		perItem := itemErrors(env.Result)
		succeeded := hasPayload(env.Result) && len(perItem) == 0
		if !succeeded {
			msg := strings.Join(perItem, "\n")
			if msg == "" {
				msg = env.Message
			}
			if msg == "" {
				msg = inv.Describe() + " failed"
			}
			return nil, &InvocationError{Command: inv.Describe(), Message: msg}
		}
	}

	if env != nil {
		return env.Result, nil
	}
	return nil, nil
}
