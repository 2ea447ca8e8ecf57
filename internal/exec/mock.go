package exec

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// MockResponse is the canned result a MockExecutor returns for a matched
// command.
type MockResponse struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	// Err simulates a spawn failure (e.g. binary not on PATH). When set, the
	// other fields are ignored apart from Stderr.
	Err error
}

type mockRule struct {
	binary string
	prefix []string
	exact  bool
	resp   MockResponse
}

// MockExecutor is a test double for Executor. Tests register responses keyed
// by binary name and argument prefix; every call is recorded for assertions.
type MockExecutor struct {
	mu       sync.Mutex
	rules    []mockRule
	calls    []Spec
	fallback *MockResponse
}

// NewMockExecutor creates a mock executor. fallback, when non-nil, answers
// commands no rule matches; when nil, unmatched commands return an error so
// tests fail loudly on unexpected invocations.
func NewMockExecutor(fallback *MockResponse) *MockExecutor {
	return &MockExecutor{fallback: fallback}
}

// AddPrefixMatch registers resp for any invocation of binary whose arguments
// start with argsPrefix. Later registrations win over earlier ones.
func (m *MockExecutor) AddPrefixMatch(binary string, argsPrefix []string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, mockRule{binary: binary, prefix: argsPrefix, resp: resp})
}

// AddExactMatch registers resp for an invocation of binary with exactly args.
func (m *MockExecutor) AddExactMatch(binary string, args []string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, mockRule{binary: binary, prefix: args, exact: true, resp: resp})
}

// Run matches spec against the registered rules and returns the canned result.
func (m *MockExecutor) Run(ctx context.Context, spec Spec) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{ExitCode: -1}, err
	}

	m.mu.Lock()
	m.calls = append(m.calls, spec)
	var resp *MockResponse
	for i := len(m.rules) - 1; i >= 0; i-- {
		r := m.rules[i]
		if r.binary != spec.Binary {
			continue
		}
		if r.exact && !slices.Equal(r.prefix, spec.Args) {
			continue
		}
		if !r.exact && !hasPrefix(spec.Args, r.prefix) {
			continue
		}
		resp = &r.resp
		break
	}
	if resp == nil {
		resp = m.fallback
	}
	m.mu.Unlock()

	if resp == nil {
		return Result{ExitCode: -1}, fmt.Errorf("mock executor: no response registered for %s %v", spec.Binary, spec.Args)
	}
	if resp.Err != nil {
		return Result{Stderr: resp.Stderr, ExitCode: -1}, resp.Err
	}
	return Result{Stdout: resp.Stdout, Stderr: resp.Stderr, ExitCode: resp.ExitCode}, nil
}

// Calls returns a copy of every Spec this executor has seen, in order.
func (m *MockExecutor) Calls() []Spec {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]Spec, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// CallCount returns how many commands have been run.
func (m *MockExecutor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func hasPrefix(args, prefix []string) bool {
	if len(prefix) > len(args) {
		return false
	}
	return slices.Equal(args[:len(prefix)], prefix)
}

// Ensure both implementations satisfy the interface.
var (
	_ Executor = (*OSExecutor)(nil)
	_ Executor = (*MockExecutor)(nil)
)
