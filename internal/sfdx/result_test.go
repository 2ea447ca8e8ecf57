package sfdx

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func testInvocation(args ...string) *Invocation {
	return &Invocation{ID: "test", Args: args, StartedAt: time.Now()}
}

func TestClassifyToolMissingBeatsEverything(t *testing.T) {
	env := &Envelope{Status: 0, Result: json.RawMessage(`{"ok":true}`)}
	_, err := classify(testInvocation("force:org:list"), 0, env, true, true)
	if !errors.Is(err, ErrNotInstalled) {
		t.Errorf("expected ErrNotInstalled, got %v", err)
	}
}

func TestClassifyTolerantExtractsResultWhenPresent(t *testing.T) {
	env := &Envelope{Status: 1, Result: json.RawMessage(`{"partial":true}`)}
	result, err := classify(testInvocation("force:source:status"), 3, env, false, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(result) != `{"partial":true}` {
		t.Errorf("result = %s", result)
	}
}

func TestClassifyStatusFailureWithoutAnyMessage(t *testing.T) {
	env := &Envelope{Status: 1}
	_, err := classify(testInvocation("force:data:soql:query", "-q", "SELECT"), 1, env, false, false)
	var invErr *InvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("expected InvocationError, got %v", err)
	}
	want := "sfdx force:data:soql:query -q SELECT failed"
	if invErr.Message != want {
		t.Errorf("message = %q, want %q", invErr.Message, want)
	}
}

func TestClassifyZeroExitNoEnvelopeSucceeds(t *testing.T) {
	result, err := classify(testInvocation("force:source:deploy"), 0, nil, false, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Errorf("result = %s, want nil", result)
	}
}

func TestItemErrorsPreservesOrder(t *testing.T) {
	raw := json.RawMessage(`[{"error":"a"},{"success":true},{"error":"b"}]`)
	got := itemErrors(raw)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("itemErrors = %v", got)
	}
}

func TestItemErrorsNonArrayPayload(t *testing.T) {
	if got := itemErrors(json.RawMessage(`{"error":"x"}`)); got != nil {
		t.Errorf("expected nil for object payload, got %v", got)
	}
}

func TestHasPayload(t *testing.T) {
	if hasPayload(nil) {
		t.Error("nil payload")
	}
	if hasPayload(json.RawMessage(`null`)) {
		t.Error("null payload")
	}
	if !hasPayload(json.RawMessage(`[]`)) {
		t.Error("empty array is still a payload")
	}
}
