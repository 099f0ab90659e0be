package acoustic

import (
	"bytes"
	"strings"
	"testing"
)

func TestSetLogWriters(t *testing.T) {
	var ops, diag, trace bytes.Buffer
	SetLogWriters(&ops, &diag, &trace)
	defer SetLogWriters(nil, nil, nil)

	opsf("ops %d", 1)
	diagf("diag %d", 2)
	tracef("trace %d", 3)

	if !strings.Contains(ops.String(), "ops 1") || !strings.Contains(ops.String(), "[acoustic]") {
		t.Errorf("unexpected ops output %q", ops.String())
	}
	if !strings.Contains(diag.String(), "diag 2") {
		t.Errorf("unexpected diag output %q", diag.String())
	}
	if !strings.Contains(trace.String(), "trace 3") {
		t.Errorf("unexpected trace output %q", trace.String())
	}
}

func TestLogStreamsDisabled(t *testing.T) {
	SetLogWriters(nil, nil, nil)

	// Should not panic when no logger is configured.
	opsf("discarded %d", 1)
	diagf("discarded %d", 2)
	tracef("discarded %d", 3)
}

func TestExcludedPathsTraced(t *testing.T) {
	var trace bytes.Buffer
	SetLogWriters(nil, nil, &trace)
	defer SetLogWriters(nil, nil, nil)

	s, err := NewSynthesizer(testAcousticConfig())
	if err != nil {
		t.Fatalf("NewSynthesizer: %v", err)
	}
	s.Return(TargetPosition{Range: 50000}, 0, newRand(1))

	if got := strings.Count(trace.String(), "excluded"); got != len(s.Paths()) {
		t.Errorf("expected %d exclusion lines, got %d", len(s.Paths()), got)
	}
}
