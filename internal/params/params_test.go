package params

import (
	"testing"
	"time"
)

func TestParseAppliesRecognizedKeysOverDefaults(t *testing.T) {
	text := `
# a comment
PROPAGATION_BASE BC4
NODE_LIMIT 500
TIME_LIMIT 2.5
SPLIT_INNER yes
SOLUTION_CLUSTER_GAP 1e-7
`
	p, err := Parse(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.PropagationBase != "BC4" {
		t.Fatalf("expected PropagationBase BC4, got %s", p.PropagationBase)
	}
	if p.NodeLimit != 500 {
		t.Fatalf("expected NodeLimit 500, got %d", p.NodeLimit)
	}
	if p.TimeLimit != 2500*time.Millisecond {
		t.Fatalf("expected TimeLimit 2.5s, got %v", p.TimeLimit)
	}
	if !p.SplitInner {
		t.Fatalf("expected SplitInner true")
	}
	if p.SolutionClusterGap != 1e-7 {
		t.Fatalf("expected SolutionClusterGap 1e-7, got %v", p.SolutionClusterGap)
	}
	// Untouched defaults survive.
	if p.NewtonIterLimit != 30 {
		t.Fatalf("expected default NewtonIterLimit 30, got %d", p.NewtonIterLimit)
	}
}

func TestParseAggregatesUnrecognizedKeysAndMalformedLines(t *testing.T) {
	text := `
NOT_A_KEY 1
NODE_LIMIT
PROPAGATION_BASE ZZZ
`
	_, err := Parse(text)
	if err == nil {
		t.Fatalf("expected an error for malformed parameter file")
	}
}

func TestParseRejectsBadEnumValue(t *testing.T) {
	_, err := Parse("BP_NODE_SELECTION NOT_A_STRATEGY\n")
	if err == nil {
		t.Fatalf("expected an error for an unrecognized BP_NODE_SELECTION value")
	}
}

func TestBuiltinPresetsApplyOverridesOntoDefaults(t *testing.T) {
	set, err := BuiltinPresets()
	if err != nil {
		t.Fatalf("unexpected error loading builtin presets: %v", err)
	}
	p, err := set.Apply("fast")
	if err != nil {
		t.Fatalf("unexpected error applying fast preset: %v", err)
	}
	if p.NodeLimit != 5000 {
		t.Fatalf("expected fast preset NodeLimit 5000, got %d", p.NodeLimit)
	}
	if p.PropagationWithCID {
		t.Fatalf("expected fast preset to disable CID")
	}

	thorough, err := set.Apply("thorough")
	if err != nil {
		t.Fatalf("unexpected error applying thorough preset: %v", err)
	}
	if !thorough.PropagationWithCID {
		t.Fatalf("expected thorough preset to enable CID")
	}
	if thorough.SplitSelector != "SSR" {
		t.Fatalf("expected thorough preset to select SSR, got %s", thorough.SplitSelector)
	}
}

func TestPresetSetApplyRejectsUnknownName(t *testing.T) {
	set, err := BuiltinPresets()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := set.Apply("nonexistent"); err == nil {
		t.Fatalf("expected an error for an unknown preset name")
	}
}
