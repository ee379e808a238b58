package depgraph

import "testing"

func TestDetectCycle_Acyclic(t *testing.T) {
	deps := DependencyMap{
		"a": nil,
		"b": {"a"},
		"c": {"a", "b"},
	}
	if err := DetectCycle(deps); err != nil {
		t.Fatalf("expected no cycle, got %v", err)
	}
}

func TestDetectCycle_DirectLoop(t *testing.T) {
	deps := DependencyMap{
		"a": {"b"},
		"b": {"a"},
	}
	err := DetectCycle(deps)
	if err == nil {
		t.Fatal("expected a cycle error")
	}
	if _, ok := err.(*CycleError); !ok {
		t.Errorf("expected *CycleError, got %T", err)
	}
}

func TestDetectCycle_SelfLoop(t *testing.T) {
	deps := DependencyMap{
		"a": {"a"},
	}
	err := DetectCycle(deps)
	if _, ok := err.(*CycleError); !ok {
		t.Errorf("expected *CycleError, got %T (%v)", err, err)
	}
}

func TestDetectCycle_IndirectLoop(t *testing.T) {
	deps := DependencyMap{
		"a": {"b"},
		"b": {"c"},
		"c": {"a"},
	}
	err := DetectCycle(deps)
	if _, ok := err.(*CycleError); !ok {
		t.Errorf("expected *CycleError, got %T (%v)", err, err)
	}
}

func TestDetectCycle_DiamondNotFalsePositive(t *testing.T) {
	// A diamond (b and c both depend on a, d depends on both) must not be
	// mistaken for a cycle by a memo that crosses start nodes incorrectly.
	deps := DependencyMap{
		"a": nil,
		"b": {"a"},
		"c": {"a"},
		"d": {"b", "c"},
	}
	if err := DetectCycle(deps); err != nil {
		t.Fatalf("expected no cycle in diamond graph, got %v", err)
	}
}

func TestDetectCycle_MissingDependency(t *testing.T) {
	deps := DependencyMap{
		"a": {"missing"},
	}
	err := DetectCycle(deps)
	if _, ok := err.(*DependencyError); !ok {
		t.Errorf("expected *DependencyError, got %T (%v)", err, err)
	}
}
