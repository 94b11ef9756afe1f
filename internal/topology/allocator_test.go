package topology

import "testing"

func TestDistributeSequentialWraps(t *testing.T) {
	a := &TopologyAllocator{Strategy: Sequential}
	got := a.Distribute(5, 3)
	want := []int{0, 1, 2, 0, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %d, got %d (%v)", i, want[i], got[i], got)
		}
	}
}

func TestDistributeStaysInBounds(t *testing.T) {
	for _, strategy := range []Strategy{Sequential, Global, Weighted} {
		a := &TopologyAllocator{Strategy: strategy, Weights: DefaultRegionWeights()}
		got := a.Distribute(37, 12)
		if len(got) != 37 {
			t.Fatalf("strategy %v: expected 37 assignments, got %d", strategy, len(got))
		}
		for i, node := range got {
			if node < 0 || node >= 12 {
				t.Fatalf("strategy %v: agent %d assigned out-of-bounds node %d", strategy, i, node)
			}
		}
	}
}

func TestDistributeZeroNodesReturnsZeroValues(t *testing.T) {
	a := NewTopologyAllocator()
	got := a.Distribute(5, 0)
	if len(got) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(got))
	}
	for _, v := range got {
		if v != 0 {
			t.Fatalf("expected every entry to be the zero value when m=0, got %v", got)
		}
	}
}

func TestDistributeSwitchReturnsNilAssignments(t *testing.T) {
	got := DistributeSwitch(4)
	if len(got) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(got))
	}
	for _, v := range got {
		if v != nil {
			t.Fatalf("expected nil node assignments for switch-style topologies, got %v", v)
		}
	}
}
