package gmlgraph

import "testing"

func TestValidateDuplicateNodeID(t *testing.T) {
	g := &Graph{Nodes: []GmlNode{{ID: 0}, {ID: 0}}}
	if err := Validate(g); err == nil {
		t.Fatalf("expected a duplicate node id error")
	}
}

func TestValidateDanglingEdge(t *testing.T) {
	g := &Graph{
		Nodes: []GmlNode{{ID: 0}, {ID: 1}},
		Edges: []GmlEdge{{Source: 0, Target: 5}},
	}
	if err := Validate(g); err == nil {
		t.Fatalf("expected a dangling edge error")
	}
}

func TestValidateDisconnectedMultiNodeGraph(t *testing.T) {
	g := &Graph{Nodes: []GmlNode{{ID: 0}, {ID: 1}}}
	if err := Validate(g); err == nil {
		t.Fatalf("expected a disconnected-graph error for multiple nodes with no edges")
	}
}

func TestValidateSingleNodeNoEdgesIsFine(t *testing.T) {
	g := &Graph{Nodes: []GmlNode{{ID: 0}}}
	if err := Validate(g); err != nil {
		t.Fatalf("unexpected error for a single-node graph: %v", err)
	}
}

func TestValidateInvalidIPAttribute(t *testing.T) {
	g := &Graph{Nodes: []GmlNode{{ID: 0, Attributes: map[string]string{"ip": "not-an-ip"}}}}
	if err := Validate(g); err == nil {
		t.Fatalf("expected an error for an invalid ip attribute")
	}
}

func TestValidateNoDuplicateIPs(t *testing.T) {
	g := &Graph{Nodes: []GmlNode{
		{ID: 0, Attributes: map[string]string{"ip": "10.0.0.1"}},
		{ID: 1, Attributes: map[string]string{"ip": "10.0.0.1"}},
	}}
	if err := ValidateNoDuplicateIPs(g); err == nil {
		t.Fatalf("expected an error for two nodes sharing the same ip")
	}
}

func TestAutonomousSystemsGroupsByAS(t *testing.T) {
	g := &Graph{Nodes: []GmlNode{
		{ID: 0, Attributes: map[string]string{"AS": "100"}},
		{ID: 1, Attributes: map[string]string{"AS": "100"}},
		{ID: 2, Attributes: map[string]string{"AS": "200"}},
		{ID: 3},
	}}
	groups := AutonomousSystems(g)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups (AS100, AS200, singleton), got %d: %v", len(groups), groups)
	}
	if len(groups[0]) != 2 || groups[0][0] != 0 || groups[0][1] != 1 {
		t.Fatalf("expected first group to be AS100's [0 1], got %v", groups[0])
	}
	if len(groups[2]) != 1 || groups[2][0] != 3 {
		t.Fatalf("expected the AS-less node to form its own singleton group, got %v", groups[2])
	}
}
