package peers

import "testing"

func TestTemplateConnectionsStarExcludesSelf(t *testing.T) {
	hosts := []string{"10.0.0.1:18080", "10.0.0.2:18080", "10.0.0.3:18080"}
	got := TemplateConnections(Star, 0, "10.0.0.1", hosts)
	if len(got) != 0 {
		t.Fatalf("expected the hub agent to have no star peers (self-excluded), got %v", got)
	}
	got = TemplateConnections(Star, 1, "10.0.0.2", hosts)
	if len(got) != 1 || got[0] != hosts[0] {
		t.Fatalf("expected a spoke agent to connect only to the hub, got %v", got)
	}
}

func TestTemplateConnectionsMeshExcludesSelf(t *testing.T) {
	hosts := []string{"10.0.0.1:18080", "10.0.0.2:18080", "10.0.0.3:18080"}
	got := TemplateConnections(Mesh, 1, "10.0.0.2", hosts)
	if len(got) != 2 {
		t.Fatalf("expected mesh to connect to every other host, got %v", got)
	}
	for _, c := range got {
		if c == hosts[1] {
			t.Fatalf("expected self to be excluded from mesh peers, got %v", got)
		}
	}
}

func TestTemplateConnectionsRingWraps(t *testing.T) {
	hosts := []string{"10.0.0.1:18080", "10.0.0.2:18080", "10.0.0.3:18080"}
	got := TemplateConnections(Ring, 0, "10.0.0.1", hosts)
	if len(got) != 2 {
		t.Fatalf("expected 2 ring neighbors (prev wraps to last), got %v", got)
	}
	if got[0] != hosts[2] || got[1] != hosts[1] {
		t.Fatalf("expected neighbors [last, next], got %v", got)
	}
}

func TestTemplateConnectionsRingTwoNodesNoDuplicate(t *testing.T) {
	hosts := []string{"10.0.0.1:18080", "10.0.0.2:18080"}
	got := TemplateConnections(Ring, 0, "10.0.0.1", hosts)
	if len(got) != 1 {
		t.Fatalf("expected a 2-node ring to avoid connecting an agent to the same peer twice, got %v", got)
	}
}

func TestTemplateConnectionsDagOnlyLowerIndices(t *testing.T) {
	hosts := []string{"10.0.0.1:18080", "10.0.0.2:18080", "10.0.0.3:18080"}
	got := TemplateConnections(Dag, 2, "10.0.0.3", hosts)
	if len(got) != 2 || got[0] != hosts[0] || got[1] != hosts[1] {
		t.Fatalf("expected DAG node 2 to connect to nodes 0 and 1 only, got %v", got)
	}
	got = TemplateConnections(Dag, 0, "10.0.0.1", hosts)
	if len(got) != 0 {
		t.Fatalf("expected DAG node 0 to have no upstream peers, got %v", got)
	}
}

func TestValidateTopologySanityRingUnder3IsFatal(t *testing.T) {
	if err := ValidateTopologySanity(Ring, 2); err == nil {
		t.Fatalf("expected a fatal error for a Ring topology with fewer than 3 agents")
	}
	if err := ValidateTopologySanity(Ring, 3); err != nil {
		t.Fatalf("expected no error for a Ring topology with exactly 3 agents, got %v", err)
	}
}

func TestValidateTopologySanityMeshAndStarAreWarningsOnly(t *testing.T) {
	if err := ValidateTopologySanity(Mesh, 1000); err != nil {
		t.Fatalf("expected Mesh with many agents to be a warning, not fatal: %v", err)
	}
	if err := ValidateTopologySanity(Star, 1); err != nil {
		t.Fatalf("expected Star with fewer than 2 agents to be a warning, not fatal: %v", err)
	}
}

func TestBuildPeerArgsDynamicPrefersMinerIPs(t *testing.T) {
	args := BuildPeerArgs(BuildParams{
		Template:   Mesh,
		Mode:       Dynamic,
		AgentIndex: 0,
		OwnIP:      "10.0.0.1",
		Hosts:      []string{"10.0.0.1:18080", "10.0.0.2:18080"},
		MinerIPs:   []string{"10.0.0.9:18080"},
	})
	if len(args) != 1 || args[0] != "--seed-node=10.0.0.9:18080" {
		t.Fatalf("expected dynamic mode to prefer miner ips when present, got %v", args)
	}
}

func TestBuildPeerArgsDedupedAndSorted(t *testing.T) {
	args := BuildPeerArgs(BuildParams{
		Template:      Star,
		Mode:          Hardcoded,
		AgentIndex:    0,
		OwnIP:         "10.0.0.1",
		ExplicitSeeds: []string{"10.0.0.5:18080", "10.0.0.2:18080", "10.0.0.2:18080"},
	})
	if len(args) != 2 {
		t.Fatalf("expected duplicate explicit seeds to be deduplicated, got %v", args)
	}
	if args[0] > args[1] {
		t.Fatalf("expected sorted output, got %v", args)
	}
}

func TestBuildPeerArgsHardcodedMeshFallsBackToPriorityNodes(t *testing.T) {
	hosts := []string{"10.0.0.1:18080", "10.0.0.2:18080", "10.0.0.3:18080", "10.0.0.4:18080"}
	args := BuildPeerArgs(BuildParams{
		Template:   Mesh,
		Mode:       Hardcoded,
		AgentIndex: 0,
		OwnIP:      "10.0.0.1",
		Hosts:      hosts,
	})
	if len(args) != 3 {
		t.Fatalf("expected 3 --add-priority-node args for a 4-agent mesh with no explicit seeds, got %v", args)
	}
	for _, a := range args {
		if a[:len("--add-priority-node=")] != "--add-priority-node=" {
			t.Fatalf("expected every arg to be an --add-priority-node, got %v", args)
		}
	}
}

func TestBuildPeerArgsHardcodedSeedNodeGetsPriorityWiringForAnyTemplate(t *testing.T) {
	seedHosts := []string{"10.0.0.1:18080", "10.0.0.2:18080", "10.0.0.3:18080"}
	args := BuildPeerArgs(BuildParams{
		Template:      Mesh,
		Mode:          Hardcoded,
		AgentIndex:    0,
		OwnIP:         "10.0.0.1",
		ExplicitSeeds: []string{"10.0.0.9:18080"},
		IsSeedNode:    true,
		SeedIndex:     0,
		SeedHosts:     seedHosts,
	})
	found := false
	for _, a := range args {
		if a == "--add-priority-node=10.0.0.2:18080" || a == "--add-priority-node=10.0.0.3:18080" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected seed-to-seed mesh wiring to emit --add-priority-node regardless of template, got %v", args)
	}
}

func TestBuildPeerArgsExcludesSelf(t *testing.T) {
	args := BuildPeerArgs(BuildParams{
		Template:      Star,
		Mode:          Hardcoded,
		AgentIndex:    0,
		OwnIP:         "10.0.0.1",
		ExplicitSeeds: []string{"10.0.0.1:18080"},
	})
	if len(args) != 0 {
		t.Fatalf("expected a self-referential explicit seed to be excluded, got %v", args)
	}
}
