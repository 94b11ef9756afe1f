package gmlgraph

import (
	"synnergy-network/internal/ipalloc"
	"synnergy-network/internal/simerrors"
)

// Validate checks the semantic invariants of a parsed Graph: unique node
// ids, every edge endpoint resolving to a node id, and (for multi-node
// graphs) at least one edge. It also validates that any node-level "ip"
// attribute parses as a valid address.
func Validate(g *Graph) error {
	seen := make(map[uint32]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if seen[n.ID] {
			return simerrors.NewGmlSemanticError("DuplicateNodeId", "Duplicate node ID: %d", n.ID)
		}
		seen[n.ID] = true
		if ip, ok := n.IP(); ok {
			if !ipalloc.IsValidIP(ip) {
				return simerrors.NewGmlSemanticError("InvalidIP", "node %d has invalid ip attribute %q", n.ID, ip)
			}
		}
	}
	for _, e := range g.Edges {
		if !seen[e.Source] {
			return simerrors.NewGmlSemanticError("DanglingEdge", "Edge references non-existent source node: %d", e.Source)
		}
		if !seen[e.Target] {
			return simerrors.NewGmlSemanticError("DanglingEdge", "Edge references non-existent target node: %d", e.Target)
		}
	}
	if len(g.Nodes) > 1 && len(g.Edges) == 0 {
		return simerrors.NewGmlSemanticError("Disconnected", "Graph has multiple nodes but no edges - network is disconnected")
	}
	return nil
}

// ValidateNoDuplicateIPs checks that no two nodes in the graph carry the
// same ip attribute, part of the HostManifestEmitter's pre-flight checks.
func ValidateNoDuplicateIPs(g *Graph) error {
	seenIPs := make(map[string]uint32)
	for _, n := range g.Nodes {
		ip, ok := n.IP()
		if !ok {
			continue
		}
		if owner, dup := seenIPs[ip]; dup {
			return simerrors.NewConfigInvalid("nodes %d and %d both declare ip %s", owner, n.ID, ip)
		}
		seenIPs[ip] = n.ID
	}
	return nil
}

// AutonomousSystems groups node ids by their "AS"/"as" attribute value;
// nodes without the attribute each form a singleton group.
func AutonomousSystems(g *Graph) [][]uint32 {
	groups := make(map[string][]uint32)
	var order []string
	var singles [][]uint32
	for _, n := range g.Nodes {
		if as, ok := n.AS(); ok {
			if _, seen := groups[as]; !seen {
				order = append(order, as)
			}
			groups[as] = append(groups[as], n.ID)
		} else {
			singles = append(singles, []uint32{n.ID})
		}
	}
	result := make([][]uint32, 0, len(order)+len(singles))
	for _, as := range order {
		result = append(result, groups[as])
	}
	result = append(result, singles...)
	return result
}
