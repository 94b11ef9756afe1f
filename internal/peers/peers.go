// Package peers implements PeerGraphBuilder: per-agent peer-connection
// argument lists as a function of topology template and peer-discovery
// mode.
package peers

import (
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"synnergy-network/internal/simerrors"
)

// Template is the peer-connection topology shape.
type Template int

const (
	Star Template = iota
	Mesh
	Ring
	Dag
)

// Mode is the peer-discovery policy.
type Mode int

const (
	Dynamic Mode = iota
	Hardcoded
	Hybrid
)

func isSelf(candidate, ownIP string) bool {
	return strings.HasPrefix(candidate, ownIP+":")
}

// TemplateConnections returns the template-level peer candidates for
// agent index i within hosts, excluding self (matched by ownIP prefix).
func TemplateConnections(template Template, i int, ownIP string, hosts []string) []string {
	n := len(hosts)
	if n == 0 {
		return nil
	}
	var out []string
	add := func(candidate string) {
		if candidate != "" && !isSelf(candidate, ownIP) {
			out = append(out, candidate)
		}
	}
	switch template {
	case Star:
		add(hosts[0])
	case Mesh:
		for _, h := range hosts {
			add(h)
		}
	case Ring:
		prev := ((i-1)%n + n) % n
		next := (i + 1) % n
		add(hosts[prev])
		if next != prev {
			add(hosts[next])
		}
	case Dag:
		for j := 0; j < i && j < n; j++ {
			add(hosts[j])
		}
	}
	return out
}

// ValidateTopologySanity reports a fatal ConfigInvalid for Ring topologies
// with fewer than 3 agents (spec.md's S1 boundary scenario); Mesh with
// more than 50 agents and Star with fewer than 2 agents are logged as
// warnings only, per spec.md §4.5's general "warnings, not failures"
// categorization.
func ValidateTopologySanity(template Template, agentCount int) error {
	switch template {
	case Ring:
		if agentCount < 3 {
			return simerrors.NewConfigInvalid("Ring topology requires at least 3 agents")
		}
	case Mesh:
		if agentCount > 50 {
			logrus.WithField("agent_count", agentCount).Warn("peers: Mesh topology with more than 50 agents generates a dense peer graph")
		}
	case Star:
		if agentCount < 2 {
			logrus.WithField("agent_count", agentCount).Warn("peers: Star topology with fewer than 2 agents has no hub peers")
		}
	}
	return nil
}

// BuildParams bundles the inputs needed to compute one agent's peer args.
type BuildParams struct {
	Template      Template
	Mode          Mode
	AgentIndex    int
	OwnIP         string
	Hosts         []string // all agent host:port strings, ordered by agent index
	MinerIPs      []string // host:port of miner agents
	ExplicitSeeds []string // configured network.seed_nodes
	IsSeedNode    bool     // true if this agent was promoted into the seed bucket
	SeedHosts     []string // host:port of all seed-bucket agents, for seed-to-seed ring wiring
	SeedIndex     int      // this agent's index within SeedHosts, if IsSeedNode
}

// BuildPeerArgs produces the deduplicated, sorted list of peer-connection
// CLI argument strings for one agent.
func BuildPeerArgs(p BuildParams) []string {
	seen := make(map[string]bool)
	var args []string
	appendArg := func(flag, candidate string) {
		if candidate == "" || isSelf(candidate, p.OwnIP) {
			return
		}
		key := flag + candidate
		if seen[key] {
			return
		}
		seen[key] = true
		args = append(args, flag+candidate)
	}

	switch p.Mode {
	case Dynamic:
		if len(p.MinerIPs) > 0 {
			for _, m := range p.MinerIPs {
				appendArg("--seed-node=", m)
			}
		} else {
			for _, c := range TemplateConnections(p.Template, p.AgentIndex, p.OwnIP, p.Hosts) {
				appendArg("--seed-node=", c)
			}
		}
	case Hardcoded:
		if len(p.ExplicitSeeds) > 0 {
			for _, s := range p.ExplicitSeeds {
				appendArg("--seed-node=", s)
			}
		} else {
			// No explicit seeds configured: the topology template's
			// connections serve as this agent's priority nodes instead.
			for _, c := range TemplateConnections(p.Template, p.AgentIndex, p.OwnIP, p.Hosts) {
				appendArg("--add-priority-node=", c)
			}
		}
		if p.IsSeedNode {
			for _, c := range TemplateConnections(p.Template, p.SeedIndex, p.OwnIP, p.SeedHosts) {
				appendArg("--add-priority-node=", c)
			}
			for _, m := range p.MinerIPs {
				appendArg("--seed-node=", m)
			}
		}
	case Hybrid:
		for _, s := range p.ExplicitSeeds {
			appendArg("--seed-node=", s)
		}
		for _, c := range TemplateConnections(p.Template, p.AgentIndex, p.OwnIP, p.Hosts) {
			appendArg("--add-priority-node=", c)
		}
	}

	sort.Strings(args)
	return args
}
