package manifest

import (
	"github.com/sirupsen/logrus"

	"synnergy-network/internal/ipalloc"
)

// resolveIP implements the IP-resolution priority chain of spec.md §4.7:
// subnet-group, pre-allocated GML ip, AS-aware, dynamic geographic,
// typed fallback. The first priority that succeeds wins.
func (e *Emitter) resolveIP(agent AgentDefinition, nodeID *uint32, agentType ipalloc.AgentType, index int) string {
	// Priority 0: subnet group.
	if agent.SubnetGroup != "" {
		if ip, err := e.Registry.AssignSubnetGroupIP(agent.SubnetGroup, agent.ID); err == nil {
			return ip
		} else {
			logrus.WithError(err).WithField("agent", agent.ID).Warn("manifest: subnet group allocation failed, continuing resolution")
		}
	}

	// Priority 1: pre-allocated GML ip.
	if e.Graph != nil && nodeID != nil {
		if node, ok := e.Graph.NodeByID(*nodeID); ok {
			if ip, ok := node.IP(); ok && ipalloc.IsValidIP(ip) {
				if err := e.Registry.RegisterPreAllocated(ip, agent.ID); err == nil {
					return ip
				} else {
					logrus.WithError(err).WithField("agent", agent.ID).Warn("manifest: pre-allocated ip conflict, skipping opportunistic binding")
				}
			}
		}
	}

	// Priority 2: AS-aware.
	if e.Graph != nil && nodeID != nil {
		if node, ok := e.Graph.NodeByID(*nodeID); ok {
			if as, ok := node.AS(); ok {
				if ip, err := e.ASManager.Assign(as); err == nil {
					if regErr := e.Registry.RegisterPreAllocated(ip, agent.ID); regErr == nil {
						return ip
					}
				}
				// SubnetExhaustedError or a registry conflict: fall through to dynamic.
			}
		}
	}

	// Priority 3: dynamic geographic.
	if ip, err := e.Registry.Assign(agentType, agent.ID); err == nil {
		return ip
	} else {
		logrus.WithError(err).WithField("agent", agent.ID).Warn("manifest: dynamic allocation failed, using typed fallback")
	}

	// Priority 4: typed fallback.
	ip := ipalloc.TypedFallback(agentType, index)
	_ = e.Registry.RegisterPreAllocated(ip, agent.ID)
	return ip
}
