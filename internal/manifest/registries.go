package manifest

import "encoding/json"

type agentRegistryWire struct {
	ID            string            `json:"id"`
	IPAddr        string            `json:"ip_addr"`
	Daemon        bool              `json:"daemon"`
	Wallet        bool              `json:"wallet"`
	UserScript    bool              `json:"user_script,omitempty"`
	Attributes    map[string]string `json:"attributes,omitempty"`
	WalletRPCPort int               `json:"wallet_rpc_port,omitempty"`
	DaemonRPCPort int               `json:"daemon_rpc_port,omitempty"`
}

// AgentRegistryJSON serializes the agent registry side-file
// (agent_registry.json) described in spec.md §6.2.
func AgentRegistryJSON(entries []AgentRegistryEntry) ([]byte, error) {
	wire := struct {
		Agents []agentRegistryWire `json:"agents"`
	}{}
	for _, e := range entries {
		wire.Agents = append(wire.Agents, agentRegistryWire{
			ID:            e.ID,
			IPAddr:        e.IP,
			Daemon:        e.Daemon,
			Wallet:        e.Wallet,
			UserScript:    e.UserScript,
			Attributes:    e.Attributes,
			WalletRPCPort: e.WalletRPCPort,
			DaemonRPCPort: e.DaemonRPCPort,
		})
	}
	return json.MarshalIndent(wire, "", "  ")
}

type minerRegistryWire struct {
	AgentID       string `json:"agent_id"`
	IPAddr        string `json:"ip_addr"`
	WalletAddress string `json:"wallet_address,omitempty"`
	Weight        int    `json:"weight"`
}

// MinersJSON serializes the miner registry side-file (miners.json)
// described in spec.md §6.2.
func MinersJSON(entries []MinerRegistryEntry) ([]byte, error) {
	wire := struct {
		Miners []minerRegistryWire `json:"miners"`
	}{}
	for _, e := range entries {
		wire.Miners = append(wire.Miners, minerRegistryWire{
			AgentID:       e.AgentID,
			IPAddr:        e.IP,
			WalletAddress: e.WalletAddress,
			Weight:        e.Weight,
		})
	}
	return json.MarshalIndent(wire, "", "  ")
}
