// Package manifest implements HostManifestEmitter: it walks the agent
// definitions, drives the GML/IP/topology/peer subsystems, and emits a
// host manifest plus the agent and miner side registries.
package manifest

// AgentKind classifies an agent definition's role.
type AgentKind string

const (
	KindUser               AgentKind = "user"
	KindBlockController    AgentKind = "block_controller"
	KindMinerDistributor   AgentKind = "miner_distributor"
	KindPureScript         AgentKind = "pure_script"
	KindSimulationMonitor  AgentKind = "simulation_monitor"
)

// AgentDefinition is the consumed-not-owned description of one agent.
type AgentDefinition struct {
	ID          string
	Kind        AgentKind
	Daemon      string
	Wallet      string
	Script      string
	Attributes  map[string]string
	IsMiner     bool
	IsSeedNode  bool
	SubnetGroup string
}

// ProcessSpec is one process launched on a host.
type ProcessSpec struct {
	Path      string
	Args      []string
	Env       map[string]string
	StartTime string // duration literal, e.g. "15s"
}

// Host is one emitted host entry.
type Host struct {
	NetworkNodeID uint32
	HasNodeID     bool
	IP            string
	HasIP         bool
	Processes     []ProcessSpec
	BWDown        string
	BWUp          string
}

// HostManifest is the top-level emitted document.
type HostManifest struct {
	StopTimeSeconds uint64
	LogLevel        string
	NetworkGraphType string // "1_gbit_switch" | "gml"
	NetworkGraphGML string  // regenerated GML text, when NetworkGraphType == "gml"
	Hosts           map[string]Host
	HostOrder       []string // lexicographically sorted host keys
}

// AgentRegistryEntry is one entry in agent_registry.json.
type AgentRegistryEntry struct {
	ID            string
	IP            string
	Daemon        bool
	Wallet        bool
	UserScript    bool
	Attributes    map[string]string
	IsMiner       bool
	WalletRPCPort int
	DaemonRPCPort int
}

// MinerRegistryEntry is one entry in miners.json.
type MinerRegistryEntry struct {
	AgentID       string
	IP            string
	WalletAddress string
	Weight        int
}
