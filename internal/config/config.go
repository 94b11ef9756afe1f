// Package config loads and validates the experiment-description Config
// value consumed by the HostManifestEmitter. It is a thin Viper-backed
// loader in the style of the teacher's pkg/config, adapted from a
// blockchain-node configuration shape to spec.md §6.5's recognized
// options.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"synnergy-network/pkg/utils"
)

// Config is the unified experiment description.
type Config struct {
	General GeneralConfig        `mapstructure:"general"`
	Network NetworkConfig        `mapstructure:"network"`
	Agents  AgentDefinitionsYAML `mapstructure:"agents"`
}

// GeneralConfig holds simulation-wide settings.
type GeneralConfig struct {
	StopTime  string `mapstructure:"stop_time"`
	LogLevel  string `mapstructure:"log_level"`
	RunsUntil bool   `mapstructure:"fresh_blockchain"`
}

// NetworkConfig holds network-topology settings.
type NetworkConfig struct {
	Type                 string         `mapstructure:"type"`
	Path                 string         `mapstructure:"path"`
	PeerMode             string         `mapstructure:"peer_mode"`
	Topology             string         `mapstructure:"topology"`
	SeedNodes            []string       `mapstructure:"seed_nodes"`
	DistributionStrategy string         `mapstructure:"distribution_strategy"`
	RegionWeights        map[string]int `mapstructure:"region_weights"`
}

// AgentDefinitionsYAML mirrors the wire shape of the "agents" section.
type AgentDefinitionsYAML struct {
	UserAgents         []UserAgentYAML          `mapstructure:"user_agents"`
	BlockController    *BlockControllerYAML     `mapstructure:"block_controller"`
	MinerDistributor   *MinerDistributorYAML    `mapstructure:"miner_distributor"`
	PureScriptAgents   []PureScriptAgentYAML    `mapstructure:"pure_script_agents"`
	SimulationMonitor  *SimulationMonitorYAML   `mapstructure:"simulation_monitor"`
}

type UserAgentYAML struct {
	Daemon      string            `mapstructure:"daemon"`
	Wallet      string            `mapstructure:"wallet"`
	UserScript  string            `mapstructure:"user_script"`
	Attributes  map[string]string `mapstructure:"attributes"`
}

type BlockControllerYAML struct {
	Script    string   `mapstructure:"script"`
	Arguments []string `mapstructure:"arguments"`
}

type MinerDistributorYAML struct {
	Script     string            `mapstructure:"script"`
	Attributes map[string]string `mapstructure:"attributes"`
}

type PureScriptAgentYAML struct {
	Script    string   `mapstructure:"script"`
	Arguments []string `mapstructure:"arguments"`
}

type SimulationMonitorYAML struct {
	PollInterval    string `mapstructure:"poll_interval"`
	StatusFile      string `mapstructure:"status_file"`
	EnableAlerts    bool   `mapstructure:"enable_alerts"`
	DetailedLogging bool   `mapstructure:"detailed_logging"`
}

// Load reads the YAML configuration file at path, merges environment
// overrides, and returns the typed Config.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, utils.Wrap(err, "load config")
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	if cfg.General.LogLevel == "" {
		cfg.General.LogLevel = "info"
	}
	return &cfg, nil
}
