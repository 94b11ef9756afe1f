package config

import "synnergy-network/internal/simerrors"

// Validate checks the configuration for structural well-formedness,
// matching the original's GeneralConfig/NetworkConfig validation rules.
func (c *Config) Validate() error {
	if c.General.StopTime == "" {
		return simerrors.NewConfigInvalid("general.stop_time cannot be empty")
	}
	if _, err := ParseDuration(c.General.StopTime); err != nil {
		return simerrors.NewConfigInvalid("general.stop_time: %v", err)
	}
	if c.Network.Type == "" {
		c.Network.Type = "1_gbit_switch"
	}
	switch c.Network.DistributionStrategy {
	case "", "sequential", "global", "weighted":
	default:
		return simerrors.NewConfigInvalid("network.distribution_strategy %q is not one of sequential|global|weighted", c.Network.DistributionStrategy)
	}
	switch c.Network.PeerMode {
	case "", "dynamic", "hardcoded", "hybrid":
	default:
		return simerrors.NewConfigInvalid("network.peer_mode %q is not one of dynamic|hardcoded|hybrid", c.Network.PeerMode)
	}
	switch c.Network.Topology {
	case "", "star", "mesh", "ring", "dag":
	default:
		return simerrors.NewConfigInvalid("network.topology %q is not one of star|mesh|ring|dag", c.Network.Topology)
	}
	return nil
}
