package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
general:
  stop_time: "3900"
network:
  type: gml
  path: network.gml
  peer_mode: dynamic
  topology: mesh
agents:
  user_agents:
    - daemon: synnergyd
      wallet: synnergy-wallet
`

func TestLoadParsesYAMLIntoConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}
	if cfg.General.StopTime != "3900" {
		t.Fatalf("expected stop_time 3900, got %q", cfg.General.StopTime)
	}
	if cfg.General.LogLevel != "info" {
		t.Fatalf("expected log_level to default to info, got %q", cfg.General.LogLevel)
	}
	if cfg.Network.Type != "gml" || cfg.Network.Topology != "mesh" {
		t.Fatalf("unexpected network section: %+v", cfg.Network)
	}
	if len(cfg.Agents.UserAgents) != 1 || cfg.Agents.UserAgents[0].Daemon != "synnergyd" {
		t.Fatalf("unexpected agents section: %+v", cfg.Agents)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected an error loading a nonexistent config file")
	}
}
