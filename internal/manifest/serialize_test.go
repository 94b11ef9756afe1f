package manifest

import (
	"strings"
	"testing"
)

func TestToYAMLSwitchNetworkIncludesHostsInOrder(t *testing.T) {
	m := &HostManifest{
		StopTimeSeconds:  3900,
		LogLevel:         "info",
		NetworkGraphType: "1_gbit_switch",
		Hosts: map[string]Host{
			"user001": {IP: "10.0.0.2", HasIP: true},
			"user000": {IP: "10.0.0.1", HasIP: true},
		},
		HostOrder: []string{"user000", "user001"},
	}
	out, err := m.ToYAML("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "stop_time: 3900") {
		t.Fatalf("expected stop_time in output, got:\n%s", out)
	}
	if !strings.Contains(out, "type: 1_gbit_switch") {
		t.Fatalf("expected switch graph type, got:\n%s", out)
	}
	idx0 := strings.Index(out, "user000")
	idx1 := strings.Index(out, "user001")
	if idx0 < 0 || idx1 < 0 || idx0 > idx1 {
		t.Fatalf("expected user000 to be serialized before user001, got:\n%s", out)
	}
}

func TestToYAMLGmlNetworkIncludesFilePath(t *testing.T) {
	m := &HostManifest{
		StopTimeSeconds:  60,
		LogLevel:         "debug",
		NetworkGraphType: "gml",
		Hosts:            map[string]Host{},
	}
	out, err := m.ToYAML("/data/topology.gml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "type: gml") || !strings.Contains(out, "/data/topology.gml") {
		t.Fatalf("expected gml graph type and file path, got:\n%s", out)
	}
}

func TestHostToNodeIncludesProcessesAndBandwidth(t *testing.T) {
	m := &HostManifest{
		StopTimeSeconds:  60,
		LogLevel:         "info",
		NetworkGraphType: "1_gbit_switch",
		Hosts: map[string]Host{
			"dummy000": {
				NetworkNodeID: 0,
				HasNodeID:     true,
				BWDown:        "1000",
				BWUp:          "500",
			},
		},
		HostOrder: []string{"dummy000"},
	}
	out, err := m.ToYAML("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "bandwidth_down: \"1000\"") && !strings.Contains(out, "bandwidth_down: 1000") {
		t.Fatalf("expected bandwidth_down in output, got:\n%s", out)
	}
}
