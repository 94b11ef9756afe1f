package manifest

import (
	"fmt"
	"testing"
)

func contains(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

func TestDaemonArgsIncludesRequiredSurfaceAndPeerArgs(t *testing.T) {
	args := daemonArgs("/data/user000", "/data/user000/daemon.log", "info", "10.0.0.5", false, []string{"--add-peer=10.0.0.6:28080"})
	for _, want := range []string{
		"--data-dir=/data/user000",
		"--log-file=/data/user000/daemon.log",
		"--log-level=info",
		"--simulation",
		"--regtest",
		"--rpc-bind-ip=10.0.0.5",
		"--p2p-bind-ip=10.0.0.5",
		"--non-interactive",
		"--no-zmq",
		"--disable-dns-checkpoints",
		"--allow-local-ip",
		"--add-peer=10.0.0.6:28080",
	} {
		if !contains(args, want) {
			t.Fatalf("expected daemon args to contain %q, got %v", want, args)
		}
	}
	if contains(args, "--disable-seed-nodes") {
		t.Fatalf("non-miner daemon args should not include --disable-seed-nodes, got %v", args)
	}
}

func TestDaemonArgsMinerOnlyDisablesSeedNodes(t *testing.T) {
	args := daemonArgs("/data/m", "/data/m/daemon.log", "info", "10.0.0.5", true, nil)
	if !contains(args, "--disable-seed-nodes") {
		t.Fatalf("expected miner daemon args to include --disable-seed-nodes, got %v", args)
	}
}

func TestWalletArgs(t *testing.T) {
	args := walletArgs("/data/user000", "10.0.0.5", 28081)
	if !contains(args, "--daemon-address=10.0.0.5:28081") {
		t.Fatalf("expected daemon address arg, got %v", args)
	}
	if !contains(args, "--disable-rpc-login") {
		t.Fatalf("expected --disable-rpc-login, got %v", args)
	}
}

func TestDaemonArgsUsesConfiguredPorts(t *testing.T) {
	args := daemonArgs("/data/m", "/data/m/daemon.log", "info", "10.0.0.5", false, nil)
	if !contains(args, "--rpc-bind-port="+itoa(daemonRPCPort)) {
		t.Fatalf("expected rpc-bind-port to reflect the configured daemonRPCPort (%d), got %v", daemonRPCPort, args)
	}
	if !contains(args, "--p2p-bind-port="+itoa(daemonP2PPort)) {
		t.Fatalf("expected p2p-bind-port to reflect the configured daemonP2PPort (%d), got %v", daemonP2PPort, args)
	}
}

func itoa(n int) string {
	return fmt.Sprintf("%d", n)
}

func TestUserScriptArgs(t *testing.T) {
	args := userScriptArgs("user007")
	if len(args) != 1 || args[0] != "--agent-id=user007" {
		t.Fatalf("unexpected user script args: %v", args)
	}
}
