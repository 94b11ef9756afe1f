package manifest

import (
	"fmt"

	"synnergy-network/pkg/utils"
)

// Daemon/wallet RPC and P2P ports default to the simulated daemon's
// usual values but are overridable per-deployment via environment
// variables, in the style of pkg/utils's EnvOrDefault family.
var (
	daemonRPCPort = utils.EnvOrDefaultInt("SYNNERGY_DAEMON_RPC_PORT", 28081)
	daemonP2PPort = utils.EnvOrDefaultInt("SYNNERGY_DAEMON_P2P_PORT", 28080)
	walletRPCPort = utils.EnvOrDefaultInt("SYNNERGY_WALLET_RPC_PORT", 28082)
)

// daemonArgs assembles the required daemon CLI surface of spec.md §6.3,
// plus the miner-only flag and the agent's resolved peer args.
func daemonArgs(dataDir, logFile, logLevel, ip string, isMiner bool, peerArgs []string) []string {
	args := []string{
		"--data-dir=" + dataDir,
		"--log-file=" + logFile,
		"--log-level=" + logLevel,
		"--simulation",
		"--regtest",
		"--rpc-bind-ip=" + ip,
		fmt.Sprintf("--rpc-bind-port=%d", daemonRPCPort),
		"--p2p-bind-ip=" + ip,
		fmt.Sprintf("--p2p-bind-port=%d", daemonP2PPort),
		"--non-interactive",
		"--no-zmq",
		"--disable-dns-checkpoints",
		"--allow-local-ip",
	}
	if isMiner {
		args = append(args, "--disable-seed-nodes")
	}
	args = append(args, peerArgs...)
	return args
}

func walletArgs(dataDir, daemonRPCHost string, daemonRPCPort int) []string {
	return []string{
		"--wallet-dir=" + dataDir,
		"--daemon-address=" + fmt.Sprintf("%s:%d", daemonRPCHost, daemonRPCPort),
		"--non-interactive",
		"--disable-rpc-login",
	}
}

func userScriptArgs(agentID string) []string {
	return []string{"--agent-id=" + agentID}
}
