package analysis

import (
	"os"
	"path/filepath"
	"testing"

	"synnergy-network/internal/logparse"
)

func writeJSON(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadTransactions(t *testing.T) {
	dir := t.TempDir()
	path := writeJSON(t, dir, "transactions.json", `{
		"transactions": [
			{"tx_hash": "tx1", "sender_id": "user0", "recipient_id": "user1", "amount": 5, "timestamp": 100.0}
		]
	}`)
	txs, err := LoadTransactions(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txs) != 1 || txs[0].TxHash != "tx1" || txs[0].SenderID != "user0" {
		t.Fatalf("unexpected transactions: %+v", txs)
	}
}

func TestLoadBlocks(t *testing.T) {
	dir := t.TempDir()
	path := writeJSON(t, dir, "blocks.json", `{
		"blocks": [{"height": 1, "transactions": ["tx1", "tx2"]}]
	}`)
	blocks, err := LoadBlocks(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 1 || blocks[0].Height != 1 || len(blocks[0].Transactions) != 2 {
		t.Fatalf("unexpected blocks: %+v", blocks)
	}
}

func TestLoadAgentRegistryBijection(t *testing.T) {
	dir := t.TempDir()
	path := writeJSON(t, dir, "agent_registry.json", `{
		"agents": [
			{"id": "user0", "ip_addr": "10.0.0.1"},
			{"id": "user1", "ip_addr": "10.0.0.2"}
		]
	}`)
	idToIP, ipToID, err := LoadAgentRegistry(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idToIP["user0"] != "10.0.0.1" || ipToID["10.0.0.1"] != "user0" {
		t.Fatalf("expected a bijective id<->ip mapping, got idToIP=%v ipToID=%v", idToIP, ipToID)
	}
}

func TestGroundTruthSenderIPs(t *testing.T) {
	txs := []TransactionRecord{{TxHash: "tx1", SenderID: "user0"}, {TxHash: "tx2", SenderID: "unknown"}}
	idToIP := map[string]string{"user0": "10.0.0.1"}
	got := GroundTruthSenderIPs(txs, idToIP)
	if got["tx1"] != "10.0.0.1" {
		t.Fatalf("expected tx1 -> 10.0.0.1, got %v", got)
	}
	if _, ok := got["tx2"]; ok {
		t.Fatalf("expected tx2 to be omitted since its sender has no known ip, got %v", got)
	}
}

func TestTxHeightIndex(t *testing.T) {
	blocks := []BlockRecord{{Height: 5, Transactions: []string{"tx1", "tx2"}}}
	got := TxHeightIndex(blocks)
	if got["tx1"] != 5 || got["tx2"] != 5 {
		t.Fatalf("expected both txs to map to height 5, got %v", got)
	}
}

func TestBlockTimeByHeightTakesEarliestAcrossNodes(t *testing.T) {
	nodeData := map[string]*logparse.NodeLogData{
		"node0": {NodeID: "node0", BlockObservations: []logparse.BlockObservation{{Height: 5, Timestamp: 100.5}}},
		"node1": {NodeID: "node1", BlockObservations: []logparse.BlockObservation{{Height: 5, Timestamp: 100.1}}},
	}
	got := BlockTimeByHeight(nodeData)
	if got[5] != 100.1 {
		t.Fatalf("expected the earliest timestamp 100.1, got %v", got[5])
	}
}
