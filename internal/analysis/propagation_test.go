package analysis

import (
	"testing"

	"synnergy-network/internal/logparse"
)

func nodeWithTxObs(nodeID string, obs ...logparse.TxObservation) *logparse.NodeLogData {
	nd := logparse.NewNodeLogData(nodeID)
	nd.TxObservations = obs
	return nd
}

func TestAnalyzePropagationComputesSpread(t *testing.T) {
	nodeData := map[string]*logparse.NodeLogData{
		"node0": nodeWithTxObs("node0", logparse.TxObservation{TxHash: "tx1", NodeID: "node0", Timestamp: 100.000}),
		"node1": nodeWithTxObs("node1", logparse.TxObservation{TxHash: "tx1", NodeID: "node1", Timestamp: 100.050}),
		"node2": nodeWithTxObs("node2", logparse.TxObservation{TxHash: "tx1", NodeID: "node2", Timestamp: 100.100}),
	}
	report := AnalyzePropagation(nodeData, nil, nil)
	if len(report.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(report.Transactions))
	}
	tx := report.Transactions[0]
	if tx.TxHash != "tx1" {
		t.Fatalf("expected tx1, got %q", tx.TxHash)
	}
	if tx.NodesObserved != 3 {
		t.Fatalf("expected 3 distinct nodes observed, got %d", tx.NodesObserved)
	}
	if got := tx.NetworkPropagationMs; got < 99 || got > 101 {
		t.Fatalf("expected ~100ms propagation spread, got %v", got)
	}
	if tx.HasConfirmation {
		t.Fatalf("expected no confirmation when no block-height index is supplied")
	}
}

func TestAnalyzePropagationConfirmationDelay(t *testing.T) {
	nodeData := map[string]*logparse.NodeLogData{
		"node0": nodeWithTxObs("node0", logparse.TxObservation{TxHash: "tx1", NodeID: "node0", Timestamp: 100.0}),
	}
	txHeight := map[string]uint64{"tx1": 42}
	blockTimes := map[uint64]float64{42: 105.0}
	report := AnalyzePropagation(nodeData, blockTimes, txHeight)
	if len(report.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(report.Transactions))
	}
	tx := report.Transactions[0]
	if !tx.HasConfirmation {
		t.Fatalf("expected a confirmation delay to be computed")
	}
	if tx.ConfirmationDelaySec != 5.0 {
		t.Fatalf("expected a 5 second confirmation delay, got %v", tx.ConfirmationDelaySec)
	}
}

func TestAnalyzePropagationBottleneckNodesRankedAndCapped(t *testing.T) {
	nodeData := map[string]*logparse.NodeLogData{}
	// Give a single slow node consistent >200ms delay across 3+ txs so it
	// qualifies as a bottleneck, and a fast node that never does.
	slowObs := []logparse.TxObservation{}
	fastObs := []logparse.TxObservation{}
	for i := 0; i < 4; i++ {
		tx := "tx" + string(rune('a'+i))
		fastObs = append(fastObs, logparse.TxObservation{TxHash: tx, NodeID: "fast", Timestamp: 100.0})
		slowObs = append(slowObs, logparse.TxObservation{TxHash: tx, NodeID: "slow", Timestamp: 100.5})
	}
	nodeData["fast"] = nodeWithTxObs("fast", fastObs...)
	nodeData["slow"] = nodeWithTxObs("slow", slowObs...)

	report := AnalyzePropagation(nodeData, nil, nil)
	if len(report.Bottlenecks) != 1 {
		t.Fatalf("expected exactly 1 bottleneck node, got %d: %+v", len(report.Bottlenecks), report.Bottlenecks)
	}
	if report.Bottlenecks[0].NodeID != "slow" {
		t.Fatalf("expected 'slow' to be flagged as the bottleneck, got %q", report.Bottlenecks[0].NodeID)
	}
}
