package analysis

import (
	"sort"

	"synnergy-network/internal/logparse"
)

// TxPropagation is the per-TX result spec.md §4.9 describes.
type TxPropagation struct {
	TxHash               string
	FirstSeenTime        float64
	LastSeenTime         float64
	NetworkPropagationMs float64
	MedianPropagationMs  float64
	P95PropagationMs     float64
	NodesObserved        int
	ConfirmationDelaySec float64
	HasConfirmation      bool
}

// BottleneckNode is one entry of the PropagationAnalyzer's ranked
// slow-relay report.
type BottleneckNode struct {
	NodeID         string
	Observations   int
	MeanDelayMs    float64
}

// PropagationReport is the PropagationAnalyzer's full result.
type PropagationReport struct {
	Transactions []TxPropagation
	Bottlenecks  []BottleneckNode
}

// AnalyzePropagation implements spec.md §4.9. blockTimeByHeight maps a
// mined block's height to its block_time (the earliest observation
// timestamp recorded for that height, across all nodes).
func AnalyzePropagation(nodeData map[string]*logparse.NodeLogData, blockTimeByHeight map[uint64]float64, txHeight map[string]uint64) PropagationReport {
	type obs struct {
		nodeID    string
		timestamp float64
	}
	byTx := map[string][]obs{}
	for nodeID, nd := range nodeData {
		for _, o := range nd.TxObservations {
			byTx[o.TxHash] = append(byTx[o.TxHash], obs{nodeID: nodeID, timestamp: o.Timestamp})
		}
	}

	report := PropagationReport{}
	nodeDelays := map[string][]float64{}

	for txHash, obs := range byTx {
		if len(obs) == 0 {
			continue
		}
		sort.Slice(obs, func(i, j int) bool { return obs[i].timestamp < obs[j].timestamp })

		first := obs[0].timestamp
		last := obs[len(obs)-1].timestamp

		deltas := make([]float64, 0, len(obs))
		distinctNodes := map[string]bool{}
		for _, o := range obs {
			deltaMs := (o.timestamp - first) * 1000
			deltas = append(deltas, deltaMs)
			distinctNodes[o.nodeID] = true
			nodeDelays[o.nodeID] = append(nodeDelays[o.nodeID], deltaMs)
		}

		tp := TxPropagation{
			TxHash:               txHash,
			FirstSeenTime:        first,
			LastSeenTime:         last,
			NetworkPropagationMs: (last - first) * 1000,
			MedianPropagationMs:  median(deltas),
			P95PropagationMs:     percentile(deltas, 95),
			NodesObserved:        len(distinctNodes),
		}
		if height, ok := txHeight[txHash]; ok {
			if blockTime, ok := blockTimeByHeight[height]; ok {
				tp.ConfirmationDelaySec = blockTime - first
				tp.HasConfirmation = true
			}
		}
		report.Transactions = append(report.Transactions, tp)
	}

	sort.Slice(report.Transactions, func(i, j int) bool {
		return report.Transactions[i].TxHash < report.Transactions[j].TxHash
	})

	for nodeID, delays := range nodeDelays {
		if len(delays) < 3 {
			continue
		}
		m := mean(delays)
		if m > 200 {
			report.Bottlenecks = append(report.Bottlenecks, BottleneckNode{
				NodeID:       nodeID,
				Observations: len(delays),
				MeanDelayMs:  m,
			})
		}
	}
	sort.Slice(report.Bottlenecks, func(i, j int) bool {
		if report.Bottlenecks[i].MeanDelayMs != report.Bottlenecks[j].MeanDelayMs {
			return report.Bottlenecks[i].MeanDelayMs > report.Bottlenecks[j].MeanDelayMs
		}
		return report.Bottlenecks[i].NodeID < report.Bottlenecks[j].NodeID
	})
	if len(report.Bottlenecks) > 10 {
		report.Bottlenecks = report.Bottlenecks[:10]
	}

	return report
}
