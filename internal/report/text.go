package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"synnergy-network/internal/analysis"
)

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func median(xs []float64) float64 { return percentile(xs, 50) }

func percentile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := (p / 100) * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

const ruleWidth = 80

func rule() string { return strings.Repeat("=", ruleWidth) }

func centered(title string) string {
	pad := (ruleWidth - len(title)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + title
}

// ToText renders report as the section-headed human-readable summary
// spec.md §6.4 describes. Like ToJSON, it is idempotent under
// identical inputs.
func (r Report) ToText() string {
	var b strings.Builder

	b.WriteString(rule() + "\n")
	b.WriteString(centered("SIMULATION HARNESS ANALYSIS") + "\n")
	b.WriteString(rule() + "\n\n")

	fmt.Fprintf(&b, "Run ID: %s\n", r.Metadata.RunID)
	fmt.Fprintf(&b, "Analysis Date: %s\n", r.Metadata.AnalysisTimestamp)
	fmt.Fprintf(&b, "Data Directory: %s\n", r.Metadata.SimulationDataDir)
	fmt.Fprintf(&b, "Nodes Analyzed: %d\n", r.Metadata.TotalNodes)
	fmt.Fprintf(&b, "Transactions: %d\n", r.Metadata.TotalTransactions)
	fmt.Fprintf(&b, "Blocks: %d\n\n", r.Metadata.TotalBlocks)

	if r.SpyNodeAnalysis != nil {
		writeSpySection(&b, r.SpyNodeAnalysis)
	}
	if r.PropagationAnalysis != nil {
		writePropagationSection(&b, r.PropagationAnalysis)
	}
	if r.ResilienceAnalysis != nil {
		writeResilienceSection(&b, r.ResilienceAnalysis)
	}
	if r.DandelionAnalysis != nil {
		writeDandelionSection(&b, r.DandelionAnalysis)
	}
	if r.WindowedAnalysis != nil {
		writeWindowedSection(&b, r.WindowedAnalysis)
	}

	return b.String()
}

func writeSpySection(b *strings.Builder, spy *analysis.SpyReport) {
	b.WriteString(rule() + "\n")
	b.WriteString(centered("SPY NODE VULNERABILITY") + "\n")
	b.WriteString(rule() + "\n\n")

	fmt.Fprintf(b, "Overall Inference Accuracy: %.1f%%\n", spy.Accuracy*100)
	fmt.Fprintf(b, "  Analyzed %d transactions.\n\n", len(spy.Transactions))

	var high, moderate, low int
	for _, tx := range spy.Transactions {
		switch tx.Vulnerability {
		case analysis.VulnerabilityHigh:
			high++
		case analysis.VulnerabilityModerate:
			moderate++
		default:
			low++
		}
	}
	b.WriteString("Timing Distribution:\n")
	fmt.Fprintf(b, "  < 100ms spread:  %d transactions (high vulnerability)\n", high)
	fmt.Fprintf(b, "  100-500ms:       %d transactions (moderate vulnerability)\n", moderate)
	fmt.Fprintf(b, "  > 500ms:         %d transactions (low vulnerability)\n\n", low)

	if len(spy.VulnerableSenders) > 0 {
		b.WriteString("Most Observable Senders:\n")
		n := len(spy.VulnerableSenders)
		if n > 5 {
			n = 5
		}
		for i, s := range spy.VulnerableSenders[:n] {
			fmt.Fprintf(b, "  %d. %s: %d high-confidence inferences\n", i+1, s.SourceIP, s.HighConfidenceCount)
		}
		b.WriteString("\n")
	}

	b.WriteString("RECOMMENDATION: Transaction timing correlation is viable in this topology.\n")
	b.WriteString("Consider implementing Dandelion++ or similar origin-hiding protocols.\n\n")
}

func writePropagationSection(b *strings.Builder, prop *analysis.PropagationReport) {
	b.WriteString(rule() + "\n")
	b.WriteString(centered("PROPAGATION TIMING") + "\n")
	b.WriteString(rule() + "\n\n")

	var propagationMs []float64
	var confirmationSec []float64
	for _, tx := range prop.Transactions {
		propagationMs = append(propagationMs, tx.NetworkPropagationMs)
		if tx.HasConfirmation {
			confirmationSec = append(confirmationSec, tx.ConfirmationDelaySec)
		}
	}

	b.WriteString("Transaction Propagation:\n")
	fmt.Fprintf(b, "  Average time to reach all nodes: %.1fms\n", mean(propagationMs))
	fmt.Fprintf(b, "  Median: %.1fms\n", median(propagationMs))
	fmt.Fprintf(b, "  95th percentile: %.1fms\n\n", percentile(propagationMs, 95))

	b.WriteString("Block Confirmation Delays:\n")
	fmt.Fprintf(b, "  Average time from TX creation to block inclusion: %.1f seconds\n\n", mean(confirmationSec))

	if len(prop.Bottlenecks) > 0 {
		b.WriteString("Bottleneck Nodes (consistently slow to receive):\n")
		n := len(prop.Bottlenecks)
		if n > 5 {
			n = 5
		}
		for i, node := range prop.Bottlenecks[:n] {
			fmt.Fprintf(b, "  %d. %s: %.1fms avg delay (%d observations)\n", i+1, node.NodeID, node.MeanDelayMs, node.Observations)
		}
		b.WriteString("\n")
	}
}

func writeResilienceSection(b *strings.Builder, res *analysis.ResilienceReport) {
	b.WriteString(rule() + "\n")
	b.WriteString(centered("NETWORK RESILIENCE") + "\n")
	b.WriteString(rule() + "\n\n")

	c := res.Connectivity
	fmt.Fprintf(b, "Peer Connectivity: avg=%.1f min=%d max=%d isolated=%d/%d\n",
		c.AveragePeerCount, c.MinPeerCount, c.MaxPeerCount, len(c.IsolatedNodes), c.TotalNodes)

	fmt.Fprintf(b, "First-Seen Gini: %.3f\n", res.Centralization.FirstSeenGini)
	if len(res.Centralization.DominantObservers) > 0 {
		fmt.Fprintf(b, "Dominant Observers: %s\n", strings.Join(res.Centralization.DominantObservers, ", "))
	}

	fmt.Fprintf(b, "Connected Components: %d\n", res.PartitionRisk.ConnectedComponents)
	if len(res.PartitionRisk.BridgeNodes) > 0 {
		fmt.Fprintf(b, "Bridge Candidates: %s\n", strings.Join(res.PartitionRisk.BridgeNodes, ", "))
	}
	b.WriteString("\n")
}

func writeDandelionSection(b *strings.Builder, d *analysis.DandelionReport) {
	b.WriteString(rule() + "\n")
	b.WriteString(centered("DANDELION++ PRIVACY") + "\n")
	b.WriteString(rule() + "\n\n")

	fmt.Fprintf(b, "Canonical Avg Stem Length (2000ms threshold): %.2f\n", d.CanonicalAvgStemLength)
	fmt.Fprintf(b, "Privacy Score: %d/100\n", d.PrivacyScore)
	fmt.Fprintf(b, "Effective Anonymity: %t\n", d.EffectiveAnonymity)
	fmt.Fprintf(b, "Trivially Deanonymizable: %.1f%%\n", d.TriviallyDeanonPercent)
	if d.DominantFluffNode != "" {
		fmt.Fprintf(b, "Dominant Fluff Node: %s (%.1f%% of TXs)\n", d.DominantFluffNode, d.DominantFluffPercent)
	}
	b.WriteString("\n")
}

func writeWindowedSection(b *strings.Builder, w *analysis.WindowedReport) {
	b.WriteString(rule() + "\n")
	b.WriteString(centered("WINDOWED COMPARISON") + "\n")
	b.WriteString(rule() + "\n\n")

	fmt.Fprintf(b, "Windows: %d\n\n", len(w.Windows))
	for _, wm := range w.Windows {
		fmt.Fprintf(b, "  [%.0f, %.0f) %-14s tx=%-5d obs=%-6d avg_prop=%.1fms peers=%.1f gini=%.3f\n",
			wm.Window.Start, wm.Window.End, wm.Window.Label, wm.TxCount, wm.ObservationCount,
			wm.AvgPropagationMs, wm.AvgPeerCount, wm.FirstSeenGini)
	}
	b.WriteString("\n")

	if len(w.Comparisons) > 0 {
		b.WriteString("Pre/Post Upgrade Comparison:\n")
		for _, c := range w.Comparisons {
			sig := "not significant"
			if c.Significant {
				sig = "significant"
			}
			dir := "regressed"
			if c.Improved {
				dir = "improved"
			}
			fmt.Fprintf(b, "  %s: %.3f -> %.3f (%+.1f%%), p=%.4f (%s, %s)\n",
				c.Metric, c.PreMean, c.PostMean, c.PercentDelta, c.PValue, sig, dir)
		}
		b.WriteString("\n")
	}
}
