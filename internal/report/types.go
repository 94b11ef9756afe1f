// Package report implements ReportWriter: JSON and human-readable text
// renderings of the combined analyzer output, per spec.md §6.4.
package report

import (
	"synnergy-network/internal/analysis"
)

// Metadata carries the run-level facts every report section is
// prefixed with.
type Metadata struct {
	RunID              string
	AnalysisTimestamp  string
	SimulationDataDir  string
	TotalNodes         int
	TotalTransactions  int
	TotalBlocks        int
}

// Report is the top-level document: `{ metadata, spy_node_analysis?,
// propagation_analysis?, resilience_analysis?, dandelion_analysis?,
// windowed_analysis? }`.
type Report struct {
	Metadata             Metadata
	SpyNodeAnalysis      *analysis.SpyReport
	PropagationAnalysis  *analysis.PropagationReport
	ResilienceAnalysis   *analysis.ResilienceReport
	DandelionAnalysis    *analysis.DandelionReport
	WindowedAnalysis     *analysis.WindowedReport
}
