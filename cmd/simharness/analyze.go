package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"synnergy-network/internal/analysis"
	"synnergy-network/internal/logparse"
	"synnergy-network/internal/report"
)

func analyzeCmd() *cobra.Command {
	var windowSizeSec float64
	var format string
	var outPath string
	cmd := &cobra.Command{
		Use:   "analyze <hosts-dir>",
		Short: "parse per-node daemon logs and run the propagation/spy/dandelion/resilience analyzers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(args[0], windowSizeSec, format, outPath)
		},
	}
	cmd.Flags().Float64Var(&windowSizeSec, "window-size", 60, "windowed-comparison bucket size in seconds")
	cmd.Flags().StringVar(&format, "format", "json", "report format: json or text")
	cmd.Flags().StringVar(&outPath, "out", "", "report output path (default: stdout)")
	return cmd
}

func runAnalyze(hostsDir string, windowSizeSec float64, format, outPath string) error {
	logFiles, err := logparse.DiscoverLogFiles(hostsDir)
	if err != nil {
		return err
	}
	nodeData, parseErrs := logparse.ParseAll(logFiles)
	logsAnalyzed.Add(float64(len(logFiles) - len(parseErrs)))
	for _, e := range parseErrs {
		logrus.WithError(e).Warn("analyze: skipped an unreadable log file")
	}

	idToIP, ipToID, err := analysis.LoadAgentRegistry(filepath.Join(hostsDir, "..", "agent_registry.json"))
	if err != nil {
		logrus.WithError(err).Warn("analyze: could not load agent_registry.json; spy/dandelion ground truth will be empty")
		idToIP, ipToID = map[string]string{}, map[string]string{}
	}

	txs, err := analysis.LoadTransactions(filepath.Join(hostsDir, "..", "transactions.json"))
	if err != nil {
		logrus.WithError(err).Warn("analyze: could not load transactions.json; spy/dandelion ground truth will be empty")
	}
	groundTruth := analysis.GroundTruthSenderIPs(txs, idToIP)

	blocks, err := analysis.LoadBlocks(filepath.Join(hostsDir, "..", "blocks_with_transactions.json"))
	if err != nil {
		logrus.WithError(err).Warn("analyze: could not load blocks_with_transactions.json; confirmation delays will be omitted")
	}
	txHeight := analysis.TxHeightIndex(blocks)
	blockTimes := analysis.BlockTimeByHeight(nodeData)

	propagation := analysis.AnalyzePropagation(nodeData, blockTimes, txHeight)
	spy := analysis.AnalyzeSpy(nodeData, groundTruth)
	resilience := analysis.AnalyzeResilience(nodeData, ipToID, nodeIDList(nodeData))
	dandelion := analysis.AnalyzeDandelion(nodeData, groundTruth, idToIP)

	var windowed *analysis.WindowedReport
	if minTs, maxTs, ok := observationSpan(nodeData); ok {
		windows := analysis.LabelWindows(
			analysis.CreateTimeWindows(minTs, maxTs, windowSizeSec),
			analysis.UpgradeManifest{},
		)
		stemPaths := make(map[float64][]analysis.DandelionPath, len(dandelion.ByThreshold))
		for threshold, result := range dandelion.ByThreshold {
			stemPaths[threshold] = result.Paths
		}
		w := analysis.AnalyzeWindowed(nodeData, windows, ipToID, nodeIDList(nodeData), stemPaths, spy.Transactions)
		windowed = &w
	}

	rpt := report.Report{
		Metadata: report.Metadata{
			RunID:             uuid.NewString(),
			AnalysisTimestamp: time.Now().UTC().Format(time.RFC3339),
			SimulationDataDir: hostsDir,
			TotalNodes:        len(nodeData),
			TotalTransactions: len(txs),
			TotalBlocks:       len(blocks),
		},
		SpyNodeAnalysis:     &spy,
		PropagationAnalysis: &propagation,
		ResilienceAnalysis:  &resilience,
		DandelionAnalysis:   &dandelion,
		WindowedAnalysis:    windowed,
	}

	var out []byte
	if format == "text" {
		out = []byte(rpt.ToText())
	} else {
		out, err = rpt.ToJSON()
		if err != nil {
			return err
		}
	}

	if outPath == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	return os.WriteFile(outPath, out, 0o644)
}

// observationSpan returns the earliest and latest transaction-observation
// timestamps across all nodes, used to bound the windowed comparison.
func observationSpan(nodeData map[string]*logparse.NodeLogData) (min, max float64, ok bool) {
	for _, nd := range nodeData {
		for _, o := range nd.TxObservations {
			if !ok || o.Timestamp < min {
				min = o.Timestamp
			}
			if !ok || o.Timestamp > max {
				max = o.Timestamp
			}
			ok = true
		}
	}
	return min, max, ok
}

func nodeIDList(nodeData map[string]*logparse.NodeLogData) []string {
	ids := make([]string, 0, len(nodeData))
	for id := range nodeData {
		ids = append(ids, id)
	}
	return ids
}
