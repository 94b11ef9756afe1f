package analysis

import (
	"testing"

	"synnergy-network/internal/logparse"
)

func TestCreateTimeWindowsHalfOpenBucketsWithPartialFinal(t *testing.T) {
	windows := CreateTimeWindows(0, 25, 10)
	if len(windows) != 3 {
		t.Fatalf("expected 3 windows, got %d: %+v", len(windows), windows)
	}
	if windows[0].Start != 0 || windows[0].End != 10 {
		t.Fatalf("unexpected first window: %+v", windows[0])
	}
	if windows[2].Start != 20 || windows[2].End != 25 {
		t.Fatalf("expected a partial final window [20,25), got %+v", windows[2])
	}
}

func TestLabelWindowsNoUpgradeIsUnlabeled(t *testing.T) {
	windows := CreateTimeWindows(0, 20, 10)
	labeled := LabelWindows(windows, UpgradeManifest{HasUpgrade: false})
	for _, w := range labeled {
		if w.Label != "unlabeled" {
			t.Fatalf("expected unlabeled windows with no upgrade manifest, got %q", w.Label)
		}
	}
}

func TestLabelWindowsPrePostAndTransition(t *testing.T) {
	windows := []TimeWindow{
		{Start: 0, End: 10},
		{Start: 10, End: 20},
		{Start: 20, End: 30},
	}
	manifest := UpgradeManifest{HasUpgrade: true, UpgradeStart: 15, UpgradeEnd: 22}
	labeled := LabelWindows(windows, manifest)
	if labeled[0].Label != "pre-upgrade" {
		t.Fatalf("expected window ending at 10 to be pre-upgrade, got %q", labeled[0].Label)
	}
	if labeled[1].Label != "transition" {
		t.Fatalf("expected window [10,20) overlapping the upgrade to be transition, got %q", labeled[1].Label)
	}
	if labeled[2].Label != "transition" {
		t.Fatalf("expected window starting at 20 < upgradeEnd 22 to NOT be post-upgrade, got %q", labeled[2].Label)
	}
}

func TestLabelWindowsStrictlyAfterUpgradeIsPostUpgrade(t *testing.T) {
	windows := []TimeWindow{{Start: 30, End: 40}}
	manifest := UpgradeManifest{HasUpgrade: true, UpgradeStart: 15, UpgradeEnd: 22}
	labeled := LabelWindows(windows, manifest)
	if labeled[0].Label != "post-upgrade" {
		t.Fatalf("expected a window entirely after the upgrade to be post-upgrade, got %q", labeled[0].Label)
	}
}

func TestAnalyzeWindowedBucketsTxAndBandwidthByWindow(t *testing.T) {
	nodeData := map[string]*logparse.NodeLogData{
		"node0": {
			NodeID: "node0",
			TxObservations: []logparse.TxObservation{
				{TxHash: "tx1", NodeID: "node0", Timestamp: 1},
				{TxHash: "tx2", NodeID: "node0", Timestamp: 11},
			},
			BandwidthEvents: []logparse.BandwidthEvent{
				{Timestamp: 1, DownMbps: 5, UpMbps: 2},
				{Timestamp: 12, DownMbps: 7, UpMbps: 3},
			},
		},
	}
	windows := CreateTimeWindows(0, 20, 10)
	report := AnalyzeWindowed(nodeData, windows, nil, []string{"node0"}, nil, nil)
	if len(report.Windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(report.Windows))
	}
	first, second := report.Windows[0], report.Windows[1]
	if first.TxCount != 1 || first.BandwidthDownSum != 5 || first.BandwidthUpSum != 2 {
		t.Fatalf("unexpected first window metrics: %+v", first)
	}
	if second.TxCount != 1 || second.BandwidthDownSum != 7 || second.BandwidthUpSum != 3 {
		t.Fatalf("unexpected second window metrics: %+v", second)
	}
}

func TestAnalyzeWindowedStemLengthByThresholdBucketedByFirstHopTimestamp(t *testing.T) {
	nodeData := map[string]*logparse.NodeLogData{
		"node0": {NodeID: "node0"},
	}
	windows := CreateTimeWindows(0, 20, 10)
	stemPaths := map[float64][]DandelionPath{
		2000: {
			{
				TxHash:     "tx1",
				StemLength: 3,
				StemPath:   []StemHop{{NodeID: "a", Timestamp: 2}},
			},
			{
				TxHash:     "tx2",
				StemLength: 5,
				StemPath:   []StemHop{{NodeID: "b", Timestamp: 15}},
			},
		},
	}
	report := AnalyzeWindowed(nodeData, windows, nil, []string{"node0"}, stemPaths, nil)
	if got := report.Windows[0].AvgStemLengthByThreshold[2000]; got != 3 {
		t.Fatalf("expected window 0 avg stem length 3, got %v", got)
	}
	if got := report.Windows[1].AvgStemLengthByThreshold[2000]; got != 5 {
		t.Fatalf("expected window 1 avg stem length 5, got %v", got)
	}
}

func TestCompareByLabelDetectsImprovementDirection(t *testing.T) {
	// avg_propagation_ms: lower is better. Pre is high (bad), post is low (good) => improved.
	windows := []WindowMetrics{
		{Window: TimeWindow{Label: "pre-upgrade"}, AvgPropagationMs: 500, AvgPeerCount: 5, FirstSeenGini: 0.5},
		{Window: TimeWindow{Label: "pre-upgrade"}, AvgPropagationMs: 520, AvgPeerCount: 5, FirstSeenGini: 0.5},
		{Window: TimeWindow{Label: "post-upgrade"}, AvgPropagationMs: 100, AvgPeerCount: 5, FirstSeenGini: 0.5},
		{Window: TimeWindow{Label: "post-upgrade"}, AvgPropagationMs: 110, AvgPeerCount: 5, FirstSeenGini: 0.5},
	}
	comparisons := compareByLabel(windows)
	var propComparison *MetricComparison
	for i := range comparisons {
		if comparisons[i].Metric == "avg_propagation_ms" {
			propComparison = &comparisons[i]
		}
	}
	if propComparison == nil {
		t.Fatalf("expected an avg_propagation_ms comparison, got %+v", comparisons)
	}
	if !propComparison.Improved {
		t.Fatalf("expected a drop in propagation latency to be flagged as improved, got %+v", propComparison)
	}
}

func TestCompareByLabelComparesSpyAccuracyAndStemLength(t *testing.T) {
	canonical := map[float64]float64{canonicalFluffThresholdMs: 8}
	windows := []WindowMetrics{
		{Window: TimeWindow{Label: "pre-upgrade"}, SpyAccuracy: 0.9, AvgStemLengthByThreshold: map[float64]float64{canonicalFluffThresholdMs: 2}},
		{Window: TimeWindow{Label: "pre-upgrade"}, SpyAccuracy: 0.8, AvgStemLengthByThreshold: map[float64]float64{canonicalFluffThresholdMs: 3}},
		{Window: TimeWindow{Label: "post-upgrade"}, SpyAccuracy: 0.2, AvgStemLengthByThreshold: canonical},
		{Window: TimeWindow{Label: "post-upgrade"}, SpyAccuracy: 0.3, AvgStemLengthByThreshold: canonical},
	}
	comparisons := compareByLabel(windows)
	byMetric := map[string]MetricComparison{}
	for _, c := range comparisons {
		byMetric[c.Metric] = c
	}
	spyCmp, ok := byMetric["spy_accuracy"]
	if !ok {
		t.Fatalf("expected a spy_accuracy comparison, got %+v", comparisons)
	}
	if !spyCmp.Improved {
		t.Fatalf("expected a drop in spy accuracy (post-upgrade Dandelion defense working better) to be flagged as improved, got %+v", spyCmp)
	}
	stemCmp, ok := byMetric["avg_stem_length"]
	if !ok {
		t.Fatalf("expected an avg_stem_length comparison, got %+v", comparisons)
	}
	if !stemCmp.Improved {
		t.Fatalf("expected a longer stem length post-upgrade to be flagged as improved, got %+v", stemCmp)
	}
}

func TestAnalyzeWindowedComputesSpyAccuracyFromInferences(t *testing.T) {
	nodeData := map[string]*logparse.NodeLogData{
		"node0": {
			NodeID: "node0",
			TxObservations: []logparse.TxObservation{
				{TxHash: "tx1", NodeID: "node0", Timestamp: 1},
				{TxHash: "tx2", NodeID: "node0", Timestamp: 2},
			},
		},
	}
	windows := CreateTimeWindows(0, 10, 10)
	spyInferences := []TxSpyInference{
		{TxHash: "tx1", InferenceCorrect: true},
		{TxHash: "tx2", InferenceCorrect: false},
	}
	report := AnalyzeWindowed(nodeData, windows, nil, []string{"node0"}, nil, spyInferences)
	if got := report.Windows[0].SpyAccuracy; got != 0.5 {
		t.Fatalf("expected window spy accuracy 0.5 (1 correct of 2), got %v", got)
	}
}

func TestCompareByLabelSkipsMetricsWithTooFewSamples(t *testing.T) {
	windows := []WindowMetrics{
		{Window: TimeWindow{Label: "pre-upgrade"}, AvgPropagationMs: 500},
		{Window: TimeWindow{Label: "post-upgrade"}, AvgPropagationMs: 100},
	}
	comparisons := compareByLabel(windows)
	if len(comparisons) != 0 {
		t.Fatalf("expected no comparisons with only 1 sample per side, got %+v", comparisons)
	}
}
