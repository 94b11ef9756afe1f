package analysis

import (
	"sort"
	"sync"

	"synnergy-network/internal/logparse"
)

// TimeWindow is a half-open simulation-time interval [Start, End).
type TimeWindow struct {
	Start float64
	End   float64
	Label string
}

func (w TimeWindow) contains(t float64) bool {
	return t >= w.Start && t < w.End
}

// UpgradeManifest marks the time range a rolling upgrade spans, used
// to label windows pre-upgrade / transition / post-upgrade.
type UpgradeManifest struct {
	UpgradeStart float64
	UpgradeEnd   float64
	HasUpgrade   bool
}

// WindowMetrics is the per-window metric bundle spec.md §4.13 lists.
type WindowMetrics struct {
	Window             TimeWindow
	TxCount            int
	ObservationCount   int
	AvgPropagationMs   float64
	MedianPropagationMs float64
	P95PropagationMs   float64
	AvgPeerCount       float64
	FirstSeenGini      float64
	AvgStemLengthByThreshold map[float64]float64
	BandwidthDownSum   float64
	BandwidthUpSum     float64
	SpyAccuracy        float64
}

// canonicalAvgStemLength reads the window's stem-length average at the
// canonical fluff threshold, mirroring DandelionReport.CanonicalAvgStemLength.
func (m WindowMetrics) canonicalAvgStemLength() float64 {
	return m.AvgStemLengthByThreshold[canonicalFluffThresholdMs]
}

// MetricComparison is one metric's pre-vs-post comparison result.
type MetricComparison struct {
	Metric          string
	PreMean         float64
	PostMean        float64
	AbsoluteDelta   float64
	PercentDelta    float64
	TStatistic      float64
	DegreesOfFreedom float64
	PValue          float64
	Significant     bool
	Improved        bool
}

// WindowedReport is the WindowedComparator's full result.
type WindowedReport struct {
	Windows      []WindowMetrics
	Comparisons  []MetricComparison
}

// CreateTimeWindows builds half-open windows of windowSizeSec spanning
// [start, end), per spec.md §4.13.
func CreateTimeWindows(start, end, windowSizeSec float64) []TimeWindow {
	var windows []TimeWindow
	current := start
	for current < end {
		windowEnd := current + windowSizeSec
		if windowEnd > end {
			windowEnd = end
		}
		windows = append(windows, TimeWindow{Start: current, End: windowEnd})
		current = windowEnd
	}
	return windows
}

// LabelWindows applies the pre-upgrade/transition/post-upgrade
// labeling rule of spec.md §4.13.
func LabelWindows(windows []TimeWindow, manifest UpgradeManifest) []TimeWindow {
	if !manifest.HasUpgrade {
		for i := range windows {
			windows[i].Label = "unlabeled"
		}
		return windows
	}
	for i, w := range windows {
		switch {
		case w.End <= manifest.UpgradeStart:
			windows[i].Label = "pre-upgrade"
		case w.Start >= manifest.UpgradeEnd:
			windows[i].Label = "post-upgrade"
		default:
			windows[i].Label = "transition"
		}
	}
	return windows
}

// AnalyzeWindowed implements spec.md §4.13's pre-partitioning
// optimization: observations are sorted globally by timestamp once,
// then each window's slice is found by binary search and handed to an
// independent worker, mirroring the one-time-sort-then-parallel-window
// pattern the concurrency model requires.
func AnalyzeWindowed(
	nodeData map[string]*logparse.NodeLogData,
	windows []TimeWindow,
	ipToNode map[string]string,
	nodeIDs []string,
	fluffThresholdStemLengths map[float64][]DandelionPath,
	spyInferences []TxSpyInference,
) WindowedReport {
	spyCorrectByTx := make(map[string]bool, len(spyInferences))
	for _, inf := range spyInferences {
		spyCorrectByTx[inf.TxHash] = inf.InferenceCorrect
	}
	var allObs []logparse.TxObservation
	for _, nd := range nodeData {
		allObs = append(allObs, nd.TxObservations...)
	}
	sort.SliceStable(allObs, func(i, j int) bool { return allObs[i].Timestamp < allObs[j].Timestamp })

	timestamps := make([]float64, len(allObs))
	for i, o := range allObs {
		timestamps[i] = o.Timestamp
	}

	var allBw []logparse.BandwidthEvent
	for _, nd := range nodeData {
		allBw = append(allBw, nd.BandwidthEvents...)
	}
	sort.SliceStable(allBw, func(i, j int) bool { return allBw[i].Timestamp < allBw[j].Timestamp })
	bwTimestamps := make([]float64, len(allBw))
	for i, e := range allBw {
		bwTimestamps[i] = e.Timestamp
	}

	connGraph := buildConnectionGraph(nodeData, ipToNode, nodeIDs)
	avgPeerCount := mean(peerCounts(connGraph))

	results := make([]WindowMetrics, len(windows))
	var wg sync.WaitGroup
	for i, w := range windows {
		wg.Add(1)
		go func(idx int, window TimeWindow) {
			defer wg.Done()
			lo := sort.SearchFloat64s(timestamps, window.Start)
			hi := sort.SearchFloat64s(timestamps, window.End)
			slice := allObs[lo:hi]

			bwLo := sort.SearchFloat64s(bwTimestamps, window.Start)
			bwHi := sort.SearchFloat64s(bwTimestamps, window.End)
			bwSlice := allBw[bwLo:bwHi]

			results[idx] = computeWindowMetrics(window, slice, bwSlice, avgPeerCount, fluffThresholdStemLengths, spyCorrectByTx)
		}(i, w)
	}
	wg.Wait()

	comparisons := compareByLabel(results)
	return WindowedReport{Windows: results, Comparisons: comparisons}
}

func peerCounts(graph map[string]map[string]bool) []float64 {
	var counts []float64
	for _, peers := range graph {
		counts = append(counts, float64(len(peers)))
	}
	return counts
}

func computeWindowMetrics(window TimeWindow, obs []logparse.TxObservation, bw []logparse.BandwidthEvent, avgPeerCount float64, stemLengthsByThreshold map[float64][]DandelionPath, spyCorrectByTx map[string]bool) WindowMetrics {
	distinctTx := map[string]bool{}
	deltasByTx := map[string][]float64{}
	firstByTx := map[string]float64{}
	for _, o := range obs {
		distinctTx[o.TxHash] = true
		if _, ok := firstByTx[o.TxHash]; !ok {
			firstByTx[o.TxHash] = o.Timestamp
		} else if o.Timestamp < firstByTx[o.TxHash] {
			firstByTx[o.TxHash] = o.Timestamp
		}
	}
	var allDeltas []float64
	firstSeenCounts := map[string]int{}
	txFirstSeenNode := map[string]struct {
		nodeID    string
		timestamp float64
	}{}
	for _, o := range obs {
		delta := (o.Timestamp - firstByTx[o.TxHash]) * 1000
		deltasByTx[o.TxHash] = append(deltasByTx[o.TxHash], delta)
		allDeltas = append(allDeltas, delta)

		existing, ok := txFirstSeenNode[o.TxHash]
		if !ok || o.Timestamp < existing.timestamp {
			txFirstSeenNode[o.TxHash] = struct {
				nodeID    string
				timestamp float64
			}{nodeID: o.NodeID, timestamp: o.Timestamp}
		}
	}
	for _, v := range txFirstSeenNode {
		firstSeenCounts[v.nodeID]++
	}
	var firstSeenValues []float64
	for _, c := range firstSeenCounts {
		firstSeenValues = append(firstSeenValues, float64(c))
	}

	stemByThreshold := map[float64]float64{}
	for threshold, paths := range stemLengthsByThreshold {
		var inWindow []float64
		for _, p := range paths {
			if len(p.StemPath) == 0 {
				continue
			}
			t := p.StemPath[0].Timestamp
			if window.contains(t) {
				inWindow = append(inWindow, float64(p.StemLength))
			}
		}
		stemByThreshold[threshold] = mean(inWindow)
	}

	var bwDown, bwUp float64
	for _, e := range bw {
		bwDown += e.DownMbps
		bwUp += e.UpMbps
	}

	var spyCorrect, spyTotal int
	for txHash := range distinctTx {
		if correct, ok := spyCorrectByTx[txHash]; ok {
			spyTotal++
			if correct {
				spyCorrect++
			}
		}
	}
	var spyAccuracy float64
	if spyTotal > 0 {
		spyAccuracy = float64(spyCorrect) / float64(spyTotal)
	}

	return WindowMetrics{
		Window:                   window,
		TxCount:                  len(distinctTx),
		ObservationCount:         len(obs),
		AvgPropagationMs:         mean(allDeltas),
		MedianPropagationMs:      median(allDeltas),
		P95PropagationMs:         percentile(allDeltas, 95),
		AvgPeerCount:             avgPeerCount,
		FirstSeenGini:            gini(firstSeenValues),
		AvgStemLengthByThreshold: stemByThreshold,
		BandwidthDownSum:         bwDown,
		BandwidthUpSum:           bwUp,
		SpyAccuracy:              spyAccuracy,
	}
}

// metricDirection records whether a lower or higher value is the
// improvement direction for a named metric, per spec.md §4.13's table.
var metricDirectionLowerIsBetter = map[string]bool{
	"spy_accuracy":       true,
	"avg_propagation_ms": true,
	"avg_peer_count":     false,
	"first_seen_gini":    true,
	"avg_stem_length":    false,
	"bandwidth_sum":      true,
}

func compareByLabel(windows []WindowMetrics) []MetricComparison {
	pre := map[string][]float64{}
	post := map[string][]float64{}

	for _, w := range windows {
		switch w.Window.Label {
		case "pre-upgrade":
			pre["avg_propagation_ms"] = append(pre["avg_propagation_ms"], w.AvgPropagationMs)
			pre["avg_peer_count"] = append(pre["avg_peer_count"], w.AvgPeerCount)
			pre["first_seen_gini"] = append(pre["first_seen_gini"], w.FirstSeenGini)
			pre["bandwidth_sum"] = append(pre["bandwidth_sum"], w.BandwidthDownSum+w.BandwidthUpSum)
			pre["spy_accuracy"] = append(pre["spy_accuracy"], w.SpyAccuracy)
			pre["avg_stem_length"] = append(pre["avg_stem_length"], w.canonicalAvgStemLength())
		case "post-upgrade":
			post["avg_propagation_ms"] = append(post["avg_propagation_ms"], w.AvgPropagationMs)
			post["avg_peer_count"] = append(post["avg_peer_count"], w.AvgPeerCount)
			post["first_seen_gini"] = append(post["first_seen_gini"], w.FirstSeenGini)
			post["bandwidth_sum"] = append(post["bandwidth_sum"], w.BandwidthDownSum+w.BandwidthUpSum)
			post["spy_accuracy"] = append(post["spy_accuracy"], w.SpyAccuracy)
			post["avg_stem_length"] = append(post["avg_stem_length"], w.canonicalAvgStemLength())
		}
	}

	var metrics []string
	for m := range pre {
		metrics = append(metrics, m)
	}
	sort.Strings(metrics)

	var comparisons []MetricComparison
	for _, m := range metrics {
		a, b := pre[m], post[m]
		if len(a) < 2 || len(b) < 2 {
			continue
		}
		res := welchTTest(a, b, 0.05)
		ma, mb := mean(a), mean(b)
		percent := 0.0
		if ma != 0 {
			percent = (mb - ma) / ma * 100
		}
		lowerBetter := metricDirectionLowerIsBetter[m]
		improved := (lowerBetter && mb < ma) || (!lowerBetter && mb > ma)
		comparisons = append(comparisons, MetricComparison{
			Metric:           m,
			PreMean:          ma,
			PostMean:         mb,
			AbsoluteDelta:    mb - ma,
			PercentDelta:     percent,
			TStatistic:       res.TStatistic,
			DegreesOfFreedom: res.DegreesOfFreedom,
			PValue:           res.PValue,
			Significant:      res.Significant,
			Improved:         improved,
		})
	}
	return comparisons
}
