package analysis

import (
	"sort"

	"synnergy-network/internal/logparse"
)

// fluffThresholdsMs are the multiple fluff-gap thresholds spec.md §4.11
// requires reconstructing stem paths at; 2000ms is the canonical
// scalar the privacy score and top-level report use.
var fluffThresholdsMs = []float64{500, 1000, 2000, 3000, 5000}

const canonicalFluffThresholdMs = 2000
const maxStemIterations = 100
const fluffMinRecipients = 3

// StemHop is one relay step of a reconstructed Dandelion++ path.
type StemHop struct {
	NodeID    string
	FromIP    string
	Timestamp float64
}

// DandelionPath is one transaction's reconstructed stem chain at a
// single fluff threshold.
type DandelionPath struct {
	TxHash              string
	OriginatorConfirmed bool
	StemPath            []StemHop
	FluffNode           string
	StemLength          int
}

// ThresholdResult bundles the reconstructed paths and aggregate stats
// for one fluff-gap threshold.
type ThresholdResult struct {
	ThresholdMs   float64
	Paths         []DandelionPath
	AvgStemLength float64
}

// DandelionReport is the DandelionAnalyzer's full, multi-threshold result.
type DandelionReport struct {
	ByThreshold             map[float64]ThresholdResult
	CanonicalAvgStemLength  float64
	PrivacyScore            int
	EffectiveAnonymity      bool
	TriviallyDeanonPercent  float64
	DominantFluffNode       string
	DominantFluffPercent    float64
}

// AnalyzeDandelion implements spec.md §4.11. groundTruth maps tx hash
// to the true originator's IP; nodeToIP maps a node id (as recorded in
// TxObservation.NodeID) to that node's resolved address, letting the
// chain-extension step translate "last node in path" into the IP it
// would relay from next.
func AnalyzeDandelion(nodeData map[string]*logparse.NodeLogData, groundTruth map[string]string, nodeToIP map[string]string) DandelionReport {
	type obs struct {
		nodeID    string
		sourceIP  string
		timestamp float64
	}
	byTx := map[string][]obs{}
	var txOrder []string
	for _, nd := range nodeData {
		for _, o := range nd.TxObservations {
			if _, seen := byTx[o.TxHash]; !seen {
				txOrder = append(txOrder, o.TxHash)
			}
			byTx[o.TxHash] = append(byTx[o.TxHash], obs{nodeID: o.NodeID, sourceIP: o.SourceIP, timestamp: o.Timestamp})
		}
	}
	sort.Strings(txOrder)

	report := DandelionReport{ByThreshold: map[float64]ThresholdResult{}}

	for _, threshold := range fluffThresholdsMs {
		var paths []DandelionPath
		for _, txHash := range txOrder {
			observations := append([]obs(nil), byTx[txHash]...)
			sort.Slice(observations, func(i, j int) bool { return observations[i].timestamp < observations[j].timestamp })
			if len(observations) == 0 {
				continue
			}

			origIP := groundTruth[txHash]
			used := make(map[int]bool)
			var path []StemHop
			originatorConfirmed := false

			firstHopIdx := -1
			if origIP != "" {
				for i, o := range observations {
					if o.sourceIP == origIP {
						firstHopIdx = i
						break
					}
				}
			}
			if firstHopIdx >= 0 {
				o := observations[firstHopIdx]
				path = append(path, StemHop{NodeID: o.nodeID, FromIP: o.sourceIP, Timestamp: o.timestamp})
				used[firstHopIdx] = true
				originatorConfirmed = true
			} else {
				o := observations[0]
				path = append(path, StemHop{NodeID: o.nodeID, FromIP: o.sourceIP, Timestamp: o.timestamp})
				used[0] = true
			}

			fluffNode := ""
			currentIP, haveIP := nodeToIP[path[len(path)-1].NodeID]

			for iter := 0; iter < maxStemIterations; iter++ {
				if !haveIP {
					break
				}
				var fromCurrent []int
				for i, o := range observations {
					if !used[i] && o.sourceIP == currentIP {
						fromCurrent = append(fromCurrent, i)
					}
				}
				if len(fromCurrent) == 0 {
					break
				}

				if len(fromCurrent) >= fluffMinRecipients {
					firstTime := observations[fromCurrent[0]].timestamp
					thirdTime := observations[fromCurrent[2]].timestamp
					if (thirdTime-firstTime)*1000 <= threshold {
						fluffNode = path[len(path)-1].NodeID
						break
					}
				}

				nextIdx := fromCurrent[0]
				o := observations[nextIdx]
				path = append(path, StemHop{NodeID: o.nodeID, FromIP: o.sourceIP, Timestamp: o.timestamp})
				used[nextIdx] = true
				currentIP, haveIP = nodeToIP[o.nodeID]
			}

			if fluffNode == "" {
				fluffNode = path[len(path)-1].NodeID
			}

			paths = append(paths, DandelionPath{
				TxHash:              txHash,
				OriginatorConfirmed: originatorConfirmed,
				StemPath:            path,
				FluffNode:           fluffNode,
				StemLength:          len(path),
			})
		}

		var lengths []float64
		for _, p := range paths {
			lengths = append(lengths, float64(p.StemLength))
		}
		report.ByThreshold[threshold] = ThresholdResult{
			ThresholdMs:   threshold,
			Paths:         paths,
			AvgStemLength: mean(lengths),
		}
	}

	canonical := report.ByThreshold[canonicalFluffThresholdMs]
	report.CanonicalAvgStemLength = canonical.AvgStemLength
	report.PrivacyScore, report.EffectiveAnonymity, report.TriviallyDeanonPercent, report.DominantFluffNode, report.DominantFluffPercent = assessPrivacy(canonical.Paths)

	return report
}

func assessPrivacy(paths []DandelionPath) (score int, effective bool, trivialPct float64, dominantFluff string, dominantFluffPct float64) {
	if len(paths) == 0 {
		return 0, false, 100, "", 0
	}
	score = 100

	var total float64
	for _, p := range paths {
		total += float64(p.StemLength)
	}
	avg := total / float64(len(paths))
	if avg < 2 {
		score -= 30
	} else if avg < 4 {
		score -= 10
	}

	trivialCount := 0
	for _, p := range paths {
		if p.StemLength <= 1 {
			trivialCount++
		}
	}
	trivialPct = float64(trivialCount) / float64(len(paths)) * 100
	if trivialPct > 20 {
		score -= 25
	}

	fluffCounts := map[string]int{}
	for _, p := range paths {
		fluffCounts[p.FluffNode]++
	}
	maxCount := 0
	for node, c := range fluffCounts {
		if c > maxCount || (c == maxCount && node < dominantFluff) {
			maxCount = c
			dominantFluff = node
		}
	}
	dominantFluffPct = float64(maxCount) / float64(len(paths)) * 100
	if dominantFluffPct > 30 {
		score -= 15
	}

	if score < 0 {
		score = 0
	}
	effective = score >= 70 && trivialPct < 10
	return
}
