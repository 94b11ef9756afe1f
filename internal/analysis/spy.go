package analysis

import (
	"sort"

	"synnergy-network/internal/logparse"
)

// VulnerabilityLevel classifies how exposed a TX's true origin is to a
// spy-node inference attack.
type VulnerabilityLevel string

const (
	VulnerabilityHigh     VulnerabilityLevel = "high"
	VulnerabilityModerate VulnerabilityLevel = "moderate"
	VulnerabilityLow      VulnerabilityLevel = "low"
)

// TxSpyInference is the per-TX result of spec.md §4.10.
type TxSpyInference struct {
	TxHash            string
	InferredSourceIP  string
	GroundTruthIP     string
	InferenceCorrect  bool
	Confidence        float64
	Vulnerability     VulnerabilityLevel
}

// VulnerableSender is one entry of the ranked high-confidence-TX report.
type VulnerableSender struct {
	SourceIP            string
	HighConfidenceCount int
}

// SpyReport is the SpyAnalyzer's full result.
type SpyReport struct {
	Transactions      []TxSpyInference
	VulnerableSenders []VulnerableSender
	Accuracy          float64
}

// AnalyzeSpy implements spec.md §4.10. groundTruth maps tx hash to the
// true sender's source IP (the simulation's oracle, known only to the
// analyzer — never to the simulated daemons themselves).
func AnalyzeSpy(nodeData map[string]*logparse.NodeLogData, groundTruth map[string]string) SpyReport {
	type obs struct {
		sourceIP  string
		timestamp float64
	}
	byTx := map[string][]obs{}
	for _, nd := range nodeData {
		for _, o := range nd.TxObservations {
			byTx[o.TxHash] = append(byTx[o.TxHash], obs{sourceIP: o.SourceIP, timestamp: o.Timestamp})
		}
	}

	report := SpyReport{}
	highConfCounts := map[string]int{}
	var correct, total int

	for txHash, obs := range byTx {
		sort.Slice(obs, func(i, j int) bool { return obs[i].timestamp < obs[j].timestamp })

		earlyCount := 5
		if len(obs) < earlyCount {
			earlyCount = len(obs)
		}
		early := obs[:earlyCount]

		counts := map[string]int{}
		firstAppearance := map[string]int{}
		for i, o := range early {
			counts[o.sourceIP]++
			if _, seen := firstAppearance[o.sourceIP]; !seen {
				firstAppearance[o.sourceIP] = i
			}
		}
		var winner string
		bestCount := -1
		bestFirst := len(early)
		for ip, c := range counts {
			fa := firstAppearance[ip]
			if c > bestCount || (c == bestCount && fa < bestFirst) {
				winner = ip
				bestCount = c
				bestFirst = fa
			}
		}

		spread := (obs[len(obs)-1].timestamp - obs[0].timestamp) * 1000

		var timing float64
		var vuln VulnerabilityLevel
		switch {
		case spread < 100:
			timing = 0.3
			vuln = VulnerabilityHigh
		case spread < 500:
			timing = 0.15
			vuln = VulnerabilityModerate
		default:
			timing = 0
			vuln = VulnerabilityLow
		}

		first3 := 3
		if len(obs) < first3 {
			first3 = len(obs)
		}
		matches := 0
		for _, o := range obs[:first3] {
			if o.sourceIP == winner {
				matches++
			}
		}
		consistency := (float64(matches) / 3) * 0.4

		var multiplicity float64
		switch {
		case len(obs) >= 3:
			multiplicity = 0.3
		case len(obs) >= 2:
			multiplicity = 0.15
		}

		confidence := timing + consistency + multiplicity
		if confidence > 1 {
			confidence = 1
		}

		truth := groundTruth[txHash]
		correctInfer := winner == truth && truth != ""
		total++
		if correctInfer {
			correct++
		}
		if confidence > 0.5 {
			highConfCounts[winner]++
		}

		report.Transactions = append(report.Transactions, TxSpyInference{
			TxHash:           txHash,
			InferredSourceIP: winner,
			GroundTruthIP:    truth,
			InferenceCorrect: correctInfer,
			Confidence:       confidence,
			Vulnerability:    vuln,
		})
	}

	sort.Slice(report.Transactions, func(i, j int) bool {
		return report.Transactions[i].TxHash < report.Transactions[j].TxHash
	})

	for ip, c := range highConfCounts {
		report.VulnerableSenders = append(report.VulnerableSenders, VulnerableSender{SourceIP: ip, HighConfidenceCount: c})
	}
	sort.Slice(report.VulnerableSenders, func(i, j int) bool {
		if report.VulnerableSenders[i].HighConfidenceCount != report.VulnerableSenders[j].HighConfidenceCount {
			return report.VulnerableSenders[i].HighConfidenceCount > report.VulnerableSenders[j].HighConfidenceCount
		}
		return report.VulnerableSenders[i].SourceIP < report.VulnerableSenders[j].SourceIP
	})

	if total > 0 {
		report.Accuracy = float64(correct) / float64(total)
	}
	return report
}
