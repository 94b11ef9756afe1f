package report

import (
	"encoding/json"
	"strconv"
)

type metadataWire struct {
	RunID             string `json:"run_id"`
	AnalysisTimestamp string `json:"analysis_timestamp"`
	SimulationDataDir string `json:"simulation_data_dir"`
	TotalNodes        int    `json:"total_nodes"`
	TotalTransactions int    `json:"total_transactions"`
	TotalBlocks       int    `json:"total_blocks"`
}

type spyWire struct {
	InferenceAccuracy float64              `json:"inference_accuracy"`
	Transactions      []spyTxWire          `json:"transactions"`
	VulnerableSenders []vulnerableSenderWire `json:"vulnerable_senders"`
}

type spyTxWire struct {
	TxHash           string  `json:"tx_hash"`
	InferredSourceIP string  `json:"inferred_source_ip"`
	GroundTruthIP    string  `json:"ground_truth_ip"`
	InferenceCorrect bool    `json:"inference_correct"`
	Confidence       float64 `json:"confidence"`
	Vulnerability    string  `json:"vulnerability"`
}

type vulnerableSenderWire struct {
	SourceIP            string `json:"source_ip"`
	HighConfidenceCount int    `json:"high_confidence_count"`
}

type propagationWire struct {
	Transactions []propagationTxWire `json:"transactions"`
	Bottlenecks  []bottleneckWire    `json:"bottleneck_nodes"`
}

type propagationTxWire struct {
	TxHash               string  `json:"tx_hash"`
	FirstSeenTime        float64 `json:"first_seen_time"`
	LastSeenTime         float64 `json:"last_seen_time"`
	NetworkPropagationMs float64 `json:"network_propagation_ms"`
	MedianPropagationMs  float64 `json:"median_propagation_ms"`
	P95PropagationMs     float64 `json:"p95_propagation_ms"`
	NodesObserved        int     `json:"nodes_observed"`
	ConfirmationDelaySec float64 `json:"confirmation_delay_sec,omitempty"`
	HasConfirmation      bool    `json:"has_confirmation"`
}

type bottleneckWire struct {
	NodeID       string  `json:"node_id"`
	Observations int     `json:"observations"`
	MeanDelayMs  float64 `json:"mean_delay_ms"`
}

type resilienceWire struct {
	Connectivity   connectivityWire   `json:"connectivity"`
	Centralization centralizationWire `json:"centralization"`
	PartitionRisk  partitionRiskWire  `json:"partition_risk"`
}

type connectivityWire struct {
	TotalNodes             int            `json:"total_nodes"`
	AveragePeerCount       float64        `json:"average_peer_count"`
	MinPeerCount           int            `json:"min_peer_count"`
	MaxPeerCount           int            `json:"max_peer_count"`
	IsolatedNodes          []string       `json:"isolated_nodes"`
	PeerCountDistribution  map[string]int `json:"peer_count_distribution"`
}

type centralizationWire struct {
	FirstSeenGini     float64  `json:"first_seen_gini"`
	DominantObservers []string `json:"dominant_observers"`
}

type partitionRiskWire struct {
	BridgeNodes         []string `json:"bridge_nodes"`
	ConnectedComponents int      `json:"connected_components"`
}

type windowedWire struct {
	Windows     []windowMetricsWire    `json:"windows"`
	Comparisons []metricComparisonWire `json:"comparisons"`
}

type windowMetricsWire struct {
	WindowStart              float64            `json:"window_start"`
	WindowEnd                float64            `json:"window_end"`
	Label                    string             `json:"label"`
	TxCount                  int                `json:"tx_count"`
	ObservationCount         int                `json:"observation_count"`
	AvgPropagationMs         float64            `json:"avg_propagation_ms"`
	MedianPropagationMs      float64            `json:"median_propagation_ms"`
	P95PropagationMs         float64            `json:"p95_propagation_ms"`
	AvgPeerCount             float64            `json:"avg_peer_count"`
	FirstSeenGini            float64            `json:"first_seen_gini"`
	AvgStemLengthByThreshold map[string]float64 `json:"avg_stem_length_by_threshold_ms"`
	BandwidthDownSum         float64            `json:"bandwidth_down_sum_mbps"`
	BandwidthUpSum           float64            `json:"bandwidth_up_sum_mbps"`
}

type metricComparisonWire struct {
	Metric           string  `json:"metric"`
	PreMean          float64 `json:"pre_mean"`
	PostMean         float64 `json:"post_mean"`
	AbsoluteDelta    float64 `json:"absolute_delta"`
	PercentDelta     float64 `json:"percent_delta"`
	TStatistic       float64 `json:"t_statistic"`
	DegreesOfFreedom float64 `json:"degrees_of_freedom"`
	PValue           float64 `json:"p_value"`
	Significant      bool    `json:"significant"`
	Improved         bool    `json:"improved"`
}

type dandelionWire struct {
	CanonicalAvgStemLength float64                `json:"canonical_avg_stem_length"`
	PrivacyScore           int                     `json:"privacy_score"`
	EffectiveAnonymity     bool                    `json:"effective_anonymity"`
	TriviallyDeanonPercent float64                 `json:"trivially_deanonymizable_pct"`
	DominantFluffNode      string                  `json:"dominant_fluff_node,omitempty"`
	DominantFluffPercent   float64                 `json:"dominant_fluff_percent"`
	AvgStemLengthByThreshold map[string]float64    `json:"avg_stem_length_by_threshold_ms"`
}

// ToJSON renders report as indented JSON, matching spec.md §6.4's
// `{ metadata, spy_node_analysis?, propagation_analysis?,
// resilience_analysis? }` shape, plus the optional dandelion_analysis
// and windowed_analysis sections. Two calls over identical inputs
// produce byte-identical output since every analyzer already emits
// its slices and maps in a deterministic (sorted) order.
func (r Report) ToJSON() ([]byte, error) {
	wire := struct {
		Metadata            metadataWire     `json:"metadata"`
		SpyNodeAnalysis     *spyWire         `json:"spy_node_analysis,omitempty"`
		PropagationAnalysis *propagationWire `json:"propagation_analysis,omitempty"`
		ResilienceAnalysis  *resilienceWire  `json:"resilience_analysis,omitempty"`
		DandelionAnalysis   *dandelionWire   `json:"dandelion_analysis,omitempty"`
		WindowedAnalysis    *windowedWire    `json:"windowed_analysis,omitempty"`
	}{
		Metadata: metadataWire{
			RunID:             r.Metadata.RunID,
			AnalysisTimestamp: r.Metadata.AnalysisTimestamp,
			SimulationDataDir: r.Metadata.SimulationDataDir,
			TotalNodes:        r.Metadata.TotalNodes,
			TotalTransactions: r.Metadata.TotalTransactions,
			TotalBlocks:       r.Metadata.TotalBlocks,
		},
	}

	if r.SpyNodeAnalysis != nil {
		s := &spyWire{InferenceAccuracy: r.SpyNodeAnalysis.Accuracy}
		for _, tx := range r.SpyNodeAnalysis.Transactions {
			s.Transactions = append(s.Transactions, spyTxWire{
				TxHash: tx.TxHash, InferredSourceIP: tx.InferredSourceIP,
				GroundTruthIP: tx.GroundTruthIP, InferenceCorrect: tx.InferenceCorrect,
				Confidence: tx.Confidence, Vulnerability: string(tx.Vulnerability),
			})
		}
		for _, v := range r.SpyNodeAnalysis.VulnerableSenders {
			s.VulnerableSenders = append(s.VulnerableSenders, vulnerableSenderWire{
				SourceIP: v.SourceIP, HighConfidenceCount: v.HighConfidenceCount,
			})
		}
		wire.SpyNodeAnalysis = s
	}

	if r.PropagationAnalysis != nil {
		p := &propagationWire{}
		for _, tx := range r.PropagationAnalysis.Transactions {
			p.Transactions = append(p.Transactions, propagationTxWire{
				TxHash: tx.TxHash, FirstSeenTime: tx.FirstSeenTime, LastSeenTime: tx.LastSeenTime,
				NetworkPropagationMs: tx.NetworkPropagationMs, MedianPropagationMs: tx.MedianPropagationMs,
				P95PropagationMs: tx.P95PropagationMs, NodesObserved: tx.NodesObserved,
				ConfirmationDelaySec: tx.ConfirmationDelaySec, HasConfirmation: tx.HasConfirmation,
			})
		}
		for _, b := range r.PropagationAnalysis.Bottlenecks {
			p.Bottlenecks = append(p.Bottlenecks, bottleneckWire{
				NodeID: b.NodeID, Observations: b.Observations, MeanDelayMs: b.MeanDelayMs,
			})
		}
		wire.PropagationAnalysis = p
	}

	if r.ResilienceAnalysis != nil {
		res := r.ResilienceAnalysis
		wire.ResilienceAnalysis = &resilienceWire{
			Connectivity: connectivityWire{
				TotalNodes: res.Connectivity.TotalNodes, AveragePeerCount: res.Connectivity.AveragePeerCount,
				MinPeerCount: res.Connectivity.MinPeerCount, MaxPeerCount: res.Connectivity.MaxPeerCount,
				IsolatedNodes: res.Connectivity.IsolatedNodes, PeerCountDistribution: res.Connectivity.PeerCountDistribution,
			},
			Centralization: centralizationWire{
				FirstSeenGini: res.Centralization.FirstSeenGini, DominantObservers: res.Centralization.DominantObservers,
			},
			PartitionRisk: partitionRiskWire{
				BridgeNodes: res.PartitionRisk.BridgeNodes, ConnectedComponents: res.PartitionRisk.ConnectedComponents,
			},
		}
	}

	if r.DandelionAnalysis != nil {
		d := r.DandelionAnalysis
		byThreshold := map[string]float64{}
		for threshold, result := range d.ByThreshold {
			byThreshold[strconv.FormatFloat(threshold, 'f', 0, 64)] = result.AvgStemLength
		}
		wire.DandelionAnalysis = &dandelionWire{
			CanonicalAvgStemLength:   d.CanonicalAvgStemLength,
			PrivacyScore:             d.PrivacyScore,
			EffectiveAnonymity:       d.EffectiveAnonymity,
			TriviallyDeanonPercent:   d.TriviallyDeanonPercent,
			DominantFluffNode:        d.DominantFluffNode,
			DominantFluffPercent:     d.DominantFluffPercent,
			AvgStemLengthByThreshold: byThreshold,
		}
	}

	if r.WindowedAnalysis != nil {
		wa := r.WindowedAnalysis
		w := &windowedWire{}
		for _, wm := range wa.Windows {
			byThreshold := map[string]float64{}
			for threshold, avg := range wm.AvgStemLengthByThreshold {
				byThreshold[strconv.FormatFloat(threshold, 'f', 0, 64)] = avg
			}
			w.Windows = append(w.Windows, windowMetricsWire{
				WindowStart: wm.Window.Start, WindowEnd: wm.Window.End, Label: wm.Window.Label,
				TxCount: wm.TxCount, ObservationCount: wm.ObservationCount,
				AvgPropagationMs: wm.AvgPropagationMs, MedianPropagationMs: wm.MedianPropagationMs,
				P95PropagationMs: wm.P95PropagationMs, AvgPeerCount: wm.AvgPeerCount,
				FirstSeenGini: wm.FirstSeenGini, AvgStemLengthByThreshold: byThreshold,
				BandwidthDownSum: wm.BandwidthDownSum, BandwidthUpSum: wm.BandwidthUpSum,
			})
		}
		for _, c := range wa.Comparisons {
			w.Comparisons = append(w.Comparisons, metricComparisonWire{
				Metric: c.Metric, PreMean: c.PreMean, PostMean: c.PostMean,
				AbsoluteDelta: c.AbsoluteDelta, PercentDelta: c.PercentDelta,
				TStatistic: c.TStatistic, DegreesOfFreedom: c.DegreesOfFreedom,
				PValue: c.PValue, Significant: c.Significant, Improved: c.Improved,
			})
		}
		wire.WindowedAnalysis = w
	}

	return json.MarshalIndent(wire, "", "  ")
}
