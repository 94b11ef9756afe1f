package analysis

import (
	"sort"

	"synnergy-network/internal/logparse"
)

// ConnectivityMetrics summarizes the final peer-connection graph.
type ConnectivityMetrics struct {
	TotalNodes            int
	AveragePeerCount      float64
	MinPeerCount          int
	MaxPeerCount          int
	IsolatedNodes         []string
	PeerCountDistribution map[string]int
}

// CentralizationMetrics summarizes first-seen concentration.
type CentralizationMetrics struct {
	FirstSeenGini      float64
	DominantObservers  []string
}

// PartitionRiskMetrics summarizes graph-fragmentation risk.
type PartitionRiskMetrics struct {
	BridgeNodes         []string
	ConnectedComponents int
}

// ResilienceReport is the ResilienceAnalyzer's full result.
type ResilienceReport struct {
	Connectivity   ConnectivityMetrics
	Centralization CentralizationMetrics
	PartitionRisk  PartitionRiskMetrics
}

// AnalyzeResilience implements spec.md §4.12. ipToNode resolves a peer
// IP to a node id via the agent registry when possible; nodeIDs is the
// full universe of known node ids (so isolated nodes with zero
// connection events still appear in the graph).
func AnalyzeResilience(nodeData map[string]*logparse.NodeLogData, ipToNode map[string]string, nodeIDs []string) ResilienceReport {
	graph := buildConnectionGraph(nodeData, ipToNode, nodeIDs)

	connectivity := analyzeConnectivity(graph, nodeIDs)
	centralization := analyzeCentralization(nodeData)
	partitionRisk := analyzePartitionRisk(graph)

	return ResilienceReport{
		Connectivity:   connectivity,
		Centralization: centralization,
		PartitionRisk:  partitionRisk,
	}
}

func buildConnectionGraph(nodeData map[string]*logparse.NodeLogData, ipToNode map[string]string, nodeIDs []string) map[string]map[string]bool {
	graph := make(map[string]map[string]bool, len(nodeIDs))
	for _, id := range nodeIDs {
		graph[id] = map[string]bool{}
	}

	for nodeID, nd := range nodeData {
		active := map[string]string{}
		for _, ev := range nd.ConnectionEvents {
			if ev.IsOpen {
				active[ev.ConnectionID] = ev.PeerIP
			} else {
				delete(active, ev.ConnectionID)
			}
		}
		if graph[nodeID] == nil {
			graph[nodeID] = map[string]bool{}
		}
		for _, peerIP := range active {
			if peerID, ok := ipToNode[peerIP]; ok {
				graph[nodeID][peerID] = true
			} else {
				graph[nodeID][peerIP] = true
			}
		}
	}
	return graph
}

func analyzeConnectivity(graph map[string]map[string]bool, nodeIDs []string) ConnectivityMetrics {
	dist := make(map[string]int, len(graph))
	var counts []float64
	var isolated []string
	minCount, maxCount := -1, 0

	for id, peers := range graph {
		n := len(peers)
		dist[id] = n
		counts = append(counts, float64(n))
		if n == 0 {
			isolated = append(isolated, id)
		}
		if minCount < 0 || n < minCount {
			minCount = n
		}
		if n > maxCount {
			maxCount = n
		}
	}
	if minCount < 0 {
		minCount = 0
	}
	sort.Strings(isolated)

	return ConnectivityMetrics{
		TotalNodes:            len(nodeIDs),
		AveragePeerCount:      mean(counts),
		MinPeerCount:          minCount,
		MaxPeerCount:          maxCount,
		IsolatedNodes:         isolated,
		PeerCountDistribution: dist,
	}
}

func analyzeCentralization(nodeData map[string]*logparse.NodeLogData) CentralizationMetrics {
	type firstSeen struct {
		nodeID    string
		timestamp float64
	}
	txFirstSeen := map[string]firstSeen{}
	for nodeID, nd := range nodeData {
		for _, o := range nd.TxObservations {
			existing, ok := txFirstSeen[o.TxHash]
			if !ok || o.Timestamp < existing.timestamp {
				txFirstSeen[o.TxHash] = firstSeen{nodeID: nodeID, timestamp: o.Timestamp}
			}
		}
	}

	counts := map[string]int{}
	for nodeID := range nodeData {
		counts[nodeID] = 0
	}
	for _, fs := range txFirstSeen {
		counts[fs.nodeID]++
	}

	var countValues []float64
	for _, c := range counts {
		countValues = append(countValues, float64(c))
	}
	g := gini(countValues)

	totalTxs := float64(len(txFirstSeen))
	threshold := totalTxs * 0.15
	var dominant []string
	for nodeID, c := range counts {
		if float64(c) > threshold {
			dominant = append(dominant, nodeID)
		}
	}
	sort.Strings(dominant)

	return CentralizationMetrics{FirstSeenGini: g, DominantObservers: dominant}
}

func analyzePartitionRisk(graph map[string]map[string]bool) PartitionRiskMetrics {
	components := connectedComponents(graph)
	bridges := bridgeCandidates(graph)
	return PartitionRiskMetrics{BridgeNodes: bridges, ConnectedComponents: len(components)}
}

func connectedComponents(graph map[string]map[string]bool) [][]string {
	visited := map[string]bool{}
	var components [][]string

	var ids []string
	for id := range graph {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, start := range ids {
		if visited[start] {
			continue
		}
		var component []string
		queue := []string{start}
		for len(queue) > 0 {
			node := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			if visited[node] {
				continue
			}
			visited[node] = true
			component = append(component, node)
			var neighbors []string
			for n := range graph[node] {
				neighbors = append(neighbors, n)
			}
			sort.Strings(neighbors)
			for _, n := range neighbors {
				if !visited[n] {
					if _, ok := graph[n]; ok {
						queue = append(queue, n)
					}
				}
			}
		}
		if len(component) > 0 {
			components = append(components, component)
		}
	}
	return components
}

func bridgeCandidates(graph map[string]map[string]bool) []string {
	type candidate struct {
		nodeID string
		score  int
	}
	var candidates []candidate

	var ids []string
	for id := range graph {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, nodeID := range ids {
		neighbors := graph[nodeID]
		if len(neighbors) < 2 {
			continue
		}
		var neighborList []string
		for n := range neighbors {
			neighborList = append(neighborList, n)
		}
		sort.Strings(neighborList)

		unconnectedPairs := 0
		for i := 0; i < len(neighborList); i++ {
			for j := i + 1; j < len(neighborList); j++ {
				n1, n2 := neighborList[i], neighborList[j]
				if !graph[n1][n2] {
					unconnectedPairs++
				}
			}
		}
		if unconnectedPairs > 0 {
			candidates = append(candidates, candidate{nodeID: nodeID, score: unconnectedPairs})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].nodeID < candidates[j].nodeID
	})
	if len(candidates) > 5 {
		candidates = candidates[:5]
	}

	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.nodeID
	}
	return out
}
