// Package topology implements the TopologyAllocator: distribution of N
// agents across M simulation-topology nodes under one of three
// strategies, with region-proportional balancing shared by the Global
// and Weighted strategies.
package topology

// RegionWeights holds the six-region integer proportions used to compute
// region boundaries and, for the Weighted strategy, per-region agent
// counts. Default values mirror the original implementation's documented
// defaults.
type RegionWeights struct {
	NorthAmerica int
	Europe       int
	Asia         int
	SouthAmerica int
	Africa       int
	Oceania      int
}

// DefaultRegionWeights returns the default six-region proportions
// (NA/EU/Asia/SA/Africa/Oceania): 17/25/25/17/8/8.
func DefaultRegionWeights() RegionWeights {
	return RegionWeights{
		NorthAmerica: 17,
		Europe:       25,
		Asia:         25,
		SouthAmerica: 17,
		Africa:       8,
		Oceania:      8,
	}
}

func (w RegionWeights) slice() [6]int {
	return [6]int{w.NorthAmerica, w.Europe, w.Asia, w.SouthAmerica, w.Africa, w.Oceania}
}

// Boundary is a half-open node-index range [Start, End) assigned to one
// region.
type Boundary struct {
	Start, End int
}

// RegionBoundaries computes six contiguous node-index boundaries over
// [0, m) using weights as proportions, with a rounding-correction pass
// (add a node to the largest-weight region while the total falls short of
// m, remove from the smallest nonzero region while it overshoots) so the
// boundaries always sum to exactly m. This helper's original Rust body
// (calculate_region_boundaries) was not present in the retrieved
// reference source; it is reconstructed here from the call-site contract
// in spec.md §4.4 and the proportional-rounding idiom observed in the
// Weighted strategy's own agent-count rounding.
func RegionBoundaries(m int, weights RegionWeights) [6]Boundary {
	w := weights.slice()
	total := 0
	for _, v := range w {
		total += v
	}
	sizes := [6]int{}
	if total <= 0 || m <= 0 {
		return [6]Boundary{}
	}
	assigned := 0
	for i, v := range w {
		sizes[i] = v * m / total
		assigned += sizes[i]
	}
	for assigned < m {
		largest := 0
		for i := 1; i < 6; i++ {
			if w[i] > w[largest] {
				largest = i
			}
		}
		sizes[largest]++
		assigned++
	}
	for assigned > m {
		smallest := -1
		for i := 0; i < 6; i++ {
			if sizes[i] > 0 && (smallest == -1 || w[i] < w[smallest]) {
				smallest = i
			}
		}
		if smallest == -1 {
			break
		}
		sizes[smallest]--
		assigned--
	}
	var boundaries [6]Boundary
	start := 0
	for i := 0; i < 6; i++ {
		boundaries[i] = Boundary{Start: start, End: start + sizes[i]}
		start += sizes[i]
	}
	return boundaries
}
