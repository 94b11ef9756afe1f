package topology

// Strategy selects the distribution policy used to place N agents onto
// M topology nodes.
type Strategy int

const (
	Sequential Strategy = iota
	Global
	Weighted
)

// TopologyAllocator decides, for each agent i in [0,N), which topology
// node index it is placed on.
type TopologyAllocator struct {
	Strategy Strategy
	Weights  RegionWeights
}

// NewTopologyAllocator constructs an allocator for the Global strategy by
// default (matching spec.md's stated default).
func NewTopologyAllocator() *TopologyAllocator {
	return &TopologyAllocator{Strategy: Global, Weights: DefaultRegionWeights()}
}

// Distribute returns a slice of length n, each element in [0, m), placing
// agent i on the node it should run on.
func (a *TopologyAllocator) Distribute(n, m int) []int {
	switch a.Strategy {
	case Sequential:
		return distributeSequential(n, m)
	case Weighted:
		return distributeWeighted(n, m, a.Weights)
	default:
		return distributeGlobal(n, m)
	}
}

func distributeSequential(n, m int) []int {
	out := make([]int, n)
	if m <= 0 {
		return out
	}
	for i := 0; i < n; i++ {
		out[i] = i % m
	}
	return out
}

func distributeGlobal(n, m int) []int {
	out := make([]int, n)
	if m <= 0 {
		return out
	}
	boundaries := RegionBoundaries(m, DefaultRegionWeights())
	var counters [6]int
	for i := 0; i < n; i++ {
		region := i % 6
		b := boundaries[region]
		size := b.End - b.Start
		if size <= 0 {
			out[i] = 0
			continue
		}
		offset := counters[region] % size
		out[i] = b.Start + offset
		counters[region]++
	}
	return out
}

func distributeWeighted(n, m int, weights RegionWeights) []int {
	out := make([]int, n)
	if m <= 0 {
		return out
	}
	boundaries := RegionBoundaries(m, weights)
	w := weights.slice()
	total := 0
	for _, v := range w {
		total += v
	}
	counts := [6]int{}
	assigned := 0
	if total > 0 {
		for i, v := range w {
			counts[i] = v * n / total
			assigned += counts[i]
		}
	}
	for assigned < n {
		largest := 0
		for i := 1; i < 6; i++ {
			if w[i] > w[largest] {
				largest = i
			}
		}
		counts[largest]++
		assigned++
	}
	for assigned > n {
		smallest := -1
		for i := 0; i < 6; i++ {
			if counts[i] > 0 && (smallest == -1 || w[i] < w[smallest]) {
				smallest = i
			}
		}
		if smallest == -1 {
			break
		}
		counts[smallest]--
		assigned--
	}

	var counters [6]int
	idx := 0
	for region := 0; region < 6; region++ {
		b := boundaries[region]
		size := b.End - b.Start
		for j := 0; j < counts[region]; j++ {
			if size <= 0 {
				out[idx] = 0
			} else {
				offset := counters[region] % size
				out[idx] = b.Start + offset
				counters[region]++
			}
			idx++
		}
	}
	return out
}

// DistributeSwitch returns a slice of length n of nil node assignments,
// meaning "network-node-0 by fallback": used for switch-style (non-GML)
// topologies where no per-node distribution is applicable.
func DistributeSwitch(n int) []*int {
	return make([]*int, n)
}
