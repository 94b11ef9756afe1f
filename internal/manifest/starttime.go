package manifest

import "fmt"

type userBucket int

const (
	bucketMiner userBucket = iota
	bucketSeed
	bucketRegular
)

// daemonStartSeconds implements spec.md §4.6's start-time policy table for
// user-agent daemons. idxInBucket is the agent's 0-based position within
// its bucket.
func daemonStartSeconds(isDynamic bool, bucket userBucket, idxInBucket int) int {
	switch bucket {
	case bucketMiner:
		if isDynamic {
			if idxInBucket == 0 {
				return 0
			}
			return 1 + idxInBucket
		}
		return idxInBucket
	case bucketSeed:
		// Dynamic mode never promotes agents into the seed bucket (spec.md
		// §4.6 step 3 restricts promotion to non-Dynamic modes), so the
		// Dynamic column is unreachable in practice; Hardcoded/Hybrid use 3.
		return 3
	default: // bucketRegular
		if isDynamic {
			return 5 + idxInBucket
		}
		return 6 + idxInBucket
	}
}

func walletStartSeconds(daemonStart int) int { return daemonStart + 2 }

func userScriptStartSeconds(walletStart int) int { return walletStart + 3 }

func blockControllerStartSeconds(isDynamic bool) int {
	if isDynamic {
		return 10
	}
	return 15
}

const minerDistributorStartSeconds = 3900

func pureScriptStartSeconds(index int) int { return 5 + 2*index }

const simulationMonitorStartSeconds = 5

func startTimeLiteral(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%ds", seconds)
}
