// Package analysis implements the five post-hoc analyzers and the
// shared statistical primitives they build on: PropagationAnalyzer,
// SpyAnalyzer, DandelionAnalyzer, ResilienceAnalyzer, and
// WindowedComparator.
package analysis

import (
	"math"
	"sort"
)

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func variance(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var sq float64
	for _, x := range xs {
		d := x - m
		sq += d * d
	}
	return sq / float64(len(xs)-1)
}

func stddev(xs []float64) float64 {
	return math.Sqrt(variance(xs))
}

// coefficientOfVariation is the supplemented dispersion metric of
// SPEC_FULL.md §5: stddev / mean, undefined (reported as 0) when the
// mean is zero.
func coefficientOfVariation(xs []float64) float64 {
	m := mean(xs)
	if m == 0 {
		return 0
	}
	return stddev(xs) / m
}

func median(xs []float64) float64 {
	return percentile(xs, 50)
}

// percentile uses linear interpolation between closest ranks, the same
// convention the propagation-delay percentile tables (p50/p95/p99) use.
func percentile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := (p / 100) * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// gini computes the Gini coefficient of a non-negative distribution
// (here: per-node first-seen transaction counts), 0 = perfect
// equality, 1 = maximal concentration.
func gini(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	var sumOfAbsDiffs, sum float64
	for i, xi := range sorted {
		sum += xi
		sumOfAbsDiffs += float64(2*(i+1)-n-1) * xi
	}
	if sum == 0 {
		return 0
	}
	return sumOfAbsDiffs / (float64(n) * sum)
}

// standardNormalCDF approximates Φ(x) via the Abramowitz & Stegun 7.1.26
// rational approximation, matching the constants the propagation
// significance tests use for computing two-sided p-values from the
// Welch t-statistic.
func standardNormalCDF(x float64) float64 {
	const (
		a1 = 0.254829592
		a2 = -0.284496736
		a3 = 1.421413741
		a4 = -1.453152027
		a5 = 1.061405429
		p  = 0.3275911
	)
	sign := 1.0
	if x < 0 {
		sign = -1.0
		x = -x
	}
	z := x / math.Sqrt2
	t := 1.0 / (1.0 + p*z)
	poly := ((((a5*t+a4)*t+a3)*t+a2)*t + a1) * t
	erf := 1.0 - poly*math.Exp(-z*z)
	return 0.5 * (1.0 + sign*erf)
}

// welchTTestResult reports the outcome of a Welch's t-test comparing
// two independent samples of unequal variance.
type welchTTestResult struct {
	TStatistic float64
	DegreesOfFreedom float64
	PValue     float64
	Significant bool
}

// welchTTest compares samples a and b at the given significance level
// (e.g. 0.05), using the Welch-Satterthwaite approximation for degrees
// of freedom and the standard-normal approximation for the two-sided
// p-value.
func welchTTest(a, b []float64, alpha float64) welchTTestResult {
	na, nb := float64(len(a)), float64(len(b))
	if na < 2 || nb < 2 {
		return welchTTestResult{}
	}
	ma, mb := mean(a), mean(b)
	va, vb := variance(a), variance(b)

	seA := va / na
	seB := vb / nb
	se := math.Sqrt(seA + seB)
	if se == 0 {
		return welchTTestResult{}
	}
	t := (ma - mb) / se

	numerator := (seA + seB) * (seA + seB)
	denominator := (seA*seA)/(na-1) + (seB*seB)/(nb-1)
	df := numerator
	if denominator != 0 {
		df = numerator / denominator
	}

	// df > 30 uses the normal approximation directly; below that the
	// true t-distribution has fatter tails than the normal, so a
	// conservative 0.9 shrinkage on |t| is applied before the same
	// normal-CDF lookup, matching the original analyzer's approximation.
	var p float64
	if df > 30 {
		p = 2 * (1 - standardNormalCDF(math.Abs(t)))
	} else {
		p = 2 * (1 - standardNormalCDF(math.Abs(t)*0.9))
	}
	return welchTTestResult{
		TStatistic:       t,
		DegreesOfFreedom: df,
		PValue:           p,
		Significant:      p < alpha,
	}
}
