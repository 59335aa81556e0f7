// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stats

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Defaults reported before any score has been ingested
const (
	DefaultMean   = 50.0
	DefaultStdDev = 20.0

	// MinSamples is the count below which percentiles fall back to the raw score
	MinSamples = 10
)

// VarianceMethod selects the standard deviation recurrence used by Ingest
type VarianceMethod string

const (
	// VarianceLegacy reproduces the recurrence already applied to stored
	// aggregates: var' = ((n'-1)*sd^2 + (x-mean')^2) / n', skipped for the
	// first sample. It is an approximation, not Welford's variance.
	VarianceLegacy VarianceMethod = "legacy"

	// VarianceWelford is the textbook population variance update
	VarianceWelford VarianceMethod = "welford"
)

// ParseVarianceMethod resolves a configured method name
func ParseVarianceMethod(name string) (VarianceMethod, error) {
	switch VarianceMethod(name) {
	case VarianceLegacy, VarianceWelford:
		return VarianceMethod(name), nil
	}
	return "", fmt.Errorf("unknown variance method %q", name)
}

// AggregateStatistics is the population summary over every ingested score.
// JSON field names match records already written by the deployed worker.
type AggregateStatistics struct {
	Count       int            `json:"totalSubmissions"`
	Mean        float64        `json:"averageScore"`
	StdDev      float64        `json:"scoreStdDev"`
	Histogram   map[string]int `json:"scoreDistribution"`
	LastUpdated time.Time      `json:"lastUpdated"`
}

// NewAggregate returns the defaults for an empty population
func NewAggregate(now time.Time) AggregateStatistics {
	return AggregateStatistics{
		Mean:        DefaultMean,
		StdDev:      DefaultStdDev,
		Histogram:   map[string]int{},
		LastUpdated: now.UTC(),
	}
}

// BucketKey returns the histogram key for a score: floor(score/10)*10
func BucketKey(score int) string {
	return strconv.Itoa((score / 10) * 10)
}

// With returns the aggregate after ingesting score. The receiver is not modified.
func (a AggregateStatistics) With(score int, now time.Time, method VarianceMethod) AggregateStatistics {
	prev := a.Count
	next := a
	x := float64(score)

	next.Count = prev + 1
	next.Mean = a.Mean + (x-a.Mean)/float64(next.Count)

	switch method {
	case VarianceWelford:
		// M2 is recovered from the stored population stddev; the default
		// stddev carries no samples.
		m2 := 0.0
		if prev > 0 {
			m2 = a.StdDev * a.StdDev * float64(prev)
		}
		m2 += (x - a.Mean) * (x - next.Mean)
		next.StdDev = math.Sqrt(math.Max(m2, 0) / float64(next.Count))
	default:
		if prev >= 1 {
			variance := (float64(next.Count-1)*a.StdDev*a.StdDev + (x-next.Mean)*(x-next.Mean)) / float64(next.Count)
			next.StdDev = math.Sqrt(variance)
		}
	}

	next.Histogram = make(map[string]int, len(a.Histogram)+1)
	for k, v := range a.Histogram {
		next.Histogram[k] = v
	}
	next.Histogram[BucketKey(score)]++
	next.LastUpdated = now.UTC()

	return next
}

// Percentile places score within the aggregate using a linear z-score
// scaling (50 + 15z). This is an approximation, not an inverse normal CDF.
// The result is always in [1,99].
func (a AggregateStatistics) Percentile(score int) int {
	if a.Count < MinSamples || a.StdDev == 0 {
		return ClampPercentile(score)
	}

	z := (float64(score) - a.Mean) / a.StdDev
	p := math.Round(50 + z*15)
	if math.IsNaN(p) {
		return ClampPercentile(score)
	}
	return int(math.Max(1, math.Min(99, p)))
}

// ClampPercentile bounds a raw score to [1,99]; never 0 or 100
func ClampPercentile(score int) int {
	return max(1, min(99, score))
}
