// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package fallback estimates a percentile without the statistics service.
//
// The estimate compares the number of fat judgments with the count an
// average respondent is assumed to give (7 of 12). It never fails.
package fallback

import (
	"math"

	"github.com/danielhkuo/body-perception/category"
	"github.com/danielhkuo/body-perception/scoring"
)

// Estimator holds the reference point and output bounds
type Estimator struct {
	Reference int // fat judgments given by an assumed average respondent
	Total     int // images per session
	Min, Max  float64
	Table     category.Table
}

// Result is an offline estimate
type Result struct {
	Score      int
	Percentile int
	Category   string
}

// Default is the current client estimator
func Default() Estimator {
	return Estimator{
		Reference: 7,
		Total:     scoring.DefaultImageCount,
		Min:       1,
		Max:       99,
		Table:     category.Fallback,
	}
}

// Legacy is the first client release, which bounded estimates to [10,90]
func Legacy() Estimator {
	e := Default()
	e.Min, e.Max = 10, 90
	return e
}

// Percentile returns the unrounded estimate for a fat count
func (e Estimator) Percentile(fatCount int) float64 {
	ref := float64(e.Reference)
	fat := float64(fatCount)

	switch {
	case fatCount < e.Reference && e.Reference > 0:
		return math.Max(e.Min, 50-((ref-fat)/ref)*40)
	case fatCount > e.Reference && e.Total > 0:
		return math.Min(e.Max, 50+((fat-ref)/float64(e.Total))*40)
	}
	return 50
}

// Estimate scores a complete response set offline. The score covers
// len(responses) images; the percentile reference assumes e.Total.
func (e Estimator) Estimate(responses []scoring.Response) Result {
	raw := e.Percentile(scoring.FatCount(responses))

	// Labels come from the unrounded estimate
	return Result{
		Score:      scoring.Unweighted{}.Score(responses, len(responses)),
		Percentile: clamp(int(math.Round(raw)), 1, 99),
		Category:   e.Table.Label(raw),
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
