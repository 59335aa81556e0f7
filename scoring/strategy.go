// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scoring

import (
	"fmt"
	"math"

	"github.com/danielhkuo/body-perception/models"
)

// Strategy maps a complete response set of size n to a score in [0,100]
type Strategy interface {
	Name() string
	Score(responses []Response, n int) int
}

// Unweighted scores the share of fat judgments
type Unweighted struct{}

func (Unweighted) Name() string { return models.StrategyUnweighted }

func (Unweighted) Score(responses []Response, n int) int {
	if n <= 0 {
		return 0
	}
	return clampScore(math.Round(100 * float64(FatCount(responses)) / float64(n)))
}

// Weighted counts fat judgments on the lower half of the image range
// (1..floor(n/2)) twice.
type Weighted struct{}

func (Weighted) Name() string { return models.StrategyWeighted }

func (Weighted) Score(responses []Response, n int) int {
	maxSum := MaxWeightedSum(n)
	if maxSum == 0 {
		return 0
	}

	lower := n / 2
	sum := 0
	for _, r := range responses {
		if !r.IsFat {
			continue
		}
		if r.ImageNumber <= lower {
			sum += 2
		} else {
			sum++
		}
	}

	return clampScore(math.Round(100 * float64(sum) / float64(maxSum)))
}

// MaxWeightedSum is the weighted sum when every image is judged fat
func MaxWeightedSum(n int) int {
	if n <= 0 {
		return 0
	}
	lower := n / 2
	return 2*lower + (n - lower)
}

// FatCount returns the number of fat judgments
func FatCount(responses []Response) int {
	count := 0
	for _, r := range responses {
		if r.IsFat {
			count++
		}
	}
	return count
}

// StrategyByName resolves a configured strategy name
func StrategyByName(name string) (Strategy, error) {
	switch name {
	case models.StrategyWeighted:
		return Weighted{}, nil
	case models.StrategyUnweighted:
		return Unweighted{}, nil
	}
	return nil, fmt.Errorf("unknown score strategy %q", name)
}

func clampScore(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}
