// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scoring

import (
	"fmt"
	"time"

	"github.com/danielhkuo/body-perception/models"
)

// Submission is a validated, complete response set
type Submission struct {
	Responses []Response
	Order     []int
	TotalTime time.Duration
}

// FatCount returns the number of fat judgments
func (s Submission) FatCount() int {
	return FatCount(s.Responses)
}

// ParseSubmission validates a wire record against a session size of n.
// All failures wrap ErrInvalidInput.
func ParseSubmission(n int, req models.SubmitRequest) (Submission, error) {
	if len(req.Responses) != n {
		return Submission{}, fmt.Errorf("%w: expected %d responses, got %d", ErrInvalidInput, n, len(req.Responses))
	}
	if req.TotalTime < 0 {
		return Submission{}, fmt.Errorf("%w: totalTime must not be negative", ErrInvalidInput)
	}

	if len(req.ImageOrder) > 0 {
		if err := checkPermutation(n, req.ImageOrder); err != nil {
			return Submission{}, err
		}
	}

	seen := make([]bool, n+1)
	responses := make([]Response, n)
	for i, rec := range req.Responses {
		if rec.ImageNumber < 1 || rec.ImageNumber > n {
			return Submission{}, fmt.Errorf("%w: response %d: imageNumber %d out of range 1..%d", ErrInvalidInput, i+1, rec.ImageNumber, n)
		}
		if seen[rec.ImageNumber] {
			return Submission{}, fmt.Errorf("%w: response %d: image %d judged twice", ErrInvalidInput, i+1, rec.ImageNumber)
		}
		seen[rec.ImageNumber] = true

		if rec.Position != i+1 {
			return Submission{}, fmt.Errorf("%w: response %d: position %d out of order", ErrInvalidInput, i+1, rec.Position)
		}
		if rec.ResponseTime < 0 {
			return Submission{}, fmt.Errorf("%w: response %d: negative responseTime", ErrInvalidInput, i+1)
		}
		if len(req.ImageOrder) > 0 && req.ImageOrder[i] != rec.ImageNumber {
			return Submission{}, fmt.Errorf("%w: response %d: image %d does not match presentation order", ErrInvalidInput, i+1, rec.ImageNumber)
		}

		responses[i] = Response{
			ImageNumber: rec.ImageNumber,
			IsFat:       rec.IsFat,
			Elapsed:     time.Duration(rec.ResponseTime) * time.Millisecond,
			Position:    rec.Position,
		}
	}

	return Submission{
		Responses: responses,
		Order:     append([]int(nil), req.ImageOrder...),
		TotalTime: time.Duration(req.TotalTime) * time.Millisecond,
	}, nil
}

func checkPermutation(n int, order []int) error {
	if len(order) != n {
		return fmt.Errorf("%w: imageOrder has %d entries, expected %d", ErrInvalidInput, len(order), n)
	}
	seen := make([]bool, n+1)
	for _, id := range order {
		if id < 1 || id > n || seen[id] {
			return fmt.Errorf("%w: imageOrder is not a permutation of 1..%d", ErrInvalidInput, n)
		}
		seen[id] = true
	}
	return nil
}
