// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scoring

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/danielhkuo/body-perception/models"
)

// DefaultImageCount is the number of images in a standard session
const DefaultImageCount = 12

var (
	ErrInvalidInput  = errors.New("invalid response set")
	ErrSessionSealed = errors.New("session is complete")
)

// Response is one recorded judgment
type Response struct {
	ImageNumber int
	IsFat       bool
	Elapsed     time.Duration // since session start
	Position    int           // 1-indexed
}

// NewOrder returns a uniformly random permutation of 1..n (Fisher-Yates)
func NewOrder(n int, rng *rand.Rand) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i + 1
	}
	for i := n - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		order[i], order[j] = order[j], order[i]
	}
	return order
}

// Session collects judgments for one participant
type Session struct {
	order     []int
	responses []Response
	startedAt time.Time
	endedAt   time.Time
}

// NewSession starts a session over n images in random order
func NewSession(n int, rng *rand.Rand, startedAt time.Time) *Session {
	return &Session{
		order:     NewOrder(n, rng),
		responses: make([]Response, 0, n),
		startedAt: startedAt,
	}
}

// Current returns the image to show next, or 0 once the session is complete
func (s *Session) Current() int {
	if s.Complete() {
		return 0
	}
	return s.order[len(s.responses)]
}

// Record appends the judgment for the current image
func (s *Session) Record(isFat bool, at time.Time) error {
	if s.Complete() {
		return ErrSessionSealed
	}

	elapsed := at.Sub(s.startedAt)
	if elapsed < 0 {
		elapsed = 0
	}

	s.responses = append(s.responses, Response{
		ImageNumber: s.order[len(s.responses)],
		IsFat:       isFat,
		Elapsed:     elapsed,
		Position:    len(s.responses) + 1,
	})

	if s.Complete() {
		s.endedAt = at
	}
	return nil
}

// Complete reports whether every image has been judged
func (s *Session) Complete() bool {
	return len(s.responses) == len(s.order)
}

// Size returns N
func (s *Session) Size() int {
	return len(s.order)
}

// Order returns a copy of the presentation order
func (s *Session) Order() []int {
	return append([]int(nil), s.order...)
}

// Responses returns a copy of the recorded responses
func (s *Session) Responses() []Response {
	return append([]Response(nil), s.responses...)
}

// Duration is the time between start and the final judgment
func (s *Session) Duration() time.Duration {
	if !s.Complete() {
		return 0
	}
	return s.endedAt.Sub(s.startedAt)
}

// Request builds the wire record for a completed session
func (s *Session) Request(now time.Time) (models.SubmitRequest, error) {
	if !s.Complete() {
		return models.SubmitRequest{}, fmt.Errorf("%w: %d of %d responses recorded", ErrInvalidInput, len(s.responses), len(s.order))
	}

	records := make([]models.ResponseRecord, len(s.responses))
	for i, r := range s.responses {
		records[i] = models.ResponseRecord{
			ImageNumber:  r.ImageNumber,
			IsFat:        r.IsFat,
			ResponseTime: r.Elapsed.Milliseconds(),
			Position:     r.Position,
		}
	}

	return models.SubmitRequest{
		Responses:  records,
		ImageOrder: s.Order(),
		TotalTime:  s.Duration().Milliseconds(),
		Timestamp:  now.UTC().Format(time.RFC3339),
	}, nil
}
