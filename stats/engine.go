// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/danielhkuo/body-perception/models"
)

var (
	ErrTransientStorage = errors.New("statistics storage unavailable")
	ErrScoreOutOfRange  = errors.New("score out of range")

	errConflict = errors.New("aggregate changed concurrently")
)

// DefaultMaxRetries bounds compare-and-swap attempts per operation
const DefaultMaxRetries = 10

// Engine maintains the population aggregate in a Store.
// Every mutation is a compare-and-swap, so concurrent ingests never lose updates.
type Engine struct {
	store      Store
	key        string
	method     VarianceMethod
	maxRetries uint64
	initial    time.Duration
	maxBackoff time.Duration
	now        func() time.Time
}

type Option func(*Engine)

func WithVarianceMethod(m VarianceMethod) Option {
	return func(e *Engine) { e.method = m }
}

func WithMaxRetries(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.maxRetries = uint64(n)
		}
	}
}

// WithBackOff sets the first and largest wait between retries
func WithBackOff(initial, maxInterval time.Duration) Option {
	return func(e *Engine) {
		e.initial = initial
		e.maxBackoff = maxInterval
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithKey overrides the storage key (defaults to models.GlobalStatsKey)
func WithKey(key string) Option {
	return func(e *Engine) { e.key = key }
}

func NewEngine(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:      store,
		key:        models.GlobalStatsKey,
		method:     VarianceLegacy,
		maxRetries: DefaultMaxRetries,
		initial:    5 * time.Millisecond,
		maxBackoff: 250 * time.Millisecond,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Method returns the configured variance method
func (e *Engine) Method() VarianceMethod {
	return e.method
}

// Ingest adds one score to the aggregate as a single atomic update.
// It is not idempotent: ingesting the same score twice counts it twice.
func (e *Engine) Ingest(ctx context.Context, score int) error {
	if score < 0 || score > 100 {
		return fmt.Errorf("%w: %d", ErrScoreOutOfRange, score)
	}

	attempts := 0
	err := e.retry(ctx, func() error {
		attempts++
		agg, version, err := e.read(ctx)
		if err != nil {
			return err
		}

		data, err := json.Marshal(agg.With(score, e.now(), e.method))
		if err != nil {
			return backoff.Permanent(err)
		}

		ok, err := e.store.CompareAndSwap(ctx, e.key, data, version)
		if err != nil {
			return err
		}
		if !ok {
			return errConflict
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("ingest score after %d attempts: %w", attempts, err)
	}

	if attempts > 1 {
		slog.Debug("aggregate updated after retries", "attempts", attempts)
	}
	return nil
}

// Aggregate returns a snapshot of the aggregate, persisting the defaults on first access
func (e *Engine) Aggregate(ctx context.Context) (AggregateStatistics, error) {
	var agg AggregateStatistics
	err := e.retry(ctx, func() error {
		var version int64
		var err error
		agg, version, err = e.read(ctx)
		if err != nil {
			return err
		}
		if version != 0 {
			return nil
		}

		data, err := json.Marshal(agg)
		if err != nil {
			return backoff.Permanent(err)
		}
		ok, err := e.store.CompareAndSwap(ctx, e.key, data, 0)
		if err != nil {
			return err
		}
		if !ok {
			// Initialized by someone else; read theirs
			return errConflict
		}
		return nil
	})
	if err != nil {
		return AggregateStatistics{}, fmt.Errorf("read aggregate: %w", err)
	}
	return agg, nil
}

// PercentileFor places score against the current aggregate. If the
// aggregate cannot be read it returns the clamped raw score with the error.
func (e *Engine) PercentileFor(ctx context.Context, score int) (int, error) {
	agg, err := e.Aggregate(ctx)
	if err != nil {
		return ClampPercentile(score), err
	}
	return agg.Percentile(score), nil
}

// read loads the stored aggregate. A missing record yields the defaults at version 0.
func (e *Engine) read(ctx context.Context) (AggregateStatistics, int64, error) {
	raw, version, err := e.store.Get(ctx, e.key)
	if errors.Is(err, ErrNotFound) {
		return NewAggregate(e.now()), 0, nil
	}
	if err != nil {
		return AggregateStatistics{}, 0, err
	}

	var agg AggregateStatistics
	if err := json.Unmarshal(raw, &agg); err != nil {
		return AggregateStatistics{}, 0, backoff.Permanent(fmt.Errorf("decode aggregate: %w", err))
	}
	if agg.Histogram == nil {
		agg.Histogram = map[string]int{}
	}
	return agg, version, nil
}

func (e *Engine) retry(ctx context.Context, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = e.initial
	b.MaxInterval = e.maxBackoff
	b.MaxElapsedTime = 0 // bounded by retry count instead

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, e.maxRetries), ctx))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransientStorage, err)
	}
	return nil
}
