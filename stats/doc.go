// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package stats maintains running population statistics over submitted
scores and converts scores into percentile estimates.

# Aggregate

AggregateStatistics holds count, mean, standard deviation, a histogram by
decade and the last update time. An empty population reports mean 50 and
stddev 20.

# Engine

The Engine keeps the aggregate under a single key of a Store:

	engine := stats.NewEngine(store, stats.WithMaxRetries(10))
	if err := engine.Ingest(ctx, score); err != nil {
		// errors.Is(err, stats.ErrTransientStorage)
	}

Ingest is a read-modify-write applied with CompareAndSwap. Conflicts and
store errors are retried with exponential backoff up to the retry limit,
then reported as ErrTransientStorage.

# Percentiles

	p := agg.Percentile(score) // always in [1,99]

With fewer than 10 samples, or zero spread, the clamped score stands in for
the percentile. Otherwise p = round(50 + 15z).

# Variance

VarianceLegacy is the default and matches aggregates already stored by
earlier deployments. VarianceWelford is the textbook update; do not switch
an existing aggregate between methods.
*/
package stats
