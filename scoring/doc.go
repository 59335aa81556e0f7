// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package scoring turns a completed assessment session into a bounded score.

# Sessions

A Session shows every image exactly once, in a random presentation order:

	s := scoring.NewSession(12, rand.New(rand.NewPCG(seed, seed)), time.Now())
	for !s.Complete() {
		err := s.Record(judgment, time.Now())
	}

Record appends the judgment for the next image in the order. Once the last
image has been judged the session is sealed and further calls return
ErrSessionSealed.

# Submissions

Submissions arriving over the wire are validated before they touch any
state:

	sub, err := scoring.ParseSubmission(12, req)
	if errors.Is(err, scoring.ErrInvalidInput) {
		// 400
	}

# Strategies

Two strategies are supported and selected by name:

  - unweighted: round(100 × fat / N)
  - weighted: fat judgments on the lower half of the image range weigh 2,
    the upper half 1, normalized by the maximum possible weighted sum

For odd N the lower half is floor(N/2) images.
*/
package scoring
