// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package client submits completed sessions to the assessment API.

	c := client.New("https://perception.example.org")
	out := c.Assess(ctx, session)
	if out.UsedFallback {
		// shown with a "local estimate" note
	}

Submit returns errors wrapping ErrEngineUnreachable for transport failures,
non-2xx replies and undecodable bodies. Assess never fails: on any Submit
error it returns the fallback.Estimator result with UsedFallback set.
*/
package client
