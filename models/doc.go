// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the wire records exchanged with clients and the
stored form of accepted submissions.

Field names follow the JSON already spoken by deployed web clients
(camelCase), so existing clients keep working unchanged.

# Request Types

  - ResponseRecord: imageNumber, isFat, responseTime (ms), position
  - SubmitRequest: responses, imageOrder, totalTime (ms), timestamp

# Response Types

  - SubmitResponse: success, sessionId, score, percentile, category, timestamp
  - SessionStatsResponse: sessionId, score, percentile, timestamp
  - ErrorResponse: error, message

# Domain Types

  - SubmissionRecord: persisted submission, including hashed client IP

# Constants

Score strategies:

	StrategyWeighted   = "weighted"
	StrategyUnweighted = "unweighted"

Aggregate storage key:

	GlobalStatsKey = "global:stats"
*/
package models
