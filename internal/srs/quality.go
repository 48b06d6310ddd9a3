package srs

import "github.com/conorfennell/recall/internal/domain"

// Response time thresholds for correct answers.
const (
	fastResponseMs   = 3000
	steadyResponseMs = 8000
)

// ClassifyQuality maps a review outcome to an SM-2 quality score in [0, 5].
// The score is derived from correctness, latency and hints rather than
// self-assessment.
func ClassifyQuality(r domain.ReviewResult) int {
	var q int
	switch {
	case !r.Correct && r.HintsUsed > 2:
		q = 0
	case !r.Correct:
		q = 1
	case r.ResponseTimeMs < fastResponseMs && r.HintsUsed == 0:
		q = 5
	case r.ResponseTimeMs < steadyResponseMs && r.HintsUsed <= 1:
		q = 4
	case r.HintsUsed <= 2:
		q = 3
	default:
		q = 2
	}
	return clampInt(q, 0, 5)
}

// passing reports whether q counts as a successful recall.
func passing(q int) bool {
	return q >= 3
}
