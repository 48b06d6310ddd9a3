package srs

import "math"

const (
	MinimumInterval = 1   // days
	MaximumInterval = 180 // days

	InitialEaseFactor = 2.5
	MinimumEaseFactor = 1.3
	MaximumEaseFactor = 4.0
)

// UpdateEaseFactor applies the SM-2 ease adjustment for quality q and
// clamps the result to [MinimumEaseFactor, MaximumEaseFactor].
func UpdateEaseFactor(ease float64, q int) float64 {
	miss := float64(5 - q)
	next := ease + (0.1 - miss*(0.08+miss*0.02))
	return clampFloat(next, MinimumEaseFactor, MaximumEaseFactor)
}

// NextInterval returns the next spacing in days.
//
// reviewCount is the number of completed reviews before this one and ease
// is the already-updated ease factor. A failed review halves the interval
// instead of resetting it.
func NextInterval(currentInterval, reviewCount, q int, ease, ageMultiplier float64) int {
	var days int
	switch {
	case !passing(q):
		days = max(1, roundDays(float64(currentInterval)*0.5*ageMultiplier))
	case reviewCount == 1:
		days = roundDays(1 * ageMultiplier)
	case reviewCount == 2:
		days = roundDays(6 * ageMultiplier)
	default:
		days = roundDays(float64(currentInterval) * ease * ageMultiplier)
	}
	return clampInt(days, MinimumInterval, MaximumInterval)
}

// roundDays rounds half away from zero and saturates before the int
// conversion so absurd inputs still clamp cleanly.
func roundDays(x float64) int {
	r := math.Round(x)
	if r > MaximumInterval {
		return MaximumInterval
	}
	if r < 0 || math.IsNaN(r) {
		return 0
	}
	return int(r)
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
