package srs

import (
	"time"

	"github.com/conorfennell/recall/internal/domain"
)

const (
	maxStreakBonus     = 0.3
	streakBonusPerHit  = 0.05
	maxRecencyPenalty  = 0.3
	recencyPenaltyDay  = 0.01
	unknownSuccessRate = 0.5
)

// EstimateRetention derives a 0..1 retention strength for the card as of
// now from its success rate, current streak and time since LastReviewed.
// The value is descriptive only; it never influences interval or ease.
func EstimateRetention(card domain.Card, now time.Time) float64 {
	return retentionStrength(card.TotalAttempts, card.TotalCorrect, card.SuccessStreak, daysSince(card.LastReviewed, now))
}

func retentionStrength(attempts, correct, streak int, days float64) float64 {
	rate := unknownSuccessRate
	if attempts > 0 {
		rate = float64(correct) / float64(attempts)
	}
	bonus := min(maxStreakBonus, float64(streak)*streakBonusPerHit)
	penalty := min(maxRecencyPenalty, days*recencyPenaltyDay)
	return clampFloat(rate+bonus-penalty, 0, 1)
}

// daysSince returns fractional days from t to now, zero for an unset t or
// a t in the future.
func daysSince(t, now time.Time) float64 {
	if t.IsZero() || !now.After(t) {
		return 0
	}
	return now.Sub(t).Hours() / 24
}

// strengthForBalancing treats a never-reviewed card with no recorded
// strength as middling.
func strengthForBalancing(c domain.Card) float64 {
	if c.TotalAttempts == 0 && c.RetentionStrength == 0 {
		return unknownSuccessRate
	}
	return c.RetentionStrength
}
