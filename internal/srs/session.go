package srs

import (
	"math"

	"github.com/google/uuid"

	"github.com/conorfennell/recall/internal/domain"
)

// Retention strength buckets used to balance a session.
const (
	bucketEasy = iota
	bucketMedium
	bucketHard
	numBuckets
)

const (
	easyAbove   = 0.7
	mediumFloor = 0.4
)

func bucketOf(strength float64) int {
	switch {
	case strength > easyAbove:
		return bucketEasy
	case strength >= mediumFloor:
		return bucketMedium
	default:
		return bucketHard
	}
}

// GenerateReviewSession takes the most urgent due cards that fit
// targetDurationMinutes at the age group's pace, orders them toward the
// group's easy/medium/hard mix and shuffles the result.
//
// An empty pool yields an empty session, not an error.
func (e *Engine) GenerateReviewSession(available []domain.Card, targetDurationMinutes int, age domain.AgeGroup) (domain.ReviewSession, error) {
	if err := checkAgeGroup(age); err != nil {
		return domain.ReviewSession{}, err
	}
	if targetDurationMinutes <= 0 {
		return domain.ReviewSession{}, invalidArgument("target duration %d minutes must be positive", targetDurationMinutes)
	}

	now := e.now()
	session := domain.ReviewSession{
		ID:              uuid.NewString(),
		Cards:           []domain.Card{},
		CreatedAt:       now,
		AgeGroup:        age,
		TargetRetention: targetRetention(age),
	}
	if len(available) == 0 {
		return session, nil
	}

	perMinute := pace(age)
	// Clamp the duration before multiplying so a huge duration cannot overflow.
	maxCards := min(min(targetDurationMinutes, len(available))*perMinute, len(available))

	due, err := e.GetCardsForReview(available, maxCards)
	if err != nil {
		return domain.ReviewSession{}, err
	}
	selected := balance(due, len(due), difficultyMix(age))
	e.rng.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})

	session.Cards = selected
	session.EstimatedDuration = (len(selected) + perMinute - 1) / perMinute

	e.logger.Debug("composed review session",
		"session_id", session.ID,
		"age_group", age.String(),
		"available", len(available),
		"due", len(due),
		"selected", len(selected),
	)
	return session, nil
}

// balance takes up to total cards from the ranked pool, filling each
// difficulty bucket up to its share of total in pool order, then
// backfilling from the remaining pool in pool order.
func balance(pool []domain.Card, total int, mix distribution) []domain.Card {
	selected := make([]domain.Card, 0, total)
	if total == 0 {
		return selected
	}

	var buckets [numBuckets][]int
	for i, c := range pool {
		b := bucketOf(strengthForBalancing(c))
		buckets[b] = append(buckets[b], i)
	}

	used := make([]bool, len(pool))
	for b, share := range mix {
		want := int(math.Round(float64(total) * share))
		for _, i := range buckets[b] {
			if want == 0 || len(selected) == total {
				break
			}
			selected = append(selected, pool[i])
			used[i] = true
			want--
		}
	}

	for i, c := range pool {
		if len(selected) == total {
			break
		}
		if !used[i] {
			selected = append(selected, c)
		}
	}
	return selected
}
