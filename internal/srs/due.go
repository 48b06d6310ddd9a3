package srs

import (
	"slices"
	"time"

	"github.com/conorfennell/recall/internal/domain"
)

// GetCardsForReview returns at most maxCards cards whose NextReview has
// passed, most overdue first. Equally overdue cards are ordered by weaker
// retention first, then by their position in cards.
func (e *Engine) GetCardsForReview(cards []domain.Card, maxCards int) ([]domain.Card, error) {
	if maxCards < 0 {
		return nil, invalidArgument("max cards %d is negative", maxCards)
	}
	due := rankDue(cards, e.now())
	if len(due) > maxCards {
		due = due[:maxCards]
	}
	return due, nil
}

// rankDue filters cards to those due at now and sorts them by priority.
// The result never aliases cards.
func rankDue(cards []domain.Card, now time.Time) []domain.Card {
	due := make([]domain.Card, 0, len(cards))
	for _, c := range cards {
		if !c.NextReview.After(now) {
			due = append(due, c)
		}
	}
	slices.SortStableFunc(due, func(a, b domain.Card) int {
		// Larger overdue-ness first means earlier NextReview first.
		if c := a.NextReview.Compare(b.NextReview); c != 0 {
			return c
		}
		switch {
		case a.RetentionStrength < b.RetentionStrength:
			return -1
		case a.RetentionStrength > b.RetentionStrength:
			return 1
		}
		return 0
	})
	return due
}
