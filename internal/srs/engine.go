// Package srs implements the spaced-repetition scheduling engine: an SM-2
// derivative with age-dependent tuning, due-set ranking, session
// composition and performance reporting.
//
// The engine is a calculator. It never mutates the cards it is given and
// never persists anything; callers store the returned values and must keep
// at most one in-flight update per card.
package srs

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/conorfennell/recall/internal/domain"
)

// Engine schedules reviews and composes sessions.
//
// The only state it carries is the random source used to shuffle sessions,
// which is not safe for concurrent use. Give each goroutine its own Engine
// or serialize calls to GenerateReviewSession.
type Engine struct {
	now      func() time.Time
	rng      *rand.Rand
	validate *validator.Validate
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the function used as "now" for stamping and due checks.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRand sets the random source used to shuffle sessions.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithSeed seeds the session shuffle for reproducible sessions.
func WithSeed(seed uint64) Option {
	return func(e *Engine) { e.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// WithLogger sets the logger. The engine only logs at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an Engine. Without options it uses time.Now and a
// clock-seeded random source.
func New(opts ...Option) *Engine {
	e := &Engine{
		now:      time.Now,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		seed := uint64(e.now().UnixNano())
		e.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return e
}

// ScheduleNewCard creates the scheduling record for content the learner has
// just been introduced to. It is the only way to fabricate a card.
func (e *Engine) ScheduleNewCard(contentID, contentType, subject, difficulty string, age domain.AgeGroup) (domain.Card, error) {
	if err := checkAgeGroup(age); err != nil {
		return domain.Card{}, err
	}
	if contentID == "" {
		return domain.Card{}, invalidArgument("content id is required")
	}

	now := e.now()
	interval := clampInt(roundDays(1*ageMultiplier(age)), MinimumInterval, MaximumInterval)
	return domain.Card{
		ID:                uuid.NewString(),
		ContentID:         contentID,
		ContentType:       contentType,
		Subject:           subject,
		Difficulty:        difficulty,
		Interval:          interval,
		EaseFactor:        InitialEaseFactor,
		NextReview:        now.Add(days(interval)),
		LastReviewed:      now,
		CreatedAt:         now,
		RetentionStrength: unknownSuccessRate,
	}, nil
}

// CalculateNextReview applies one review result to the card and returns the
// updated copy. The argument is left untouched.
func (e *Engine) CalculateNextReview(card domain.Card, result domain.ReviewResult, age domain.AgeGroup) (domain.Card, error) {
	if err := checkAgeGroup(age); err != nil {
		return domain.Card{}, err
	}
	if err := e.validate.Struct(result); err != nil {
		return domain.Card{}, invalidArgument("review result: %v", err)
	}
	if err := e.validate.Struct(card); err != nil {
		return domain.Card{}, invalidArgument("card %s: %v", card.ID, err)
	}

	now := e.now()
	q := ClassifyQuality(result)

	next := card
	next.EaseFactor = UpdateEaseFactor(card.EaseFactor, q)
	// Interval uses the review count before this review.
	next.Interval = NextInterval(card.Interval, card.ReviewCount, q, next.EaseFactor, ageMultiplier(age))

	next.ReviewCount++
	next.TotalAttempts++
	if result.Correct {
		next.TotalCorrect++
	}
	if passing(q) {
		next.SuccessStreak++
	} else {
		next.SuccessStreak = 0
	}

	// Staleness is measured against the previous review, before it is overwritten.
	next.RetentionStrength = retentionStrength(next.TotalAttempts, next.TotalCorrect, next.SuccessStreak, daysSince(card.LastReviewed, now))
	next.LastReviewed = now
	next.NextReview = now.Add(days(next.Interval))
	return next, nil
}

func days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}
