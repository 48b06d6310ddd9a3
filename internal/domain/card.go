package domain

import "time"

// Card is one tracked unit of content for one learner, together with its
// review history. It wraps a content reference; ID identifies the
// scheduling record, ContentID what is being reviewed.
type Card struct {
	ID          string `json:"id" validate:"required"`
	ContentID   string `json:"contentId" validate:"required"`
	ContentType string `json:"contentType"`
	Subject     string `json:"subject"`
	Difficulty  string `json:"difficulty"`

	Interval   int     `json:"interval" validate:"gte=1,lte=180"` // days
	EaseFactor float64 `json:"easeFactor" validate:"gte=1.3,lte=4"`

	ReviewCount  int       `json:"reviewCount" validate:"gte=0"`
	NextReview   time.Time `json:"nextReview"`
	LastReviewed time.Time `json:"lastReviewed"`
	CreatedAt    time.Time `json:"createdAt"`

	SuccessStreak int `json:"successStreak" validate:"gte=0"`
	TotalAttempts int `json:"totalAttempts" validate:"gte=0"`
	TotalCorrect  int `json:"totalCorrect" validate:"gte=0,ltefield=TotalAttempts"`

	RetentionStrength float64 `json:"retentionStrength"`
}

// ReviewResult is the outcome of a single attempt at a card.
type ReviewResult struct {
	Correct        bool  `json:"correct"`
	ResponseTimeMs int64 `json:"responseTime" validate:"gte=0"`
	HintsUsed      int   `json:"hintsUsed" validate:"gte=0"`
}

// ReviewSession is a recommended set of cards for one sitting.
// It is a plan, not a commitment; results are submitted per card.
type ReviewSession struct {
	ID                string    `json:"id"`
	Cards             []Card    `json:"cards"`
	EstimatedDuration int       `json:"estimatedDuration"` // minutes
	CreatedAt         time.Time `json:"createdAt"`
	AgeGroup          AgeGroup  `json:"ageGroup"`
	TargetRetention   float64   `json:"targetRetention"`
}

// PerformanceReport summarizes a card collection.
type PerformanceReport struct {
	Retention          float64        `json:"retention"`
	AverageInterval    float64        `json:"averageInterval"`
	MasteredCards      int            `json:"masteredCards"`
	StrugglingCards    []Card         `json:"strugglingCards"`
	StreakDistribution map[string]int `json:"streakDistribution"`
}
