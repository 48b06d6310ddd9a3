package srs

import (
	"strconv"

	"github.com/conorfennell/recall/internal/domain"
)

const (
	masteredMinInterval = 30
	masteredMinStreak   = 5
	masteredMinStrength = 0.8

	strugglingMaxStreak   = 2 // exclusive
	strugglingMinReviews  = 3
	strugglingMaxStrength = 0.4 // exclusive

	streakBucketCap = 10
)

// AnalyzePerformance aggregates a card collection into a report.
// An empty collection yields zeros and empty, non-nil collections.
func AnalyzePerformance(cards []domain.Card) domain.PerformanceReport {
	report := domain.PerformanceReport{
		StrugglingCards:    []domain.Card{},
		StreakDistribution: map[string]int{},
	}
	if len(cards) == 0 {
		return report
	}

	var attempts, correct, intervalSum int
	for _, c := range cards {
		attempts += c.TotalAttempts
		correct += c.TotalCorrect
		intervalSum += c.Interval

		if c.Interval >= masteredMinInterval && c.SuccessStreak >= masteredMinStreak && c.RetentionStrength >= masteredMinStrength {
			report.MasteredCards++
		}
		if c.SuccessStreak < strugglingMaxStreak && c.ReviewCount >= strugglingMinReviews && c.RetentionStrength < strugglingMaxStrength {
			report.StrugglingCards = append(report.StrugglingCards, c)
		}
		report.StreakDistribution[streakBucket(c.SuccessStreak)]++
	}

	if attempts > 0 {
		report.Retention = float64(correct) / float64(attempts)
	}
	report.AverageInterval = float64(intervalSum) / float64(len(cards))
	return report
}

func streakBucket(streak int) string {
	if streak >= streakBucketCap {
		return strconv.Itoa(streakBucketCap) + "+"
	}
	return strconv.Itoa(max(streak, 0))
}
