package srs

import "github.com/conorfennell/recall/internal/domain"

// Per-age tuning tables. All lookups assume a valid age group; callers
// check domain.AgeGroup.Valid first.

func ageMultiplier(g domain.AgeGroup) float64 {
	switch g {
	case domain.AgeGroup3to5:
		return 0.7
	case domain.AgeGroup6to8:
		return 0.85
	default:
		return 1.0
	}
}

// pace is the number of cards a learner of the group gets through per minute.
func pace(g domain.AgeGroup) int {
	switch g {
	case domain.AgeGroup3to5:
		return 2
	case domain.AgeGroup6to8:
		return 3
	default:
		return 4
	}
}

func targetRetention(g domain.AgeGroup) float64 {
	switch g {
	case domain.AgeGroup3to5:
		return 0.75
	case domain.AgeGroup6to8:
		return 0.80
	default:
		return 0.85
	}
}

// distribution is the easy/medium/hard share of a session.
type distribution [numBuckets]float64

func difficultyMix(g domain.AgeGroup) distribution {
	switch g {
	case domain.AgeGroup3to5:
		return distribution{0.6, 0.3, 0.1}
	case domain.AgeGroup6to8:
		return distribution{0.5, 0.4, 0.1}
	default:
		return distribution{0.4, 0.4, 0.2}
	}
}

func checkAgeGroup(g domain.AgeGroup) error {
	if !g.Valid() {
		return invalidArgument("unknown age group %d", int(g))
	}
	return nil
}
