package domain

import (
	"errors"
	"fmt"
)

// AgeGroup is the learner's age band. The zero value is not a valid group.
type AgeGroup int

const (
	AgeGroup3to5 AgeGroup = iota + 1
	AgeGroup6to8
	AgeGroup9Plus
)

// ErrUnknownAgeGroup is returned when parsing an unrecognized age group.
var ErrUnknownAgeGroup = errors.New("unknown age group")

// AgeGroups lists every valid age group in ascending order.
var AgeGroups = []AgeGroup{AgeGroup3to5, AgeGroup6to8, AgeGroup9Plus}

// ParseAgeGroup converts "3-5", "6-8" or "9+" into an AgeGroup.
func ParseAgeGroup(s string) (AgeGroup, error) {
	switch s {
	case "3-5":
		return AgeGroup3to5, nil
	case "6-8":
		return AgeGroup6to8, nil
	case "9+":
		return AgeGroup9Plus, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAgeGroup, s)
}

// Valid reports whether g is one of the defined age groups.
func (g AgeGroup) Valid() bool {
	return g >= AgeGroup3to5 && g <= AgeGroup9Plus
}

func (g AgeGroup) String() string {
	switch g {
	case AgeGroup3to5:
		return "3-5"
	case AgeGroup6to8:
		return "6-8"
	case AgeGroup9Plus:
		return "9+"
	}
	return fmt.Sprintf("AgeGroup(%d)", int(g))
}

// MarshalText implements encoding.TextMarshaler.
func (g AgeGroup) MarshalText() ([]byte, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAgeGroup, int(g))
	}
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *AgeGroup) UnmarshalText(text []byte) error {
	parsed, err := ParseAgeGroup(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
