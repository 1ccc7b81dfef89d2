package scoring

import (
	"errors"
	"fmt"

	"github.com/kavinrajasekaran/TennisTracker/internal/model"
)

// MaxSets is the longest match (best of five) that can be recorded.
const MaxSets = 5

var (
	ErrNoSets          = errors.New("match has no sets")
	ErrTooManySets     = errors.New("match has more than 5 sets")
	ErrInvalidSet      = errors.New("match contains an invalid set")
	ErrIncompleteMatch = errors.New("no side has won enough sets")
)

// RequiredSetWins returns the set wins needed to take a match of n sets:
// 2 for best of three (n <= 3) and 3 for best of five.
func RequiredSetWins(n int) int {
	if n <= 3 {
		return 2
	}
	return 3
}

// SetWins counts the sets won by each side.
func SetWins(sets []model.GameSet) (team1, team2 int) {
	for _, s := range sets {
		if s.WinnerTeamIndex() == 0 {
			team1++
		} else {
			team2++
		}
	}
	return team1, team2
}

// CheckMatch validates a complete best-of-3/best-of-5 match and returns the
// winning side. Invalid sets are reported as ErrInvalidSet wrapped with the set
// number and the set-level reason.
func CheckMatch(sets []model.GameSet) (int, error) {
	switch {
	case len(sets) == 0:
		return -1, ErrNoSets
	case len(sets) > MaxSets:
		return -1, ErrTooManySets
	}

	for i, s := range sets {
		if err := CheckGameSet(s); err != nil {
			return -1, fmt.Errorf("%w: set %d: %w", ErrInvalidSet, i+1, err)
		}
	}

	team1, team2 := SetWins(sets)
	need := RequiredSetWins(len(sets))
	switch {
	case team1 >= need:
		return 0, nil
	case team2 >= need:
		return 1, nil
	default:
		return -1, ErrIncompleteMatch
	}
}

// ValidateMatch reports whether sets form a legal, complete match.
func ValidateMatch(sets []model.GameSet) bool {
	_, err := CheckMatch(sets)
	return err == nil
}
