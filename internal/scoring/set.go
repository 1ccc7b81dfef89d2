// Package scoring decides whether raw tennis scores form legal sets and
// matches, and which side they imply as the winner.
package scoring

import (
	"errors"

	"github.com/kavinrajasekaran/TennisTracker/internal/model"
)

var (
	ErrTiedSet         = errors.New("set games are tied")
	ErrMissingTiebreak = errors.New("a 7-6 set requires tiebreak points for both sides")
	ErrInvalidSetScore = errors.New("not a valid tennis set score")
)

// CheckSet applies the set rules in order and returns the first reason the
// score is not a legal set, or nil. Numeric ranges are not checked here and
// tiebreak values are not compared against the game margin.
func CheckSet(team1Games, team2Games int, team1Tiebreak, team2Tiebreak *int) error {
	hi, lo := max(team1Games, team2Games), min(team1Games, team2Games)

	switch {
	case hi == 6 && lo <= 4:
		return nil
	case hi == 7 && lo == 5:
		return nil
	case hi == 7 && lo == 6:
		if team1Tiebreak == nil || team2Tiebreak == nil {
			return ErrMissingTiebreak
		}
		return nil
	case hi > 7 && hi-lo == 2:
		// advantage sets past 7-6 carry no tiebreak
		return nil
	case hi == lo:
		return ErrTiedSet
	default:
		return ErrInvalidSetScore
	}
}

// ValidateSet reports whether the games (and tiebreak points, if any) form a legal set.
func ValidateSet(team1Games, team2Games int, team1Tiebreak, team2Tiebreak *int) bool {
	return CheckSet(team1Games, team2Games, team1Tiebreak, team2Tiebreak) == nil
}

// CheckGameSet is CheckSet over a set's own recorded fields.
func CheckGameSet(s model.GameSet) error {
	return CheckSet(s.Team1Games, s.Team2Games, s.Team1TiebreakPoints, s.Team2TiebreakPoints)
}
