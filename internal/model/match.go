package model

import (
	"fmt"
	"strings"
	"time"
)

// MatchType distinguishes singles from doubles.
type MatchType string

const (
	MatchTypeSingles MatchType = "singles"
	MatchTypeDoubles MatchType = "doubles"
)

// PlayersPerTeam returns how many players each side fields, or 0 for an unknown type.
func (t MatchType) PlayersPerTeam() int {
	switch t {
	case MatchTypeSingles:
		return 1
	case MatchTypeDoubles:
		return 2
	default:
		return 0
	}
}

func (t MatchType) Valid() bool { return t.PlayersPerTeam() > 0 }

// CourtSurface is the optional playing surface of a match.
type CourtSurface string

const (
	SurfaceHard   CourtSurface = "hard"
	SurfaceClay   CourtSurface = "clay"
	SurfaceGrass  CourtSurface = "grass"
	SurfaceIndoor CourtSurface = "indoor"
	SurfaceCarpet CourtSurface = "carpet"
)

func (s CourtSurface) Valid() bool {
	switch s {
	case SurfaceHard, SurfaceClay, SurfaceGrass, SurfaceIndoor, SurfaceCarpet:
		return true
	default:
		return false
	}
}

// GameSet is one set's raw result. Tiebreak points are present only when the
// set was decided by a tiebreak.
type GameSet struct {
	ID                  string `json:"id"`
	Team1Games          int    `json:"team1_games"`
	Team2Games          int    `json:"team2_games"`
	Team1TiebreakPoints *int   `json:"team1_tiebreak_points,omitempty"`
	Team2TiebreakPoints *int   `json:"team2_tiebreak_points,omitempty"`
}

// IsTiebreak reports whether both tiebreak point values were recorded.
func (s GameSet) IsTiebreak() bool {
	return s.Team1TiebreakPoints != nil && s.Team2TiebreakPoints != nil
}

// WinnerTeamIndex resolves the side that won the set (0 or 1).
// Games decide first; tied games fall back to tiebreak points, and a tied set
// without tiebreak points resolves to 0.
func (s GameSet) WinnerTeamIndex() int {
	switch {
	case s.Team1Games > s.Team2Games:
		return 0
	case s.Team2Games > s.Team1Games:
		return 1
	case s.IsTiebreak():
		if *s.Team1TiebreakPoints > *s.Team2TiebreakPoints {
			return 0
		}
		return 1
	default:
		return 0
	}
}

// GamesFor returns the games won and lost from the given side's point of view.
func (s GameSet) GamesFor(teamIndex int) (won, lost int) {
	if teamIndex == 0 {
		return s.Team1Games, s.Team2Games
	}
	return s.Team2Games, s.Team1Games
}

// String renders the set as "6-4" or "7-6 (7-3)".
func (s GameSet) String() string {
	out := fmt.Sprintf("%d-%d", s.Team1Games, s.Team2Games)
	if s.IsTiebreak() {
		out += fmt.Sprintf(" (%d-%d)", *s.Team1TiebreakPoints, *s.Team2TiebreakPoints)
	}
	return out
}

// Team is one side of a match. Member order affects display only.
type Team struct {
	ID      string   `json:"id"`
	Players []Player `json:"players"`
}

// DisplayName joins member names with " / ".
func (t Team) DisplayName() string {
	names := make([]string, 0, len(t.Players))
	for _, p := range t.Players {
		names = append(names, p.Name)
	}
	return strings.Join(names, " / ")
}

// Match is immutable once saved. Teams hold point-in-time player snapshots, not
// live references; only duplicate consolidation rewrites them.
type Match struct {
	ID              string        `json:"id"`
	UserID          string        `json:"user_id"`
	MatchType       MatchType     `json:"match_type"`
	Teams           [2]Team       `json:"teams"`
	Sets            []GameSet     `json:"sets"`
	WinnerTeamIndex *int          `json:"winner_team_index,omitempty"`
	Timestamp       time.Time     `json:"timestamp"`
	Location        *string       `json:"location,omitempty"`
	Surface         *CourtSurface `json:"surface,omitempty"`
	Notes           *string       `json:"notes,omitempty"`
}

// HasWinner reports whether the match has a determined winner.
func (m Match) HasWinner() bool {
	return m.WinnerTeamIndex != nil && (*m.WinnerTeamIndex == 0 || *m.WinnerTeamIndex == 1)
}

// ScoreString renders the scoreboard, e.g. "6-4, 4-6, 7-6 (7-3)".
func (m Match) ScoreString() string {
	parts := make([]string, 0, len(m.Sets))
	for _, s := range m.Sets {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, ", ")
}

// WinnerName returns the display name of the winning side, or "" when undetermined.
func (m Match) WinnerName() string {
	if !m.HasWinner() {
		return ""
	}
	return m.Teams[*m.WinnerTeamIndex].DisplayName()
}

// TeamIndex returns an int pointer, handy for optional winner fields.
func TeamIndex(i int) *int { return &i }
