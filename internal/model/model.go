// Package model contains domain entities and read models used across layers.
// Behavior is limited to values derived directly from a record's own fields.
package model

import "time"

// PlayerStats holds the aggregate counters kept on every player record.
// All counters are non-negative; MatchesWon never exceeds MatchesPlayed.
type PlayerStats struct {
	MatchesPlayed int `json:"matches_played"`
	MatchesWon    int `json:"matches_won"`
	SetsWon       int `json:"sets_won"`
	SetsLost      int `json:"sets_lost"`
	GamesWon      int `json:"games_won"`
	GamesLost     int `json:"games_lost"`
}

// WinPercentage returns matchesWon/matchesPlayed*100, or 0 when no match was played.
func (s PlayerStats) WinPercentage() float64 {
	if s.MatchesPlayed == 0 {
		return 0
	}
	return float64(s.MatchesWon) / float64(s.MatchesPlayed) * 100
}

// SetWinPercentage returns setsWon/(setsWon+setsLost)*100, or 0 when no set was played.
func (s PlayerStats) SetWinPercentage() float64 {
	total := s.SetsWon + s.SetsLost
	if total == 0 {
		return 0
	}
	return float64(s.SetsWon) / float64(total) * 100
}

// Add returns the counter-wise sum of s and o.
func (s PlayerStats) Add(o PlayerStats) PlayerStats {
	return PlayerStats{
		MatchesPlayed: s.MatchesPlayed + o.MatchesPlayed,
		MatchesWon:    s.MatchesWon + o.MatchesWon,
		SetsWon:       s.SetsWon + o.SetsWon,
		SetsLost:      s.SetsLost + o.SetsLost,
		GamesWon:      s.GamesWon + o.GamesWon,
		GamesLost:     s.GamesLost + o.GamesLost,
	}
}

// IsZero reports whether every counter is zero.
func (s PlayerStats) IsZero() bool { return s == PlayerStats{} }

// Player is a person tracked by one account. Name is free text; aggregation
// compares names after trimming and case folding.
type Player struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Name      string      `json:"name"`
	Stats     PlayerStats `json:"stats"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// PlayerSummary is a read-only view of a player with derived percentages and form.
type PlayerSummary struct {
	Player           Player   `json:"player"`
	WinPercentage    float64  `json:"win_percentage"`
	SetWinPercentage float64  `json:"set_win_percentage"`
	RecentForm       []string `json:"recent_form"`
}

// HeadToHeadRecord is the derived win/loss record against one opponent. Not persisted.
type HeadToHeadRecord struct {
	Opponent Player `json:"opponent"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
}

func (r HeadToHeadRecord) TotalMatches() int { return r.Wins + r.Losses }

// WinPercentage returns wins/total*100, or 0 when the pair never met.
func (r HeadToHeadRecord) WinPercentage() float64 {
	total := r.TotalMatches()
	if total == 0 {
		return 0
	}
	return float64(r.Wins) / float64(total) * 100
}
