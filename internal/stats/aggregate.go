// Package stats folds match history into player statistics, head-to-head
// records and duplicate-player consolidation plans. Everything here is a pure
// function over values already fetched from the store.
//
// Players are matched by normalized name rather than by id: a match embeds
// point-in-time player snapshots whose ids may be stale.
package stats

import (
	"strings"

	"github.com/kavinrajasekaran/TennisTracker/internal/model"
)

// NormalizeName trims surrounding whitespace and case-folds a display name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Participants maps each distinct normalized name in the match to its team
// index. A name listed on both sides keeps the first side it appears on.
func Participants(m model.Match) map[string]int {
	out := make(map[string]int, 4)
	for ti, team := range m.Teams {
		for _, pl := range team.Players {
			key := NormalizeName(pl.Name)
			if key == "" {
				continue
			}
			if _, seen := out[key]; !seen {
				out[key] = ti
			}
		}
	}
	return out
}

// Contribution returns the counters one match adds for the side at teamIndex.
// ok is false when the match has no determined winner.
func Contribution(m model.Match, teamIndex int) (model.PlayerStats, bool) {
	if !m.HasWinner() {
		return model.PlayerStats{}, false
	}
	var s model.PlayerStats
	s.MatchesPlayed = 1
	if teamIndex == *m.WinnerTeamIndex {
		s.MatchesWon = 1
	}
	for _, set := range m.Sets {
		won, lost := set.GamesFor(teamIndex)
		if set.WinnerTeamIndex() == teamIndex {
			s.SetsWon++
		} else {
			s.SetsLost++
		}
		s.GamesWon += won
		s.GamesLost += lost
	}
	return s, true
}

// Ledger accumulates stats per normalized player name.
type Ledger map[string]model.PlayerStats

// Apply adds the match to the ledger and reports whether it counted.
func (l Ledger) Apply(m model.Match) bool {
	if !m.HasWinner() {
		return false
	}
	for name, ti := range Participants(m) {
		c, _ := Contribution(m, ti)
		l[name] = l[name].Add(c)
	}
	return true
}

// ApplyMatch performs the incremental update for one newly saved match. It
// returns updated copies of every player record whose normalized name takes
// part in the match; other players are left out. A match without a winner
// yields nothing.
func ApplyMatch(players []model.Player, m model.Match) []model.Player {
	delta := Ledger{}
	if !delta.Apply(m) {
		return nil
	}
	var touched []model.Player
	for _, pl := range players {
		c, ok := delta[NormalizeName(pl.Name)]
		if !ok {
			continue
		}
		pl.Stats = pl.Stats.Add(c)
		touched = append(touched, pl)
	}
	return touched
}

// Recompute resets every player's stats and replays the whole corpus. The
// result does not depend on match order and equals applying ApplyMatch for
// each match to zeroed players.
func Recompute(players []model.Player, matches []model.Match) []model.Player {
	ledger := Ledger{}
	for _, m := range matches {
		ledger.Apply(m)
	}
	out := make([]model.Player, len(players))
	for i, pl := range players {
		pl.Stats = ledger[NormalizeName(pl.Name)]
		out[i] = pl
	}
	return out
}
