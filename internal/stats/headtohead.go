package stats

import (
	"sort"

	"github.com/kavinrajasekaran/TennisTracker/internal/model"
)

// HeadToHead builds one record per distinct opponent the player has faced in
// matches with a determined winner. Teammates are not opponents. Opponents
// resolve to the canonical record in players when one shares the normalized
// name, otherwise to the latest match snapshot seen.
//
// Records are ordered by win percentage (desc), then total matches (desc),
// then normalized opponent name (asc).
func HeadToHead(player model.Player, players []model.Player, matches []model.Match) []model.HeadToHeadRecord {
	self := NormalizeName(player.Name)
	if self == "" {
		return nil
	}

	canonical := make(map[string]model.Player, len(players))
	for _, pl := range players {
		key := NormalizeName(pl.Name)
		if _, ok := canonical[key]; !ok {
			canonical[key] = pl
		}
	}

	records := make(map[string]*model.HeadToHeadRecord)
	for _, m := range matches {
		if !m.HasWinner() {
			continue
		}
		ti, ok := Participants(m)[self]
		if !ok {
			continue
		}
		won := ti == *m.WinnerTeamIndex
		seen := make(map[string]struct{}, 2)
		for _, opp := range m.Teams[1-ti].Players {
			key := NormalizeName(opp.Name)
			if key == "" || key == self {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			rec, ok := records[key]
			if !ok {
				rec = &model.HeadToHeadRecord{}
				records[key] = rec
			}
			if c, ok := canonical[key]; ok {
				rec.Opponent = c
			} else {
				rec.Opponent = opp
			}
			if won {
				rec.Wins++
			} else {
				rec.Losses++
			}
		}
	}

	keys := make([]string, 0, len(records))
	for k := range records {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := records[keys[i]], records[keys[j]]
		if a.WinPercentage() != b.WinPercentage() {
			return a.WinPercentage() > b.WinPercentage()
		}
		if a.TotalMatches() != b.TotalMatches() {
			return a.TotalMatches() > b.TotalMatches()
		}
		return keys[i] < keys[j]
	})

	out := make([]model.HeadToHeadRecord, 0, len(keys))
	for _, k := range keys {
		out = append(out, *records[k])
	}
	return out
}

// RecordAgainst returns the player's record against one opponent, matched by
// normalized name. The zero record is returned when they never met.
func RecordAgainst(player, opponent model.Player, matches []model.Match) model.HeadToHeadRecord {
	want := NormalizeName(opponent.Name)
	for _, rec := range HeadToHead(player, nil, matches) {
		if NormalizeName(rec.Opponent.Name) == want {
			return rec
		}
	}
	return model.HeadToHeadRecord{Opponent: opponent}
}
