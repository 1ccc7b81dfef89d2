package stats

import (
	"github.com/kavinrajasekaran/TennisTracker/internal/model"
)

// DuplicateGroup is a set of player records sharing one normalized name.
type DuplicateGroup struct {
	Key        string         `json:"key"`
	Primary    model.Player   `json:"primary"`
	Duplicates []model.Player `json:"duplicates"`
}

// ConsolidationPlan lists the writes that merge duplicate players. Executing
// it must save Merged and Matches before deleting DeleteIDs, so a failure
// part way leaves extra records behind rather than losing data.
type ConsolidationPlan struct {
	Groups    []DuplicateGroup `json:"groups"`
	Merged    []model.Player   `json:"merged"`
	Matches   []model.Match    `json:"matches"`
	DeleteIDs []string         `json:"delete_ids"`
}

// Empty reports whether there is nothing to consolidate.
func (p ConsolidationPlan) Empty() bool { return len(p.Groups) == 0 }

// FindDuplicateGroups groups players by normalized name and returns the groups
// with more than one member, in first-encountered order. The primary is the
// member with the most matches played; ties go to the first encountered.
func FindDuplicateGroups(players []model.Player) []DuplicateGroup {
	order := make([]string, 0, len(players))
	byKey := make(map[string][]model.Player, len(players))
	for _, pl := range players {
		key := NormalizeName(pl.Name)
		if key == "" {
			continue
		}
		if _, ok := byKey[key]; !ok {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], pl)
	}

	var groups []DuplicateGroup
	for _, key := range order {
		members := byKey[key]
		if len(members) < 2 {
			continue
		}
		primaryIdx := 0
		for i, m := range members {
			if m.Stats.MatchesPlayed > members[primaryIdx].Stats.MatchesPlayed {
				primaryIdx = i
			}
		}
		g := DuplicateGroup{Key: key, Primary: members[primaryIdx]}
		for i, m := range members {
			if i != primaryIdx {
				g.Duplicates = append(g.Duplicates, m)
			}
		}
		groups = append(groups, g)
	}
	return groups
}

// PlanConsolidation builds the merge plan for the given players and matches.
// Counters of every duplicate are added to the primary as plain sums; a match
// that already updated two duplicate records is counted twice.
func PlanConsolidation(players []model.Player, matches []model.Match) ConsolidationPlan {
	groups := FindDuplicateGroups(players)
	if len(groups) == 0 {
		return ConsolidationPlan{}
	}

	plan := ConsolidationPlan{Groups: groups}
	replace := make(map[string]model.Player)
	for _, g := range groups {
		merged := g.Primary
		for _, d := range g.Duplicates {
			merged.Stats = merged.Stats.Add(d.Stats)
		}
		for _, d := range g.Duplicates {
			replace[d.ID] = merged
			plan.DeleteIDs = append(plan.DeleteIDs, d.ID)
		}
		plan.Merged = append(plan.Merged, merged)
	}

	for _, m := range matches {
		if rewritten, changed := rewriteSnapshots(m, replace); changed {
			plan.Matches = append(plan.Matches, rewritten)
		}
	}
	return plan
}

func rewriteSnapshots(m model.Match, replace map[string]model.Player) (model.Match, bool) {
	changed := false
	for ti := range m.Teams {
		var players []model.Player
		for pi, pl := range m.Teams[ti].Players {
			primary, ok := replace[pl.ID]
			if !ok {
				continue
			}
			if players == nil {
				players = append([]model.Player(nil), m.Teams[ti].Players...)
			}
			players[pi] = primary
			changed = true
		}
		if players != nil {
			m.Teams[ti].Players = players
		}
	}
	return m, changed
}
