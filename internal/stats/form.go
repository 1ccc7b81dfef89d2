package stats

import (
	"sort"

	"github.com/kavinrajasekaran/TennisTracker/internal/model"
)

// DefaultRecentFormSize is the number of results shown as recent form.
const DefaultRecentFormSize = 5

const (
	FormWin  = "W"
	FormLoss = "L"
)

// RecentForm returns the player's last n decided results, newest first, as
// "W"/"L" markers.
func RecentForm(player model.Player, matches []model.Match, n int) []string {
	if n <= 0 {
		n = DefaultRecentFormSize
	}
	self := NormalizeName(player.Name)

	played := make([]model.Match, 0, len(matches))
	for _, m := range matches {
		if !m.HasWinner() {
			continue
		}
		if _, ok := Participants(m)[self]; ok {
			played = append(played, m)
		}
	}
	sort.SliceStable(played, func(i, j int) bool { return played[i].Timestamp.After(played[j].Timestamp) })

	form := make([]string, 0, n)
	for _, m := range played {
		if len(form) == n {
			break
		}
		if Participants(m)[self] == *m.WinnerTeamIndex {
			form = append(form, FormWin)
		} else {
			form = append(form, FormLoss)
		}
	}
	return form
}

// Summarize derives the read model shown on a player's profile.
func Summarize(player model.Player, matches []model.Match, formSize int) model.PlayerSummary {
	return model.PlayerSummary{
		Player:           player,
		WinPercentage:    player.Stats.WinPercentage(),
		SetWinPercentage: player.Stats.SetWinPercentage(),
		RecentForm:       RecentForm(player, matches, formSize),
	}
}
