package stats

import (
	"sort"
	"strings"
	"time"

	"github.com/kavinrajasekaran/TennisTracker/internal/model"
)

// DefaultDuplicateWindow is how close two matches with the same players must be
// to be flagged as a possible double entry.
const DefaultDuplicateWindow = time.Hour

// DuplicateMatchPair is an advisory candidate for human review. Nothing is
// ever deleted on the strength of this heuristic.
type DuplicateMatchPair struct {
	First  model.Match   `json:"first"`
	Second model.Match   `json:"second"`
	Gap    time.Duration `json:"gap"`
}

// FindDuplicateMatches flags pairs of matches with identical player sets
// (normalized names, both sides together) played within window of each
// other. Pairs are ordered by the first match's timestamp.
func FindDuplicateMatches(matches []model.Match, window time.Duration) []DuplicateMatchPair {
	if window <= 0 {
		window = DefaultDuplicateWindow
	}
	sorted := append([]model.Match(nil), matches...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Timestamp.Before(sorted[j].Timestamp) })

	keys := make([]string, len(sorted))
	for i, m := range sorted {
		keys[i] = playerSetKey(m)
	}

	var out []DuplicateMatchPair
	for i := range sorted {
		for j := i + 1; j < len(sorted); j++ {
			gap := sorted[j].Timestamp.Sub(sorted[i].Timestamp)
			if gap > window {
				break
			}
			if keys[i] != "" && keys[i] == keys[j] {
				out = append(out, DuplicateMatchPair{First: sorted[i], Second: sorted[j], Gap: gap})
			}
		}
	}
	return out
}

func playerSetKey(m model.Match) string {
	names := make([]string, 0, 4)
	for name := range Participants(m) {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}
