package scoring

import (
	"strconv"
	"strings"

	"github.com/kavinrajasekaran/TennisTracker/internal/model"
)

// SetInput is a set as typed by the user, before parsing.
type SetInput struct {
	Team1Games    string `json:"team1_games"`
	Team2Games    string `json:"team2_games"`
	Team1Tiebreak string `json:"team1_tiebreak,omitempty"`
	Team2Tiebreak string `json:"team2_tiebreak,omitempty"`
}

// Blank reports whether nothing has been entered for the set yet.
func (in SetInput) Blank() bool {
	return strings.TrimSpace(in.Team1Games) == "" && strings.TrimSpace(in.Team2Games) == "" &&
		strings.TrimSpace(in.Team1Tiebreak) == "" && strings.TrimSpace(in.Team2Tiebreak) == ""
}

// Parse converts the input to a GameSet. ok is false when either game count is
// not an integer. Tiebreak points are kept only when both sides parse.
func (in SetInput) Parse() (model.GameSet, bool) {
	g1, err1 := parseInt(in.Team1Games)
	g2, err2 := parseInt(in.Team2Games)
	if err1 != nil || err2 != nil {
		return model.GameSet{}, false
	}
	s := model.GameSet{Team1Games: g1, Team2Games: g2}
	tb1, terr1 := parseInt(in.Team1Tiebreak)
	tb2, terr2 := parseInt(in.Team2Tiebreak)
	if terr1 == nil && terr2 == nil {
		s.Team1TiebreakPoints = &tb1
		s.Team2TiebreakPoints = &tb2
	}
	return s, true
}

// ParseSets parses every input in order and drops the ones that do not parse.
func ParseSets(inputs []SetInput) []model.GameSet {
	out := make([]model.GameSet, 0, len(inputs))
	for _, in := range inputs {
		if s, ok := in.Parse(); ok {
			out = append(out, s)
		}
	}
	return out
}

// CurrentWinner returns the side implied by partially entered sets.
// It tolerates incomplete input and sets that break the rules: a single parsed
// set decides a quick match, otherwise the best-of threshold for the number of
// parsed sets must be reached.
func CurrentWinner(inputs []SetInput) (int, bool) {
	return ImpliedWinner(ParseSets(inputs))
}

// ImpliedWinner is CurrentWinner over already parsed sets.
func ImpliedWinner(sets []model.GameSet) (int, bool) {
	switch len(sets) {
	case 0:
		return -1, false
	case 1:
		return sets[0].WinnerTeamIndex(), true
	}

	team1, team2 := SetWins(sets)
	need := RequiredSetWins(len(sets))
	switch {
	case team1 >= need:
		return 0, true
	case team2 >= need:
		return 1, true
	default:
		return -1, false
	}
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
