package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kavinrajasekaran/TennisTracker/internal/model"
	"github.com/kavinrajasekaran/TennisTracker/internal/scoring"
	"github.com/kavinrajasekaran/TennisTracker/internal/stats"
)

// maxFieldValue bounds games and tiebreak points typed into a form.
const maxFieldValue = 99

// MatchForm is the match entry form as submitted: names and numbers are
// still raw text.
type MatchForm struct {
	MatchType string             `json:"match_type"`
	Team1     []string           `json:"team1"`
	Team2     []string           `json:"team2"`
	Sets      []scoring.SetInput `json:"sets"`
	Timestamp *time.Time         `json:"timestamp,omitempty"`
	Location  string             `json:"location,omitempty"`
	Surface   string             `json:"surface,omitempty"`
	Notes     string             `json:"notes,omitempty"`
}

func (f MatchForm) matchType() model.MatchType {
	t := model.MatchType(strings.ToLower(strings.TrimSpace(f.MatchType)))
	if t == "" {
		return model.MatchTypeSingles
	}
	return t
}

// enteredSets drops every row the user left blank, wherever it sits.
func (f MatchForm) enteredSets() []scoring.SetInput {
	out := make([]scoring.SetInput, 0, len(f.Sets))
	for _, in := range f.Sets {
		if !in.Blank() {
			out = append(out, in)
		}
	}
	return out
}

// ComputeValidationErrors returns every problem with the form as
// human-readable messages. An empty result means the form can be saved.
func ComputeValidationErrors(form MatchForm) []string {
	fe := validateForm(form)
	out := make([]string, 0, len(fe))
	for _, e := range fe {
		out = append(out, e.Message)
	}
	return out
}

// validateForm collects all problems; it never stops at the first one.
func validateForm(form MatchForm) []FieldError {
	var ferrs []FieldError

	mt := form.matchType()
	if !mt.Valid() {
		ferrs = append(ferrs, FieldError{Field: "match_type", Message: "Match type must be singles or doubles"})
	} else {
		ferrs = append(ferrs, validateTeam("team1", "Team 1", form.Team1, mt.PlayersPerTeam())...)
		ferrs = append(ferrs, validateTeam("team2", "Team 2", form.Team2, mt.PlayersPerTeam())...)
		ferrs = append(ferrs, validateRosters(form.Team1, form.Team2)...)
	}

	if s := strings.TrimSpace(form.Surface); s != "" && !model.CourtSurface(strings.ToLower(s)).Valid() {
		ferrs = append(ferrs, FieldError{Field: "surface", Message: "Surface must be hard, clay, grass, indoor or carpet"})
	}

	sets := form.enteredSets()
	switch {
	case len(sets) == 0:
		ferrs = append(ferrs, FieldError{Field: "sets", Message: "Enter the score of at least one set"})
	case len(sets) > scoring.MaxSets:
		ferrs = append(ferrs, FieldError{Field: "sets", Message: fmt.Sprintf("A match has at most %d sets", scoring.MaxSets)})
	}
	for i, in := range sets {
		ferrs = append(ferrs, validateSetInput(i+1, in)...)
	}
	return ferrs
}

func validateTeam(field, label string, names []string, want int) []FieldError {
	var ferrs []FieldError
	for i := 0; i < want; i++ {
		if i >= len(names) || strings.TrimSpace(names[i]) == "" {
			ferrs = append(ferrs, FieldError{
				Field:   fmt.Sprintf("%s[%d]", field, i),
				Message: fmt.Sprintf("%s player %d name is required", label, i+1),
			})
		}
	}
	if extra := nonBlank(names); len(extra) > want {
		ferrs = append(ferrs, FieldError{Field: field, Message: fmt.Sprintf("%s has more than %d players", label, want)})
	}
	return ferrs
}

// validateRosters rejects a player listed twice, on either side.
func validateRosters(team1, team2 []string) []FieldError {
	var ferrs []FieldError
	seen := make(map[string]string)
	for _, side := range []struct {
		label string
		names []string
	}{{"Team 1", team1}, {"Team 2", team2}} {
		for _, raw := range nonBlank(side.names) {
			key := stats.NormalizeName(raw)
			prev, ok := seen[key]
			if !ok {
				seen[key] = side.label
				continue
			}
			msg := fmt.Sprintf("%s is listed twice on %s", strings.TrimSpace(raw), side.label)
			if prev != side.label {
				msg = fmt.Sprintf("%s cannot play on both teams", strings.TrimSpace(raw))
			}
			ferrs = append(ferrs, FieldError{Field: "teams", Message: msg})
		}
	}
	return ferrs
}

func validateSetInput(n int, in scoring.SetInput) []FieldError {
	field := fmt.Sprintf("sets[%d]", n-1)
	var ferrs []FieldError
	bad := func(msg string, args ...any) {
		ferrs = append(ferrs, FieldError{Field: field, Message: fmt.Sprintf("Set %d: ", n) + fmt.Sprintf(msg, args...)})
	}

	g1, ok1 := parseField(in.Team1Games)
	g2, ok2 := parseField(in.Team2Games)
	if !ok1 || !ok2 {
		bad("games must be whole numbers between 0 and %d", maxFieldValue)
	}

	var tb1, tb2 *int
	t1Blank, t2Blank := strings.TrimSpace(in.Team1Tiebreak) == "", strings.TrimSpace(in.Team2Tiebreak) == ""
	switch {
	case t1Blank && t2Blank:
	case t1Blank != t2Blank:
		bad("enter tiebreak points for both teams")
	default:
		v1, okT1 := parseField(in.Team1Tiebreak)
		v2, okT2 := parseField(in.Team2Tiebreak)
		if !okT1 || !okT2 {
			bad("tiebreak points must be whole numbers between 0 and %d", maxFieldValue)
		} else {
			tb1, tb2 = &v1, &v2
		}
	}

	if len(ferrs) > 0 {
		return ferrs
	}
	switch err := scoring.CheckSet(g1, g2, tb1, tb2); {
	case err == nil:
	case errors.Is(err, scoring.ErrTiedSet):
		bad("a set cannot end tied at %d-%d", g1, g2)
	case errors.Is(err, scoring.ErrMissingTiebreak):
		bad("a 7-6 set needs tiebreak points for both teams")
	default:
		bad("%d-%d is not a valid set score", g1, g2)
	}
	return ferrs
}

func parseField(s string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 || v > maxFieldValue {
		return 0, false
	}
	return v, true
}

func nonBlank(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) != "" {
			out = append(out, n)
		}
	}
	return out
}
