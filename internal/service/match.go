package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kavinrajasekaran/TennisTracker/internal/model"
	"github.com/kavinrajasekaran/TennisTracker/internal/scoring"
	"github.com/kavinrajasekaran/TennisTracker/internal/stats"
	"github.com/rs/zerolog"
)

// Options tunes the read models built by the services.
type Options struct {
	RecentFormSize  int
	DuplicateWindow time.Duration
}

func (o Options) withDefaults() Options {
	if o.RecentFormSize <= 0 {
		o.RecentFormSize = stats.DefaultRecentFormSize
	}
	if o.DuplicateWindow <= 0 {
		o.DuplicateWindow = stats.DefaultDuplicateWindow
	}
	return o
}

// MatchPreview is live feedback for a form that is still being edited.
type MatchPreview struct {
	Errors          []string `json:"errors"`
	Score           string   `json:"score"`
	WinnerTeamIndex *int     `json:"winner_team_index,omitempty"`
	Winner          string   `json:"winner,omitempty"`
}

type matchService struct {
	st   Stores
	opts Options
	now  func() time.Time
	log  zerolog.Logger
}

func NewMatchService(st Stores, opts Options, logger zerolog.Logger) MatchService {
	l := logger.With().Str("module", "service").Str("component", "match").Logger()
	return &matchService{st: st, opts: opts.withDefaults(), now: time.Now, log: l}
}

// SaveMatch validates the form, resolves player names against the account's
// players (creating unknown ones), stores the match with team snapshots and
// applies its result to every player record sharing a participant's name.
// A match without a determined winner is stored but changes no statistics.
func (s *matchService) SaveMatch(ctx context.Context, userID string, form MatchForm) (model.Match, error) {
	if err := requireUser(userID); err != nil {
		return model.Match{}, err
	}
	if ferrs := validateForm(form); len(ferrs) > 0 {
		s.log.Debug().Interface("field_errors", ferrs).Str("user_id", userID).Msg("match validation failed")
		return model.Match{}, newInvalidInput(ferrs)
	}

	now := s.now().UTC()
	m := model.Match{
		ID:        uuid.NewString(),
		UserID:    userID,
		MatchType: form.matchType(),
		Sets:      buildSets(form.enteredSets()),
		Timestamp: now,
		Location:  optional(form.Location),
		Notes:     optional(form.Notes),
	}
	if form.Timestamp != nil && !form.Timestamp.IsZero() {
		m.Timestamp = form.Timestamp.UTC()
	}
	if v := strings.ToLower(strings.TrimSpace(form.Surface)); v != "" {
		surface := model.CourtSurface(v)
		m.Surface = &surface
	}
	m.WinnerTeamIndex = decideWinner(m.Sets)

	var touched int
	err := lockedTx(ctx, s.st, userID, func(ctx context.Context) error {
		players, err := s.st.Players.ListByUser(ctx, userID)
		if err != nil {
			return storeFailure("fetch players", err)
		}

		byName := make(map[string]model.Player, len(players))
		for _, p := range players {
			key := stats.NormalizeName(p.Name)
			if _, ok := byName[key]; !ok {
				byName[key] = p
			}
		}

		for ti, names := range [2][]string{form.Team1, form.Team2} {
			team := model.Team{ID: uuid.NewString()}
			for _, raw := range nonBlank(names) {
				key := stats.NormalizeName(raw)
				p, ok := byName[key]
				if !ok {
					p = model.Player{ID: uuid.NewString(), UserID: userID, Name: strings.TrimSpace(raw), CreatedAt: now, UpdatedAt: now}
					if err := s.st.Players.Save(ctx, p); err != nil {
						return storeFailure("create player", err)
					}
					byName[key] = p
					players = append(players, p)
				}
				team.Players = append(team.Players, p)
			}
			m.Teams[ti] = team
		}

		if err := s.st.Matches.Save(ctx, m); err != nil {
			return storeFailure("save match", err)
		}

		updated := stats.ApplyMatch(players, m)
		for _, p := range updated {
			p.UpdatedAt = now
			if err := s.st.Players.Save(ctx, p); err != nil {
				return storeFailure("save player stats", err)
			}
		}
		touched = len(updated)
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("save match failed")
		return model.Match{}, err
	}

	ev := s.log.Info().Str("user_id", userID).Str("match_id", m.ID).Str("score", m.ScoreString()).Int("players_updated", touched)
	if m.HasWinner() {
		ev = ev.Int("winner_team_index", *m.WinnerTeamIndex)
	}
	ev.Msg("match saved")
	return m, nil
}

func (s *matchService) ListMatches(ctx context.Context, userID string) ([]model.Match, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	matches, err := s.st.Matches.ListByUser(ctx, userID)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("list matches failed")
		return nil, storeFailure("fetch matches", err)
	}
	return matches, nil
}

// Preview touches no store.
func (s *matchService) Preview(form MatchForm) MatchPreview {
	sets := scoring.ParseSets(form.enteredSets())
	p := MatchPreview{
		Errors: ComputeValidationErrors(form),
		Score:  model.Match{Sets: sets}.ScoreString(),
	}
	if w, ok := scoring.ImpliedWinner(sets); ok {
		p.WinnerTeamIndex = model.TeamIndex(w)
		p.Winner = strings.Join(trimAll(nonBlank([2][]string{form.Team1, form.Team2}[w])), " / ")
	}
	return p
}

func (s *matchService) DuplicateCandidates(ctx context.Context, userID string) ([]stats.DuplicateMatchPair, error) {
	matches, err := s.ListMatches(ctx, userID)
	if err != nil {
		return nil, err
	}
	pairs := stats.FindDuplicateMatches(matches, s.opts.DuplicateWindow)
	if len(pairs) > 0 {
		s.log.Debug().Str("user_id", userID).Int("pairs", len(pairs)).Msg("possible duplicate matches")
	}
	return pairs, nil
}

// decideWinner prefers a complete best-of result, then the live rule (which
// also settles single-set matches). Nil means undetermined.
func decideWinner(sets []model.GameSet) *int {
	if w, err := scoring.CheckMatch(sets); err == nil {
		return model.TeamIndex(w)
	}
	if w, ok := scoring.ImpliedWinner(sets); ok {
		return model.TeamIndex(w)
	}
	return nil
}

func buildSets(inputs []scoring.SetInput) []model.GameSet {
	sets := scoring.ParseSets(inputs)
	for i := range sets {
		sets[i].ID = uuid.NewString()
	}
	return sets
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func trimAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = strings.TrimSpace(n)
	}
	return out
}
