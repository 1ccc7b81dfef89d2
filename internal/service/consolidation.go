package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kavinrajasekaran/TennisTracker/internal/model"
	"github.com/kavinrajasekaran/TennisTracker/internal/repository"
	"github.com/kavinrajasekaran/TennisTracker/internal/stats"
	"github.com/rs/zerolog"
)

// ConsolidationReport summarizes one consolidation run.
type ConsolidationReport struct {
	Groups           []stats.DuplicateGroup `json:"groups"`
	Merged           []model.Player         `json:"merged"`
	DeletedIDs       []string               `json:"deleted_ids"`
	MatchesRewritten int                    `json:"matches_rewritten"`
}

type consolidationService struct {
	st  Stores
	now func() time.Time
	log zerolog.Logger
}

func NewConsolidationService(st Stores, logger zerolog.Logger) ConsolidationService {
	l := logger.With().Str("module", "service").Str("component", "consolidation").Logger()
	return &consolidationService{st: st, now: time.Now, log: l}
}

// Consolidate merges every group of players sharing a normalized name into
// the member with the most matches played. Writes happen in a fixed order:
// merged primaries, rewritten match snapshots, then deletes. Running it again
// without new duplicates is a no-op.
func (s *consolidationService) Consolidate(ctx context.Context, userID string) (ConsolidationReport, error) {
	if err := requireUser(userID); err != nil {
		return ConsolidationReport{}, err
	}
	var report ConsolidationReport
	err := lockedTx(ctx, s.st, userID, func(ctx context.Context) error {
		players, matches, err := loadAccountInTx(ctx, s.st, userID)
		if err != nil {
			return err
		}
		plan := stats.PlanConsolidation(players, matches)
		if plan.Empty() {
			return nil
		}

		now := s.now().UTC()
		for _, p := range plan.Merged {
			p.UpdatedAt = now
			if err := s.st.Players.Save(ctx, p); err != nil {
				return fmt.Errorf("%w: save merged player %s: %w", ErrConsolidation, p.ID, err)
			}
		}
		for _, m := range plan.Matches {
			if err := s.st.Matches.Save(ctx, m); err != nil {
				return fmt.Errorf("%w: rewrite match %s: %w", ErrConsolidation, m.ID, err)
			}
		}
		for _, id := range plan.DeleteIDs {
			if err := s.st.Players.Delete(ctx, userID, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: delete player %s: %w", ErrConsolidation, id, err)
			}
		}

		report = ConsolidationReport{
			Groups:           plan.Groups,
			Merged:           plan.Merged,
			DeletedIDs:       plan.DeleteIDs,
			MatchesRewritten: len(plan.Matches),
		}
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("consolidation failed")
		return ConsolidationReport{}, err
	}
	if report.Groups == nil {
		report.Groups = []stats.DuplicateGroup{}
		report.Merged = []model.Player{}
		report.DeletedIDs = []string{}
	}
	s.log.Info().
		Str("user_id", userID).
		Int("groups", len(report.Groups)).
		Int("deleted", len(report.DeletedIDs)).
		Int("matches_rewritten", report.MatchesRewritten).
		Msg("players consolidated")
	return report, nil
}
