package service

import (
	"context"
	"fmt"
	"time"

	"github.com/kavinrajasekaran/TennisTracker/internal/model"
	"github.com/kavinrajasekaran/TennisTracker/internal/repository"
	"github.com/kavinrajasekaran/TennisTracker/internal/stats"
	"github.com/rs/zerolog"
)

type statsService struct {
	st   Stores
	opts Options
	now  func() time.Time
	log  zerolog.Logger
}

func NewStatsService(st Stores, opts Options, logger zerolog.Logger) StatsService {
	l := logger.With().Str("module", "service").Str("component", "stats").Logger()
	return &statsService{st: st, opts: opts.withDefaults(), now: time.Now, log: l}
}

// Recalculate rebuilds every player's counters from the full match history
// and saves the players whose counters changed.
func (s *statsService) Recalculate(ctx context.Context, userID string) ([]model.Player, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var out []model.Player
	var changed int
	err := lockedTx(ctx, s.st, userID, func(ctx context.Context) error {
		players, matches, err := loadAccountInTx(ctx, s.st, userID)
		if err != nil {
			return err
		}
		out = stats.Recompute(players, matches)
		now := s.now().UTC()
		for i, p := range out {
			if p.Stats == players[i].Stats {
				continue
			}
			p.UpdatedAt = now
			if err := s.st.Players.Save(ctx, p); err != nil {
				return storeFailure("save player stats", err)
			}
			out[i] = p
			changed++
		}
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("recalculate stats failed")
		return nil, err
	}
	s.log.Info().Str("user_id", userID).Int("players", len(out)).Int("changed", changed).Msg("stats recalculated")
	return out, nil
}

func (s *statsService) ListPlayers(ctx context.Context, userID string) ([]model.Player, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	players, err := s.st.Players.ListByUser(ctx, userID)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("list players failed")
		return nil, storeFailure("fetch players", err)
	}
	return players, nil
}

func (s *statsService) PlayerSummary(ctx context.Context, userID, playerID string) (model.PlayerSummary, error) {
	player, _, matches, err := s.loadPlayer(ctx, userID, playerID)
	if err != nil {
		return model.PlayerSummary{}, err
	}
	return stats.Summarize(player, matches, s.opts.RecentFormSize), nil
}

func (s *statsService) HeadToHead(ctx context.Context, userID, playerID string) ([]model.HeadToHeadRecord, error) {
	player, players, matches, err := s.loadPlayer(ctx, userID, playerID)
	if err != nil {
		return nil, err
	}
	return stats.HeadToHead(player, players, matches), nil
}

func (s *statsService) loadPlayer(ctx context.Context, userID, playerID string) (model.Player, []model.Player, []model.Match, error) {
	if err := requireUser(userID); err != nil {
		return model.Player{}, nil, nil, err
	}
	if playerID == "" {
		return model.Player{}, nil, nil, newInvalidInput([]FieldError{{Field: "id", Message: "must be set"}})
	}
	players, matches, err := loadAccount(ctx, s.st, userID)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("load account failed")
		return model.Player{}, nil, nil, err
	}
	for _, p := range players {
		if p.ID == playerID {
			return p, players, matches, nil
		}
	}
	return model.Player{}, nil, nil, fmt.Errorf("player %s: %w", playerID, repository.ErrNotFound)
}
