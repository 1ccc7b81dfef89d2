package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kavinrajasekaran/TennisTracker/internal/model"
	"github.com/kavinrajasekaran/TennisTracker/internal/repository"
)

type matchRepository struct{ pool *pgxpool.Pool }

func NewMatchRepository(pool *pgxpool.Pool) repository.MatchRepository {
	return &matchRepository{pool: pool}
}

// ListByUser returns matches newest first.
func (r *matchRepository) ListByUser(ctx context.Context, userID string) ([]model.Match, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	exec := getQ(ctx, r.pool)
	rows, err := exec.Query(ctx,
		`SELECT id, user_id, match_type, teams, sets, winner_team_index, played_at, location, surface, notes
		 FROM matches WHERE user_id = $1
		 ORDER BY played_at DESC, id`, userID)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()

	out := make([]model.Match, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapPgError(err)
	}
	return out, nil
}

func scanMatch(row pgx.Row) (model.Match, error) {
	var (
		m                   model.Match
		matchType           string
		teamsJSON, setsJSON []byte
		winner              *int16
		surface             *string
	)
	if err := row.Scan(&m.ID, &m.UserID, &matchType, &teamsJSON, &setsJSON, &winner,
		&m.Timestamp, &m.Location, &surface, &m.Notes); err != nil {
		return model.Match{}, repository.MapPgError(err)
	}
	m.MatchType = model.MatchType(matchType)
	if err := sonic.Unmarshal(teamsJSON, &m.Teams); err != nil {
		return model.Match{}, fmt.Errorf("decode teams of match %s: %w", m.ID, err)
	}
	if err := sonic.Unmarshal(setsJSON, &m.Sets); err != nil {
		return model.Match{}, fmt.Errorf("decode sets of match %s: %w", m.ID, err)
	}
	if winner != nil {
		m.WinnerTeamIndex = model.TeamIndex(int(*winner))
	}
	if surface != nil {
		s := model.CourtSurface(*surface)
		m.Surface = &s
	}
	return m, nil
}

func (r *matchRepository) Save(ctx context.Context, m model.Match) error {
	if err := ensurePool(r.pool); err != nil {
		return err
	}
	teamsJSON, err := sonic.Marshal(m.Teams)
	if err != nil {
		return fmt.Errorf("encode teams: %w", err)
	}
	sets := m.Sets
	if sets == nil {
		sets = []model.GameSet{}
	}
	setsJSON, err := sonic.Marshal(sets)
	if err != nil {
		return fmt.Errorf("encode sets: %w", err)
	}
	var surface *string
	if m.Surface != nil {
		s := string(*m.Surface)
		surface = &s
	}

	exec := getQ(ctx, r.pool)
	tag, err := exec.Exec(ctx,
		`INSERT INTO matches (id, user_id, match_type, teams, sets, winner_team_index, played_at, location, surface, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (id) DO UPDATE SET
			match_type = EXCLUDED.match_type,
			teams = EXCLUDED.teams,
			sets = EXCLUDED.sets,
			winner_team_index = EXCLUDED.winner_team_index,
			played_at = EXCLUDED.played_at,
			location = EXCLUDED.location,
			surface = EXCLUDED.surface,
			notes = EXCLUDED.notes
		 WHERE matches.user_id = EXCLUDED.user_id`,
		m.ID, m.UserID, string(m.MatchType), teamsJSON, setsJSON, m.WinnerTeamIndex,
		m.Timestamp, m.Location, surface, m.Notes,
	)
	if err != nil {
		return repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrOtherAccount
	}
	return nil
}

var _ repository.MatchRepository = (*matchRepository)(nil)
