package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kavinrajasekaran/TennisTracker/internal/model"
	"github.com/kavinrajasekaran/TennisTracker/internal/repository"
)

const playerColumns = `id, user_id, name, matches_played, matches_won, sets_won, sets_lost,
	games_won, games_lost, created_at, updated_at`

type playerRepository struct{ pool *pgxpool.Pool }

func NewPlayerRepository(pool *pgxpool.Pool) repository.PlayerRepository {
	return &playerRepository{pool: pool}
}

func scanPlayer(row pgx.Row) (model.Player, error) {
	var p model.Player
	err := row.Scan(&p.ID, &p.UserID, &p.Name,
		&p.Stats.MatchesPlayed, &p.Stats.MatchesWon,
		&p.Stats.SetsWon, &p.Stats.SetsLost,
		&p.Stats.GamesWon, &p.Stats.GamesLost,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *playerRepository) ListByUser(ctx context.Context, userID string) ([]model.Player, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	exec := getQ(ctx, r.pool)
	rows, err := exec.Query(ctx,
		`SELECT `+playerColumns+` FROM players WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()

	out := make([]model.Player, 0)
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, repository.MapPgError(err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapPgError(err)
	}
	return out, nil
}

func (r *playerRepository) GetByID(ctx context.Context, userID, id string) (model.Player, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Player{}, err
	}
	exec := getQ(ctx, r.pool)
	p, err := scanPlayer(exec.QueryRow(ctx,
		`SELECT `+playerColumns+` FROM players WHERE user_id = $1 AND id = $2`, userID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Player{}, repository.ErrNotFound
		}
		return model.Player{}, repository.MapPgError(err)
	}
	return p, nil
}

// Save upserts by id. A row owned by another account is never overwritten;
// that case surfaces as ErrOtherAccount.
func (r *playerRepository) Save(ctx context.Context, p model.Player) error {
	if err := ensurePool(r.pool); err != nil {
		return err
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	exec := getQ(ctx, r.pool)
	tag, err := exec.Exec(ctx,
		`INSERT INTO players (`+playerColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
		 ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			matches_played = EXCLUDED.matches_played,
			matches_won = EXCLUDED.matches_won,
			sets_won = EXCLUDED.sets_won,
			sets_lost = EXCLUDED.sets_lost,
			games_won = EXCLUDED.games_won,
			games_lost = EXCLUDED.games_lost,
			updated_at = now()
		 WHERE players.user_id = EXCLUDED.user_id`,
		p.ID, p.UserID, p.Name,
		p.Stats.MatchesPlayed, p.Stats.MatchesWon,
		p.Stats.SetsWon, p.Stats.SetsLost,
		p.Stats.GamesWon, p.Stats.GamesLost,
		p.CreatedAt,
	)
	if err != nil {
		return repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrOtherAccount
	}
	return nil
}

func (r *playerRepository) Delete(ctx context.Context, userID, id string) error {
	if err := ensurePool(r.pool); err != nil {
		return err
	}
	exec := getQ(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM players WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.PlayerRepository = (*playerRepository)(nil)
