package repository

import (
	"context"

	"github.com/kavinrajasekaran/TennisTracker/internal/model"
)

// Pinger represents a minimal readiness probe capability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
type TxFunc func(ctx context.Context) error

// TxManager abstracts transactional execution for stores that support it.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// AccountLocker serializes read-modify-write sequences for one account.
// Implementations hold the lock until the surrounding transaction ends, so it
// must be called from inside WithinTx.
type AccountLocker interface {
	LockAccount(ctx context.Context, userID string) error
}

// PlayerRepository declares persistence operations for players of one account.
// Errors are domain errors from errors.go, not driver codes.
type PlayerRepository interface {
	ListByUser(ctx context.Context, userID string) ([]model.Player, error)
	GetByID(ctx context.Context, userID, id string) (model.Player, error)
	// Save inserts or replaces the player record, keyed by id.
	Save(ctx context.Context, p model.Player) error
	Delete(ctx context.Context, userID, id string) error
}

// MatchRepository declares persistence operations for matches. Teams and sets
// are stored as embedded snapshots.
type MatchRepository interface {
	ListByUser(ctx context.Context, userID string) ([]model.Match, error)
	// Save inserts or replaces the match record, keyed by id.
	Save(ctx context.Context, m model.Match) error
}
