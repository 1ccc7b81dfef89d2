// Package service holds business logic orchestration across repositories and handlers.
// Scoring and aggregation rules live in scoring and stats; this layer fetches,
// validates, persists and shapes errors.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/kavinrajasekaran/TennisTracker/internal/model"
	"github.com/kavinrajasekaran/TennisTracker/internal/repository"
	"github.com/kavinrajasekaran/TennisTracker/internal/stats"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// ErrStoreFailure marks a failed store or auth call. The save did not happen.
var ErrStoreFailure = errors.New("store failure")

// ErrUnauthorized marks a request without a verifiable account identity.
var ErrUnauthorized = errors.New("unauthorized")

// ErrConsolidation marks a consolidation that failed during its write phase.
// Merged players and rewritten matches are written before any delete, so a
// failure leaves duplicates behind but loses no data.
var ErrConsolidation = errors.New("consolidation failed")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// newInvalidInput builds an aggregated validation error if any field errors are present.
func newInvalidInput(fe []FieldError) error {
	if len(fe) == 0 {
		return nil
	}
	return &invalidInputError{fields: fe}
}

// NewInvalidInputError lets the transport layer report binding problems the
// same way services report validation problems.
func NewInvalidInputError(fe ...FieldError) error { return newInvalidInput(fe) }

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	type feIface interface{ Fields() []FieldError }
	var v feIface
	if errors.As(err, &v) && errors.Is(err, ErrInvalidInput) {
		return v.Fields()
	}
	return nil
}

// storeFailure wraps a repository error so callers can match both the kind and
// the repository sentinel.
func storeFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStoreFailure) || errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrConsolidation) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrStoreFailure, op, err)
}

// MatchService records matches and keeps player statistics in step.
type MatchService interface {
	SaveMatch(ctx context.Context, userID string, form MatchForm) (model.Match, error)
	ListMatches(ctx context.Context, userID string) ([]model.Match, error)
	Preview(form MatchForm) MatchPreview
	DuplicateCandidates(ctx context.Context, userID string) ([]stats.DuplicateMatchPair, error)
}

// StatsService exposes player read models and full recomputation.
type StatsService interface {
	Recalculate(ctx context.Context, userID string) ([]model.Player, error)
	ListPlayers(ctx context.Context, userID string) ([]model.Player, error)
	PlayerSummary(ctx context.Context, userID, playerID string) (model.PlayerSummary, error)
	HeadToHead(ctx context.Context, userID, playerID string) ([]model.HeadToHeadRecord, error)
}

// ConsolidationService merges player records that share a normalized name.
type ConsolidationService interface {
	Consolidate(ctx context.Context, userID string) (ConsolidationReport, error)
}

// Stores bundles the collaborators every service needs.
type Stores struct {
	Players repository.PlayerRepository
	Matches repository.MatchRepository
	Tx      repository.TxManager
	Locker  repository.AccountLocker
}

// Validate reports a missing collaborator.
func (s Stores) Validate() error {
	if s.Players == nil || s.Matches == nil || s.Tx == nil || s.Locker == nil {
		return errors.New("service: players, matches, tx and locker are required")
	}
	return nil
}

func requireUser(userID string) error {
	if userID == "" {
		return newInvalidInput([]FieldError{{Field: "user_id", Message: "must be set"}})
	}
	return nil
}

// loadAccount fetches the account's players and matches concurrently.
func loadAccount(ctx context.Context, st Stores, userID string) ([]model.Player, []model.Match, error) {
	var (
		players []model.Player
		matches []model.Match
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		players, err = st.Players.ListByUser(gctx, userID)
		return storeFailure("fetch players", err)
	})
	g.Go(func() error {
		var err error
		matches, err = st.Matches.ListByUser(gctx, userID)
		return storeFailure("fetch matches", err)
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return players, matches, nil
}

// loadAccountInTx is loadAccount for use inside WithinTx. A transaction owns
// a single connection, so the two queries run one after the other.
func loadAccountInTx(ctx context.Context, st Stores, userID string) ([]model.Player, []model.Match, error) {
	players, err := st.Players.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, storeFailure("fetch players", err)
	}
	matches, err := st.Matches.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, storeFailure("fetch matches", err)
	}
	return players, matches, nil
}

// lockedTx runs fn in a transaction that holds the account lock.
func lockedTx(ctx context.Context, st Stores, userID string, fn repository.TxFunc) error {
	err := st.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := st.Locker.LockAccount(ctx, userID); err != nil {
			return storeFailure("lock account", err)
		}
		return fn(ctx)
	})
	return storeFailure("transaction", err)
}
