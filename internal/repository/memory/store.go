// Package memory is a process-local store used for local runs and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kavinrajasekaran/TennisTracker/internal/model"
	"github.com/kavinrajasekaran/TennisTracker/internal/repository"
)

// Store keeps players and matches in maps keyed by id. Transactions are
// serialized and rolled back by restoring a snapshot taken at begin.
type Store struct {
	mu      sync.RWMutex
	players map[string]model.Player
	matches map[string]model.Match

	txMu sync.Mutex
}

func NewStore() *Store {
	return &Store{
		players: make(map[string]model.Player),
		matches: make(map[string]model.Match),
	}
}

func (s *Store) Players() repository.PlayerRepository { return &playerRepository{s: s} }

func (s *Store) Matches() repository.MatchRepository { return &matchRepository{s: s} }

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	players := make(map[string]model.Player, len(s.players))
	for k, v := range s.players {
		players[k] = v
	}
	matches := make(map[string]model.Match, len(s.matches))
	for k, v := range s.matches {
		matches[k] = v
	}
	s.mu.RUnlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.players = players
		s.matches = matches
		s.mu.Unlock()
		return err
	}
	return nil
}

// LockAccount is satisfied by WithinTx, which already admits one
// transaction at a time.
func (s *Store) LockAccount(ctx context.Context, _ string) error { return ctx.Err() }

var (
	_ repository.TxManager     = (*Store)(nil)
	_ repository.AccountLocker = (*Store)(nil)
	_ repository.Pinger        = (*Store)(nil)
)

type playerRepository struct{ s *Store }

func (r *playerRepository) ListByUser(_ context.Context, userID string) ([]model.Player, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]model.Player, 0)
	for _, p := range r.s.players {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *playerRepository) GetByID(_ context.Context, userID, id string) (model.Player, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.players[id]
	if !ok || p.UserID != userID {
		return model.Player{}, repository.ErrNotFound
	}
	return p, nil
}

func (r *playerRepository) Save(_ context.Context, p model.Player) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := r.s.players[p.ID]; ok {
		if existing.UserID != p.UserID {
			return repository.ErrOtherAccount
		}
		p.CreatedAt = existing.CreatedAt
	} else if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	r.s.players[p.ID] = p
	return nil
}

func (r *playerRepository) Delete(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.players[id]
	if !ok || p.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.s.players, id)
	return nil
}

type matchRepository struct{ s *Store }

func (r *matchRepository) ListByUser(_ context.Context, userID string) ([]model.Match, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]model.Match, 0)
	for _, m := range r.s.matches {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *matchRepository) Save(_ context.Context, m model.Match) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if existing, ok := r.s.matches[m.ID]; ok && existing.UserID != m.UserID {
		return repository.ErrOtherAccount
	}
	m.Sets = append([]model.GameSet(nil), m.Sets...)
	for i := range m.Teams {
		m.Teams[i].Players = append([]model.Player(nil), m.Teams[i].Players...)
	}
	r.s.matches[m.ID] = m
	return nil
}
