// Package contract holds behaviour suites shared by every store implementation.
package contract

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kavinrajasekaran/TennisTracker/internal/model"
	"github.com/kavinrajasekaran/TennisTracker/internal/repository"
)

type PlayerFactory func(t *testing.T) (repository.PlayerRepository, func())

type MatchFactory func(t *testing.T) (repository.MatchRepository, func())

type TxFactory func(t *testing.T) (tx repository.TxManager, players repository.PlayerRepository, cleanup func())

type PingerFactory func(t *testing.T) (repository.Pinger, func())

func seedPlayer(id, userID, name string) model.Player {
	return model.Player{
		ID:        id,
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func RunPlayerRepositoryContract(t *testing.T, makeRepo PlayerFactory) {
	t.Helper()

	t.Run("save_and_get", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		p := seedPlayer("p-1", "u-1", "Ana")
		p.Stats = model.PlayerStats{MatchesPlayed: 3, MatchesWon: 2, SetsWon: 5, SetsLost: 3, GamesWon: 40, GamesLost: 31}
		if err := repo.Save(ctx, p); err != nil {
			t.Fatalf("save: %v", err)
		}
		got, err := repo.GetByID(ctx, "u-1", "p-1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Name != "Ana" || got.Stats != p.Stats {
			t.Fatalf("mismatch: %+v", got)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetByID(context.Background(), "u-1", "missing")
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("get_other_account_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		if err := repo.Save(ctx, seedPlayer("p-1", "u-1", "Ana")); err != nil {
			t.Fatalf("save: %v", err)
		}
		_, err := repo.GetByID(ctx, "u-2", "p-1")
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("save_replaces_counters", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		p := seedPlayer("p-1", "u-1", "Ana")
		if err := repo.Save(ctx, p); err != nil {
			t.Fatalf("save: %v", err)
		}
		p.Stats.MatchesPlayed = 7
		p.Stats.MatchesWon = 4
		if err := repo.Save(ctx, p); err != nil {
			t.Fatalf("resave: %v", err)
		}
		got, err := repo.GetByID(ctx, "u-1", "p-1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Stats.MatchesPlayed != 7 || got.Stats.MatchesWon != 4 {
			t.Fatalf("counters not replaced: %+v", got.Stats)
		}
	})

	t.Run("save_other_account_conflict", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		if err := repo.Save(ctx, seedPlayer("p-1", "u-1", "Ana")); err != nil {
			t.Fatalf("save: %v", err)
		}
		err := repo.Save(ctx, seedPlayer("p-1", "u-2", "Mallory"))
		if !errors.Is(err, repository.ErrOtherAccount) || !errors.Is(err, repository.ErrConflict) {
			t.Fatalf("expected ErrOtherAccount, got %v", err)
		}
	})

	t.Run("list_scoped_by_user", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		for _, p := range []model.Player{
			seedPlayer("p-1", "u-1", "Ana"),
			seedPlayer("p-2", "u-1", "Ben"),
			seedPlayer("p-3", "u-2", "Cat"),
		} {
			if err := repo.Save(ctx, p); err != nil {
				t.Fatalf("seed %s: %v", p.ID, err)
			}
		}
		got, err := repo.ListByUser(ctx, "u-1")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 players, got %d", len(got))
		}
		empty, err := repo.ListByUser(ctx, "u-3")
		if err != nil {
			t.Fatalf("list empty: %v", err)
		}
		if len(empty) != 0 {
			t.Fatalf("expected no players, got %d", len(empty))
		}
	})

	t.Run("delete", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		if err := repo.Save(ctx, seedPlayer("p-1", "u-1", "Ana")); err != nil {
			t.Fatalf("save: %v", err)
		}
		if err := repo.Delete(ctx, "u-1", "p-1"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := repo.GetByID(ctx, "u-1", "p-1"); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
		if err := repo.Delete(ctx, "u-1", "p-1"); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound on second delete, got %v", err)
		}
	})
}

func sampleMatch(id, userID string, at time.Time) model.Match {
	surface := model.SurfaceClay
	location := "Court 3"
	return model.Match{
		ID:        id,
		UserID:    userID,
		MatchType: model.MatchTypeSingles,
		Teams: [2]model.Team{
			{ID: id + "-t1", Players: []model.Player{seedPlayer("p-1", userID, "Ana")}},
			{ID: id + "-t2", Players: []model.Player{seedPlayer("p-2", userID, "Ben")}},
		},
		Sets: []model.GameSet{
			{ID: id + "-s1", Team1Games: 6, Team2Games: 4},
			{ID: id + "-s2", Team1Games: 7, Team2Games: 6, Team1TiebreakPoints: intPtr(7), Team2TiebreakPoints: intPtr(3)},
		},
		WinnerTeamIndex: model.TeamIndex(0),
		Timestamp:       at,
		Location:        &location,
		Surface:         &surface,
	}
}

func intPtr(v int) *int { return &v }

func RunMatchRepositoryContract(t *testing.T, makeRepo MatchFactory) {
	t.Helper()

	t.Run("save_and_list_roundtrip", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		m := sampleMatch("m-1", "u-1", time.Date(2025, 4, 2, 18, 0, 0, 0, time.UTC))
		if err := repo.Save(ctx, m); err != nil {
			t.Fatalf("save: %v", err)
		}
		got, err := repo.ListByUser(ctx, "u-1")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("expected 1 match, got %d", len(got))
		}
		g := got[0]
		if g.ScoreString() != "6-4, 7-6 (7-3)" {
			t.Fatalf("score mismatch: %s", g.ScoreString())
		}
		if g.WinnerTeamIndex == nil || *g.WinnerTeamIndex != 0 {
			t.Fatalf("winner mismatch: %v", g.WinnerTeamIndex)
		}
		if g.Teams[1].DisplayName() != "Ben" || g.Surface == nil || *g.Surface != model.SurfaceClay {
			t.Fatalf("snapshot mismatch: %+v", g)
		}
		if !g.Timestamp.Equal(m.Timestamp) {
			t.Fatalf("timestamp mismatch: %v", g.Timestamp)
		}
	})

	t.Run("undetermined_winner_roundtrip", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		m := sampleMatch("m-1", "u-1", time.Now().UTC())
		m.WinnerTeamIndex = nil
		m.Surface = nil
		m.Location = nil
		if err := repo.Save(ctx, m); err != nil {
			t.Fatalf("save: %v", err)
		}
		got, err := repo.ListByUser(ctx, "u-1")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if got[0].WinnerTeamIndex != nil || got[0].Surface != nil || got[0].Location != nil {
			t.Fatalf("expected nil optionals, got %+v", got[0])
		}
	})

	t.Run("list_newest_first_and_scoped", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		base := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
		for _, m := range []model.Match{
			sampleMatch("m-old", "u-1", base),
			sampleMatch("m-new", "u-1", base.Add(48*time.Hour)),
			sampleMatch("m-other", "u-2", base.Add(time.Hour)),
		} {
			if err := repo.Save(ctx, m); err != nil {
				t.Fatalf("seed %s: %v", m.ID, err)
			}
		}
		got, err := repo.ListByUser(ctx, "u-1")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 2 || got[0].ID != "m-new" || got[1].ID != "m-old" {
			t.Fatalf("unexpected order: %+v", got)
		}
	})

	t.Run("save_replaces_snapshots", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		m := sampleMatch("m-1", "u-1", time.Now().UTC())
		if err := repo.Save(ctx, m); err != nil {
			t.Fatalf("save: %v", err)
		}
		m.Teams[1].Players = []model.Player{seedPlayer("p-9", "u-1", "Benjamin")}
		if err := repo.Save(ctx, m); err != nil {
			t.Fatalf("resave: %v", err)
		}
		got, err := repo.ListByUser(ctx, "u-1")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 1 || got[0].Teams[1].Players[0].ID != "p-9" {
			t.Fatalf("snapshot not replaced: %+v", got)
		}
	})

	t.Run("save_other_account_conflict", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		if err := repo.Save(ctx, sampleMatch("m-1", "u-1", time.Now().UTC())); err != nil {
			t.Fatalf("save: %v", err)
		}
		err := repo.Save(ctx, sampleMatch("m-1", "u-2", time.Now().UTC()))
		if !errors.Is(err, repository.ErrOtherAccount) {
			t.Fatalf("expected ErrOtherAccount, got %v", err)
		}
		if got, _ := repo.ListByUser(ctx, "u-2"); len(got) != 0 {
			t.Fatalf("match leaked into other account: %+v", got)
		}
	})
}

func RunTxManagerContract(t *testing.T, makeTx TxFactory) {
	t.Helper()

	t.Run("commit_on_nil_error", func(t *testing.T) {
		tx, players, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			return players.Save(ctx, seedPlayer("p-commit", "u-1", "Ana"))
		})
		if err != nil {
			t.Fatalf("WithinTx: %v", err)
		}
		if _, err := players.GetByID(ctx, "u-1", "p-commit"); err != nil {
			t.Fatalf("expected committed row visible, got err=%v", err)
		}
	})

	t.Run("rollback_on_error", func(t *testing.T) {
		tx, players, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		errMarker := errors.New("boom")
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			if err := players.Save(ctx, seedPlayer("p-rollback", "u-1", "Ana")); err != nil {
				return err
			}
			return errMarker
		})
		if !errors.Is(err, errMarker) {
			t.Fatalf("expected marker error, got %v", err)
		}
		if _, err := players.GetByID(ctx, "u-1", "p-rollback"); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after rollback, got %v", err)
		}
	})

	t.Run("error_kind_survives_rollback", func(t *testing.T) {
		tx, players, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		errKind := errors.New("merge failed")
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			if err := players.Save(ctx, seedPlayer("p-kind", "u-1", "Ana")); err != nil {
				return err
			}
			pgErr := &pgconn.PgError{Code: pgerrcode.SerializationFailure}
			return fmt.Errorf("%w: save players: %w", errKind, pgErr)
		})
		if !errors.Is(err, errKind) {
			t.Fatalf("expected wrapped kind to survive, got %v", err)
		}
		if _, err := players.GetByID(ctx, "u-1", "p-kind"); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after rollback, got %v", err)
		}
	})

	t.Run("account_lock_inside_tx", func(t *testing.T) {
		tx, _, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		locker, ok := tx.(repository.AccountLocker)
		if !ok {
			t.Skip("store has no account locker")
		}
		err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
			return locker.LockAccount(ctx, "u-1")
		})
		if err != nil {
			t.Fatalf("lock: %v", err)
		}
	})
}

func RunPingerContract(t *testing.T, makePinger PingerFactory) {
	t.Helper()
	t.Run("ping_ok", func(t *testing.T) {
		p, cleanup := makePinger(t)
		t.Cleanup(cleanup)
		if err := p.Ping(context.Background()); err != nil {
			t.Fatalf("expected ping ok, got %v", err)
		}
	})
}
