package service_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kavinrajasekaran/TennisTracker/internal/model"
	"github.com/kavinrajasekaran/TennisTracker/internal/repository"
	"github.com/kavinrajasekaran/TennisTracker/internal/repository/memory"
	"github.com/kavinrajasekaran/TennisTracker/internal/scoring"
	"github.com/kavinrajasekaran/TennisTracker/internal/service"
)

const testUser = "user-1"

var discard = zerolog.New(io.Discard)

func newStores() (*memory.Store, service.Stores) {
	s := memory.NewStore()
	return s, service.Stores{Players: s.Players(), Matches: s.Matches(), Tx: s, Locker: s}
}

func set(g1, g2 string) scoring.SetInput { return scoring.SetInput{Team1Games: g1, Team2Games: g2} }

func tbSet(g1, g2, tb1, tb2 string) scoring.SetInput {
	return scoring.SetInput{Team1Games: g1, Team2Games: g2, Team1Tiebreak: tb1, Team2Tiebreak: tb2}
}

func singles(a, b string, sets ...scoring.SetInput) service.MatchForm {
	return service.MatchForm{MatchType: "singles", Team1: []string{a}, Team2: []string{b}, Sets: sets}
}

func at(t time.Time) *time.Time { return &t }

func playerByName(t *testing.T, players []model.Player, name string) model.Player {
	t.Helper()
	for _, p := range players {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("player %q not found in %+v", name, players)
	return model.Player{}
}

// failingPlayers wraps a player repository and fails selected operations.
type failingPlayers struct {
	repository.PlayerRepository
	listErr   error
	saveErr   error
	deleteErr error
}

func (f *failingPlayers) ListByUser(ctx context.Context, userID string) ([]model.Player, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.PlayerRepository.ListByUser(ctx, userID)
}

func (f *failingPlayers) Save(ctx context.Context, p model.Player) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.PlayerRepository.Save(ctx, p)
}

func (f *failingPlayers) Delete(ctx context.Context, userID, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.PlayerRepository.Delete(ctx, userID, id)
}

type failingMatches struct {
	repository.MatchRepository
	saveErr error
}

func (f *failingMatches) Save(ctx context.Context, m model.Match) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.MatchRepository.Save(ctx, m)
}
