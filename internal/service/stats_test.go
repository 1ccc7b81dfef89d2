package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavinrajasekaran/TennisTracker/internal/model"
	"github.com/kavinrajasekaran/TennisTracker/internal/repository"
	"github.com/kavinrajasekaran/TennisTracker/internal/scoring"
	"github.com/kavinrajasekaran/TennisTracker/internal/service"
)

func seedHistory(t *testing.T, st service.Stores) {
	t.Helper()
	ctx := context.Background()
	svc := service.NewMatchService(st, service.Options{}, discard)
	base := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	forms := []service.MatchForm{
		singles("Ana", "Ben", set("6", "4"), set("6", "3")),
		singles("Ben", "Ana", set("6", "2"), set("6", "1")),
		singles("Ana", "Cat", set("7", "5"), set("4", "6"), set("6", "4")),
		{MatchType: "doubles", Team1: []string{"Ana", "Dan"}, Team2: []string{"Ben", "Cat"}, Sets: []scoring.SetInput{set("6", "3")}},
	}
	for i, f := range forms {
		f.Timestamp = at(base.Add(time.Duration(i) * 24 * time.Hour))
		_, err := svc.SaveMatch(ctx, testUser, f)
		require.NoError(t, err)
	}
}

func TestStatsService_RecalculateMatchesIncremental(t *testing.T) {
	ctx := context.Background()
	_, st := newStores()
	seedHistory(t, st)
	svc := service.NewStatsService(st, service.Options{}, discard)

	before, err := svc.ListPlayers(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, before, 4)

	// wipe one record's counters so the rebuild has something to repair
	broken := playerByName(t, before, "Ana")
	broken.Stats = model.PlayerStats{}
	require.NoError(t, st.Players.Save(ctx, broken))

	after, err := svc.Recalculate(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, after, 4)
	for _, want := range before {
		got := playerByName(t, after, want.Name)
		assert.Equal(t, want.Stats, got.Stats, want.Name)
	}

	stored, err := svc.ListPlayers(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, playerByName(t, before, "Ana").Stats, playerByName(t, stored, "Ana").Stats)
}

func TestStatsService_PlayerSummary(t *testing.T) {
	ctx := context.Background()
	_, st := newStores()
	seedHistory(t, st)
	svc := service.NewStatsService(st, service.Options{RecentFormSize: 3}, discard)

	players, err := svc.ListPlayers(ctx, testUser)
	require.NoError(t, err)
	ana := playerByName(t, players, "Ana")

	sum, err := svc.PlayerSummary(ctx, testUser, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Player.Stats.MatchesPlayed)
	assert.InDelta(t, 75.0, sum.WinPercentage, 1e-9)
	assert.Equal(t, []string{"W", "W", "L"}, sum.RecentForm)

	_, err = svc.PlayerSummary(ctx, testUser, "nobody")
	assert.True(t, errors.Is(err, repository.ErrNotFound))

	_, err = svc.PlayerSummary(ctx, "someone-else", ana.ID)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestStatsService_HeadToHead(t *testing.T) {
	ctx := context.Background()
	_, st := newStores()
	seedHistory(t, st)
	svc := service.NewStatsService(st, service.Options{}, discard)

	players, err := svc.ListPlayers(ctx, testUser)
	require.NoError(t, err)

	recs, err := svc.HeadToHead(ctx, testUser, playerByName(t, players, "Ana").ID)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	// Cat 2-0 ranks above Ben 2-1
	assert.Equal(t, "Cat", recs[0].Opponent.Name)
	assert.Equal(t, 2, recs[0].Wins)
	assert.Equal(t, 0, recs[0].Losses)
	assert.Equal(t, "Ben", recs[1].Opponent.Name)
	assert.Equal(t, 2, recs[1].Wins)
	assert.Equal(t, 1, recs[1].Losses)

	ben, err := svc.HeadToHead(ctx, testUser, playerByName(t, players, "Ben").ID)
	require.NoError(t, err)
	for _, r := range ben {
		if r.Opponent.Name == "Ana" {
			assert.Equal(t, 1, r.Wins)
			assert.Equal(t, 2, r.Losses)
		}
	}
}

func TestStatsService_StoreFailure(t *testing.T) {
	_, st := newStores()
	st.Players = &failingPlayers{PlayerRepository: st.Players, listErr: errors.New("timeout")}
	svc := service.NewStatsService(st, service.Options{}, discard)

	_, err := svc.PlayerSummary(context.Background(), testUser, "p-1")
	assert.True(t, errors.Is(err, service.ErrStoreFailure))
	_, err = svc.Recalculate(context.Background(), testUser)
	assert.True(t, errors.Is(err, service.ErrStoreFailure))
}
