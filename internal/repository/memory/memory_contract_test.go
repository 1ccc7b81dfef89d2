package memory

import (
	"testing"

	"github.com/kavinrajasekaran/TennisTracker/internal/repository"
	"github.com/kavinrajasekaran/TennisTracker/internal/repository/contract"
)

func TestPlayerRepository_MemoryContract(t *testing.T) {
	contract.RunPlayerRepositoryContract(t, func(t *testing.T) (repository.PlayerRepository, func()) {
		return NewStore().Players(), func() {}
	})
}

func TestMatchRepository_MemoryContract(t *testing.T) {
	contract.RunMatchRepositoryContract(t, func(t *testing.T) (repository.MatchRepository, func()) {
		return NewStore().Matches(), func() {}
	})
}

func TestTxManager_MemoryContract(t *testing.T) {
	contract.RunTxManagerContract(t, func(t *testing.T) (repository.TxManager, repository.PlayerRepository, func()) {
		s := NewStore()
		return s, s.Players(), func() {}
	})
}

func TestPinger_MemoryContract(t *testing.T) {
	contract.RunPingerContract(t, func(t *testing.T) (repository.Pinger, func()) {
		return NewStore(), func() {}
	})
}
