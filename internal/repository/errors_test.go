package repository_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/kavinrajasekaran/TennisTracker/internal/repository"
)

func TestMapPgError(t *testing.T) {
	plain := errors.New("dial tcp")
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"unique", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, repository.ErrAlreadyExists},
		{"serialization", &pgconn.PgError{Code: pgerrcode.SerializationFailure}, repository.ErrConflict},
		{"foreign key wrapped", fmt.Errorf("save match: %w", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}), repository.ErrConflict},
		{"check", &pgconn.PgError{Code: pgerrcode.CheckViolation, ConstraintName: "players_matches_won_check"}, repository.ErrInvalidRecord},
		{"passthrough", plain, plain},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := repository.MapPgError(tc.in)
			if tc.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tc.want)
		})
	}
}

func TestMapPgError_CheckNamesConstraint(t *testing.T) {
	err := repository.MapPgError(&pgconn.PgError{Code: pgerrcode.CheckViolation, ConstraintName: "matches_winner_team_index_check"})
	assert.Contains(t, err.Error(), "matches_winner_team_index_check")
}

func TestErrOtherAccount_IsConflict(t *testing.T) {
	assert.ErrorIs(t, repository.ErrOtherAccount, repository.ErrConflict)
	assert.False(t, errors.Is(repository.ErrConflict, repository.ErrOtherAccount))
}
