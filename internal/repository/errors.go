package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Domain-level errors bubbled up from store implementations.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrConflict      = errors.New("conflict")

	// ErrOtherAccount is returned when a save targets a player or match id
	// already owned by another account.
	ErrOtherAccount = fmt.Errorf("%w: record belongs to another account", ErrConflict)
	// ErrInvalidRecord reports a row rejected by a schema check, such as a
	// negative counter or an out of range winner index.
	ErrInvalidRecord = errors.New("invalid record")
)

// MapPgError translates common Postgres error codes to domain errors.
// Only codes handled explicitly at higher layers are mapped; everything else passes through.
func MapPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return ErrAlreadyExists
		case pgerrcode.ForeignKeyViolation, pgerrcode.SerializationFailure:
			return fmt.Errorf("%w: %s", ErrConflict, pgErr.Code)
		case pgerrcode.CheckViolation:
			return fmt.Errorf("%w: %s", ErrInvalidRecord, pgErr.ConstraintName)
		}
	}
	return err
}
