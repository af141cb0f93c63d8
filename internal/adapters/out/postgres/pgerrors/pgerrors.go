// Package pgerrors classifies Postgres driver errors for the persistence
// adapters.
package pgerrors

import (
	"errors"

	"canteen/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes for conflicts that are safe to retry.
const (
	serializationFailure = "40001"
	deadlockDetected     = "40P01"
)

// WrapTransient marks retryable Postgres failures as transient so command
// handlers can retry the whole atomic unit. Serialization failures and
// deadlocks resolve themselves on a fresh attempt; everything else passes
// through unchanged.
func WrapTransient(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == serializationFailure || pgErr.Code == deadlockDetected {
			return errs.NewTransientError(err)
		}
	}

	return err
}
