package repositories

import (
	stderrors "errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/volunteerhub/rewards_service/pkg/errors"
)

// Postgres SQLSTATE codes for transient write conflicts. Operations that
// fail with one of these may be retried by the owning service.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

func isWriteConflict(err error) bool {
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
	}
	return false
}

// finishTx normalizes a transaction result: domain errors pass through
// untouched, transient conflicts are tagged retryable, anything else is
// an internal error.
func finishTx(err error, op string) error {
	if err == nil {
		return nil
	}
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	if isWriteConflict(err) {
		return errors.Wrap(err, errors.ErrCodeWriteConflict, "write conflict while trying to "+op)
	}
	return errors.Wrap(err, errors.ErrCodeInternalError, "failed to "+op)
}
