package services

import (
	"github.com/volunteerhub/rewards_service/pkg/errors"
	"github.com/volunteerhub/rewards_service/pkg/logger"
	"github.com/volunteerhub/rewards_service/pkg/metrics"
)

// withRetry runs an atomic storage operation, retrying exactly once on a
// transient write conflict. A second conflict surfaces as
// TRANSACTION_ABORTED; every other error passes through unchanged.
func withRetry[T any](m *metrics.Manager, op string, fn func() (T, error)) (T, error) {
	result, err := fn()
	if err == nil || !errors.HasCode(err, errors.ErrCodeWriteConflict) {
		return result, err
	}

	logger.Warn("Retrying after write conflict", "operation", op)
	if m != nil {
		m.TxRetries.Inc()
	}

	result, err = fn()
	if err != nil && errors.HasCode(err, errors.ErrCodeWriteConflict) {
		return result, errors.Wrap(err, errors.ErrCodeTransactionAborted,
			op+" aborted after conflicting twice")
	}
	return result, err
}
