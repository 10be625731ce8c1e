package payrun

import (
	"errors"
	"strings"

	payrunerrors "go-payroll/internal/payrun/errors"
	"go-payroll/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
)

// mapRepositoryError folds the period uniqueness race into a conflict the
// caller can act on. Two concurrent generates for the same tuple both pass
// the lookup; the index decides the winner.
func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_payruns_period" {
			return payrunerrors.ErrDuplicatePeriod
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_payruns_period") {
		return payrunerrors.ErrDuplicatePeriod
	}

	return err
}
