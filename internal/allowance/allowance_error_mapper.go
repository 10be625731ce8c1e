package allowance

import (
	"errors"
	"strings"

	allowanceerrors "go-payroll/internal/allowance/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return allowanceerrors.ErrAllowanceNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_allowances_name" {
			return allowanceerrors.ErrDuplicateName
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_allowances_name") {
		return allowanceerrors.ErrDuplicateName
	}

	return err
}
