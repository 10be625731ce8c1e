package salarystructure

import (
	"errors"
	"strings"

	salarystructureerrors "go-payroll/internal/salarystructure/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return salarystructureerrors.ErrStructureNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "uq_salary_structures_name":
			return salarystructureerrors.ErrDuplicateName
		case "uq_salary_allowances_active", "uq_salary_deductions_active":
			return salarystructureerrors.ErrBindingExists
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") {
		if strings.Contains(errMsg, "uq_salary_structures_name") {
			return salarystructureerrors.ErrDuplicateName
		}
		if strings.Contains(errMsg, "uq_salary_allowances_active") || strings.Contains(errMsg, "uq_salary_deductions_active") {
			return salarystructureerrors.ErrBindingExists
		}
	}

	return err
}
