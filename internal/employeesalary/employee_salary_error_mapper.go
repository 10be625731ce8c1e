package employeesalary

import (
	"errors"
	"strings"

	employeesalaryerrors "go-payroll/internal/employeesalary/errors"
	"go-payroll/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// mapRepositoryError folds storage-level failures into the sentinel errors
// this module exposes. The partial unique indexes on open rows are the last
// line of defense against two writers racing past the service checks.
func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeesalaryerrors.ErrAssignmentNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "uq_employee_salary_active":
			return employeesalaryerrors.ErrConcurrentAssignment
		case "uq_employee_allowances_active":
			return employeesalaryerrors.ErrBindingExists
		}
	}
	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") {
		if strings.Contains(errMsg, "uq_employee_salary_active") {
			return employeesalaryerrors.ErrConcurrentAssignment
		}
		return employeesalaryerrors.ErrBindingExists
	}

	return err
}
