package salarystructureerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrStructureNotFound = apperror.New(
		apperror.CodeNotFound,
		"salary structure not found",
		http.StatusNotFound,
	)
	ErrDuplicateName = apperror.New(
		apperror.CodeConflict,
		"a salary structure with this name already exists",
		http.StatusConflict,
	)
	ErrBaseSalaryNotPositive = apperror.New(
		apperror.CodeInvalidInput,
		"base_salary must be greater than zero",
		http.StatusBadRequest,
	)
	ErrStructureInactive = apperror.New(
		apperror.CodeInvalidState,
		"salary structure is inactive and cannot accept new bindings or assignments",
		http.StatusBadRequest,
	)
	ErrStructureHasEmployees = apperror.New(
		apperror.CodeInvalidState,
		"salary structure still has assigned employees and cannot be deactivated",
		http.StatusBadRequest,
	)
	ErrBindingExists = apperror.New(
		apperror.CodeConflict,
		"this item is already actively bound to the structure",
		http.StatusConflict,
	)
	ErrBindingNotFound = apperror.New(
		apperror.CodeNotFound,
		"no active binding found for this item",
		http.StatusNotFound,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
)
