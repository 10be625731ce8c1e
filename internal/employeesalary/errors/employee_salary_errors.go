package employeesalaryerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrAssignmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"no active structure assignment for this employee",
		http.StatusNotFound,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrStructureNotFound = apperror.New(
		apperror.CodeNotFound,
		"salary structure not found",
		http.StatusNotFound,
	)
	ErrStructureInactive = apperror.New(
		apperror.CodeInvalidState,
		"salary structure is inactive and cannot accept new assignments",
		http.StatusBadRequest,
	)
	ErrAlreadyAssigned = apperror.New(
		apperror.CodeConflict,
		"employee is already assigned to this structure",
		http.StatusConflict,
	)
	ErrConcurrentAssignment = apperror.New(
		apperror.CodeConflict,
		"a concurrent assignment for this employee won, please retry",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidStructureID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid salary structure id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrBindingExists = apperror.New(
		apperror.CodeConflict,
		"this item is already actively granted to the employee",
		http.StatusConflict,
	)
	ErrBindingNotFound = apperror.New(
		apperror.CodeNotFound,
		"no active grant found for this item",
		http.StatusNotFound,
	)
	ErrDeductionNotFound = apperror.New(
		apperror.CodeNotFound,
		"deduction not found",
		http.StatusNotFound,
	)
	ErrAllowanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"allowance not found",
		http.StatusNotFound,
	)
	ErrRateRequired = apperror.New(
		apperror.CodeInvalidInput,
		"exactly one of percentage or flat_amount must be set",
		http.StatusBadRequest,
	)
	ErrRateAmbiguous = apperror.New(
		apperror.CodeInvalidInput,
		"percentage and flat_amount are mutually exclusive",
		http.StatusBadRequest,
	)
)
