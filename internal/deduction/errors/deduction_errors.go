package deductionerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrDeductionNotFound = apperror.New(
		apperror.CodeNotFound,
		"deduction not found",
		http.StatusNotFound,
	)
	ErrDuplicateName = apperror.New(
		apperror.CodeConflict,
		"a deduction with this name already exists",
		http.StatusConflict,
	)
	ErrRateRequired = apperror.New(
		apperror.CodeInvalidInput,
		"exactly one of percentage or flat_amount must be set",
		http.StatusBadRequest,
	)
	ErrRateAmbiguous = apperror.New(
		apperror.CodeInvalidInput,
		"percentage and flat_amount cannot both be set",
		http.StatusBadRequest,
	)
	ErrRateNotPositive = apperror.New(
		apperror.CodeInvalidInput,
		"percentage or flat_amount must be greater than zero",
		http.StatusBadRequest,
	)
	ErrInvalidKind = apperror.New(
		apperror.CodeInvalidInput,
		"kind must be recurring or one_time",
		http.StatusBadRequest,
	)
	ErrDeductionInUse = apperror.New(
		apperror.CodeConflict,
		"deduction is referenced by an active binding and cannot be deleted",
		http.StatusConflict,
	)
)
