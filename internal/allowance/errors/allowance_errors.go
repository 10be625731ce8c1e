package allowanceerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrAllowanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"allowance not found",
		http.StatusNotFound,
	)
	ErrDuplicateName = apperror.New(
		apperror.CodeConflict,
		"an allowance with this name already exists",
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
	ErrTaxRateRequired = apperror.New(
		apperror.CodeInvalidInput,
		"tax_percentage is required for a taxable allowance",
		http.StatusBadRequest,
	)
	ErrTaxRateWithoutTaxable = apperror.New(
		apperror.CodeInvalidInput,
		"tax_percentage is only allowed on a taxable allowance",
		http.StatusBadRequest,
	)
	ErrInvalidKind = apperror.New(
		apperror.CodeInvalidInput,
		"kind must be recurring or one_time",
		http.StatusBadRequest,
	)
	ErrAllowanceInUse = apperror.New(
		apperror.CodeConflict,
		"allowance is referenced by an active binding and cannot be deleted",
		http.StatusConflict,
	)
)
