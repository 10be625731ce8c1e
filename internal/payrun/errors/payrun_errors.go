package payrunerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrPayrunNotFound = apperror.New(
		apperror.CodeNotFound,
		"payrun not found",
		http.StatusNotFound,
	)
	ErrDuplicatePeriod = apperror.New(
		apperror.CodeConflict,
		"a payrun already exists for this period and type",
		http.StatusConflict,
	)
	ErrEmptyCohort = apperror.New(
		apperror.CodeInvalidState,
		"no eligible employees for this payrun",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidType = apperror.New(
		apperror.CodeInvalidInput,
		"payrun type must be salary or allowance",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payrun period",
		http.StatusBadRequest,
	)
	ErrAllowanceRequired = apperror.New(
		apperror.CodeInvalidInput,
		"allowance_id is required for allowance payruns",
		http.StatusBadRequest,
	)
	ErrAllowanceNotAllowed = apperror.New(
		apperror.CodeInvalidInput,
		"allowance_id is only valid for allowance payruns",
		http.StatusBadRequest,
	)
	ErrAllowanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"allowance not found",
		http.StatusNotFound,
	)
	ErrInvalidActor = apperror.New(
		apperror.CodeUnauthorized,
		"could not resolve the acting employee",
		http.StatusUnauthorized,
	)
	ErrInvalidPayrunID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payrun id",
		http.StatusBadRequest,
	)
	ErrCannotApprove = apperror.New(
		apperror.CodeInvalidState,
		"payrun can only be approved from draft or pending",
		http.StatusConflict,
	)
	ErrCannotComplete = apperror.New(
		apperror.CodeInvalidState,
		"payrun can only be completed from approved",
		http.StatusConflict,
	)
	ErrCannotRollback = apperror.New(
		apperror.CodeInvalidState,
		"a paid payrun cannot be rolled back",
		http.StatusConflict,
	)
	ErrDuplicateLoanDetail = apperror.New(
		apperror.CodeInternalError,
		"payrun contains more than one installment for the same loan",
		http.StatusInternalServerError,
	)
)
