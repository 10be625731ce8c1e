package loanerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrLoanNotFound = apperror.New(
		apperror.CodeNotFound,
		"loan application not found",
		http.StatusNotFound,
	)
	ErrLoanNotActive = apperror.New(
		apperror.CodeInvalidState,
		"loan application is not active",
		http.StatusConflict,
	)
	ErrNoPendingInstallment = apperror.New(
		apperror.CodeInvalidState,
		"loan has no pending installment left",
		http.StatusConflict,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrInvalidLoanID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid loan application id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrPrincipalNotPositive = apperror.New(
		apperror.CodeInvalidInput,
		"principal must be greater than zero",
		http.StatusBadRequest,
	)
	ErrMonthlyNotPositive = apperror.New(
		apperror.CodeInvalidInput,
		"monthly_deduction must be greater than zero",
		http.StatusBadRequest,
	)
	ErrMonthlyExceedsPrincipal = apperror.New(
		apperror.CodeInvalidInput,
		"monthly_deduction cannot exceed the principal",
		http.StatusBadRequest,
	)
)
