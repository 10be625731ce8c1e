package loan

import "github.com/shopspring/decimal"

type CreateLoanRequest struct {
	EmployeeID       string          `json:"employee_id" binding:"required"`
	Name             string          `json:"name" binding:"required"`
	Principal        decimal.Decimal `json:"principal" binding:"required"`
	MonthlyDeduction decimal.Decimal `json:"monthly_deduction" binding:"required"`
}

type LoanResponse struct {
	ID               string              `json:"id"`
	EmployeeID       string              `json:"employee_id"`
	Name             string              `json:"name"`
	Principal        decimal.Decimal     `json:"principal"`
	MonthlyDeduction decimal.Decimal     `json:"monthly_deduction"`
	RemainingBalance decimal.Decimal     `json:"remaining_balance"`
	TotalRepaid      decimal.Decimal     `json:"total_repaid"`
	Status           string              `json:"status"`
	Repayments       []RepaymentResponse `json:"repayments,omitempty"`
}

type RepaymentResponse struct {
	ID                string          `json:"id"`
	InstallmentNumber int             `json:"installment_number"`
	Amount            decimal.Decimal `json:"amount"`
	Status            string          `json:"status"`
	PaidAmount        decimal.Decimal `json:"paid_amount"`
	BalanceAfter      decimal.Decimal `json:"balance_after"`
	PaidAt            *string         `json:"paid_at,omitempty"`
	PayrunItemID      *string         `json:"payrun_item_id,omitempty"`
}
