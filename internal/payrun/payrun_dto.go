package payrun

import "github.com/shopspring/decimal"

type GeneratePayrunRequest struct {
	Type        string `json:"type" binding:"required,oneof=salary allowance"`
	Year        int    `json:"year" binding:"required"`
	Month       int    `json:"month" binding:"required"`
	Day         int    `json:"day"` // defaults to 1
	AllowanceID string `json:"allowance_id"`
}

type PayrunResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Type            string          `json:"type"`
	AllowanceID     *string         `json:"allowance_id,omitempty"`
	Year            int             `json:"year"`
	Month           int             `json:"month"`
	Day             int             `json:"day"`
	EmployeeCount   int             `json:"employee_count"`
	TotalGross      decimal.Decimal `json:"total_gross"`
	TotalTax        decimal.Decimal `json:"total_tax"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalLoans      decimal.Decimal `json:"total_loans"`
	TotalNet        decimal.Decimal `json:"total_net"`
	Status          string          `json:"status"`
	GeneratedBy     string          `json:"generated_by"`
	ApprovedBy      *string         `json:"approved_by,omitempty"`
	ApprovedAt      *string         `json:"approved_at,omitempty"`
	CompletedBy     *string         `json:"completed_by,omitempty"`
	CompletedAt     *string         `json:"completed_at,omitempty"`
}

type PayrunItemResponse struct {
	ID                string                 `json:"id"`
	EmployeeID        string                 `json:"employee_id"`
	BaseSalary        decimal.Decimal        `json:"base_salary"`
	GrossPay          decimal.Decimal        `json:"gross_pay"`
	TotalAllowanceTax decimal.Decimal        `json:"total_allowance_tax"`
	TotalDeductions   decimal.Decimal        `json:"total_deductions"`
	TotalLoans        decimal.Decimal        `json:"total_loans"`
	NetPay            decimal.Decimal        `json:"net_pay"`
	Status            string                 `json:"status"`
	Details           []PayrunDetailResponse `json:"details"`
}

type PayrunDetailResponse struct {
	ID                string           `json:"id"`
	Kind              string           `json:"kind"`
	Name              string           `json:"name"`
	Amount            decimal.Decimal  `json:"amount"`
	AllowanceID       *string          `json:"allowance_id,omitempty"`
	DeductionID       *string          `json:"deduction_id,omitempty"`
	LoanApplicationID *string          `json:"loan_application_id,omitempty"`
	BalanceBefore     *decimal.Decimal `json:"balance_before,omitempty"`
	BalanceAfter      *decimal.Decimal `json:"balance_after,omitempty"`
}

type PayrunDetailedResponse struct {
	PayrunResponse
	Items []PayrunItemResponse `json:"items"`
}
