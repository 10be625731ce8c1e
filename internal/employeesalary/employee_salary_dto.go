package employeesalary

import "github.com/shopspring/decimal"

type AssignStructureRequest struct {
	EmployeeID        string `json:"employee_id" binding:"required"`
	SalaryStructureID string `json:"salary_structure_id" binding:"required"`
	EffectiveFrom     string `json:"effective_from"` // YYYY-MM-DD, defaults to today
}

type GrantAllowanceRequest struct {
	AllowanceID   string `json:"allowance_id" binding:"required"`
	EffectiveFrom string `json:"effective_from"`
}

type GrantDeductionRequest struct {
	DeductionID   string           `json:"deduction_id" binding:"required"`
	Name          string           `json:"name"` // defaults to the catalog name
	Percentage    *decimal.Decimal `json:"percentage"`
	FlatAmount    *decimal.Decimal `json:"flat_amount"`
	EffectiveFrom string           `json:"effective_from"`
}

type AssignmentResponse struct {
	ID                string  `json:"id"`
	EmployeeID        string  `json:"employee_id"`
	SalaryStructureID string  `json:"salary_structure_id"`
	StructureName     string  `json:"structure_name,omitempty"`
	EffectiveFrom     string  `json:"effective_from"`
	EffectiveTo       *string `json:"effective_to,omitempty"`
}

type EmployeeAllowanceResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	AllowanceID   string  `json:"allowance_id"`
	EffectiveFrom string  `json:"effective_from"`
	EffectiveTo   *string `json:"effective_to,omitempty"`
}

type EmployeeDeductionResponse struct {
	ID              string           `json:"id"`
	EmployeeID      string           `json:"employee_id"`
	DeductionID     *string          `json:"deduction_id,omitempty"`
	Name            string           `json:"name"`
	Percentage      *decimal.Decimal `json:"percentage,omitempty"`
	FlatAmount      *decimal.Decimal `json:"flat_amount,omitempty"`
	OriginalAmount  decimal.Decimal  `json:"original_amount"`
	RemainingAmount decimal.Decimal  `json:"remaining_amount"`
	IsActive        bool             `json:"is_active"`
	EffectiveFrom   string           `json:"effective_from"`
	EffectiveTo     *string          `json:"effective_to,omitempty"`
}
