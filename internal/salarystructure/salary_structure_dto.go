package salarystructure

import "github.com/shopspring/decimal"

type CreateStructureRequest struct {
	Name       string          `json:"name" binding:"required"`
	BaseSalary decimal.Decimal `json:"base_salary" binding:"required"`
}

type UpdateStructureRequest struct {
	Name       string          `json:"name" binding:"required"`
	BaseSalary decimal.Decimal `json:"base_salary" binding:"required"`
}

type AttachBindingRequest struct {
	EffectiveFrom string `json:"effective_from"` // YYYY-MM-DD, defaults to today
}

type StructureResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	BaseSalary    decimal.Decimal `json:"base_salary"`
	IsActive      bool            `json:"is_active"`
	EmployeeCount int             `json:"employee_count"`
}

type BindingResponse struct {
	ID            string  `json:"id"`
	StructureID   string  `json:"structure_id"`
	CatalogID     string  `json:"catalog_id"`
	CatalogName   string  `json:"catalog_name,omitempty"`
	EffectiveFrom string  `json:"effective_from"`
	EffectiveTo   *string `json:"effective_to,omitempty"`
}
