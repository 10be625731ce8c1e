package deduction

import "github.com/shopspring/decimal"

type CreateDeductionRequest struct {
	Name       string           `json:"name" binding:"required"`
	Kind       string           `json:"kind"`
	Percentage *decimal.Decimal `json:"percentage"`
	FlatAmount *decimal.Decimal `json:"flat_amount"`
}

type UpdateDeductionRequest struct {
	Name       string           `json:"name" binding:"required"`
	Kind       string           `json:"kind"`
	Percentage *decimal.Decimal `json:"percentage"`
	FlatAmount *decimal.Decimal `json:"flat_amount"`
}

type DeductionResponse struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Kind       string           `json:"kind"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
	FlatAmount *decimal.Decimal `json:"flat_amount,omitempty"`
}
