package allowance

import "github.com/shopspring/decimal"

type CreateAllowanceRequest struct {
	Name          string           `json:"name" binding:"required"`
	Kind          string           `json:"kind"`
	Percentage    *decimal.Decimal `json:"percentage"`
	FlatAmount    *decimal.Decimal `json:"flat_amount"`
	Taxable       bool             `json:"taxable"`
	TaxPercentage *decimal.Decimal `json:"tax_percentage"`
}

type UpdateAllowanceRequest struct {
	Name          string           `json:"name" binding:"required"`
	Kind          string           `json:"kind"`
	Percentage    *decimal.Decimal `json:"percentage"`
	FlatAmount    *decimal.Decimal `json:"flat_amount"`
	Taxable       bool             `json:"taxable"`
	TaxPercentage *decimal.Decimal `json:"tax_percentage"`
}

type AllowanceResponse struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Kind          string           `json:"kind"`
	Percentage    *decimal.Decimal `json:"percentage,omitempty"`
	FlatAmount    *decimal.Decimal `json:"flat_amount,omitempty"`
	Taxable       bool             `json:"taxable"`
	TaxPercentage *decimal.Decimal `json:"tax_percentage,omitempty"`
}
