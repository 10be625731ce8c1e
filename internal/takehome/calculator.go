package takehome

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// AllowanceRate is one resolved allowance binding, structure-level or
// employee-level. Both contribute independently.
type AllowanceRate struct {
	AllowanceID   uuid.UUID
	Name          string
	Kind          string
	Percentage    *decimal.Decimal
	FlatAmount    *decimal.Decimal
	Taxable       bool
	TaxPercentage *decimal.Decimal
}

// DeductionRate is one resolved deduction binding. Structure- and
// employee-level rates merge by name, the employee-level row winning.
type DeductionRate struct {
	DeductionID       *uuid.UUID
	Name              string
	Percentage        *decimal.Decimal
	FlatAmount        *decimal.Decimal
	LoanApplicationID *uuid.UUID
}

// LoanDue is an active loan contributing an installment line.
type LoanDue struct {
	LoanApplicationID uuid.UUID
	Name              string
	MonthlyDeduction  decimal.Decimal
	RemainingBalance  decimal.Decimal
}

type AllowanceLine struct {
	AllowanceID uuid.UUID       `json:"allowance_id"`
	Name        string          `json:"name"`
	GrossValue  decimal.Decimal `json:"gross_value"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	NetValue    decimal.Decimal `json:"net_value"`
}

type DeductionLine struct {
	DeductionID *uuid.UUID      `json:"deduction_id,omitempty"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
}

type LoanLine struct {
	LoanApplicationID uuid.UUID       `json:"loan_application_id"`
	Name              string          `json:"name"`
	Installment       decimal.Decimal `json:"installment"`
	BalanceBefore     decimal.Decimal `json:"balance_before"`
	BalanceAfter      decimal.Decimal `json:"balance_after"`
}

// Breakdown is the full take-home picture for one employee at one instant.
type Breakdown struct {
	EmployeeID        string          `json:"employee_id"`
	BaseSalary        decimal.Decimal `json:"base_salary"`
	Allowances        []AllowanceLine `json:"allowances"`
	Deductions        []DeductionLine `json:"deductions"`
	Loans             []LoanLine      `json:"loans,omitempty"`
	GrossPay          decimal.Decimal `json:"gross_pay"`
	TotalAllowanceTax decimal.Decimal `json:"total_allowance_tax"`
	TotalDeductions   decimal.Decimal `json:"total_deductions"`
	TotalLoans        decimal.Decimal `json:"total_loans"`
	NetPay            decimal.Decimal `json:"net_pay"`
}

// rateValue resolves a percentage-or-flat rate against the base salary.
// A zero percentage is treated as unset so flat-only rows read cleanly.
func rateValue(percentage, flatAmount *decimal.Decimal, baseSalary decimal.Decimal) decimal.Decimal {
	if percentage != nil && !percentage.IsZero() {
		return percentage.Div(hundred).Mul(baseSalary)
	}
	if flatAmount != nil {
		return *flatAmount
	}
	return decimal.Zero
}

// mergeDeductions folds employee-level rates over structure-level rates,
// keyed by display name. Order is structure rates first (overridden in
// place), then employee-only rates, so output stays deterministic.
func mergeDeductions(structure, employee []DeductionRate) []DeductionRate {
	merged := make([]DeductionRate, len(structure))
	copy(merged, structure)

	index := make(map[string]int, len(structure))
	for i, d := range structure {
		index[d.Name] = i
	}

	for _, d := range employee {
		if i, ok := index[d.Name]; ok {
			merged[i] = d
			continue
		}
		index[d.Name] = len(merged)
		merged = append(merged, d)
	}
	return merged
}

// Compute derives the breakdown from already-resolved inputs. It is pure;
// all storage access happens in the service before calling it.
func Compute(employeeID string, baseSalary decimal.Decimal, allowances []AllowanceRate, structureDeductions, employeeDeductions []DeductionRate, loans []LoanDue) Breakdown {
	b := Breakdown{
		EmployeeID:        employeeID,
		BaseSalary:        baseSalary,
		Allowances:        []AllowanceLine{},
		Deductions:        []DeductionLine{},
		GrossPay:          baseSalary,
		TotalAllowanceTax: decimal.Zero,
		TotalDeductions:   decimal.Zero,
		TotalLoans:        decimal.Zero,
	}

	for _, a := range allowances {
		gross := rateValue(a.Percentage, a.FlatAmount, baseSalary)
		tax := decimal.Zero
		if a.Taxable && a.TaxPercentage != nil {
			tax = a.TaxPercentage.Div(hundred).Mul(gross)
		}
		b.Allowances = append(b.Allowances, AllowanceLine{
			AllowanceID: a.AllowanceID,
			Name:        a.Name,
			GrossValue:  gross,
			TaxAmount:   tax,
			NetValue:    gross.Sub(tax),
		})
		b.GrossPay = b.GrossPay.Add(gross)
		b.TotalAllowanceTax = b.TotalAllowanceTax.Add(tax)
	}

	for _, d := range mergeDeductions(structureDeductions, employeeDeductions) {
		amount := rateValue(d.Percentage, d.FlatAmount, baseSalary)
		b.Deductions = append(b.Deductions, DeductionLine{
			DeductionID: d.DeductionID,
			Name:        d.Name,
			Amount:      amount,
		})
		b.TotalDeductions = b.TotalDeductions.Add(amount)
	}

	for _, l := range loans {
		installment := l.MonthlyDeduction
		if installment.GreaterThan(l.RemainingBalance) {
			installment = l.RemainingBalance
		}
		b.Loans = append(b.Loans, LoanLine{
			LoanApplicationID: l.LoanApplicationID,
			Name:              l.Name,
			Installment:       installment,
			BalanceBefore:     l.RemainingBalance,
			BalanceAfter:      l.RemainingBalance.Sub(installment),
		})
		b.TotalLoans = b.TotalLoans.Add(installment)
	}

	b.NetPay = b.GrossPay.Sub(b.TotalAllowanceTax).Sub(b.TotalDeductions).Sub(b.TotalLoans)
	return b
}

// ComputeAllowanceOnly builds the breakdown for a single-allowance run.
// Base salary is reported as zero because it is not being paid, so the
// allowance value must come from its flat amount or from the percentage
// applied to the employee's real base.
func ComputeAllowanceOnly(employeeID string, baseSalary decimal.Decimal, a AllowanceRate) Breakdown {
	gross := rateValue(a.Percentage, a.FlatAmount, baseSalary)
	tax := decimal.Zero
	if a.Taxable && a.TaxPercentage != nil {
		tax = a.TaxPercentage.Div(hundred).Mul(gross)
	}

	return Breakdown{
		EmployeeID: employeeID,
		BaseSalary: decimal.Zero,
		Allowances: []AllowanceLine{{
			AllowanceID: a.AllowanceID,
			Name:        a.Name,
			GrossValue:  gross,
			TaxAmount:   tax,
			NetValue:    gross.Sub(tax),
		}},
		Deductions:        []DeductionLine{},
		GrossPay:          gross,
		TotalAllowanceTax: tax,
		TotalDeductions:   decimal.Zero,
		TotalLoans:        decimal.Zero,
		NetPay:            gross.Sub(tax),
	}
}
