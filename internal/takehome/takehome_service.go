package takehome

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service interface {
	// TakeHome is the administrative preview. An employee with no active
	// assignment gets a zeroed breakdown, never an error, so the endpoint is
	// safe to call for employees mid-onboarding.
	TakeHome(ctx context.Context, employeeID string) (Breakdown, error)

	// ForPayrun is the salary-run variant: loan-linked employee deductions
	// drop out of the deduction set and active loans come back as
	// installment lines instead, so a loan is never charged twice.
	ForPayrun(ctx context.Context, employeeID string) (Breakdown, error)

	// AllowanceOnly pays out a single allowance. Percentage rates resolve
	// against the employee's real base salary, but the base itself is not
	// part of the run; an employee with no assignment resolves against a
	// zero base.
	AllowanceOnly(ctx context.Context, employeeID, allowanceID string) (Breakdown, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func zeroBreakdown(employeeID string) Breakdown {
	return Breakdown{
		EmployeeID:        employeeID,
		BaseSalary:        decimal.Zero,
		Allowances:        []AllowanceLine{},
		Deductions:        []DeductionLine{},
		GrossPay:          decimal.Zero,
		TotalAllowanceTax: decimal.Zero,
		TotalDeductions:   decimal.Zero,
		TotalLoans:        decimal.Zero,
		NetPay:            decimal.Zero,
	}
}

func (s *service) resolve(ctx context.Context, employeeID string) (*ActiveAssignment, []AllowanceRate, []DeductionRate, []DeductionRate, error) {
	assignment, err := s.repo.FindActiveAssignment(ctx, employeeID)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	allowances, err := s.repo.FindAllowanceRates(ctx, employeeID, assignment.SalaryStructureID)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	structureDeds, err := s.repo.FindStructureDeductionRates(ctx, assignment.SalaryStructureID)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	employeeDeds, err := s.repo.FindEmployeeDeductionRates(ctx, employeeID)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	return assignment, allowances, structureDeds, employeeDeds, nil
}

func (s *service) TakeHome(ctx context.Context, employeeID string) (Breakdown, error) {
	assignment, allowances, structureDeds, employeeDeds, err := s.resolve(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return zeroBreakdown(employeeID), nil
		}
		return Breakdown{}, err
	}

	return Compute(employeeID, assignment.BaseSalary, allowances, structureDeds, employeeDeds, nil), nil
}

func (s *service) ForPayrun(ctx context.Context, employeeID string) (Breakdown, error) {
	assignment, allowances, structureDeds, employeeDeds, err := s.resolve(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return zeroBreakdown(employeeID), nil
		}
		return Breakdown{}, err
	}

	nonLoan := make([]DeductionRate, 0, len(employeeDeds))
	for _, d := range employeeDeds {
		if d.LoanApplicationID == nil {
			nonLoan = append(nonLoan, d)
		}
	}

	loans, err := s.repo.FindActiveLoans(ctx, employeeID)
	if err != nil {
		return Breakdown{}, err
	}

	return Compute(employeeID, assignment.BaseSalary, allowances, structureDeds, nonLoan, loans), nil
}

func (s *service) AllowanceOnly(ctx context.Context, employeeID, allowanceID string) (Breakdown, error) {
	rate, err := s.repo.FindAllowanceRate(ctx, allowanceID)
	if err != nil {
		return Breakdown{}, err
	}

	baseSalary := decimal.Zero
	assignment, err := s.repo.FindActiveAssignment(ctx, employeeID)
	switch {
	case err == nil:
		baseSalary = assignment.BaseSalary
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return Breakdown{}, err
	}

	return ComputeAllowanceOnly(employeeID, baseSalary, *rate), nil
}
