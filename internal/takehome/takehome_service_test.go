package takehome_test

import (
	"context"
	"testing"

	"go-payroll/internal/takehome"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeTakeHomeRepository struct {
	findActiveAssignmentFn func(ctx context.Context, employeeID string) (*takehome.ActiveAssignment, error)
	findAllowanceRatesFn   func(ctx context.Context, employeeID, structureID string) ([]takehome.AllowanceRate, error)
	findStructureDedsFn    func(ctx context.Context, structureID string) ([]takehome.DeductionRate, error)
	findEmployeeDedsFn     func(ctx context.Context, employeeID string) ([]takehome.DeductionRate, error)
	findActiveLoansFn      func(ctx context.Context, employeeID string) ([]takehome.LoanDue, error)
	findAllowanceRateFn    func(ctx context.Context, allowanceID string) (*takehome.AllowanceRate, error)
}

func (f *fakeTakeHomeRepository) FindActiveAssignment(ctx context.Context, employeeID string) (*takehome.ActiveAssignment, error) {
	if f.findActiveAssignmentFn != nil {
		return f.findActiveAssignmentFn(ctx, employeeID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTakeHomeRepository) FindAllowanceRates(ctx context.Context, employeeID, structureID string) ([]takehome.AllowanceRate, error) {
	if f.findAllowanceRatesFn != nil {
		return f.findAllowanceRatesFn(ctx, employeeID, structureID)
	}
	return nil, nil
}

func (f *fakeTakeHomeRepository) FindStructureDeductionRates(ctx context.Context, structureID string) ([]takehome.DeductionRate, error) {
	if f.findStructureDedsFn != nil {
		return f.findStructureDedsFn(ctx, structureID)
	}
	return nil, nil
}

func (f *fakeTakeHomeRepository) FindEmployeeDeductionRates(ctx context.Context, employeeID string) ([]takehome.DeductionRate, error) {
	if f.findEmployeeDedsFn != nil {
		return f.findEmployeeDedsFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakeTakeHomeRepository) FindActiveLoans(ctx context.Context, employeeID string) ([]takehome.LoanDue, error) {
	if f.findActiveLoansFn != nil {
		return f.findActiveLoansFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakeTakeHomeRepository) FindAllowanceRate(ctx context.Context, allowanceID string) (*takehome.AllowanceRate, error) {
	if f.findAllowanceRateFn != nil {
		return f.findAllowanceRateFn(ctx, allowanceID)
	}
	return nil, gorm.ErrRecordNotFound
}

func TestTakeHome_NoActiveAssignmentIsZeroed(t *testing.T) {
	repo := &fakeTakeHomeRepository{}
	svc := takehome.NewService(repo)

	employeeID := uuid.New().String()
	b, err := svc.TakeHome(context.Background(), employeeID)

	assert.NoError(t, err)
	assert.Equal(t, employeeID, b.EmployeeID)
	assert.True(t, b.BaseSalary.IsZero())
	assert.True(t, b.NetPay.IsZero())
	assert.Empty(t, b.Allowances)
	assert.Empty(t, b.Deductions)
}

func TestTakeHome_IncludesLoanLinkedDeductionAsRegularLine(t *testing.T) {
	structureID := uuid.New().String()
	loanID := uuid.New()

	repo := &fakeTakeHomeRepository{
		findActiveAssignmentFn: func(ctx context.Context, employeeID string) (*takehome.ActiveAssignment, error) {
			return &takehome.ActiveAssignment{SalaryStructureID: structureID, BaseSalary: dec("3000")}, nil
		},
		findEmployeeDedsFn: func(ctx context.Context, employeeID string) ([]takehome.DeductionRate, error) {
			return []takehome.DeductionRate{
				{Name: "Staff Loan", FlatAmount: decPtr("100"), LoanApplicationID: &loanID},
			}, nil
		},
	}
	svc := takehome.NewService(repo)

	b, err := svc.TakeHome(context.Background(), uuid.New().String())

	assert.NoError(t, err)
	assert.Len(t, b.Deductions, 1)
	assert.Empty(t, b.Loans)
	assert.True(t, b.NetPay.Equal(dec("2900")))
}

func TestForPayrun_LoanDeductionExcludedLoanLineAdded(t *testing.T) {
	structureID := uuid.New().String()
	loanID := uuid.New()

	repo := &fakeTakeHomeRepository{
		findActiveAssignmentFn: func(ctx context.Context, employeeID string) (*takehome.ActiveAssignment, error) {
			return &takehome.ActiveAssignment{SalaryStructureID: structureID, BaseSalary: dec("3000")}, nil
		},
		findEmployeeDedsFn: func(ctx context.Context, employeeID string) ([]takehome.DeductionRate, error) {
			return []takehome.DeductionRate{
				{Name: "Staff Loan", FlatAmount: decPtr("100"), LoanApplicationID: &loanID},
				{Name: "Parking", FlatAmount: decPtr("30")},
			}, nil
		},
		findActiveLoansFn: func(ctx context.Context, employeeID string) ([]takehome.LoanDue, error) {
			return []takehome.LoanDue{
				{LoanApplicationID: loanID, Name: "Staff Loan", MonthlyDeduction: dec("100"), RemainingBalance: dec("300")},
			}, nil
		},
	}
	svc := takehome.NewService(repo)

	b, err := svc.ForPayrun(context.Background(), uuid.New().String())

	assert.NoError(t, err)
	// The loan contributes exactly once, as an installment line.
	assert.Len(t, b.Deductions, 1)
	assert.Equal(t, "Parking", b.Deductions[0].Name)
	assert.Len(t, b.Loans, 1)
	assert.True(t, b.TotalLoans.Equal(dec("100")))
	assert.True(t, b.NetPay.Equal(dec("2870")))
}

func TestAllowanceOnly_NoAssignmentResolvesAgainstZeroBase(t *testing.T) {
	allowanceID := uuid.New()

	repo := &fakeTakeHomeRepository{
		findAllowanceRateFn: func(ctx context.Context, id string) (*takehome.AllowanceRate, error) {
			return &takehome.AllowanceRate{AllowanceID: allowanceID, Name: "Transport", Percentage: decPtr("5")}, nil
		},
	}
	svc := takehome.NewService(repo)

	b, err := svc.AllowanceOnly(context.Background(), uuid.New().String(), allowanceID.String())

	assert.NoError(t, err)
	assert.True(t, b.GrossPay.IsZero())
	assert.True(t, b.NetPay.IsZero())
}
