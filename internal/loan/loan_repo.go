package loan

import (
	"context"
	"time"

	"go-payroll/internal/employee"
	"go-payroll/internal/employeesalary"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, app *LoanApplication, schedule []LoanRepayment) error
	FindByID(ctx context.Context, id string) (*LoanApplication, error)
	FindByIDForUpdate(ctx context.Context, id string) (*LoanApplication, error)
	FindAll(ctx context.Context, employeeID, status string) ([]LoanApplication, error)
	FindActiveByEmployee(ctx context.Context, employeeID string) ([]LoanApplication, error)
	UpdateBalances(ctx context.Context, app *LoanApplication) error

	FindEarliestPending(ctx context.Context, loanID string) (*LoanRepayment, error)
	MarkRepaymentPaid(ctx context.Context, rep *LoanRepayment) error

	EmployeeExists(ctx context.Context, employeeID string) (bool, error)
	CreateLoanDeduction(ctx context.Context, ed *employeesalary.EmployeeDeduction) error
	SyncLoanDeduction(ctx context.Context, loanID string, remaining decimal.Decimal, deactivate bool) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, app *LoanApplication, schedule []LoanRepayment) error {
	if err := r.db.WithContext(ctx).Create(app).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&schedule).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LoanApplication, error) {
	var app LoanApplication
	err := r.db.WithContext(ctx).
		Preload("Repayments", func(db *gorm.DB) *gorm.DB {
			return db.Order("installment_number ASC")
		}).
		Where("id = ?", id).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// FindByIDForUpdate takes a row lock so two completing payruns cannot apply
// installments against the same balance.
func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*LoanApplication, error) {
	var app LoanApplication
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *repository) FindAll(ctx context.Context, employeeID, status string) ([]LoanApplication, error) {
	q := r.db.WithContext(ctx).Model(&LoanApplication{})
	if employeeID != "" {
		q = q.Where("employee_id = ?", employeeID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var apps []LoanApplication
	err := q.Order("created_at DESC").Find(&apps).Error
	return apps, err
}

func (r *repository) FindActiveByEmployee(ctx context.Context, employeeID string) ([]LoanApplication, error) {
	var apps []LoanApplication
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("status = ?", StatusActive).
		Order("created_at ASC").
		Find(&apps).Error
	return apps, err
}

func (r *repository) UpdateBalances(ctx context.Context, app *LoanApplication) error {
	return r.db.WithContext(ctx).
		Model(&LoanApplication{}).
		Where("id = ?", app.ID).
		Updates(map[string]interface{}{
			"remaining_balance": app.RemainingBalance,
			"total_repaid":      app.TotalRepaid,
			"status":            app.Status,
		}).Error
}

func (r *repository) FindEarliestPending(ctx context.Context, loanID string) (*LoanRepayment, error) {
	var rep LoanRepayment
	err := r.db.WithContext(ctx).
		Where("loan_application_id = ?", loanID).
		Where("status = ?", RepaymentPending).
		Order("installment_number ASC").
		First(&rep).Error
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *repository) MarkRepaymentPaid(ctx context.Context, rep *LoanRepayment) error {
	return r.db.WithContext(ctx).
		Model(&LoanRepayment{}).
		Where("id = ?", rep.ID).
		Updates(map[string]interface{}{
			"status":         rep.Status,
			"paid_amount":    rep.PaidAmount,
			"balance_after":  rep.BalanceAfter,
			"paid_at":        rep.PaidAt,
			"payrun_item_id": rep.PayrunItemID,
		}).Error
}

func (r *repository) EmployeeExists(ctx context.Context, employeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&employee.Employee{}).
		Where("id = ?", employeeID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CreateLoanDeduction(ctx context.Context, ed *employeesalary.EmployeeDeduction) error {
	return r.db.WithContext(ctx).Create(ed).Error
}

// SyncLoanDeduction mirrors the ledger balance onto the loan-linked
// employee deduction row so the calculator always sees the current amount.
func (r *repository) SyncLoanDeduction(ctx context.Context, loanID string, remaining decimal.Decimal, deactivate bool) error {
	updates := map[string]interface{}{
		"remaining_amount": remaining,
	}
	if deactivate {
		updates["is_active"] = false
		updates["effective_to"] = time.Now().UTC()
	}
	return r.db.WithContext(ctx).
		Model(&employeesalary.EmployeeDeduction{}).
		Where("loan_application_id = ?", loanID).
		Updates(updates).Error
}
