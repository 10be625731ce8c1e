package loan

import (
	"context"
	"errors"
	"time"

	"go-payroll/internal/employeesalary"
	loanerrors "go-payroll/internal/loan/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, req CreateLoanRequest) (LoanResponse, error)
	GetAll(ctx context.Context, employeeID, status string) ([]LoanResponse, error)
	GetByID(ctx context.Context, id string) (LoanResponse, error)

	// ApplyInstallment settles one installment inside the caller's
	// transaction. It is the only write path into the ledger after creation.
	ApplyInstallment(ctx context.Context, tx *gorm.DB, loanApplicationID string, amount decimal.Decimal, payrunItemID uuid.UUID) error
}

type service struct {
	db     *gorm.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, logger *zap.Logger) Service {
	return &service{db: db, repo: repo, logger: logger}
}

func (s *service) Create(ctx context.Context, req CreateLoanRequest) (LoanResponse, error) {
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return LoanResponse{}, loanerrors.ErrInvalidEmployeeID
	}
	if !req.Principal.IsPositive() {
		return LoanResponse{}, loanerrors.ErrPrincipalNotPositive
	}
	if !req.MonthlyDeduction.IsPositive() {
		return LoanResponse{}, loanerrors.ErrMonthlyNotPositive
	}
	if req.MonthlyDeduction.GreaterThan(req.Principal) {
		return LoanResponse{}, loanerrors.ErrMonthlyExceedsPrincipal
	}

	app := LoanApplication{
		ID:               uuid.New(),
		EmployeeID:       employeeUUID,
		Name:             req.Name,
		Principal:        req.Principal,
		MonthlyDeduction: req.MonthlyDeduction,
		RemainingBalance: req.Principal,
		Status:           StatusActive,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		exists, err := qtx.EmployeeExists(ctx, req.EmployeeID)
		if err != nil {
			return err
		}
		if !exists {
			return loanerrors.ErrEmployeeNotFound
		}

		if err := qtx.Create(ctx, &app, buildSchedule(app)); err != nil {
			return err
		}

		// The loan surfaces in payroll through a linked employee deduction
		// row; the calculator folds it in as a loan line, not a flat one.
		loanID := app.ID
		monthly := req.MonthlyDeduction
		return qtx.CreateLoanDeduction(ctx, &employeesalary.EmployeeDeduction{
			ID:                uuid.New(),
			EmployeeID:        employeeUUID,
			Name:              req.Name,
			FlatAmount:        &monthly,
			OriginalAmount:    req.Principal,
			RemainingAmount:   req.Principal,
			IsActive:          true,
			LoanApplicationID: &loanID,
			EffectiveFrom:     time.Now().UTC(),
		})
	})
	if err != nil {
		return LoanResponse{}, err
	}

	s.logger.Info("loan application created",
		zap.String("loan_id", app.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.String("principal", req.Principal.String()),
	)

	return mapLoanToResponse(app, nil), nil
}

func (s *service) GetAll(ctx context.Context, employeeID, status string) ([]LoanResponse, error) {
	apps, err := s.repo.FindAll(ctx, employeeID, status)
	if err != nil {
		return nil, err
	}

	res := make([]LoanResponse, len(apps))
	for i, app := range apps {
		res[i] = mapLoanToResponse(app, nil)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (LoanResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LoanResponse{}, loanerrors.ErrInvalidLoanID
	}

	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LoanResponse{}, loanerrors.ErrLoanNotFound
		}
		return LoanResponse{}, err
	}

	return mapLoanToResponse(*app, app.Repayments), nil
}

func (s *service) ApplyInstallment(ctx context.Context, tx *gorm.DB, loanApplicationID string, amount decimal.Decimal, payrunItemID uuid.UUID) error {
	qtx := s.repo.WithTx(tx)

	app, err := qtx.FindByIDForUpdate(ctx, loanApplicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return loanerrors.ErrLoanNotFound
		}
		return err
	}
	if app.Status != StatusActive {
		return loanerrors.ErrLoanNotActive
	}

	// The final installment never takes the balance negative.
	paid := amount
	if paid.GreaterThan(app.RemainingBalance) {
		paid = app.RemainingBalance
	}
	newBalance := app.RemainingBalance.Sub(paid)

	rep, err := qtx.FindEarliestPending(ctx, loanApplicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return loanerrors.ErrNoPendingInstallment
		}
		return err
	}

	now := time.Now().UTC()
	rep.Status = RepaymentPaid
	rep.PaidAmount = paid
	rep.BalanceAfter = newBalance
	rep.PaidAt = &now
	rep.PayrunItemID = &payrunItemID
	if err := qtx.MarkRepaymentPaid(ctx, rep); err != nil {
		return err
	}

	app.RemainingBalance = newBalance
	app.TotalRepaid = app.TotalRepaid.Add(paid)
	completed := !newBalance.IsPositive()
	if completed {
		app.Status = StatusCompleted
	}
	if err := qtx.UpdateBalances(ctx, app); err != nil {
		return err
	}

	return qtx.SyncLoanDeduction(ctx, loanApplicationID, newBalance, completed)
}

// buildSchedule lays out the installment plan up front. Every step is the
// monthly amount except the last, which carries whatever remains.
func buildSchedule(app LoanApplication) []LoanRepayment {
	var schedule []LoanRepayment
	remaining := app.Principal
	for n := 1; remaining.IsPositive(); n++ {
		step := app.MonthlyDeduction
		if step.GreaterThan(remaining) {
			step = remaining
		}
		schedule = append(schedule, LoanRepayment{
			ID:                uuid.New(),
			LoanApplicationID: app.ID,
			InstallmentNumber: n,
			Amount:            step,
			Status:            RepaymentPending,
		})
		remaining = remaining.Sub(step)
	}
	return schedule
}

func mapLoanToResponse(app LoanApplication, repayments []LoanRepayment) LoanResponse {
	resp := LoanResponse{
		ID:               app.ID.String(),
		EmployeeID:       app.EmployeeID.String(),
		Name:             app.Name,
		Principal:        app.Principal,
		MonthlyDeduction: app.MonthlyDeduction,
		RemainingBalance: app.RemainingBalance,
		TotalRepaid:      app.TotalRepaid,
		Status:           app.Status,
	}
	for _, rep := range repayments {
		r := RepaymentResponse{
			ID:                rep.ID.String(),
			InstallmentNumber: rep.InstallmentNumber,
			Amount:            rep.Amount,
			Status:            rep.Status,
			PaidAmount:        rep.PaidAmount,
			BalanceAfter:      rep.BalanceAfter,
		}
		if rep.PaidAt != nil {
			v := rep.PaidAt.Format(time.RFC3339)
			r.PaidAt = &v
		}
		if rep.PayrunItemID != nil {
			v := rep.PayrunItemID.String()
			r.PayrunItemID = &v
		}
		resp.Repayments = append(resp.Repayments, r)
	}
	return resp
}
