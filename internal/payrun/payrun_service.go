package payrun

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	payrunerrors "go-payroll/internal/payrun/errors"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/takehome"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LoanLedger settles one loan installment inside the caller's transaction.
type LoanLedger interface {
	ApplyInstallment(ctx context.Context, tx *gorm.DB, loanApplicationID string, amount decimal.Decimal, payrunItemID uuid.UUID) error
}

// Calculator is the slice of the take-home service the generator consumes.
type Calculator interface {
	ForPayrun(ctx context.Context, employeeID string) (takehome.Breakdown, error)
	AllowanceOnly(ctx context.Context, employeeID, allowanceID string) (takehome.Breakdown, error)
}

type Service interface {
	Generate(ctx context.Context, actorID string, req GeneratePayrunRequest) (PayrunResponse, error)
	GetAll(ctx context.Context, statusFilter string) ([]PayrunResponse, error)
	GetByID(ctx context.Context, id string) (PayrunDetailedResponse, error)
	Approve(ctx context.Context, id, actorID string) (PayrunResponse, error)
	Complete(ctx context.Context, id, actorID string) (PayrunResponse, error)
	Rollback(ctx context.Context, id, actorID string) error
}

type service struct {
	db     *gorm.DB
	repo   Repository
	calc   Calculator
	loans  LoanLedger
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, calc Calculator, loans LoanLedger, outbox kafka.OutboxRepository, logger *zap.Logger) Service {
	return &service{db: db, repo: repo, calc: calc, loans: loans, outbox: outbox, logger: logger}
}

func (s *service) Generate(ctx context.Context, actorID string, req GeneratePayrunRequest) (PayrunResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return PayrunResponse{}, payrunerrors.ErrInvalidActor
	}

	if req.Day == 0 {
		req.Day = 1
	}
	if req.Year < 2000 || req.Month < 1 || req.Month > 12 || req.Day < 1 || req.Day > 31 {
		return PayrunResponse{}, payrunerrors.ErrInvalidPeriod
	}

	var allowanceUUID uuid.UUID
	var name string
	switch req.Type {
	case TypeSalary:
		if req.AllowanceID != "" {
			return PayrunResponse{}, payrunerrors.ErrAllowanceNotAllowed
		}
		name = fmt.Sprintf("Salary Payrun %04d-%02d-%02d", req.Year, req.Month, req.Day)
	case TypeAllowance:
		if req.AllowanceID == "" {
			return PayrunResponse{}, payrunerrors.ErrAllowanceRequired
		}
		allowanceUUID, err = uuid.Parse(req.AllowanceID)
		if err != nil {
			return PayrunResponse{}, payrunerrors.ErrAllowanceNotFound
		}
		allowanceName, err := s.repo.GetAllowanceName(ctx, req.AllowanceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return PayrunResponse{}, payrunerrors.ErrAllowanceNotFound
			}
			return PayrunResponse{}, err
		}
		name = fmt.Sprintf("%s Payrun %04d-%02d-%02d", allowanceName, req.Year, req.Month, req.Day)
	default:
		return PayrunResponse{}, payrunerrors.ErrInvalidType
	}

	cohort, err := s.resolveCohort(ctx, req.Type, req.AllowanceID)
	if err != nil {
		return PayrunResponse{}, err
	}
	if len(cohort) == 0 {
		return PayrunResponse{}, payrunerrors.ErrEmptyCohort
	}

	p := Payrun{
		ID:              uuid.New(),
		Name:            name,
		Type:            req.Type,
		AllowanceID:     allowanceUUID,
		Year:            req.Year,
		Month:           req.Month,
		Day:             req.Day,
		Status:          StatusDraft,
		GeneratedBy:     actorUUID,
		TotalGross:      decimal.Zero,
		TotalTax:        decimal.Zero,
		TotalDeductions: decimal.Zero,
		TotalLoans:      decimal.Zero,
		TotalNet:        decimal.Zero,
	}

	items := make([]PayrunItem, 0, len(cohort))
	var details []PayrunItemDetail
	seenLoans := make(map[uuid.UUID]struct{})

	for _, employeeID := range cohort {
		var breakdown takehome.Breakdown
		if req.Type == TypeSalary {
			breakdown, err = s.calc.ForPayrun(ctx, employeeID)
		} else {
			breakdown, err = s.calc.AllowanceOnly(ctx, employeeID, req.AllowanceID)
		}
		if err != nil {
			return PayrunResponse{}, err
		}

		item, itemDetails, err := buildItem(p.ID, breakdown, req.Type, seenLoans)
		if err != nil {
			return PayrunResponse{}, err
		}

		items = append(items, item)
		details = append(details, itemDetails...)

		p.TotalGross = p.TotalGross.Add(item.GrossPay)
		p.TotalTax = p.TotalTax.Add(item.TotalAllowanceTax)
		p.TotalDeductions = p.TotalDeductions.Add(item.TotalDeductions)
		p.TotalLoans = p.TotalLoans.Add(item.TotalLoans)
		p.TotalNet = p.TotalNet.Add(item.NetPay)
	}
	p.EmployeeCount = len(items)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		if err := qtx.CreatePayrun(ctx, &p); err != nil {
			return err
		}
		if err := qtx.CreateItems(ctx, items); err != nil {
			return err
		}
		if err := qtx.CreateDetails(ctx, details); err != nil {
			return err
		}

		return s.enqueueEvent(ctx, tx, p, events.PayrunGenerated, actorID)
	})
	if err != nil {
		return PayrunResponse{}, mapRepositoryError(err)
	}

	contextutil.GetLogger(ctx, s.logger).Info("payrun generated",
		zap.String("payrun_id", p.ID.String()),
		zap.String("type", p.Type),
		zap.Int("year", p.Year),
		zap.Int("month", p.Month),
		zap.Int("employee_count", p.EmployeeCount),
		zap.String("total_net", p.TotalNet.String()),
	)

	return mapPayrunToResponse(p), nil
}

// buildItem snapshots one breakdown into item and detail rows. Tax,
// deduction and loan amounts flip sign so details sum to net pay.
func buildItem(payrunID uuid.UUID, b takehome.Breakdown, runType string, seenLoans map[uuid.UUID]struct{}) (PayrunItem, []PayrunItemDetail, error) {
	employeeUUID, err := uuid.Parse(b.EmployeeID)
	if err != nil {
		return PayrunItem{}, nil, err
	}

	item := PayrunItem{
		ID:                uuid.New(),
		PayrunID:          payrunID,
		EmployeeID:        employeeUUID,
		BaseSalary:        b.BaseSalary,
		GrossPay:          b.GrossPay,
		TotalAllowanceTax: b.TotalAllowanceTax,
		TotalDeductions:   b.TotalDeductions,
		TotalLoans:        b.TotalLoans,
		NetPay:            b.NetPay,
		Status:            StatusDraft,
	}

	var details []PayrunItemDetail

	if runType == TypeSalary {
		details = append(details, PayrunItemDetail{
			ID:           uuid.New(),
			PayrunItemID: item.ID,
			Kind:         DetailBaseSalary,
			Name:         "Base Salary",
			Amount:       b.BaseSalary,
		})
	}

	for _, a := range b.Allowances {
		allowanceID := a.AllowanceID
		details = append(details, PayrunItemDetail{
			ID:           uuid.New(),
			PayrunItemID: item.ID,
			Kind:         DetailAllowance,
			Name:         a.Name,
			Amount:       a.GrossValue,
			AllowanceID:  &allowanceID,
		})
		if !a.TaxAmount.IsZero() {
			taxAllowanceID := a.AllowanceID
			details = append(details, PayrunItemDetail{
				ID:           uuid.New(),
				PayrunItemID: item.ID,
				Kind:         DetailTax,
				Name:         a.Name + " Tax",
				Amount:       a.TaxAmount.Neg(),
				AllowanceID:  &taxAllowanceID,
			})
		}
	}

	for _, d := range b.Deductions {
		details = append(details, PayrunItemDetail{
			ID:           uuid.New(),
			PayrunItemID: item.ID,
			Kind:         DetailDeduction,
			Name:         d.Name,
			Amount:       d.Amount.Neg(),
			DeductionID:  d.DeductionID,
		})
	}

	for _, l := range b.Loans {
		if _, dup := seenLoans[l.LoanApplicationID]; dup {
			return PayrunItem{}, nil, payrunerrors.ErrDuplicateLoanDetail
		}
		seenLoans[l.LoanApplicationID] = struct{}{}

		loanID := l.LoanApplicationID
		before := l.BalanceBefore
		after := l.BalanceAfter
		details = append(details, PayrunItemDetail{
			ID:                uuid.New(),
			PayrunItemID:      item.ID,
			Kind:              DetailLoan,
			Name:              l.Name,
			Amount:            l.Installment.Neg(),
			LoanApplicationID: &loanID,
			BalanceBefore:     &before,
			BalanceAfter:      &after,
		})
	}

	return item, details, nil
}

func (s *service) resolveCohort(ctx context.Context, runType, allowanceID string) ([]string, error) {
	if runType == TypeSalary {
		return s.repo.FindSalaryCohort(ctx)
	}
	return s.repo.FindAllowanceCohort(ctx, allowanceID)
}

func (s *service) GetAll(ctx context.Context, statusFilter string) ([]PayrunResponse, error) {
	statuses, err := parseStatusFilter(statusFilter)
	if err != nil {
		return nil, err
	}

	payruns, err := s.repo.FindAll(ctx, statuses)
	if err != nil {
		return nil, err
	}

	res := make([]PayrunResponse, len(payruns))
	for i, p := range payruns {
		res[i] = mapPayrunToResponse(p)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (PayrunDetailedResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return PayrunDetailedResponse{}, payrunerrors.ErrInvalidPayrunID
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrunDetailedResponse{}, payrunerrors.ErrPayrunNotFound
		}
		return PayrunDetailedResponse{}, err
	}

	resp := PayrunDetailedResponse{
		PayrunResponse: mapPayrunToResponse(*p),
		Items:          make([]PayrunItemResponse, len(p.Items)),
	}
	for i, item := range p.Items {
		resp.Items[i] = mapItemToResponse(item)
	}
	return resp, nil
}

func (s *service) Approve(ctx context.Context, id, actorID string) (PayrunResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return PayrunResponse{}, payrunerrors.ErrInvalidActor
	}
	if _, err := uuid.Parse(id); err != nil {
		return PayrunResponse{}, payrunerrors.ErrInvalidPayrunID
	}

	var approved Payrun
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		p, err := qtx.FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return payrunerrors.ErrPayrunNotFound
			}
			return err
		}
		if !p.Status.CanApprove() {
			return payrunerrors.ErrCannotApprove
		}

		now := time.Now().UTC()
		if err := qtx.UpdatePayrun(ctx, id, map[string]interface{}{
			"status":      StatusApproved,
			"approved_by": actorUUID,
			"approved_at": now,
		}); err != nil {
			return err
		}
		if err := qtx.CascadeItemStatus(ctx, id, StatusApproved); err != nil {
			return err
		}

		p.Status = StatusApproved
		p.ApprovedBy = &actorUUID
		p.ApprovedAt = &now
		approved = *p

		return s.enqueueEvent(ctx, tx, *p, events.PayrunApproved, actorID)
	})
	if err != nil {
		return PayrunResponse{}, err
	}

	contextutil.GetLogger(ctx, s.logger).Info("payrun approved",
		zap.String("payrun_id", id),
		zap.String("approved_by", actorID),
	)

	return mapPayrunToResponse(approved), nil
}

func (s *service) Complete(ctx context.Context, id, actorID string) (PayrunResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return PayrunResponse{}, payrunerrors.ErrInvalidActor
	}
	if _, err := uuid.Parse(id); err != nil {
		return PayrunResponse{}, payrunerrors.ErrInvalidPayrunID
	}

	var completed Payrun
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		p, err := qtx.FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return payrunerrors.ErrPayrunNotFound
			}
			return err
		}
		if !p.Status.CanComplete() {
			return payrunerrors.ErrCannotComplete
		}

		loanDetails, err := qtx.FindLoanDetails(ctx, id)
		if err != nil {
			return err
		}

		// Verify the one-detail-per-loan invariant before any ledger
		// mutation; a duplicate would double-apply an installment.
		seen := make(map[uuid.UUID]struct{}, len(loanDetails))
		for _, d := range loanDetails {
			if d.LoanApplicationID == nil {
				continue
			}
			if _, dup := seen[*d.LoanApplicationID]; dup {
				return payrunerrors.ErrDuplicateLoanDetail
			}
			seen[*d.LoanApplicationID] = struct{}{}
		}

		for _, d := range loanDetails {
			if d.LoanApplicationID == nil {
				continue
			}
			installment := d.Amount.Neg()
			if err := s.loans.ApplyInstallment(ctx, tx, d.LoanApplicationID.String(), installment, d.PayrunItemID); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		if err := qtx.UpdatePayrun(ctx, id, map[string]interface{}{
			"status":       StatusPaid,
			"completed_by": actorUUID,
			"completed_at": now,
		}); err != nil {
			return err
		}
		if err := qtx.CascadeItemStatus(ctx, id, StatusPaid); err != nil {
			return err
		}

		p.Status = StatusPaid
		p.CompletedBy = &actorUUID
		p.CompletedAt = &now
		completed = *p

		return s.enqueueEvent(ctx, tx, *p, events.PayrunCompleted, actorID)
	})
	if err != nil {
		return PayrunResponse{}, err
	}

	contextutil.GetLogger(ctx, s.logger).Info("payrun completed",
		zap.String("payrun_id", id),
		zap.String("completed_by", actorID),
	)

	return mapPayrunToResponse(completed), nil
}

func (s *service) Rollback(ctx context.Context, id, actorID string) error {
	if _, err := uuid.Parse(id); err != nil {
		return payrunerrors.ErrInvalidPayrunID
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		p, err := qtx.FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return payrunerrors.ErrPayrunNotFound
			}
			return err
		}
		if !p.Status.CanRollback() {
			return payrunerrors.ErrCannotRollback
		}

		if err := qtx.DeletePayrun(ctx, id); err != nil {
			return err
		}

		return s.enqueueEvent(ctx, tx, *p, events.PayrunRolledBack, actorID)
	})
	if err != nil {
		return err
	}

	contextutil.GetLogger(ctx, s.logger).Info("payrun rolled back",
		zap.String("payrun_id", id),
		zap.String("rolled_back_by", actorID),
	)

	return nil
}

func (s *service) enqueueEvent(ctx context.Context, tx *gorm.DB, p Payrun, eventType, actorID string) error {
	payload, err := json.Marshal(events.PayrunLifecycleEvent{
		EventType:  eventType,
		PayrunID:   p.ID.String(),
		PayrunName: p.Name,
		PayrunType: p.Type,
		Status:     string(p.Status),
		Year:       p.Year,
		Month:      p.Month,
		Day:        p.Day,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "payrun",
		AggregateID:   p.ID.String(),
		EventType:     eventType,
		Topic:         events.PayrunLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func parseStatusFilter(filter string) ([]string, error) {
	if filter == "" {
		return nil, nil
	}

	var statuses []string
	for _, part := range strings.Split(filter, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !Status(part).Valid() {
			return nil, apperror.InvalidField("status")
		}
		statuses = append(statuses, part)
	}
	return statuses, nil
}

func mapPayrunToResponse(p Payrun) PayrunResponse {
	resp := PayrunResponse{
		ID:              p.ID.String(),
		Name:            p.Name,
		Type:            p.Type,
		Year:            p.Year,
		Month:           p.Month,
		Day:             p.Day,
		EmployeeCount:   p.EmployeeCount,
		TotalGross:      p.TotalGross,
		TotalTax:        p.TotalTax,
		TotalDeductions: p.TotalDeductions,
		TotalLoans:      p.TotalLoans,
		TotalNet:        p.TotalNet,
		Status:          string(p.Status),
		GeneratedBy:     p.GeneratedBy.String(),
	}
	if p.AllowanceID != uuid.Nil {
		v := p.AllowanceID.String()
		resp.AllowanceID = &v
	}
	if p.ApprovedBy != nil {
		v := p.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if p.ApprovedAt != nil {
		v := p.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	if p.CompletedBy != nil {
		v := p.CompletedBy.String()
		resp.CompletedBy = &v
	}
	if p.CompletedAt != nil {
		v := p.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &v
	}
	return resp
}

func mapItemToResponse(item PayrunItem) PayrunItemResponse {
	resp := PayrunItemResponse{
		ID:                item.ID.String(),
		EmployeeID:        item.EmployeeID.String(),
		BaseSalary:        item.BaseSalary,
		GrossPay:          item.GrossPay,
		TotalAllowanceTax: item.TotalAllowanceTax,
		TotalDeductions:   item.TotalDeductions,
		TotalLoans:        item.TotalLoans,
		NetPay:            item.NetPay,
		Status:            string(item.Status),
		Details:           make([]PayrunDetailResponse, len(item.Details)),
	}
	for i, d := range item.Details {
		resp.Details[i] = PayrunDetailResponse{
			ID:            d.ID.String(),
			Kind:          d.Kind,
			Name:          d.Name,
			Amount:        d.Amount,
			BalanceBefore: d.BalanceBefore,
			BalanceAfter:  d.BalanceAfter,
		}
		if d.AllowanceID != nil {
			v := d.AllowanceID.String()
			resp.Details[i].AllowanceID = &v
		}
		if d.DeductionID != nil {
			v := d.DeductionID.String()
			resp.Details[i].DeductionID = &v
		}
		if d.LoanApplicationID != nil {
			v := d.LoanApplicationID.String()
			resp.Details[i].LoanApplicationID = &v
		}
	}
	return resp
}
