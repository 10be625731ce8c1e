package deduction

import (
	"context"

	deductionerrors "go-payroll/internal/deduction/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, req CreateDeductionRequest) (DeductionResponse, error)
	GetAll(ctx context.Context) ([]DeductionResponse, error)
	GetByID(ctx context.Context, id string) (DeductionResponse, error)
	Update(ctx context.Context, id string, req UpdateDeductionRequest) (DeductionResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db   *gorm.DB
	repo Repository
}

func NewService(db *gorm.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

func normalizeRate(percentage, flatAmount *decimal.Decimal) (*decimal.Decimal, *decimal.Decimal, error) {
	if percentage != nil && percentage.IsZero() {
		percentage = nil
	}
	if flatAmount != nil && flatAmount.IsZero() {
		flatAmount = nil
	}

	switch {
	case percentage == nil && flatAmount == nil:
		return nil, nil, deductionerrors.ErrRateRequired
	case percentage != nil && flatAmount != nil:
		return nil, nil, deductionerrors.ErrRateAmbiguous
	case percentage != nil && percentage.IsNegative():
		return nil, nil, deductionerrors.ErrRateNotPositive
	case flatAmount != nil && flatAmount.IsNegative():
		return nil, nil, deductionerrors.ErrRateNotPositive
	}

	return percentage, flatAmount, nil
}

func normalizeKind(kind string) (string, error) {
	if kind == "" {
		return KindRecurring, nil
	}
	if kind != KindRecurring && kind != KindOneTime {
		return "", deductionerrors.ErrInvalidKind
	}
	return kind, nil
}

func (s *service) Create(ctx context.Context, req CreateDeductionRequest) (DeductionResponse, error) {
	percentage, flatAmount, err := normalizeRate(req.Percentage, req.FlatAmount)
	if err != nil {
		return DeductionResponse{}, err
	}

	kind, err := normalizeKind(req.Kind)
	if err != nil {
		return DeductionResponse{}, err
	}

	d := &Deduction{
		ID:         uuid.New(),
		Name:       req.Name,
		Kind:       kind,
		Percentage: percentage,
		FlatAmount: flatAmount,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		exists, err := qtx.ExistsByName(ctx, req.Name, nil)
		if err != nil {
			return err
		}
		if exists {
			return deductionerrors.ErrDuplicateName
		}

		return qtx.Create(ctx, d)
	})
	if err != nil {
		return DeductionResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*d), nil
}

func (s *service) GetAll(ctx context.Context) ([]DeductionResponse, error) {
	deductions, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(deductions), nil
}

func (s *service) GetByID(ctx context.Context, id string) (DeductionResponse, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return DeductionResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*d), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateDeductionRequest) (DeductionResponse, error) {
	percentage, flatAmount, err := normalizeRate(req.Percentage, req.FlatAmount)
	if err != nil {
		return DeductionResponse{}, err
	}

	kind, err := normalizeKind(req.Kind)
	if err != nil {
		return DeductionResponse{}, err
	}

	var updated Deduction
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		d, err := qtx.FindByID(ctx, id)
		if err != nil {
			return err
		}

		exists, err := qtx.ExistsByName(ctx, req.Name, &id)
		if err != nil {
			return err
		}
		if exists {
			return deductionerrors.ErrDuplicateName
		}

		d.Name = req.Name
		d.Kind = kind
		d.Percentage = percentage
		d.FlatAmount = flatAmount

		if err := qtx.Update(ctx, d); err != nil {
			return err
		}

		updated = *d
		return nil
	})
	if err != nil {
		return DeductionResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(updated), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		if _, err := qtx.FindByID(ctx, id); err != nil {
			return err
		}

		inUse, err := qtx.HasActiveBindings(ctx, id)
		if err != nil {
			return err
		}
		if inUse {
			return deductionerrors.ErrDeductionInUse
		}

		return qtx.Delete(ctx, id)
	})

	return mapRepositoryError(err)
}

func mapToResponse(d Deduction) DeductionResponse {
	return DeductionResponse{
		ID:         d.ID.String(),
		Name:       d.Name,
		Kind:       d.Kind,
		Percentage: d.Percentage,
		FlatAmount: d.FlatAmount,
	}
}

func mapToListResponse(deductions []Deduction) []DeductionResponse {
	res := make([]DeductionResponse, len(deductions))
	for i, d := range deductions {
		res[i] = mapToResponse(d)
	}
	return res
}
