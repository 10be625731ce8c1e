package allowance

import (
	"context"

	allowanceerrors "go-payroll/internal/allowance/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, req CreateAllowanceRequest) (AllowanceResponse, error)
	GetAll(ctx context.Context) ([]AllowanceResponse, error)
	GetByID(ctx context.Context, id string) (AllowanceResponse, error)
	Update(ctx context.Context, id string, req UpdateAllowanceRequest) (AllowanceResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db   *gorm.DB
	repo Repository
}

func NewService(db *gorm.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

// normalizeRate treats an explicit zero the same as absent, then validates
// the exactly-one-of rule.
func normalizeRate(percentage, flatAmount *decimal.Decimal) (*decimal.Decimal, *decimal.Decimal, error) {
	if percentage != nil && percentage.IsZero() {
		percentage = nil
	}
	if flatAmount != nil && flatAmount.IsZero() {
		flatAmount = nil
	}

	switch {
	case percentage == nil && flatAmount == nil:
		return nil, nil, allowanceerrors.ErrRateRequired
	case percentage != nil && flatAmount != nil:
		return nil, nil, allowanceerrors.ErrRateAmbiguous
	case percentage != nil && percentage.IsNegative():
		return nil, nil, allowanceerrors.ErrRateNotPositive
	case flatAmount != nil && flatAmount.IsNegative():
		return nil, nil, allowanceerrors.ErrRateNotPositive
	}

	return percentage, flatAmount, nil
}

func normalizeKind(kind string) (string, error) {
	if kind == "" {
		return KindRecurring, nil
	}
	if kind != KindRecurring && kind != KindOneTime {
		return "", allowanceerrors.ErrInvalidKind
	}
	return kind, nil
}

func validateTax(taxable bool, taxPercentage *decimal.Decimal) (*decimal.Decimal, error) {
	if taxPercentage != nil && taxPercentage.IsZero() {
		taxPercentage = nil
	}

	if taxable {
		if taxPercentage == nil {
			return nil, allowanceerrors.ErrTaxRateRequired
		}
		if taxPercentage.IsNegative() {
			return nil, allowanceerrors.ErrTaxRateRequired
		}
		return taxPercentage, nil
	}

	if taxPercentage != nil {
		return nil, allowanceerrors.ErrTaxRateWithoutTaxable
	}
	return nil, nil
}

func (s *service) Create(ctx context.Context, req CreateAllowanceRequest) (AllowanceResponse, error) {
	percentage, flatAmount, err := normalizeRate(req.Percentage, req.FlatAmount)
	if err != nil {
		return AllowanceResponse{}, err
	}

	kind, err := normalizeKind(req.Kind)
	if err != nil {
		return AllowanceResponse{}, err
	}

	taxPercentage, err := validateTax(req.Taxable, req.TaxPercentage)
	if err != nil {
		return AllowanceResponse{}, err
	}

	a := &Allowance{
		ID:            uuid.New(),
		Name:          req.Name,
		Kind:          kind,
		Percentage:    percentage,
		FlatAmount:    flatAmount,
		Taxable:       req.Taxable,
		TaxPercentage: taxPercentage,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		exists, err := qtx.ExistsByName(ctx, req.Name, nil)
		if err != nil {
			return err
		}
		if exists {
			return allowanceerrors.ErrDuplicateName
		}

		return qtx.Create(ctx, a)
	})
	if err != nil {
		return AllowanceResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*a), nil
}

func (s *service) GetAll(ctx context.Context) ([]AllowanceResponse, error) {
	allowances, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(allowances), nil
}

func (s *service) GetByID(ctx context.Context, id string) (AllowanceResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return AllowanceResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*a), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateAllowanceRequest) (AllowanceResponse, error) {
	percentage, flatAmount, err := normalizeRate(req.Percentage, req.FlatAmount)
	if err != nil {
		return AllowanceResponse{}, err
	}

	kind, err := normalizeKind(req.Kind)
	if err != nil {
		return AllowanceResponse{}, err
	}

	taxPercentage, err := validateTax(req.Taxable, req.TaxPercentage)
	if err != nil {
		return AllowanceResponse{}, err
	}

	var updated Allowance
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		a, err := qtx.FindByID(ctx, id)
		if err != nil {
			return err
		}

		exists, err := qtx.ExistsByName(ctx, req.Name, &id)
		if err != nil {
			return err
		}
		if exists {
			return allowanceerrors.ErrDuplicateName
		}

		a.Name = req.Name
		a.Kind = kind
		a.Percentage = percentage
		a.FlatAmount = flatAmount
		a.Taxable = req.Taxable
		a.TaxPercentage = taxPercentage

		if err := qtx.Update(ctx, a); err != nil {
			return err
		}

		updated = *a
		return nil
	})
	if err != nil {
		return AllowanceResponse{}, mapRepositoryError(err)
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
			return allowanceerrors.ErrAllowanceInUse
		}

		return qtx.Delete(ctx, id)
	})

	return mapRepositoryError(err)
}

func mapToResponse(a Allowance) AllowanceResponse {
	return AllowanceResponse{
		ID:            a.ID.String(),
		Name:          a.Name,
		Kind:          a.Kind,
		Percentage:    a.Percentage,
		FlatAmount:    a.FlatAmount,
		Taxable:       a.Taxable,
		TaxPercentage: a.TaxPercentage,
	}
}

func mapToListResponse(allowances []Allowance) []AllowanceResponse {
	res := make([]AllowanceResponse, len(allowances))
	for i, a := range allowances {
		res[i] = mapToResponse(a)
	}
	return res
}
