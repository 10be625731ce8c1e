package salarystructure

import (
	"context"
	"errors"
	"time"

	salarystructureerrors "go-payroll/internal/salarystructure/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, req CreateStructureRequest) (StructureResponse, error)
	GetAll(ctx context.Context) ([]StructureResponse, error)
	GetByID(ctx context.Context, id string) (StructureResponse, error)
	Update(ctx context.Context, id string, req UpdateStructureRequest) (StructureResponse, error)
	Deactivate(ctx context.Context, id string) (StructureResponse, error)
	Activate(ctx context.Context, id string) (StructureResponse, error)

	AttachAllowance(ctx context.Context, structureID, allowanceID string, req AttachBindingRequest) (BindingResponse, error)
	DetachAllowance(ctx context.Context, structureID, allowanceID string) error
	AttachDeduction(ctx context.Context, structureID, deductionID string, req AttachBindingRequest) (BindingResponse, error)
	DetachDeduction(ctx context.Context, structureID, deductionID string) error
}

type service struct {
	db   *gorm.DB
	repo Repository
}

func NewService(db *gorm.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

func parseEffectiveFrom(v string) (time.Time, error) {
	if v == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, salarystructureerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func (s *service) Create(ctx context.Context, req CreateStructureRequest) (StructureResponse, error) {
	if !req.BaseSalary.IsPositive() {
		return StructureResponse{}, salarystructureerrors.ErrBaseSalaryNotPositive
	}

	structure := &SalaryStructure{
		ID:         uuid.New(),
		Name:       req.Name,
		BaseSalary: req.BaseSalary,
		IsActive:   true,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		exists, err := qtx.ExistsByName(ctx, req.Name, nil)
		if err != nil {
			return err
		}
		if exists {
			return salarystructureerrors.ErrDuplicateName
		}

		return qtx.Create(ctx, structure)
	})
	if err != nil {
		return StructureResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*structure), nil
}

func (s *service) GetAll(ctx context.Context) ([]StructureResponse, error) {
	structures, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	res := make([]StructureResponse, len(structures))
	for i, st := range structures {
		res[i] = mapToResponse(st)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (StructureResponse, error) {
	structure, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return StructureResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*structure), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateStructureRequest) (StructureResponse, error) {
	if !req.BaseSalary.IsPositive() {
		return StructureResponse{}, salarystructureerrors.ErrBaseSalaryNotPositive
	}

	var updated SalaryStructure
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		structure, err := qtx.FindByID(ctx, id)
		if err != nil {
			return err
		}

		exists, err := qtx.ExistsByName(ctx, req.Name, &id)
		if err != nil {
			return err
		}
		if exists {
			return salarystructureerrors.ErrDuplicateName
		}

		structure.Name = req.Name
		structure.BaseSalary = req.BaseSalary

		if err := qtx.Update(ctx, structure); err != nil {
			return err
		}

		updated = *structure
		return nil
	})
	if err != nil {
		return StructureResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(updated), nil
}

// Deactivate soft-retires a structure. Rejected while employees are still
// assigned, so the take-home calculator never resolves a dead tier.
func (s *service) Deactivate(ctx context.Context, id string) (StructureResponse, error) {
	var updated SalaryStructure
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		structure, err := qtx.FindByID(ctx, id)
		if err != nil {
			return err
		}

		if structure.EmployeeCount > 0 {
			return salarystructureerrors.ErrStructureHasEmployees
		}

		structure.IsActive = false
		if err := qtx.Update(ctx, structure); err != nil {
			return err
		}

		updated = *structure
		return nil
	})
	if err != nil {
		return StructureResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(updated), nil
}

func (s *service) Activate(ctx context.Context, id string) (StructureResponse, error) {
	var updated SalaryStructure
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		structure, err := qtx.FindByID(ctx, id)
		if err != nil {
			return err
		}

		structure.IsActive = true
		if err := qtx.Update(ctx, structure); err != nil {
			return err
		}

		updated = *structure
		return nil
	})
	if err != nil {
		return StructureResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(updated), nil
}

func (s *service) AttachAllowance(ctx context.Context, structureID, allowanceID string, req AttachBindingRequest) (BindingResponse, error) {
	effectiveFrom, err := parseEffectiveFrom(req.EffectiveFrom)
	if err != nil {
		return BindingResponse{}, err
	}

	allowanceUUID, err := uuid.Parse(allowanceID)
	if err != nil {
		return BindingResponse{}, salarystructureerrors.ErrBindingNotFound
	}

	var binding SalaryAllowance
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		structure, err := qtx.FindByID(ctx, structureID)
		if err != nil {
			return err
		}
		if !structure.IsActive {
			return salarystructureerrors.ErrStructureInactive
		}

		if _, err := qtx.FindActiveAllowanceBinding(ctx, structureID, allowanceID); err == nil {
			return salarystructureerrors.ErrBindingExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		binding = SalaryAllowance{
			ID:                uuid.New(),
			SalaryStructureID: structure.ID,
			AllowanceID:       allowanceUUID,
			EffectiveFrom:     effectiveFrom,
		}
		return qtx.CreateAllowanceBinding(ctx, &binding)
	})
	if err != nil {
		return BindingResponse{}, mapRepositoryError(err)
	}

	return mapBindingToResponse(binding.ID, binding.SalaryStructureID, binding.AllowanceID, binding.EffectiveFrom, binding.EffectiveTo), nil
}

func (s *service) DetachAllowance(ctx context.Context, structureID, allowanceID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		binding, err := qtx.FindActiveAllowanceBinding(ctx, structureID, allowanceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return salarystructureerrors.ErrBindingNotFound
			}
			return err
		}

		return qtx.CloseAllowanceBinding(ctx, binding.ID.String(), time.Now().UTC())
	})

	return mapRepositoryError(err)
}

func (s *service) AttachDeduction(ctx context.Context, structureID, deductionID string, req AttachBindingRequest) (BindingResponse, error) {
	effectiveFrom, err := parseEffectiveFrom(req.EffectiveFrom)
	if err != nil {
		return BindingResponse{}, err
	}

	deductionUUID, err := uuid.Parse(deductionID)
	if err != nil {
		return BindingResponse{}, salarystructureerrors.ErrBindingNotFound
	}

	var binding SalaryDeduction
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		structure, err := qtx.FindByID(ctx, structureID)
		if err != nil {
			return err
		}
		if !structure.IsActive {
			return salarystructureerrors.ErrStructureInactive
		}

		if _, err := qtx.FindActiveDeductionBinding(ctx, structureID, deductionID); err == nil {
			return salarystructureerrors.ErrBindingExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		binding = SalaryDeduction{
			ID:                uuid.New(),
			SalaryStructureID: structure.ID,
			DeductionID:       deductionUUID,
			EffectiveFrom:     effectiveFrom,
		}
		return qtx.CreateDeductionBinding(ctx, &binding)
	})
	if err != nil {
		return BindingResponse{}, mapRepositoryError(err)
	}

	return mapBindingToResponse(binding.ID, binding.SalaryStructureID, binding.DeductionID, binding.EffectiveFrom, binding.EffectiveTo), nil
}

func (s *service) DetachDeduction(ctx context.Context, structureID, deductionID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		binding, err := qtx.FindActiveDeductionBinding(ctx, structureID, deductionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return salarystructureerrors.ErrBindingNotFound
			}
			return err
		}

		return qtx.CloseDeductionBinding(ctx, binding.ID.String(), time.Now().UTC())
	})

	return mapRepositoryError(err)
}

func mapToResponse(s SalaryStructure) StructureResponse {
	return StructureResponse{
		ID:            s.ID.String(),
		Name:          s.Name,
		BaseSalary:    s.BaseSalary,
		IsActive:      s.IsActive,
		EmployeeCount: s.EmployeeCount,
	}
}

func mapBindingToResponse(id, structureID, catalogID uuid.UUID, from time.Time, to *time.Time) BindingResponse {
	resp := BindingResponse{
		ID:            id.String(),
		StructureID:   structureID.String(),
		CatalogID:     catalogID.String(),
		EffectiveFrom: from.Format("2006-01-02"),
	}
	if to != nil {
		v := to.Format("2006-01-02")
		resp.EffectiveTo = &v
	}
	return resp
}
