package employeesalary

import (
	"context"
	"errors"
	"time"

	employeesalaryerrors "go-payroll/internal/employeesalary/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service interface {
	Assign(ctx context.Context, req AssignStructureRequest) (AssignmentResponse, error)
	GetActive(ctx context.Context, employeeID string) (AssignmentResponse, error)
	GetHistory(ctx context.Context, employeeID string) ([]AssignmentResponse, error)

	GrantAllowance(ctx context.Context, employeeID string, req GrantAllowanceRequest) (EmployeeAllowanceResponse, error)
	RevokeAllowance(ctx context.Context, employeeID, allowanceID string) error
	GrantDeduction(ctx context.Context, employeeID string, req GrantDeductionRequest) (EmployeeDeductionResponse, error)
	RevokeDeduction(ctx context.Context, employeeID, deductionID string) error
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
		return time.Time{}, employeesalaryerrors.ErrInvalidDateFormat
	}
	return t, nil
}

// Assign moves an employee onto a structure. Closing the previous row,
// adjusting both employee counters and inserting the new row happen in one
// transaction; the partial unique index on open rows serializes concurrent
// attempts for the same employee.
func (s *service) Assign(ctx context.Context, req AssignStructureRequest) (AssignmentResponse, error) {
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return AssignmentResponse{}, employeesalaryerrors.ErrInvalidEmployeeID
	}

	structureUUID, err := uuid.Parse(req.SalaryStructureID)
	if err != nil {
		return AssignmentResponse{}, employeesalaryerrors.ErrInvalidStructureID
	}

	effectiveFrom, err := parseEffectiveFrom(req.EffectiveFrom)
	if err != nil {
		return AssignmentResponse{}, err
	}

	var created EmployeeSalary
	var structureName string

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		exists, err := qtx.EmployeeExists(ctx, req.EmployeeID)
		if err != nil {
			return err
		}
		if !exists {
			return employeesalaryerrors.ErrEmployeeNotFound
		}

		structure, err := qtx.GetStructure(ctx, req.SalaryStructureID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return employeesalaryerrors.ErrStructureNotFound
			}
			return err
		}
		if !structure.IsActive {
			return employeesalaryerrors.ErrStructureInactive
		}
		structureName = structure.Name

		current, err := qtx.FindActiveByEmployee(ctx, req.EmployeeID)
		switch {
		case err == nil:
			if current.SalaryStructureID == structureUUID {
				return employeesalaryerrors.ErrAlreadyAssigned
			}
			if err := qtx.CloseAssignment(ctx, current.ID.String(), effectiveFrom); err != nil {
				return err
			}
			if err := qtx.AdjustStructureCount(ctx, current.SalaryStructureID.String(), -1); err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// First assignment for this employee.
		default:
			return err
		}

		created = EmployeeSalary{
			ID:                uuid.New(),
			EmployeeID:        employeeUUID,
			SalaryStructureID: structureUUID,
			EffectiveFrom:     effectiveFrom,
		}
		if err := qtx.CreateAssignment(ctx, &created); err != nil {
			return err
		}

		return qtx.AdjustStructureCount(ctx, req.SalaryStructureID, +1)
	})
	if err != nil {
		return AssignmentResponse{}, mapRepositoryError(err)
	}

	resp := mapAssignmentToResponse(created)
	resp.StructureName = structureName
	return resp, nil
}

func (s *service) GetActive(ctx context.Context, employeeID string) (AssignmentResponse, error) {
	es, err := s.repo.FindActiveByEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AssignmentResponse{}, employeesalaryerrors.ErrAssignmentNotFound
		}
		return AssignmentResponse{}, mapRepositoryError(err)
	}

	return mapAssignmentToResponse(*es), nil
}

func (s *service) GetHistory(ctx context.Context, employeeID string) ([]AssignmentResponse, error) {
	rows, err := s.repo.FindHistoryByEmployee(ctx, employeeID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	res := make([]AssignmentResponse, len(rows))
	for i, row := range rows {
		res[i] = mapAssignmentToResponse(row.EmployeeSalary)
		res[i].StructureName = row.StructureName
	}
	return res, nil
}

func (s *service) GrantAllowance(ctx context.Context, employeeID string, req GrantAllowanceRequest) (EmployeeAllowanceResponse, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return EmployeeAllowanceResponse{}, employeesalaryerrors.ErrInvalidEmployeeID
	}

	allowanceUUID, err := uuid.Parse(req.AllowanceID)
	if err != nil {
		return EmployeeAllowanceResponse{}, employeesalaryerrors.ErrAllowanceNotFound
	}

	effectiveFrom, err := parseEffectiveFrom(req.EffectiveFrom)
	if err != nil {
		return EmployeeAllowanceResponse{}, err
	}

	var created EmployeeAllowance
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		exists, err := qtx.EmployeeExists(ctx, employeeID)
		if err != nil {
			return err
		}
		if !exists {
			return employeesalaryerrors.ErrEmployeeNotFound
		}

		if _, err := qtx.GetAllowance(ctx, req.AllowanceID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return employeesalaryerrors.ErrAllowanceNotFound
			}
			return err
		}

		if _, err := qtx.FindActiveEmployeeAllowance(ctx, employeeID, req.AllowanceID); err == nil {
			return employeesalaryerrors.ErrBindingExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		created = EmployeeAllowance{
			ID:            uuid.New(),
			EmployeeID:    employeeUUID,
			AllowanceID:   allowanceUUID,
			EffectiveFrom: effectiveFrom,
		}
		return qtx.CreateEmployeeAllowance(ctx, &created)
	})
	if err != nil {
		return EmployeeAllowanceResponse{}, mapRepositoryError(err)
	}

	return mapEmployeeAllowanceToResponse(created), nil
}

func (s *service) RevokeAllowance(ctx context.Context, employeeID, allowanceID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		ea, err := qtx.FindActiveEmployeeAllowance(ctx, employeeID, allowanceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return employeesalaryerrors.ErrBindingNotFound
			}
			return err
		}

		return qtx.CloseEmployeeAllowance(ctx, ea.ID.String(), time.Now().UTC())
	})

	return mapRepositoryError(err)
}

func (s *service) GrantDeduction(ctx context.Context, employeeID string, req GrantDeductionRequest) (EmployeeDeductionResponse, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return EmployeeDeductionResponse{}, employeesalaryerrors.ErrInvalidEmployeeID
	}

	deductionUUID, err := uuid.Parse(req.DeductionID)
	if err != nil {
		return EmployeeDeductionResponse{}, employeesalaryerrors.ErrDeductionNotFound
	}

	effectiveFrom, err := parseEffectiveFrom(req.EffectiveFrom)
	if err != nil {
		return EmployeeDeductionResponse{}, err
	}

	var created EmployeeDeduction
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		exists, err := qtx.EmployeeExists(ctx, employeeID)
		if err != nil {
			return err
		}
		if !exists {
			return employeesalaryerrors.ErrEmployeeNotFound
		}

		catalog, err := qtx.GetDeduction(ctx, req.DeductionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return employeesalaryerrors.ErrDeductionNotFound
			}
			return err
		}

		if _, err := qtx.FindActiveEmployeeDeduction(ctx, employeeID, req.DeductionID); err == nil {
			return employeesalaryerrors.ErrBindingExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// The employee-level rate overrides the catalog rate when given;
		// otherwise the catalog rate carries over.
		percentage := req.Percentage
		flatAmount := req.FlatAmount
		if percentage != nil && flatAmount != nil {
			return employeesalaryerrors.ErrRateAmbiguous
		}
		if percentage == nil && flatAmount == nil {
			percentage = catalog.Percentage
			flatAmount = catalog.FlatAmount
		}
		if percentage == nil && flatAmount == nil {
			return employeesalaryerrors.ErrRateRequired
		}

		name := req.Name
		if name == "" {
			name = catalog.Name
		}

		created = EmployeeDeduction{
			ID:            uuid.New(),
			EmployeeID:    employeeUUID,
			DeductionID:   &deductionUUID,
			Name:          name,
			Percentage:    percentage,
			FlatAmount:    flatAmount,
			IsActive:      true,
			EffectiveFrom: effectiveFrom,
		}
		return qtx.CreateEmployeeDeduction(ctx, &created)
	})
	if err != nil {
		return EmployeeDeductionResponse{}, mapRepositoryError(err)
	}

	return mapEmployeeDeductionToResponse(created), nil
}

func (s *service) RevokeDeduction(ctx context.Context, employeeID, deductionID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		ed, err := qtx.FindActiveEmployeeDeduction(ctx, employeeID, deductionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return employeesalaryerrors.ErrBindingNotFound
			}
			return err
		}

		return qtx.CloseEmployeeDeduction(ctx, ed.ID.String(), time.Now().UTC())
	})

	return mapRepositoryError(err)
}

func mapAssignmentToResponse(es EmployeeSalary) AssignmentResponse {
	resp := AssignmentResponse{
		ID:                es.ID.String(),
		EmployeeID:        es.EmployeeID.String(),
		SalaryStructureID: es.SalaryStructureID.String(),
		EffectiveFrom:     es.EffectiveFrom.Format("2006-01-02"),
	}
	if es.EffectiveTo != nil {
		v := es.EffectiveTo.Format("2006-01-02")
		resp.EffectiveTo = &v
	}
	return resp
}

func mapEmployeeAllowanceToResponse(ea EmployeeAllowance) EmployeeAllowanceResponse {
	resp := EmployeeAllowanceResponse{
		ID:            ea.ID.String(),
		EmployeeID:    ea.EmployeeID.String(),
		AllowanceID:   ea.AllowanceID.String(),
		EffectiveFrom: ea.EffectiveFrom.Format("2006-01-02"),
	}
	if ea.EffectiveTo != nil {
		v := ea.EffectiveTo.Format("2006-01-02")
		resp.EffectiveTo = &v
	}
	return resp
}

func mapEmployeeDeductionToResponse(ed EmployeeDeduction) EmployeeDeductionResponse {
	resp := EmployeeDeductionResponse{
		ID:              ed.ID.String(),
		EmployeeID:      ed.EmployeeID.String(),
		Name:            ed.Name,
		Percentage:      ed.Percentage,
		FlatAmount:      ed.FlatAmount,
		OriginalAmount:  ed.OriginalAmount,
		RemainingAmount: ed.RemainingAmount,
		IsActive:        ed.IsActive,
		EffectiveFrom:   ed.EffectiveFrom.Format("2006-01-02"),
	}
	if ed.DeductionID != nil {
		v := ed.DeductionID.String()
		resp.DeductionID = &v
	}
	if ed.EffectiveTo != nil {
		v := ed.EffectiveTo.Format("2006-01-02")
		resp.EffectiveTo = &v
	}
	return resp
}
