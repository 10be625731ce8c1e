package employee

import (
	"context"
	"errors"

	employeeerrors "go-payroll/internal/employee/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is the directory lookup used when picking run cohorts or granting
// bindings. Employee records are owned by the HR system, so there is no
// write surface here.
type Service interface {
	GetAllActive(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetAllActive(ctx context.Context) ([]EmployeeResponse, error) {
	emps, err := s.repo.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]EmployeeResponse, 0, len(emps))
	for i := range emps {
		resp = append(resp, toResponse(&emps[i]))
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	emp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}

	return toResponse(emp), nil
}
