package employeesalary_test

import (
	"context"
	"testing"
	"time"

	"go-payroll/internal/employeesalary"
	employeesalaryerrors "go-payroll/internal/employeesalary/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

type fakeSalaryRepository struct {
	findActiveByEmployeeFn        func(ctx context.Context, employeeID string) (*employeesalary.EmployeeSalary, error)
	findHistoryByEmployeeFn       func(ctx context.Context, employeeID string) ([]employeesalary.AssignmentRow, error)
	createAssignmentFn            func(ctx context.Context, es *employeesalary.EmployeeSalary) error
	closeAssignmentFn             func(ctx context.Context, id string, effectiveTo time.Time) error
	adjustStructureCountFn        func(ctx context.Context, structureID string, delta int) error
	employeeExistsFn              func(ctx context.Context, employeeID string) (bool, error)
	getStructureFn                func(ctx context.Context, structureID string) (*employeesalary.StructureRow, error)
	getAllowanceFn                func(ctx context.Context, allowanceID string) (*employeesalary.CatalogRow, error)
	getDeductionFn                func(ctx context.Context, deductionID string) (*employeesalary.CatalogRow, error)
	findActiveEmployeeAllowanceFn func(ctx context.Context, employeeID, allowanceID string) (*employeesalary.EmployeeAllowance, error)
	createEmployeeAllowanceFn     func(ctx context.Context, ea *employeesalary.EmployeeAllowance) error
	closeEmployeeAllowanceFn      func(ctx context.Context, id string, effectiveTo time.Time) error
	findActiveEmployeeDeductionFn func(ctx context.Context, employeeID, deductionID string) (*employeesalary.EmployeeDeduction, error)
	createEmployeeDeductionFn     func(ctx context.Context, ed *employeesalary.EmployeeDeduction) error
	closeEmployeeDeductionFn      func(ctx context.Context, id string, effectiveTo time.Time) error
}

func (f *fakeSalaryRepository) WithTx(tx *gorm.DB) employeesalary.Repository { return f }

func (f *fakeSalaryRepository) FindActiveByEmployee(ctx context.Context, employeeID string) (*employeesalary.EmployeeSalary, error) {
	if f.findActiveByEmployeeFn != nil {
		return f.findActiveByEmployeeFn(ctx, employeeID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSalaryRepository) FindHistoryByEmployee(ctx context.Context, employeeID string) ([]employeesalary.AssignmentRow, error) {
	if f.findHistoryByEmployeeFn != nil {
		return f.findHistoryByEmployeeFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakeSalaryRepository) CreateAssignment(ctx context.Context, es *employeesalary.EmployeeSalary) error {
	if f.createAssignmentFn != nil {
		return f.createAssignmentFn(ctx, es)
	}
	return nil
}

func (f *fakeSalaryRepository) CloseAssignment(ctx context.Context, id string, effectiveTo time.Time) error {
	if f.closeAssignmentFn != nil {
		return f.closeAssignmentFn(ctx, id, effectiveTo)
	}
	return nil
}

func (f *fakeSalaryRepository) AdjustStructureCount(ctx context.Context, structureID string, delta int) error {
	if f.adjustStructureCountFn != nil {
		return f.adjustStructureCountFn(ctx, structureID, delta)
	}
	return nil
}

func (f *fakeSalaryRepository) EmployeeExists(ctx context.Context, employeeID string) (bool, error) {
	if f.employeeExistsFn != nil {
		return f.employeeExistsFn(ctx, employeeID)
	}
	return true, nil
}

func (f *fakeSalaryRepository) GetStructure(ctx context.Context, structureID string) (*employeesalary.StructureRow, error) {
	if f.getStructureFn != nil {
		return f.getStructureFn(ctx, structureID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSalaryRepository) GetAllowance(ctx context.Context, allowanceID string) (*employeesalary.CatalogRow, error) {
	if f.getAllowanceFn != nil {
		return f.getAllowanceFn(ctx, allowanceID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSalaryRepository) GetDeduction(ctx context.Context, deductionID string) (*employeesalary.CatalogRow, error) {
	if f.getDeductionFn != nil {
		return f.getDeductionFn(ctx, deductionID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSalaryRepository) FindActiveEmployeeAllowance(ctx context.Context, employeeID, allowanceID string) (*employeesalary.EmployeeAllowance, error) {
	if f.findActiveEmployeeAllowanceFn != nil {
		return f.findActiveEmployeeAllowanceFn(ctx, employeeID, allowanceID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSalaryRepository) CreateEmployeeAllowance(ctx context.Context, ea *employeesalary.EmployeeAllowance) error {
	if f.createEmployeeAllowanceFn != nil {
		return f.createEmployeeAllowanceFn(ctx, ea)
	}
	return nil
}

func (f *fakeSalaryRepository) CloseEmployeeAllowance(ctx context.Context, id string, effectiveTo time.Time) error {
	if f.closeEmployeeAllowanceFn != nil {
		return f.closeEmployeeAllowanceFn(ctx, id, effectiveTo)
	}
	return nil
}

func (f *fakeSalaryRepository) FindActiveEmployeeDeduction(ctx context.Context, employeeID, deductionID string) (*employeesalary.EmployeeDeduction, error) {
	if f.findActiveEmployeeDeductionFn != nil {
		return f.findActiveEmployeeDeductionFn(ctx, employeeID, deductionID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSalaryRepository) CreateEmployeeDeduction(ctx context.Context, ed *employeesalary.EmployeeDeduction) error {
	if f.createEmployeeDeductionFn != nil {
		return f.createEmployeeDeductionFn(ctx, ed)
	}
	return nil
}

func (f *fakeSalaryRepository) CloseEmployeeDeduction(ctx context.Context, id string, effectiveTo time.Time) error {
	if f.closeEmployeeDeductionFn != nil {
		return f.closeEmployeeDeductionFn(ctx, id, effectiveTo)
	}
	return nil
}

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	assert.NoError(t, err)

	return gdb, mock
}

func activeStructure(id, name string) *employeesalary.StructureRow {
	return &employeesalary.StructureRow{
		ID:         id,
		Name:       name,
		BaseSalary: dec("5000"),
		IsActive:   true,
	}
}

func TestAssign_FirstAssignment(t *testing.T) {
	db, mock := newTestDB(t)
	employeeID := uuid.New().String()
	structureID := uuid.New().String()

	var created *employeesalary.EmployeeSalary
	counterDeltas := map[string]int{}

	repo := &fakeSalaryRepository{
		getStructureFn: func(ctx context.Context, id string) (*employeesalary.StructureRow, error) {
			return activeStructure(id, "Senior Engineer"), nil
		},
		createAssignmentFn: func(ctx context.Context, es *employeesalary.EmployeeSalary) error {
			created = es
			return nil
		},
		adjustStructureCountFn: func(ctx context.Context, id string, delta int) error {
			counterDeltas[id] += delta
			return nil
		},
	}
	svc := employeesalary.NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Assign(context.Background(), employeesalary.AssignStructureRequest{
		EmployeeID:        employeeID,
		SalaryStructureID: structureID,
		EffectiveFrom:     "2026-03-01",
	})

	assert.NoError(t, err)
	assert.Equal(t, "Senior Engineer", resp.StructureName)
	assert.Equal(t, "2026-03-01", resp.EffectiveFrom)
	assert.Nil(t, resp.EffectiveTo)

	assert.NotNil(t, created)
	assert.Equal(t, 1, counterDeltas[structureID])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssign_ReplacesCurrentAssignment(t *testing.T) {
	db, mock := newTestDB(t)
	employeeID := uuid.New()
	oldStructureID := uuid.New()
	newStructureID := uuid.New()
	currentID := uuid.New()

	var closedID string
	var closedAt time.Time
	counterDeltas := map[string]int{}

	repo := &fakeSalaryRepository{
		getStructureFn: func(ctx context.Context, id string) (*employeesalary.StructureRow, error) {
			return activeStructure(id, "Lead Engineer"), nil
		},
		findActiveByEmployeeFn: func(ctx context.Context, id string) (*employeesalary.EmployeeSalary, error) {
			return &employeesalary.EmployeeSalary{
				ID:                currentID,
				EmployeeID:        employeeID,
				SalaryStructureID: oldStructureID,
				EffectiveFrom:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			}, nil
		},
		closeAssignmentFn: func(ctx context.Context, id string, effectiveTo time.Time) error {
			closedID = id
			closedAt = effectiveTo
			return nil
		},
		adjustStructureCountFn: func(ctx context.Context, id string, delta int) error {
			counterDeltas[id] += delta
			return nil
		},
	}
	svc := employeesalary.NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()

	_, err := svc.Assign(context.Background(), employeesalary.AssignStructureRequest{
		EmployeeID:        employeeID.String(),
		SalaryStructureID: newStructureID.String(),
		EffectiveFrom:     "2026-03-01",
	})

	assert.NoError(t, err)
	assert.Equal(t, currentID.String(), closedID)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), closedAt)
	assert.Equal(t, -1, counterDeltas[oldStructureID.String()])
	assert.Equal(t, 1, counterDeltas[newStructureID.String()])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssign_SameStructureIsRejected(t *testing.T) {
	db, mock := newTestDB(t)
	employeeID := uuid.New()
	structureID := uuid.New()

	closeCalled := false
	repo := &fakeSalaryRepository{
		getStructureFn: func(ctx context.Context, id string) (*employeesalary.StructureRow, error) {
			return activeStructure(id, "Engineer"), nil
		},
		findActiveByEmployeeFn: func(ctx context.Context, id string) (*employeesalary.EmployeeSalary, error) {
			return &employeesalary.EmployeeSalary{
				ID:                uuid.New(),
				EmployeeID:        employeeID,
				SalaryStructureID: structureID,
			}, nil
		},
		closeAssignmentFn: func(ctx context.Context, id string, effectiveTo time.Time) error {
			closeCalled = true
			return nil
		},
	}
	svc := employeesalary.NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Assign(context.Background(), employeesalary.AssignStructureRequest{
		EmployeeID:        employeeID.String(),
		SalaryStructureID: structureID.String(),
	})

	assert.ErrorIs(t, err, employeesalaryerrors.ErrAlreadyAssigned)
	assert.False(t, closeCalled)
}

func TestAssign_Validation(t *testing.T) {
	db, mock := newTestDB(t)
	ctx := context.Background()

	repo := &fakeSalaryRepository{
		getStructureFn: func(ctx context.Context, id string) (*employeesalary.StructureRow, error) {
			row := activeStructure(id, "Engineer")
			row.IsActive = false
			return row, nil
		},
	}
	svc := employeesalary.NewService(db, repo)

	_, err := svc.Assign(ctx, employeesalary.AssignStructureRequest{EmployeeID: "bad", SalaryStructureID: uuid.New().String()})
	assert.ErrorIs(t, err, employeesalaryerrors.ErrInvalidEmployeeID)

	_, err = svc.Assign(ctx, employeesalary.AssignStructureRequest{EmployeeID: uuid.New().String(), SalaryStructureID: "bad"})
	assert.ErrorIs(t, err, employeesalaryerrors.ErrInvalidStructureID)

	_, err = svc.Assign(ctx, employeesalary.AssignStructureRequest{EmployeeID: uuid.New().String(), SalaryStructureID: uuid.New().String(), EffectiveFrom: "03/01/2026"})
	assert.ErrorIs(t, err, employeesalaryerrors.ErrInvalidDateFormat)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = svc.Assign(ctx, employeesalary.AssignStructureRequest{EmployeeID: uuid.New().String(), SalaryStructureID: uuid.New().String()})
	assert.ErrorIs(t, err, employeesalaryerrors.ErrStructureInactive)
}

func TestAssign_ConcurrentAssignmentMapsUniqueViolation(t *testing.T) {
	db, mock := newTestDB(t)

	repo := &fakeSalaryRepository{
		getStructureFn: func(ctx context.Context, id string) (*employeesalary.StructureRow, error) {
			return activeStructure(id, "Engineer"), nil
		},
		createAssignmentFn: func(ctx context.Context, es *employeesalary.EmployeeSalary) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_employee_salary_active"}
		},
	}
	svc := employeesalary.NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Assign(context.Background(), employeesalary.AssignStructureRequest{
		EmployeeID:        uuid.New().String(),
		SalaryStructureID: uuid.New().String(),
	})

	assert.ErrorIs(t, err, employeesalaryerrors.ErrConcurrentAssignment)
}

func TestGrantDeduction_RateResolution(t *testing.T) {
	employeeID := uuid.New().String()
	deductionID := uuid.New().String()

	catalog := &employeesalary.CatalogRow{
		ID:         deductionID,
		Name:       "Pension",
		Percentage: decPtr("3"),
	}

	newService := func(t *testing.T, created **employeesalary.EmployeeDeduction) (employeesalary.Service, sqlmock.Sqlmock) {
		db, mock := newTestDB(t)
		repo := &fakeSalaryRepository{
			getDeductionFn: func(ctx context.Context, id string) (*employeesalary.CatalogRow, error) {
				return catalog, nil
			},
			createEmployeeDeductionFn: func(ctx context.Context, ed *employeesalary.EmployeeDeduction) error {
				*created = ed
				return nil
			},
		}
		return employeesalary.NewService(db, repo), mock
	}

	t.Run("inherits catalog rate and name", func(t *testing.T) {
		var created *employeesalary.EmployeeDeduction
		svc, mock := newService(t, &created)
		mock.ExpectBegin()
		mock.ExpectCommit()

		resp, err := svc.GrantDeduction(context.Background(), employeeID, employeesalary.GrantDeductionRequest{
			DeductionID: deductionID,
		})

		assert.NoError(t, err)
		assert.Equal(t, "Pension", resp.Name)
		assert.NotNil(t, created.Percentage)
		assert.True(t, created.Percentage.Equal(dec("3")))
		assert.Nil(t, created.FlatAmount)
	})

	t.Run("employee rate overrides catalog", func(t *testing.T) {
		var created *employeesalary.EmployeeDeduction
		svc, mock := newService(t, &created)
		mock.ExpectBegin()
		mock.ExpectCommit()

		_, err := svc.GrantDeduction(context.Background(), employeeID, employeesalary.GrantDeductionRequest{
			DeductionID: deductionID,
			Name:        "Pension Top-Up",
			FlatAmount:  decPtr("150"),
		})

		assert.NoError(t, err)
		assert.Equal(t, "Pension Top-Up", created.Name)
		assert.Nil(t, created.Percentage)
		assert.True(t, created.FlatAmount.Equal(dec("150")))
	})

	t.Run("both rates rejected", func(t *testing.T) {
		var created *employeesalary.EmployeeDeduction
		svc, mock := newService(t, &created)
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.GrantDeduction(context.Background(), employeeID, employeesalary.GrantDeductionRequest{
			DeductionID: deductionID,
			Percentage:  decPtr("5"),
			FlatAmount:  decPtr("150"),
		})

		assert.ErrorIs(t, err, employeesalaryerrors.ErrRateAmbiguous)
		assert.Nil(t, created)
	})
}

func TestGrantAllowance_DuplicateBinding(t *testing.T) {
	db, mock := newTestDB(t)
	employeeID := uuid.New()
	allowanceID := uuid.New()

	repo := &fakeSalaryRepository{
		getAllowanceFn: func(ctx context.Context, id string) (*employeesalary.CatalogRow, error) {
			return &employeesalary.CatalogRow{ID: id, Name: "Transport"}, nil
		},
		findActiveEmployeeAllowanceFn: func(ctx context.Context, eid, aid string) (*employeesalary.EmployeeAllowance, error) {
			return &employeesalary.EmployeeAllowance{ID: uuid.New(), EmployeeID: employeeID, AllowanceID: allowanceID}, nil
		},
	}
	svc := employeesalary.NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.GrantAllowance(context.Background(), employeeID.String(), employeesalary.GrantAllowanceRequest{
		AllowanceID: allowanceID.String(),
	})

	assert.ErrorIs(t, err, employeesalaryerrors.ErrBindingExists)
}

func TestRevokeAllowance(t *testing.T) {
	db, mock := newTestDB(t)
	bindingID := uuid.New()

	var closedID string
	repo := &fakeSalaryRepository{
		findActiveEmployeeAllowanceFn: func(ctx context.Context, eid, aid string) (*employeesalary.EmployeeAllowance, error) {
			return &employeesalary.EmployeeAllowance{ID: bindingID}, nil
		},
		closeEmployeeAllowanceFn: func(ctx context.Context, id string, effectiveTo time.Time) error {
			closedID = id
			return nil
		},
	}
	svc := employeesalary.NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := svc.RevokeAllowance(context.Background(), uuid.New().String(), uuid.New().String())

	assert.NoError(t, err)
	assert.Equal(t, bindingID.String(), closedID)
}

func TestRevokeDeduction_NotBound(t *testing.T) {
	db, mock := newTestDB(t)
	svc := employeesalary.NewService(db, &fakeSalaryRepository{})

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := svc.RevokeDeduction(context.Background(), uuid.New().String(), uuid.New().String())
	assert.ErrorIs(t, err, employeesalaryerrors.ErrBindingNotFound)
}

func TestGetHistory_CarriesStructureNames(t *testing.T) {
	db, _ := newTestDB(t)
	employeeID := uuid.New()
	to := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	repo := &fakeSalaryRepository{
		findHistoryByEmployeeFn: func(ctx context.Context, id string) ([]employeesalary.AssignmentRow, error) {
			return []employeesalary.AssignmentRow{
				{
					EmployeeSalary: employeesalary.EmployeeSalary{
						ID:                uuid.New(),
						EmployeeID:        employeeID,
						SalaryStructureID: uuid.New(),
						EffectiveFrom:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
					},
					StructureName: "Lead Engineer",
				},
				{
					EmployeeSalary: employeesalary.EmployeeSalary{
						ID:                uuid.New(),
						EmployeeID:        employeeID,
						SalaryStructureID: uuid.New(),
						EffectiveFrom:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
						EffectiveTo:       &to,
					},
					StructureName: "Engineer",
				},
			}, nil
		},
	}
	svc := employeesalary.NewService(db, repo)

	rows, err := svc.GetHistory(context.Background(), employeeID.String())

	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "Lead Engineer", rows[0].StructureName)
	assert.Nil(t, rows[0].EffectiveTo)
	assert.Equal(t, "Engineer", rows[1].StructureName)
	assert.NotNil(t, rows[1].EffectiveTo)
	assert.Equal(t, "2026-03-01", *rows[1].EffectiveTo)
}
