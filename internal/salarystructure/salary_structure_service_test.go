package salarystructure_test

import (
	"context"
	"testing"
	"time"

	"go-payroll/internal/salarystructure"
	salarystructureerrors "go-payroll/internal/salarystructure/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fakeStructureRepository struct {
	createFn                     func(ctx context.Context, s *salarystructure.SalaryStructure) error
	findAllFn                    func(ctx context.Context) ([]salarystructure.SalaryStructure, error)
	findByIDFn                   func(ctx context.Context, id string) (*salarystructure.SalaryStructure, error)
	existsByNameFn               func(ctx context.Context, name string, excludeID *string) (bool, error)
	updateFn                     func(ctx context.Context, s *salarystructure.SalaryStructure) error
	createAllowanceBindingFn     func(ctx context.Context, b *salarystructure.SalaryAllowance) error
	findActiveAllowanceBindingFn func(ctx context.Context, structureID, allowanceID string) (*salarystructure.SalaryAllowance, error)
	closeAllowanceBindingFn      func(ctx context.Context, bindingID string, effectiveTo time.Time) error
	listAllowanceBindingsFn      func(ctx context.Context, structureID string) ([]salarystructure.SalaryAllowance, error)
	createDeductionBindingFn     func(ctx context.Context, b *salarystructure.SalaryDeduction) error
	findActiveDeductionBindingFn func(ctx context.Context, structureID, deductionID string) (*salarystructure.SalaryDeduction, error)
	closeDeductionBindingFn      func(ctx context.Context, bindingID string, effectiveTo time.Time) error
	listDeductionBindingsFn      func(ctx context.Context, structureID string) ([]salarystructure.SalaryDeduction, error)
}

func (f *fakeStructureRepository) WithTx(tx *gorm.DB) salarystructure.Repository { return f }

func (f *fakeStructureRepository) Create(ctx context.Context, s *salarystructure.SalaryStructure) error {
	if f.createFn != nil {
		return f.createFn(ctx, s)
	}
	return nil
}

func (f *fakeStructureRepository) FindAll(ctx context.Context) ([]salarystructure.SalaryStructure, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeStructureRepository) FindByID(ctx context.Context, id string) (*salarystructure.SalaryStructure, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStructureRepository) ExistsByName(ctx context.Context, name string, excludeID *string) (bool, error) {
	if f.existsByNameFn != nil {
		return f.existsByNameFn(ctx, name, excludeID)
	}
	return false, nil
}

func (f *fakeStructureRepository) Update(ctx context.Context, s *salarystructure.SalaryStructure) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, s)
	}
	return nil
}

func (f *fakeStructureRepository) CreateAllowanceBinding(ctx context.Context, b *salarystructure.SalaryAllowance) error {
	if f.createAllowanceBindingFn != nil {
		return f.createAllowanceBindingFn(ctx, b)
	}
	return nil
}

func (f *fakeStructureRepository) FindActiveAllowanceBinding(ctx context.Context, structureID, allowanceID string) (*salarystructure.SalaryAllowance, error) {
	if f.findActiveAllowanceBindingFn != nil {
		return f.findActiveAllowanceBindingFn(ctx, structureID, allowanceID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStructureRepository) CloseAllowanceBinding(ctx context.Context, bindingID string, effectiveTo time.Time) error {
	if f.closeAllowanceBindingFn != nil {
		return f.closeAllowanceBindingFn(ctx, bindingID, effectiveTo)
	}
	return nil
}

func (f *fakeStructureRepository) ListAllowanceBindings(ctx context.Context, structureID string) ([]salarystructure.SalaryAllowance, error) {
	if f.listAllowanceBindingsFn != nil {
		return f.listAllowanceBindingsFn(ctx, structureID)
	}
	return nil, nil
}

func (f *fakeStructureRepository) CreateDeductionBinding(ctx context.Context, b *salarystructure.SalaryDeduction) error {
	if f.createDeductionBindingFn != nil {
		return f.createDeductionBindingFn(ctx, b)
	}
	return nil
}

func (f *fakeStructureRepository) FindActiveDeductionBinding(ctx context.Context, structureID, deductionID string) (*salarystructure.SalaryDeduction, error) {
	if f.findActiveDeductionBindingFn != nil {
		return f.findActiveDeductionBindingFn(ctx, structureID, deductionID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStructureRepository) CloseDeductionBinding(ctx context.Context, bindingID string, effectiveTo time.Time) error {
	if f.closeDeductionBindingFn != nil {
		return f.closeDeductionBindingFn(ctx, bindingID, effectiveTo)
	}
	return nil
}

func (f *fakeStructureRepository) ListDeductionBindings(ctx context.Context, structureID string) ([]salarystructure.SalaryDeduction, error) {
	if f.listDeductionBindingsFn != nil {
		return f.listDeductionBindingsFn(ctx, structureID)
	}
	return nil, nil
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

func TestStructureCreate(t *testing.T) {
	db, mock := newTestDB(t)

	var created *salarystructure.SalaryStructure
	repo := &fakeStructureRepository{
		createFn: func(ctx context.Context, s *salarystructure.SalaryStructure) error {
			created = s
			return nil
		},
	}
	svc := salarystructure.NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Create(context.Background(), salarystructure.CreateStructureRequest{
		Name:       "Senior Engineer",
		BaseSalary: dec("12000"),
	})

	assert.NoError(t, err)
	assert.Equal(t, "Senior Engineer", resp.Name)
	assert.True(t, resp.IsActive)
	assert.Equal(t, 0, resp.EmployeeCount)
	assert.NotNil(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStructureCreate_Rejections(t *testing.T) {
	db, mock := newTestDB(t)
	ctx := context.Background()

	svc := salarystructure.NewService(db, &fakeStructureRepository{})
	_, err := svc.Create(ctx, salarystructure.CreateStructureRequest{Name: "Intern", BaseSalary: dec("0")})
	assert.ErrorIs(t, err, salarystructureerrors.ErrBaseSalaryNotPositive)

	dupRepo := &fakeStructureRepository{
		existsByNameFn: func(ctx context.Context, name string, excludeID *string) (bool, error) {
			return true, nil
		},
	}
	svc = salarystructure.NewService(db, dupRepo)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = svc.Create(ctx, salarystructure.CreateStructureRequest{Name: "Intern", BaseSalary: dec("1000")})
	assert.ErrorIs(t, err, salarystructureerrors.ErrDuplicateName)
}

func TestStructureDeactivate_BlockedWhileStaffed(t *testing.T) {
	db, mock := newTestDB(t)
	id := uuid.New()

	updated := false
	repo := &fakeStructureRepository{
		findByIDFn: func(ctx context.Context, gotID string) (*salarystructure.SalaryStructure, error) {
			return &salarystructure.SalaryStructure{ID: id, Name: "Engineer", BaseSalary: dec("8000"), IsActive: true, EmployeeCount: 3}, nil
		},
		updateFn: func(ctx context.Context, s *salarystructure.SalaryStructure) error {
			updated = true
			return nil
		},
	}
	svc := salarystructure.NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Deactivate(context.Background(), id.String())

	assert.ErrorIs(t, err, salarystructureerrors.ErrStructureHasEmployees)
	assert.False(t, updated)
}

func TestStructureDeactivateAndActivate(t *testing.T) {
	db, mock := newTestDB(t)
	id := uuid.New()
	structure := &salarystructure.SalaryStructure{ID: id, Name: "Engineer", BaseSalary: dec("8000"), IsActive: true}

	repo := &fakeStructureRepository{
		findByIDFn: func(ctx context.Context, gotID string) (*salarystructure.SalaryStructure, error) {
			s := *structure
			return &s, nil
		},
		updateFn: func(ctx context.Context, s *salarystructure.SalaryStructure) error {
			structure = s
			return nil
		},
	}
	svc := salarystructure.NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Deactivate(context.Background(), id.String())
	assert.NoError(t, err)
	assert.False(t, resp.IsActive)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err = svc.Activate(context.Background(), id.String())
	assert.NoError(t, err)
	assert.True(t, resp.IsActive)
}

func TestAttachAllowance(t *testing.T) {
	db, mock := newTestDB(t)
	structureID := uuid.New()
	allowanceID := uuid.New()

	var created *salarystructure.SalaryAllowance
	repo := &fakeStructureRepository{
		findByIDFn: func(ctx context.Context, gotID string) (*salarystructure.SalaryStructure, error) {
			return &salarystructure.SalaryStructure{ID: structureID, Name: "Engineer", BaseSalary: dec("8000"), IsActive: true}, nil
		},
		createAllowanceBindingFn: func(ctx context.Context, b *salarystructure.SalaryAllowance) error {
			created = b
			return nil
		},
	}
	svc := salarystructure.NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.AttachAllowance(context.Background(), structureID.String(), allowanceID.String(), salarystructure.AttachBindingRequest{
		EffectiveFrom: "2026-04-01",
	})

	assert.NoError(t, err)
	assert.Equal(t, structureID.String(), resp.StructureID)
	assert.Equal(t, allowanceID.String(), resp.CatalogID)
	assert.Equal(t, "2026-04-01", resp.EffectiveFrom)
	assert.Nil(t, resp.EffectiveTo)

	assert.NotNil(t, created)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), created.EffectiveFrom)
}

func TestAttachAllowance_Rejections(t *testing.T) {
	db, mock := newTestDB(t)
	structureID := uuid.New()
	allowanceID := uuid.New()
	ctx := context.Background()

	inactiveRepo := &fakeStructureRepository{
		findByIDFn: func(ctx context.Context, gotID string) (*salarystructure.SalaryStructure, error) {
			return &salarystructure.SalaryStructure{ID: structureID, IsActive: false}, nil
		},
	}
	svc := salarystructure.NewService(db, inactiveRepo)
	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.AttachAllowance(ctx, structureID.String(), allowanceID.String(), salarystructure.AttachBindingRequest{})
	assert.ErrorIs(t, err, salarystructureerrors.ErrStructureInactive)

	boundRepo := &fakeStructureRepository{
		findByIDFn: func(ctx context.Context, gotID string) (*salarystructure.SalaryStructure, error) {
			return &salarystructure.SalaryStructure{ID: structureID, IsActive: true}, nil
		},
		findActiveAllowanceBindingFn: func(ctx context.Context, sid, aid string) (*salarystructure.SalaryAllowance, error) {
			return &salarystructure.SalaryAllowance{ID: uuid.New()}, nil
		},
	}
	svc = salarystructure.NewService(db, boundRepo)
	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = svc.AttachAllowance(ctx, structureID.String(), allowanceID.String(), salarystructure.AttachBindingRequest{})
	assert.ErrorIs(t, err, salarystructureerrors.ErrBindingExists)
}

func TestDetachDeduction(t *testing.T) {
	db, mock := newTestDB(t)
	bindingID := uuid.New()

	var closedID string
	repo := &fakeStructureRepository{
		findActiveDeductionBindingFn: func(ctx context.Context, sid, did string) (*salarystructure.SalaryDeduction, error) {
			return &salarystructure.SalaryDeduction{ID: bindingID}, nil
		},
		closeDeductionBindingFn: func(ctx context.Context, id string, effectiveTo time.Time) error {
			closedID = id
			return nil
		},
	}
	svc := salarystructure.NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := svc.DetachDeduction(context.Background(), uuid.New().String(), uuid.New().String())

	assert.NoError(t, err)
	assert.Equal(t, bindingID.String(), closedID)
}

func TestDetachAllowance_NotBound(t *testing.T) {
	db, mock := newTestDB(t)
	svc := salarystructure.NewService(db, &fakeStructureRepository{})

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := svc.DetachAllowance(context.Background(), uuid.New().String(), uuid.New().String())
	assert.ErrorIs(t, err, salarystructureerrors.ErrBindingNotFound)
}
