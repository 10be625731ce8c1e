package deduction_test

import (
	"context"
	"testing"

	"go-payroll/internal/deduction"
	deductionerrors "go-payroll/internal/deduction/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

type fakeDeductionRepository struct {
	createFn            func(ctx context.Context, d *deduction.Deduction) error
	findAllFn           func(ctx context.Context) ([]deduction.Deduction, error)
	findByIDFn          func(ctx context.Context, id string) (*deduction.Deduction, error)
	existsByNameFn      func(ctx context.Context, name string, excludeID *string) (bool, error)
	hasActiveBindingsFn func(ctx context.Context, id string) (bool, error)
	updateFn            func(ctx context.Context, d *deduction.Deduction) error
	deleteFn            func(ctx context.Context, id string) error
}

func (f *fakeDeductionRepository) WithTx(tx *gorm.DB) deduction.Repository { return f }

func (f *fakeDeductionRepository) Create(ctx context.Context, d *deduction.Deduction) error {
	if f.createFn != nil {
		return f.createFn(ctx, d)
	}
	return nil
}

func (f *fakeDeductionRepository) FindAll(ctx context.Context) ([]deduction.Deduction, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeDeductionRepository) FindByID(ctx context.Context, id string) (*deduction.Deduction, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDeductionRepository) ExistsByName(ctx context.Context, name string, excludeID *string) (bool, error) {
	if f.existsByNameFn != nil {
		return f.existsByNameFn(ctx, name, excludeID)
	}
	return false, nil
}

func (f *fakeDeductionRepository) HasActiveBindings(ctx context.Context, id string) (bool, error) {
	if f.hasActiveBindingsFn != nil {
		return f.hasActiveBindingsFn(ctx, id)
	}
	return false, nil
}

func (f *fakeDeductionRepository) Update(ctx context.Context, d *deduction.Deduction) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, d)
	}
	return nil
}

func (f *fakeDeductionRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
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

func TestDeductionCreate(t *testing.T) {
	db, mock := newTestDB(t)

	var created *deduction.Deduction
	repo := &fakeDeductionRepository{
		createFn: func(ctx context.Context, d *deduction.Deduction) error {
			created = d
			return nil
		},
	}
	svc := deduction.NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Create(context.Background(), deduction.CreateDeductionRequest{
		Name:       "Pension",
		Percentage: decPtr("3"),
	})

	assert.NoError(t, err)
	assert.Equal(t, "Pension", resp.Name)
	assert.Equal(t, deduction.KindRecurring, resp.Kind)
	assert.NotNil(t, created)
	assert.True(t, created.Percentage.Equal(decimal.RequireFromString("3")))
	assert.Nil(t, created.FlatAmount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeductionCreate_RateValidation(t *testing.T) {
	db, _ := newTestDB(t)
	svc := deduction.NewService(db, &fakeDeductionRepository{})
	ctx := context.Background()

	_, err := svc.Create(ctx, deduction.CreateDeductionRequest{Name: "Pension"})
	assert.ErrorIs(t, err, deductionerrors.ErrRateRequired)

	_, err = svc.Create(ctx, deduction.CreateDeductionRequest{Name: "Pension", Percentage: decPtr("3"), FlatAmount: decPtr("50")})
	assert.ErrorIs(t, err, deductionerrors.ErrRateAmbiguous)

	_, err = svc.Create(ctx, deduction.CreateDeductionRequest{Name: "Pension", FlatAmount: decPtr("-50")})
	assert.ErrorIs(t, err, deductionerrors.ErrRateNotPositive)

	_, err = svc.Create(ctx, deduction.CreateDeductionRequest{Name: "Pension", FlatAmount: decPtr("0")})
	assert.ErrorIs(t, err, deductionerrors.ErrRateRequired)

	_, err = svc.Create(ctx, deduction.CreateDeductionRequest{Name: "Pension", FlatAmount: decPtr("50"), Kind: "weekly"})
	assert.ErrorIs(t, err, deductionerrors.ErrInvalidKind)
}

func TestDeductionUpdate_DuplicateName(t *testing.T) {
	db, mock := newTestDB(t)
	id := uuid.New()

	repo := &fakeDeductionRepository{
		findByIDFn: func(ctx context.Context, gotID string) (*deduction.Deduction, error) {
			return &deduction.Deduction{ID: id, Name: "Pension", Kind: deduction.KindRecurring, Percentage: decPtr("3")}, nil
		},
		existsByNameFn: func(ctx context.Context, name string, excludeID *string) (bool, error) {
			return true, nil
		},
	}
	svc := deduction.NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Update(context.Background(), id.String(), deduction.UpdateDeductionRequest{
		Name:       "Health Insurance",
		Percentage: decPtr("3"),
	})

	assert.ErrorIs(t, err, deductionerrors.ErrDuplicateName)
}

func TestDeductionDelete_InUse(t *testing.T) {
	db, mock := newTestDB(t)
	id := uuid.New()

	deleted := false
	repo := &fakeDeductionRepository{
		findByIDFn: func(ctx context.Context, gotID string) (*deduction.Deduction, error) {
			return &deduction.Deduction{ID: id, Name: "Pension"}, nil
		},
		hasActiveBindingsFn: func(ctx context.Context, gotID string) (bool, error) {
			return true, nil
		},
		deleteFn: func(ctx context.Context, gotID string) error {
			deleted = true
			return nil
		},
	}
	svc := deduction.NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := svc.Delete(context.Background(), id.String())

	assert.ErrorIs(t, err, deductionerrors.ErrDeductionInUse)
	assert.False(t, deleted)
}

func TestDeductionGetByID_NotFound(t *testing.T) {
	db, _ := newTestDB(t)
	svc := deduction.NewService(db, &fakeDeductionRepository{})

	_, err := svc.GetByID(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, deductionerrors.ErrDeductionNotFound)
}
