package deduction

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, d *Deduction) error
	FindAll(ctx context.Context) ([]Deduction, error)
	FindByID(ctx context.Context, id string) (*Deduction, error)
	ExistsByName(ctx context.Context, name string, excludeID *string) (bool, error)
	HasActiveBindings(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, d *Deduction) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, d *Deduction) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Deduction, error) {
	var deductions []Deduction
	err := r.db.WithContext(ctx).Order("name ASC").Find(&deductions).Error
	return deductions, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Deduction, error) {
	var d Deduction
	err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) ExistsByName(ctx context.Context, name string, excludeID *string) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&Deduction{}).
		Where("LOWER(name) = LOWER(?)", name)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

func (r *repository) HasActiveBindings(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
SELECT
	(SELECT COUNT(*) FROM salary_deductions WHERE deduction_id = ? AND effective_to IS NULL)
	+
	(SELECT COUNT(*) FROM employee_deductions WHERE deduction_id = ? AND effective_to IS NULL)
`, id, id).Scan(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, d *Deduction) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Deduction{}, "id = ?", id).Error
}
