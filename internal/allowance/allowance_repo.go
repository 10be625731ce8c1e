package allowance

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, a *Allowance) error
	FindAll(ctx context.Context) ([]Allowance, error)
	FindByID(ctx context.Context, id string) (*Allowance, error)
	ExistsByName(ctx context.Context, name string, excludeID *string) (bool, error)
	HasActiveBindings(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, a *Allowance) error
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

func (r *repository) Create(ctx context.Context, a *Allowance) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Allowance, error) {
	var allowances []Allowance
	err := r.db.WithContext(ctx).Order("name ASC").Find(&allowances).Error
	return allowances, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Allowance, error) {
	var a Allowance
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) ExistsByName(ctx context.Context, name string, excludeID *string) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&Allowance{}).
		Where("LOWER(name) = LOWER(?)", name)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

// HasActiveBindings reports whether any structure- or employee-level binding
// of this allowance is still open (effective_to IS NULL).
func (r *repository) HasActiveBindings(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
SELECT
	(SELECT COUNT(*) FROM salary_allowances WHERE allowance_id = ? AND effective_to IS NULL)
	+
	(SELECT COUNT(*) FROM employee_allowances WHERE allowance_id = ? AND effective_to IS NULL)
`, id, id).Scan(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, a *Allowance) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Allowance{}, "id = ?", id).Error
}
