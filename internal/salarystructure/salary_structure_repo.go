package salarystructure

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, s *SalaryStructure) error
	FindAll(ctx context.Context) ([]SalaryStructure, error)
	FindByID(ctx context.Context, id string) (*SalaryStructure, error)
	ExistsByName(ctx context.Context, name string, excludeID *string) (bool, error)
	Update(ctx context.Context, s *SalaryStructure) error

	CreateAllowanceBinding(ctx context.Context, b *SalaryAllowance) error
	FindActiveAllowanceBinding(ctx context.Context, structureID, allowanceID string) (*SalaryAllowance, error)
	CloseAllowanceBinding(ctx context.Context, bindingID string, effectiveTo time.Time) error
	ListAllowanceBindings(ctx context.Context, structureID string) ([]SalaryAllowance, error)

	CreateDeductionBinding(ctx context.Context, b *SalaryDeduction) error
	FindActiveDeductionBinding(ctx context.Context, structureID, deductionID string) (*SalaryDeduction, error)
	CloseDeductionBinding(ctx context.Context, bindingID string, effectiveTo time.Time) error
	ListDeductionBindings(ctx context.Context, structureID string) ([]SalaryDeduction, error)
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

func (r *repository) Create(ctx context.Context, s *SalaryStructure) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) FindAll(ctx context.Context) ([]SalaryStructure, error) {
	var structures []SalaryStructure
	err := r.db.WithContext(ctx).Order("name ASC").Find(&structures).Error
	return structures, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*SalaryStructure, error) {
	var s SalaryStructure
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) ExistsByName(ctx context.Context, name string, excludeID *string) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&SalaryStructure{}).
		Where("LOWER(name) = LOWER(?)", name)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, s *SalaryStructure) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *repository) CreateAllowanceBinding(ctx context.Context, b *SalaryAllowance) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) FindActiveAllowanceBinding(ctx context.Context, structureID, allowanceID string) (*SalaryAllowance, error) {
	var b SalaryAllowance
	err := r.db.WithContext(ctx).
		Where("salary_structure_id = ?", structureID).
		Where("allowance_id = ?", allowanceID).
		Where("effective_to IS NULL").
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) CloseAllowanceBinding(ctx context.Context, bindingID string, effectiveTo time.Time) error {
	return r.db.WithContext(ctx).
		Model(&SalaryAllowance{}).
		Where("id = ?", bindingID).
		Update("effective_to", effectiveTo).Error
}

func (r *repository) ListAllowanceBindings(ctx context.Context, structureID string) ([]SalaryAllowance, error) {
	var bindings []SalaryAllowance
	err := r.db.WithContext(ctx).
		Where("salary_structure_id = ?", structureID).
		Order("effective_from DESC").
		Find(&bindings).Error
	return bindings, err
}

func (r *repository) CreateDeductionBinding(ctx context.Context, b *SalaryDeduction) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) FindActiveDeductionBinding(ctx context.Context, structureID, deductionID string) (*SalaryDeduction, error) {
	var b SalaryDeduction
	err := r.db.WithContext(ctx).
		Where("salary_structure_id = ?", structureID).
		Where("deduction_id = ?", deductionID).
		Where("effective_to IS NULL").
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) CloseDeductionBinding(ctx context.Context, bindingID string, effectiveTo time.Time) error {
	return r.db.WithContext(ctx).
		Model(&SalaryDeduction{}).
		Where("id = ?", bindingID).
		Update("effective_to", effectiveTo).Error
}

func (r *repository) ListDeductionBindings(ctx context.Context, structureID string) ([]SalaryDeduction, error) {
	var bindings []SalaryDeduction
	err := r.db.WithContext(ctx).
		Where("salary_structure_id = ?", structureID).
		Order("effective_from DESC").
		Find(&bindings).Error
	return bindings, err
}
