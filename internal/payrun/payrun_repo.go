package payrun

import (
	"context"

	"go-payroll/internal/employee"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreatePayrun(ctx context.Context, p *Payrun) error
	CreateItems(ctx context.Context, items []PayrunItem) error
	CreateDetails(ctx context.Context, details []PayrunItemDetail) error

	FindByID(ctx context.Context, id string) (*Payrun, error)
	FindByIDForUpdate(ctx context.Context, id string) (*Payrun, error)
	FindAll(ctx context.Context, statuses []string) ([]Payrun, error)
	FindItems(ctx context.Context, payrunID string) ([]PayrunItem, error)
	FindLoanDetails(ctx context.Context, payrunID string) ([]PayrunItemDetail, error)

	UpdatePayrun(ctx context.Context, id string, fields map[string]interface{}) error
	CascadeItemStatus(ctx context.Context, payrunID string, status Status) error
	DeletePayrun(ctx context.Context, id string) error

	FindSalaryCohort(ctx context.Context) ([]string, error)
	FindAllowanceCohort(ctx context.Context, allowanceID string) ([]string, error)
	GetAllowanceName(ctx context.Context, allowanceID string) (string, error)
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

func (r *repository) CreatePayrun(ctx context.Context, p *Payrun) error {
	return r.db.WithContext(ctx).Omit("Items").Create(p).Error
}

func (r *repository) CreateItems(ctx context.Context, items []PayrunItem) error {
	return r.db.WithContext(ctx).Omit("Details").CreateInBatches(&items, 200).Error
}

func (r *repository) CreateDetails(ctx context.Context, details []PayrunItemDetail) error {
	return r.db.WithContext(ctx).CreateInBatches(&details, 500).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Payrun, error) {
	var p Payrun
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Items.Details", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByIDForUpdate re-reads the row under lock so every transition checks
// its precondition against current state, not the state the caller saw.
func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*Payrun, error) {
	var p Payrun
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindAll(ctx context.Context, statuses []string) ([]Payrun, error) {
	q := r.db.WithContext(ctx).Model(&Payrun{})
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}

	var payruns []Payrun
	err := q.Order("year DESC, month DESC, day DESC, created_at DESC").Find(&payruns).Error
	return payruns, err
}

func (r *repository) FindItems(ctx context.Context, payrunID string) ([]PayrunItem, error) {
	var items []PayrunItem
	err := r.db.WithContext(ctx).
		Preload("Details").
		Where("payrun_id = ?", payrunID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *repository) FindLoanDetails(ctx context.Context, payrunID string) ([]PayrunItemDetail, error) {
	var details []PayrunItemDetail
	err := r.db.WithContext(ctx).
		Table("payrun_item_details").
		Joins("JOIN payrun_items ON payrun_items.id = payrun_item_details.payrun_item_id").
		Where("payrun_items.payrun_id = ?", payrunID).
		Where("payrun_item_details.kind = ?", DetailLoan).
		Order("payrun_item_details.created_at ASC").
		Find(&details).Error
	return details, err
}

func (r *repository) UpdatePayrun(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&Payrun{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *repository) CascadeItemStatus(ctx context.Context, payrunID string, status Status) error {
	return r.db.WithContext(ctx).
		Model(&PayrunItem{}).
		Where("payrun_id = ?", payrunID).
		Update("status", status).Error
}

func (r *repository) DeletePayrun(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&Payrun{}).Error
}

func (r *repository) GetAllowanceName(ctx context.Context, allowanceID string) (string, error) {
	var name string
	err := r.db.WithContext(ctx).
		Table("allowances").
		Select("name").
		Where("id = ?", allowanceID).
		Take(&name).Error
	return name, err
}

// FindSalaryCohort resolves employees eligible for a full salary run:
// active employees with an open assignment to an active structure.
func (r *repository) FindSalaryCohort(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Raw(`
SELECT e.id::text
FROM employees e
JOIN employee_salaries es ON es.employee_id = e.id AND es.effective_to IS NULL
JOIN salary_structures s ON s.id = es.salary_structure_id AND s.is_active = TRUE
WHERE e.status = ?
ORDER BY e.full_name
`, employee.StatusActive).Scan(&ids).Error
	return ids, err
}

// FindAllowanceCohort resolves employees holding the allowance either via
// their active structure or via a direct grant, de-duplicated by id.
func (r *repository) FindAllowanceCohort(ctx context.Context, allowanceID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Raw(`
SELECT DISTINCT e.id::text
FROM employees e
WHERE e.status = ?
  AND (
    EXISTS (
      SELECT 1
      FROM employee_salaries es
      JOIN salary_allowances sa ON sa.salary_structure_id = es.salary_structure_id
      WHERE es.employee_id = e.id
        AND es.effective_to IS NULL
        AND sa.allowance_id = ?
        AND sa.effective_to IS NULL
    )
    OR EXISTS (
      SELECT 1
      FROM employee_allowances ea
      WHERE ea.employee_id = e.id
        AND ea.allowance_id = ?
        AND ea.effective_to IS NULL
    )
  )
`, employee.StatusActive, allowanceID, allowanceID).Scan(&ids).Error
	return ids, err
}
