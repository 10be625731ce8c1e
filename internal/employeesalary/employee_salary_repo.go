package employeesalary

import (
	"context"
	"time"

	"go-payroll/internal/employee"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StructureRow is the slice of salary_structures this module needs. The
// structure catalog itself is owned by the salarystructure package.
type StructureRow struct {
	ID            string
	Name          string
	BaseSalary    decimal.Decimal
	IsActive      bool
	EmployeeCount int
}

// CatalogRow is a minimal view over the allowance/deduction catalogs.
type CatalogRow struct {
	ID         string
	Name       string
	Percentage *decimal.Decimal
	FlatAmount *decimal.Decimal
}

type AssignmentRow struct {
	EmployeeSalary
	StructureName string
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindActiveByEmployee(ctx context.Context, employeeID string) (*EmployeeSalary, error)
	FindHistoryByEmployee(ctx context.Context, employeeID string) ([]AssignmentRow, error)
	CreateAssignment(ctx context.Context, es *EmployeeSalary) error
	CloseAssignment(ctx context.Context, id string, effectiveTo time.Time) error
	AdjustStructureCount(ctx context.Context, structureID string, delta int) error

	EmployeeExists(ctx context.Context, employeeID string) (bool, error)
	GetStructure(ctx context.Context, structureID string) (*StructureRow, error)
	GetAllowance(ctx context.Context, allowanceID string) (*CatalogRow, error)
	GetDeduction(ctx context.Context, deductionID string) (*CatalogRow, error)

	FindActiveEmployeeAllowance(ctx context.Context, employeeID, allowanceID string) (*EmployeeAllowance, error)
	CreateEmployeeAllowance(ctx context.Context, ea *EmployeeAllowance) error
	CloseEmployeeAllowance(ctx context.Context, id string, effectiveTo time.Time) error

	FindActiveEmployeeDeduction(ctx context.Context, employeeID, deductionID string) (*EmployeeDeduction, error)
	CreateEmployeeDeduction(ctx context.Context, ed *EmployeeDeduction) error
	CloseEmployeeDeduction(ctx context.Context, id string, effectiveTo time.Time) error
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

func (r *repository) FindActiveByEmployee(ctx context.Context, employeeID string) (*EmployeeSalary, error) {
	var es EmployeeSalary
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("effective_to IS NULL").
		First(&es).Error
	if err != nil {
		return nil, err
	}
	return &es, nil
}

func (r *repository) FindHistoryByEmployee(ctx context.Context, employeeID string) ([]AssignmentRow, error) {
	var rows []AssignmentRow
	err := r.db.WithContext(ctx).
		Table("employee_salaries").
		Select("employee_salaries.*, salary_structures.name AS structure_name").
		Joins("JOIN salary_structures ON salary_structures.id = employee_salaries.salary_structure_id").
		Where("employee_salaries.employee_id = ?", employeeID).
		Order("employee_salaries.effective_from DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) CreateAssignment(ctx context.Context, es *EmployeeSalary) error {
	return r.db.WithContext(ctx).Create(es).Error
}

func (r *repository) CloseAssignment(ctx context.Context, id string, effectiveTo time.Time) error {
	return r.db.WithContext(ctx).
		Model(&EmployeeSalary{}).
		Where("id = ?", id).
		Update("effective_to", effectiveTo).Error
}

// AdjustStructureCount recomputes the denormalized counter in the same
// transaction as the assignment rows it reflects.
func (r *repository) AdjustStructureCount(ctx context.Context, structureID string, delta int) error {
	return r.db.WithContext(ctx).Exec(`
UPDATE salary_structures
SET employee_count = employee_count + ?, updated_at = NOW()
WHERE id = ?
`, delta, structureID).Error
}

func (r *repository) EmployeeExists(ctx context.Context, employeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&employee.Employee{}).
		Where("id = ?", employeeID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) GetStructure(ctx context.Context, structureID string) (*StructureRow, error) {
	var row StructureRow
	err := r.db.WithContext(ctx).
		Table("salary_structures").
		Select("id, name, base_salary, is_active, employee_count").
		Where("id = ?", structureID).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) GetAllowance(ctx context.Context, allowanceID string) (*CatalogRow, error) {
	var row CatalogRow
	err := r.db.WithContext(ctx).
		Table("allowances").
		Select("id, name, percentage, flat_amount").
		Where("id = ?", allowanceID).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) GetDeduction(ctx context.Context, deductionID string) (*CatalogRow, error) {
	var row CatalogRow
	err := r.db.WithContext(ctx).
		Table("deductions").
		Select("id, name, percentage, flat_amount").
		Where("id = ?", deductionID).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) FindActiveEmployeeAllowance(ctx context.Context, employeeID, allowanceID string) (*EmployeeAllowance, error) {
	var ea EmployeeAllowance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("allowance_id = ?", allowanceID).
		Where("effective_to IS NULL").
		First(&ea).Error
	if err != nil {
		return nil, err
	}
	return &ea, nil
}

func (r *repository) CreateEmployeeAllowance(ctx context.Context, ea *EmployeeAllowance) error {
	return r.db.WithContext(ctx).Create(ea).Error
}

func (r *repository) CloseEmployeeAllowance(ctx context.Context, id string, effectiveTo time.Time) error {
	return r.db.WithContext(ctx).
		Model(&EmployeeAllowance{}).
		Where("id = ?", id).
		Update("effective_to", effectiveTo).Error
}

func (r *repository) FindActiveEmployeeDeduction(ctx context.Context, employeeID, deductionID string) (*EmployeeDeduction, error) {
	var ed EmployeeDeduction
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("deduction_id = ?", deductionID).
		Where("effective_to IS NULL").
		Where("is_active = TRUE").
		First(&ed).Error
	if err != nil {
		return nil, err
	}
	return &ed, nil
}

func (r *repository) CreateEmployeeDeduction(ctx context.Context, ed *EmployeeDeduction) error {
	return r.db.WithContext(ctx).Create(ed).Error
}

func (r *repository) CloseEmployeeDeduction(ctx context.Context, id string, effectiveTo time.Time) error {
	return r.db.WithContext(ctx).
		Model(&EmployeeDeduction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"effective_to": effectiveTo,
			"is_active":    false,
		}).Error
}
