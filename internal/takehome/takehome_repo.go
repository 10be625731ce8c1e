package takehome

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ActiveAssignment is the resolved structure for an employee right now.
type ActiveAssignment struct {
	SalaryStructureID string
	StructureName     string
	BaseSalary        decimal.Decimal
}

// Repository resolves the current rate picture for one employee. All reads
// consider only open rows (effective_to IS NULL); history never contributes.
type Repository interface {
	FindActiveAssignment(ctx context.Context, employeeID string) (*ActiveAssignment, error)
	FindAllowanceRates(ctx context.Context, employeeID, structureID string) ([]AllowanceRate, error)
	FindStructureDeductionRates(ctx context.Context, structureID string) ([]DeductionRate, error)
	FindEmployeeDeductionRates(ctx context.Context, employeeID string) ([]DeductionRate, error)
	FindActiveLoans(ctx context.Context, employeeID string) ([]LoanDue, error)
	FindAllowanceRate(ctx context.Context, allowanceID string) (*AllowanceRate, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindActiveAssignment(ctx context.Context, employeeID string) (*ActiveAssignment, error) {
	var row ActiveAssignment
	err := r.db.WithContext(ctx).
		Table("employee_salaries").
		Select("salary_structures.id AS salary_structure_id, salary_structures.name AS structure_name, salary_structures.base_salary").
		Joins("JOIN salary_structures ON salary_structures.id = employee_salaries.salary_structure_id").
		Where("employee_salaries.employee_id = ?", employeeID).
		Where("employee_salaries.effective_to IS NULL").
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindAllowanceRates unions structure-level and direct grants. Both paths
// contribute; there is no override between them.
func (r *repository) FindAllowanceRates(ctx context.Context, employeeID, structureID string) ([]AllowanceRate, error) {
	var rows []AllowanceRate
	err := r.db.WithContext(ctx).Raw(`
SELECT a.id AS allowance_id, a.name, a.kind, a.percentage, a.flat_amount, a.taxable, a.tax_percentage
FROM salary_allowances sa
JOIN allowances a ON a.id = sa.allowance_id
WHERE sa.salary_structure_id = ? AND sa.effective_to IS NULL
UNION ALL
SELECT a.id AS allowance_id, a.name, a.kind, a.percentage, a.flat_amount, a.taxable, a.tax_percentage
FROM employee_allowances ea
JOIN allowances a ON a.id = ea.allowance_id
WHERE ea.employee_id = ? AND ea.effective_to IS NULL
ORDER BY name
`, structureID, employeeID).Scan(&rows).Error
	return rows, err
}

func (r *repository) FindStructureDeductionRates(ctx context.Context, structureID string) ([]DeductionRate, error) {
	var rows []DeductionRate
	err := r.db.WithContext(ctx).Raw(`
SELECT d.id AS deduction_id, d.name, d.percentage, d.flat_amount
FROM salary_deductions sd
JOIN deductions d ON d.id = sd.deduction_id
WHERE sd.salary_structure_id = ? AND sd.effective_to IS NULL
ORDER BY d.name
`, structureID).Scan(&rows).Error
	return rows, err
}

func (r *repository) FindEmployeeDeductionRates(ctx context.Context, employeeID string) ([]DeductionRate, error) {
	var rows []DeductionRate
	err := r.db.WithContext(ctx).Raw(`
SELECT deduction_id, name, percentage, flat_amount, loan_application_id
FROM employee_deductions
WHERE employee_id = ? AND effective_to IS NULL AND is_active = TRUE
ORDER BY name
`, employeeID).Scan(&rows).Error
	return rows, err
}

func (r *repository) FindAllowanceRate(ctx context.Context, allowanceID string) (*AllowanceRate, error) {
	var row AllowanceRate
	err := r.db.WithContext(ctx).
		Table("allowances").
		Select("id AS allowance_id, name, kind, percentage, flat_amount, taxable, tax_percentage").
		Where("id = ?", allowanceID).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) FindActiveLoans(ctx context.Context, employeeID string) ([]LoanDue, error) {
	var rows []LoanDue
	err := r.db.WithContext(ctx).Raw(`
SELECT id AS loan_application_id, name, monthly_deduction, remaining_balance
FROM loan_applications
WHERE employee_id = ? AND status = 'active'
ORDER BY created_at
`, employeeID).Scan(&rows).Error
	return rows, err
}
