package employeesalary

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EmployeeSalary binds an employee to a salary structure over a time range.
// The partial unique index keeps at most one open row per employee; two
// concurrent reassignments cannot both win.
type EmployeeSalary struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID        uuid.UUID  `gorm:"type:uuid;not null;index:uq_employee_salary_active,unique,where:effective_to IS NULL"`
	SalaryStructureID uuid.UUID  `gorm:"type:uuid;not null;index"`
	EffectiveFrom     time.Time  `gorm:"type:date;not null"`
	EffectiveTo       *time.Time `gorm:"type:date"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// EmployeeAllowance grants an allowance directly to an employee, bypassing
// the structure.
type EmployeeAllowance struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID    uuid.UUID  `gorm:"type:uuid;not null;index:uq_employee_allowances_active,unique,where:effective_to IS NULL"`
	AllowanceID   uuid.UUID  `gorm:"type:uuid;not null;index:uq_employee_allowances_active,unique,where:effective_to IS NULL"`
	EffectiveFrom time.Time  `gorm:"type:date;not null"`
	EffectiveTo   *time.Time `gorm:"type:date"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// EmployeeDeduction grants a deduction directly to an employee. Name is
// denormalized because the calculator merges structure- and employee-level
// deductions by name, with the employee-level row winning. Amortizing rows
// (loan installments, salary advances) track original/remaining amounts and
// may reference the loan application that created them.
type EmployeeDeduction struct {
	ID                uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	DeductionID       *uuid.UUID       `gorm:"type:uuid"`
	Name              string           `gorm:"type:varchar(120);not null"`
	Percentage        *decimal.Decimal `gorm:"type:numeric(7,4)"`
	FlatAmount        *decimal.Decimal `gorm:"type:numeric(14,4)"`
	OriginalAmount    decimal.Decimal  `gorm:"type:numeric(14,4);not null;default:0"`
	RemainingAmount   decimal.Decimal  `gorm:"type:numeric(14,4);not null;default:0"`
	IsActive          bool             `gorm:"not null;default:true"`
	LoanApplicationID *uuid.UUID       `gorm:"type:uuid;index"`
	EffectiveFrom     time.Time        `gorm:"type:date;not null"`
	EffectiveTo       *time.Time       `gorm:"type:date"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
