package salarystructure

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalaryStructure is a named base-salary tier. EmployeeCount is denormalized
// and only ever changed inside the assignment transaction that moves an
// employee in or out.
type SalaryStructure struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string          `gorm:"type:varchar(120);not null;uniqueIndex:uq_salary_structures_name"`
	BaseSalary    decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	IsActive      bool            `gorm:"not null;default:true"`
	EmployeeCount int             `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SalaryAllowance binds an allowance to a structure. At most one open
// binding per (structure, allowance) pair.
type SalaryAllowance struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SalaryStructureID uuid.UUID  `gorm:"type:uuid;not null;index:uq_salary_allowances_active,unique,where:effective_to IS NULL"`
	AllowanceID       uuid.UUID  `gorm:"type:uuid;not null;index:uq_salary_allowances_active,unique,where:effective_to IS NULL"`
	EffectiveFrom     time.Time  `gorm:"type:date;not null"`
	EffectiveTo       *time.Time `gorm:"type:date"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type SalaryDeduction struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SalaryStructureID uuid.UUID  `gorm:"type:uuid;not null;index:uq_salary_deductions_active,unique,where:effective_to IS NULL"`
	DeductionID       uuid.UUID  `gorm:"type:uuid;not null;index:uq_salary_deductions_active,unique,where:effective_to IS NULL"`
	EffectiveFrom     time.Time  `gorm:"type:date;not null"`
	EffectiveTo       *time.Time `gorm:"type:date"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
