package payrun

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TypeSalary    = "salary"
	TypeAllowance = "allowance"
)

const (
	DetailBaseSalary = "base_salary"
	DetailAllowance  = "allowance"
	DetailTax        = "tax"
	DetailDeduction  = "deduction"
	DetailLoan       = "loan"
)

// Payrun is one batch computation for a period. AllowanceID holds the nil
// UUID for salary runs so the period index treats "no allowance" as one
// comparable value instead of NULL.
type Payrun struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name            string          `gorm:"type:varchar(150);not null"`
	Type            string          `gorm:"type:varchar(20);not null;index:uq_payruns_period,unique"`
	AllowanceID     uuid.UUID       `gorm:"type:uuid;not null;index:uq_payruns_period,unique"`
	Year            int             `gorm:"not null;index:uq_payruns_period,unique"`
	Month           int             `gorm:"not null;index:uq_payruns_period,unique"`
	Day             int             `gorm:"not null;index:uq_payruns_period,unique"`
	EmployeeCount   int             `gorm:"not null"`
	TotalGross      decimal.Decimal `gorm:"type:numeric(16,4);not null"`
	TotalTax        decimal.Decimal `gorm:"type:numeric(16,4);not null"`
	TotalDeductions decimal.Decimal `gorm:"type:numeric(16,4);not null"`
	TotalLoans      decimal.Decimal `gorm:"type:numeric(16,4);not null"`
	TotalNet        decimal.Decimal `gorm:"type:numeric(16,4);not null"`
	Status          Status          `gorm:"type:varchar(20);not null;default:'draft'"`
	GeneratedBy     uuid.UUID       `gorm:"type:uuid;not null"`
	ApprovedBy      *uuid.UUID      `gorm:"type:uuid"`
	ApprovedAt      *time.Time
	CompletedBy     *uuid.UUID `gorm:"type:uuid"`
	CompletedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items []PayrunItem `gorm:"foreignKey:PayrunID;constraint:OnDelete:CASCADE"`
}

// PayrunItem is the per-employee rollup within a payrun.
type PayrunItem struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayrunID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	EmployeeID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	BaseSalary        decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	GrossPay          decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	TotalAllowanceTax decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	TotalDeductions   decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	TotalLoans        decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	NetPay            decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	Status            Status          `gorm:"type:varchar(20);not null;default:'draft'"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Details []PayrunItemDetail `gorm:"foreignKey:PayrunItemID;constraint:OnDelete:CASCADE"`
}

// PayrunItemDetail is one contributing line. Tax, deduction and loan
// amounts are stored negative so an item's details sum to its net pay.
type PayrunItemDetail struct {
	ID                uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayrunItemID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	Kind              string           `gorm:"type:varchar(20);not null"`
	Name              string           `gorm:"type:varchar(150);not null"`
	Amount            decimal.Decimal  `gorm:"type:numeric(14,4);not null"`
	AllowanceID       *uuid.UUID       `gorm:"type:uuid"`
	DeductionID       *uuid.UUID       `gorm:"type:uuid"`
	LoanApplicationID *uuid.UUID       `gorm:"type:uuid"`
	BalanceBefore     *decimal.Decimal `gorm:"type:numeric(14,4)"`
	BalanceAfter      *decimal.Decimal `gorm:"type:numeric(14,4)"`
	CreatedAt         time.Time
}
