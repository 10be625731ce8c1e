package loan

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusActive    = "active"
	StatusCompleted = "completed"

	RepaymentPending = "pending"
	RepaymentPaid    = "paid"
)

// LoanApplication is the ledger head for one employee loan. The balance only
// moves when a payrun completes, one installment per completed run.
type LoanApplication struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name             string          `gorm:"type:varchar(120);not null"`
	Principal        decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	MonthlyDeduction decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	RemainingBalance decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	TotalRepaid      decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	Status           string          `gorm:"type:varchar(20);not null;default:'active'"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Repayments []LoanRepayment `gorm:"foreignKey:LoanApplicationID"`
}

// LoanRepayment is one step of the installment schedule. Rows are settled in
// installment order; a paid row records the amount actually taken, the balance
// it left behind and the payrun item that settled it.
type LoanRepayment struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LoanApplicationID uuid.UUID       `gorm:"type:uuid;not null;index:uq_loan_repayment_step,unique"`
	InstallmentNumber int             `gorm:"not null;index:uq_loan_repayment_step,unique"`
	Amount            decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	Status            string          `gorm:"type:varchar(20);not null;default:'pending'"`
	PaidAmount        decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	BalanceAfter      decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	PaidAt            *time.Time
	PayrunItemID      *uuid.UUID `gorm:"type:uuid"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
