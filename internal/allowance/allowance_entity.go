package allowance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	KindRecurring = "recurring"
	KindOneTime   = "one_time"
)

// Allowance is a reusable pay component. Exactly one of Percentage or
// FlatAmount is set; TaxPercentage is set iff Taxable.
type Allowance struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string           `gorm:"type:varchar(120);not null;uniqueIndex:uq_allowances_name"`
	Kind          string           `gorm:"type:varchar(20);not null;default:'recurring'"`
	Percentage    *decimal.Decimal `gorm:"type:numeric(7,4)"`
	FlatAmount    *decimal.Decimal `gorm:"type:numeric(14,4)"`
	Taxable       bool             `gorm:"not null;default:false"`
	TaxPercentage *decimal.Decimal `gorm:"type:numeric(7,4)"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
