package employee

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Employee mirrors the fields payroll consumes. The employee lifecycle
// itself is owned by the HR system, not this engine.
type Employee struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName  string    `gorm:"column:full_name"`
	Email     string    `gorm:"uniqueIndex"`
	Status    string    `gorm:"type:varchar(20);not null;default:'active';index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
