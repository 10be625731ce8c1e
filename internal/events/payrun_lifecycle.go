package events

import "time"

const PayrunLifecycleTopic = "payroll.payrun.lifecycle.v1"

const (
	PayrunGenerated  = "payrun.generated"
	PayrunApproved   = "payrun.approved"
	PayrunCompleted  = "payrun.completed"
	PayrunRolledBack = "payrun.rolled_back"
)

type PayrunLifecycleEvent struct {
	EventType  string    `json:"event_type"`
	PayrunID   string    `json:"payrun_id"`
	PayrunName string    `json:"payrun_name"`
	PayrunType string    `json:"payrun_type"`
	Status     string    `json:"status"`
	Year       int       `json:"year"`
	Month      int       `json:"month"`
	Day        int       `json:"day"`
	ActorID    string    `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
