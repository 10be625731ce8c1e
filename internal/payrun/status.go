package payrun

// Status is the lifecycle position of a payrun. Items mirror their parent.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusPaid     Status = "paid"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusPaid:
		return true
	}
	return false
}

// CanApprove reports whether an approve transition is legal from s.
// Approving twice is an error, not a no-op.
func (s Status) CanApprove() bool {
	return s == StatusDraft || s == StatusPending
}

// CanComplete reports whether a complete transition is legal from s.
func (s Status) CanComplete() bool {
	return s == StatusApproved
}

// CanRollback reports whether the payrun may still be hard-deleted.
// A paid payrun is immutable forever.
func (s Status) CanRollback() bool {
	return s == StatusDraft || s == StatusApproved
}
