package shared

// Status is the lifecycle state shared by customers and products. The set is
// closed; the database enforces it with a CHECK constraint on both tables.
type Status string

const (
	StatusNew      Status = "new"
	StatusPending  Status = "pending"
	StatusInReview Status = "in review"
	StatusApproved Status = "approved"
	StatusInactive Status = "inactive"
	StatusDeleted  Status = "deleted"
)

var statuses = []Status{
	StatusNew, StatusPending, StatusInReview, StatusApproved, StatusInactive, StatusDeleted,
}

// Statuses returns the full enumeration.
func Statuses() []Status {
	out := make([]Status, len(statuses))
	copy(out, statuses)
	return out
}

// ValidStatus reports whether s is a member of the enumeration. The empty
// string is not valid on its own; callers coerce it first.
func ValidStatus(s string) bool {
	for _, known := range statuses {
		if Status(s) == known {
			return true
		}
	}
	return false
}

// CoerceStatus maps submitted input to a Status, defaulting empty input to
// StatusNew. Callers must have validated non-empty input beforehand.
func CoerceStatus(s string) Status {
	if s == "" {
		return StatusNew
	}
	return Status(s)
}
