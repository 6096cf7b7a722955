package booking

// Status represents the lifecycle state of a booking.
type Status string

const (
	StatusDraft       Status = "DRAFT"
	StatusConfirmed   Status = "CONFIRMED"
	StatusAtWarehouse Status = "AT_WAREHOUSE"
	StatusDispatched  Status = "DISPATCHED"
	StatusInTransit   Status = "IN_TRANSIT"
	StatusDelivered   Status = "DELIVERED"
	StatusCancelled   Status = "CANCELLED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusConfirmed, StatusAtWarehouse, StatusDispatched,
		StatusInTransit, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if the booking is in a state with no further
// transport activity expected.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// GetAllStatuses returns all valid booking statuses.
func GetAllStatuses() []Status {
	return []Status{
		StatusDraft,
		StatusConfirmed,
		StatusAtWarehouse,
		StatusDispatched,
		StatusInTransit,
		StatusDelivered,
		StatusCancelled,
	}
}
