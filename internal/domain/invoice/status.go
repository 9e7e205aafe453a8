package invoice

// Status represents the lifecycle status of an invoice
type Status string

const (
	StatusNew      Status = "new"      // Created, not yet sent
	StatusPending  Status = "pending"  // Sent, waiting for payment
	StatusPaid     Status = "paid"     // Payment received
	StatusCanceled Status = "canceled" // Voided
)

// AllStatuses returns every known status
func AllStatuses() []Status {
	return []Status{StatusNew, StatusPending, StatusPaid, StatusCanceled}
}

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusPending, StatusPaid, StatusCanceled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsOpen returns true if payment is still expected
func (s Status) IsOpen() bool {
	return s == StatusNew || s == StatusPending
}

// ParseStatus converts a raw value into a Status
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.IsValid() {
		return "", ErrUnknownStatus
	}
	return s, nil
}
