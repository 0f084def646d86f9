package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusApproved  BookingStatus = "APPROVED"
	BookingStatusRejected  BookingStatus = "REJECTED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

// transitions encodes the full status state machine. Pending moves to
// Approved, Rejected or Cancelled; Approved to Completed or Cancelled.
// Rejected, Cancelled and Completed are terminal.
var transitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:  {BookingStatusApproved, BookingStatusRejected, BookingStatusCancelled},
	BookingStatusApproved: {BookingStatusCompleted, BookingStatusCancelled},
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

type Booking struct {
	ID        string
	OwnerID   string
	StationID string
	StartUTC  time.Time
	EndUTC    time.Time
	Status    BookingStatus

	// IsAuthActive is true only while the booking is Approved and its
	// QR token has not been consumed or deactivated.
	IsAuthActive bool

	// Current QR credential. An update re-issues the token and overwrites
	// these fields, which is what invalidates a previously scanned code.
	QRToken        string
	TokenID        string
	TokenIssuedAt  time.Time
	TokenExpiresAt time.Time

	// ValidatedAt is set at most once, by the conditional update in the
	// repository. Once set, the authorization is exhausted regardless of
	// remaining token lifetime.
	ValidatedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
