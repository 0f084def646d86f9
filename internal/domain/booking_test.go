package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	testCases := []struct {
		name    string
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{"pending to approved", BookingStatusPending, BookingStatusApproved, true},
		{"pending to rejected", BookingStatusPending, BookingStatusRejected, true},
		{"pending to cancelled", BookingStatusPending, BookingStatusCancelled, true},
		{"pending to completed", BookingStatusPending, BookingStatusCompleted, false},
		{"approved to completed", BookingStatusApproved, BookingStatusCompleted, true},
		{"approved to cancelled", BookingStatusApproved, BookingStatusCancelled, true},
		{"approved to rejected", BookingStatusApproved, BookingStatusRejected, false},
		{"approved to pending", BookingStatusApproved, BookingStatusPending, false},
		{"rejected is terminal", BookingStatusRejected, BookingStatusCancelled, false},
		{"cancelled is terminal", BookingStatusCancelled, BookingStatusApproved, false},
		{"completed is terminal", BookingStatusCompleted, BookingStatusCancelled, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestBookingStatus_IsTerminal(t *testing.T) {
	assert.False(t, BookingStatusPending.IsTerminal())
	assert.False(t, BookingStatusApproved.IsTerminal())
	assert.True(t, BookingStatusRejected.IsTerminal())
	assert.True(t, BookingStatusCancelled.IsTerminal())
	assert.True(t, BookingStatusCompleted.IsTerminal())
}
