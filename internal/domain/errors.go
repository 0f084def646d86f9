package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrBadSchedule     = errors.New("schedule window is empty or inverted")
	ErrConfiguration   = errors.New("invalid configuration")
	ErrTooLateToModify = errors.New("booking starts in less than the modification cutoff")

	// ErrCapacityRace is reported when a post-insert recount detects that
	// concurrent writers exceeded a station's capacity. The losing booking
	// is rolled back to Rejected before the error surfaces.
	ErrCapacityRace = errors.New("capacity exceeded by concurrent booking")
)

// InadmissibleReason names the single guard that rejected a create or
// update request. Guards run in a fixed order, so the reported reason is
// deterministic for a given store state.
type InadmissibleReason string

const (
	ReasonPastStart       InadmissibleReason = "PastStart"
	ReasonHorizonExceeded InadmissibleReason = "HorizonExceeded"
	ReasonOutsideSchedule InadmissibleReason = "OutsideSchedule"
	ReasonFull            InadmissibleReason = "Full"
	ReasonOwnerOverlap    InadmissibleReason = "OwnerOverlap"
	ReasonNoSchedule      InadmissibleReason = "NoSchedule"
)

type InadmissibleError struct {
	Reason InadmissibleReason
}

func (e *InadmissibleError) Error() string {
	return fmt.Sprintf("booking inadmissible: %s", e.Reason)
}

func Inadmissible(reason InadmissibleReason) error {
	return &InadmissibleError{Reason: reason}
}

// ScanCode classifies a QR validation failure. Checks short-circuit, so a
// presented token fails with exactly one code.
type ScanCode string

const (
	ScanInvalidOrExpired ScanCode = "InvalidOrExpired"
	ScanMalformed        ScanCode = "Malformed"
	ScanNotFound         ScanCode = "NotFound"
	ScanNotApproved      ScanCode = "NotApproved"
	ScanInactive         ScanCode = "Inactive"
	ScanMismatch         ScanCode = "Mismatch"
	ScanReplaced         ScanCode = "Replaced"
	ScanOutOfWindow      ScanCode = "OutOfWindow"
	ScanAlreadyUsed      ScanCode = "AlreadyUsed"
)

type ScanError struct {
	Code ScanCode
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan rejected: %s", e.Code)
}

func ScanFailure(code ScanCode) error {
	return &ScanError{Code: code}
}
