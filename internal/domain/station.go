package domain

import "time"

type Station struct {
	ID         string
	Name       string
	TimeZone   string
	TotalSlots int
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// StationSchedule describes one station's opening window for one local
// calendar day. Open and close are minute offsets from local midnight,
// 0 <= open < close <= 1440. MaxConcurrent is bounded by the station's
// TotalSlots at write time.
type StationSchedule struct {
	StationID     string
	Day           time.Time // local calendar date, time part zero
	OpenMinutes   int
	CloseMinutes  int
	MaxConcurrent int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
