package timeutil

import (
	"fmt"
	"time"

	"github.com/Domenick1991/chargebooking/internal/domain"
)

// ToLocal converts an absolute UTC instant to wall-clock time in the named
// zone. An unknown zone id is a configuration fault, not user input.
func ToLocal(utc time.Time, zoneID string) (time.Time, error) {
	loc, err := time.LoadLocation(zoneID)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: unknown time zone %q: %v", domain.ErrConfiguration, zoneID, err)
	}
	return utc.In(loc), nil
}

// ToUTC interprets a wall-clock instant in the named zone and returns the
// absolute UTC instant.
func ToUTC(wall time.Time, zoneID string) (time.Time, error) {
	loc, err := time.LoadLocation(zoneID)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: unknown time zone %q: %v", domain.ErrConfiguration, zoneID, err)
	}
	local := time.Date(wall.Year(), wall.Month(), wall.Day(), wall.Hour(), wall.Minute(), wall.Second(), wall.Nanosecond(), loc)
	return local.UTC(), nil
}

// DayStart returns local midnight of the calendar day containing the given
// local instant.
func DayStart(local time.Time) time.Time {
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}
