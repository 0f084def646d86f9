package timeutil

import (
	"errors"
	"time"
)

// TimeInput is the canonical tagged variant for a caller-supplied instant:
// either an absolute UTC instant, or a local wall-clock time plus a zone id.
// It is resolved exactly once at the API boundary; everything past that
// works with the UTC instant and the facility zone.
type TimeInput struct {
	UTC    *time.Time
	Wall   *time.Time
	ZoneID string
}

func UTCInput(t time.Time) TimeInput {
	u := t.UTC()
	return TimeInput{UTC: &u}
}

func LocalInput(wall time.Time, zoneID string) TimeInput {
	w := wall
	return TimeInput{Wall: &w, ZoneID: zoneID}
}

// Resolve normalizes the input to a UTC instant. Local inputs use their own
// zone id; defaultZone applies when a local input carries none. Exactly one
// of the two variants must be populated.
func (in TimeInput) Resolve(defaultZone string) (time.Time, error) {
	switch {
	case in.UTC != nil && in.Wall == nil:
		return in.UTC.UTC(), nil
	case in.Wall != nil && in.UTC == nil:
		zone := in.ZoneID
		if zone == "" {
			zone = defaultZone
		}
		return ToUTC(*in.Wall, zone)
	default:
		return time.Time{}, errors.New("time input must be exactly one of utc or local+zone")
	}
}
