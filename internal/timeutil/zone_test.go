package timeutil

import (
	"testing"
	"time"

	"github.com/Domenick1991/chargebooking/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRoundTrip_FixedOffsetZones(t *testing.T) {
	zones := []string{"UTC", "Etc/GMT+5", "Etc/GMT-3", "Etc/GMT-11"}
	instants := []time.Time{
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 15, 23, 59, 59, 0, time.UTC),
		time.Date(2026, 12, 31, 12, 30, 0, 0, time.UTC),
	}

	for _, zone := range zones {
		for _, instant := range instants {
			local, err := ToLocal(instant, zone)
			assert.NoError(t, err)

			back, err := ToUTC(local, zone)
			assert.NoError(t, err)
			assert.True(t, back.Equal(instant), "round trip through %s changed %v to %v", zone, instant, back)
		}
	}
}

func TestToLocal_UnknownZone(t *testing.T) {
	_, err := ToLocal(time.Now(), "Not/AZone")
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = ToUTC(time.Now(), "Not/AZone")
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestDayStart(t *testing.T) {
	loc, err := time.LoadLocation("Etc/GMT-3")
	assert.NoError(t, err)

	local := time.Date(2026, 3, 10, 17, 45, 12, 0, loc)
	start := DayStart(local)

	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, loc), start)
	assert.Equal(t, loc, start.Location())
}

func TestTimeInput_Resolve(t *testing.T) {
	utc := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	resolved, err := UTCInput(utc).Resolve("UTC")
	assert.NoError(t, err)
	assert.True(t, resolved.Equal(utc))

	// 13:00 wall clock at GMT-3 (Etc/GMT-3 is UTC+3) is 10:00 UTC.
	wall := time.Date(2026, 5, 1, 13, 0, 0, 0, time.UTC)
	resolved, err = LocalInput(wall, "Etc/GMT-3").Resolve("UTC")
	assert.NoError(t, err)
	assert.True(t, resolved.Equal(utc))
}

func TestTimeInput_Resolve_DefaultZone(t *testing.T) {
	wall := time.Date(2026, 5, 1, 13, 0, 0, 0, time.UTC)

	resolved, err := LocalInput(wall, "").Resolve("Etc/GMT-3")
	assert.NoError(t, err)
	assert.True(t, resolved.Equal(time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)))
}

func TestTimeInput_Resolve_Invalid(t *testing.T) {
	_, err := (TimeInput{}).Resolve("UTC")
	assert.Error(t, err)

	utc := time.Now().UTC()
	wall := time.Now()
	_, err = (TimeInput{UTC: &utc, Wall: &wall}).Resolve("UTC")
	assert.Error(t, err)
}
