package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEvent(t *testing.T) {
	payload := []byte(`{
		"type": "booking_created",
		"booking_id": "b-1",
		"station_id": "stn-1",
		"owner_id": "owner-1",
		"status": "PENDING",
		"start_utc": "2027-09-01T08:00:00Z",
		"end_utc": "2027-09-01T09:00:00Z"
	}`)

	event, err := decodeEvent(payload)
	require.NoError(t, err)

	assert.Equal(t, "booking_created", event.Type)
	assert.Equal(t, "b-1", event.BookingID)
	assert.Equal(t, "stn-1", event.StationID)
	assert.Equal(t, "owner-1", event.OwnerID)
	assert.Equal(t, "PENDING", event.Status)
	assert.Equal(t, time.Date(2027, 9, 1, 8, 0, 0, 0, time.UTC), event.StartUTC)
	assert.Equal(t, time.Date(2027, 9, 1, 9, 0, 0, 0, time.UTC), event.EndUTC)
}

func TestDecodeEvent_Malformed(t *testing.T) {
	_, err := decodeEvent([]byte(`not json`))
	assert.Error(t, err)
}
