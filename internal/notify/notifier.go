package notify

import (
	"context"

	"github.com/Domenick1991/chargebooking/internal/kafka"
	"github.com/rs/zerolog"
)

// Notifier is the event sink behind the notifications topic. Delivery
// channels (push, SMS) belong to the accounts subsystem; from here the
// contract is only "tell the owner what happened to their session".
type Notifier struct {
	log zerolog.Logger
}

func NewNotifier(log zerolog.Logger) *Notifier {
	return &Notifier{log: log}
}

func (n *Notifier) Notify(ctx context.Context, event kafka.BookingEvent) error {
	n.log.Info().
		Str("event", event.Type).
		Str("booking_id", event.BookingID).
		Str("owner_id", event.OwnerID).
		Str("station_id", event.StationID).
		Str("status", event.Status).
		Msg("notifying session owner")
	return nil
}
