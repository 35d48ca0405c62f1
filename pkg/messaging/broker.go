package messaging

import (
	"context"
)

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// Channels used by the outbox processor. Subscribers interested in
// appointment lifecycle changes listen on these.
const (
	ChannelAppointmentBooked  = "appointment.booked"
	ChannelAppointmentUpdated = "appointment.status_changed"
)
