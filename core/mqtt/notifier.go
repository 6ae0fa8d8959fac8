// Package mqtt declares how prepared dishes are announced to the pass.
package mqtt

import (
	"errors"
	"time"
)

// ErrNotConnected is returned when a ticket is published without a broker
// connection.
var ErrNotConnected = errors.New("mqtt: not connected")

// Ticket announces a dish that left a station.
type Ticket struct {
	ID          string    `json:"ticket_id"`
	BatchID     string    `json:"batch_id,omitempty"`
	Dish        string    `json:"dish"`
	Station     string    `json:"station"`
	Replenished bool      `json:"replenished"`
	PreparedAt  time.Time `json:"prepared_at"`
}

// Notifier publishes tickets for prepared dishes.
type Notifier interface {
	NotifyPrepared(t Ticket) error
}
