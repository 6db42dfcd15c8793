package live

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hyderfleet/fleetops/internal/fleet"
)

// EventType names the kind of change an envelope carries.
type EventType string

// Event kinds.
const (
	EventVehicleUpdate     EventType = "vehicle_update"
	EventJobUpdate         EventType = "job_update"
	EventAlertAcknowledged EventType = "alert_acknowledged"
)

// Event is one of VehicleUpdate, JobUpdate or AlertAcknowledged.
type Event interface {
	Type() EventType
	payload() any
}

// VehicleUpdate reports a replaced vehicle record.
type VehicleUpdate struct {
	Vehicle fleet.Vehicle
}

// Type implements Event.
func (VehicleUpdate) Type() EventType { return EventVehicleUpdate }

func (e VehicleUpdate) payload() any { return e.Vehicle }

// JobUpdate reports a replaced delivery job record.
type JobUpdate struct {
	Job fleet.DeliveryJob
}

// Type implements Event.
func (JobUpdate) Type() EventType { return EventJobUpdate }

func (e JobUpdate) payload() any { return e.Job }

// AlertAcknowledged reports that an alert was acknowledged.
type AlertAcknowledged struct {
	AlertID string `json:"alert_id"`
}

// Type implements Event.
func (AlertAcknowledged) Type() EventType { return EventAlertAcknowledged }

func (e AlertAcknowledged) payload() any { return e }

// Envelope is the wire form of an event. AlertID repeats the payload's
// alert id at the top level on alert_acknowledged.
type Envelope struct {
	EventType EventType       `json:"event_type"`
	Timestamp string          `json:"timestamp"`
	AlertID   string          `json:"alert_id,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

// Encode renders ev as a JSON envelope stamped with at.
func Encode(ev Event, at time.Time) ([]byte, error) {
	payload, err := json.Marshal(ev.payload())
	if err != nil {
		return nil, fmt.Errorf("encoding %s payload: %w", ev.Type(), err)
	}
	env := Envelope{
		EventType: ev.Type(),
		Timestamp: at.UTC().Format(time.RFC3339),
		Payload:   payload,
	}
	if ack, ok := ev.(AlertAcknowledged); ok {
		env.AlertID = ack.AlertID
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encoding %s envelope: %w", ev.Type(), err)
	}
	return data, nil
}
