package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/hyderfleet/fleetops/internal/fleet"
	"github.com/hyderfleet/fleetops/internal/infrastructure/logging"
	"github.com/hyderfleet/fleetops/internal/infrastructure/mqtt"
	"github.com/hyderfleet/fleetops/internal/live"
)

// Outcome labels reported to the Recorder.
const (
	OutcomeApplied        = "applied"
	OutcomeMalformed      = "malformed"
	OutcomeUnknownVehicle = "unknown_vehicle"
	OutcomeError          = "error"
)

const (
	subscribeQoS  = 1
	handleTimeout = 5 * time.Second
)

// ErrMalformed is returned for reports that cannot be applied.
var ErrMalformed = errors.New("telemetry: malformed report")

// VehicleStore loads and replaces vehicles. Satisfied by *fleet.Repository.
type VehicleStore interface {
	GetVehicle(ctx context.Context, id string) (*fleet.Vehicle, error)
	ReplaceVehicle(ctx context.Context, v *fleet.Vehicle) (bool, error)
}

// Broadcaster fans events out to live clients. Satisfied by *live.Hub.
type Broadcaster interface {
	Broadcast(ev live.Event)
}

// PositionWriter records position history. Satisfied by *influxdb.Client.
type PositionWriter interface {
	WriteVehiclePosition(v fleet.Vehicle)
}

// Recorder counts processed reports. Satisfied by *metrics.Metrics.
type Recorder interface {
	ObserveTelemetry(outcome string)
}

// Subscriber registers topic handlers. Satisfied by *mqtt.Client.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topic string) error
}

// Deps are the collaborators of an Ingestor. Positions and Recorder are optional.
type Deps struct {
	Vehicles  VehicleStore
	Broadcast Broadcaster
	Positions PositionWriter
	Recorder  Recorder
	Logger    *logging.Logger
}

// Ingestor turns telemetry messages into vehicle updates.
type Ingestor struct {
	vehicles  VehicleStore
	broadcast Broadcaster
	positions PositionWriter
	recorder  Recorder
	logger    *logging.Logger
	now       func() time.Time
}

// report is the wire form of a location message.
type report struct {
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	CurrentLoad *float64 `json:"current_load"`
}

// New creates an Ingestor.
func New(deps Deps) *Ingestor {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Ingestor{
		vehicles:  deps.Vehicles,
		broadcast: deps.Broadcast,
		positions: deps.Positions,
		recorder:  deps.Recorder,
		logger:    logger.Component("telemetry"),
		now:       time.Now,
	}
}

// Start subscribes to location reports from every vehicle.
func (in *Ingestor) Start(sub Subscriber) error {
	topic := mqtt.Topics{}.AllVehicleTelemetry()
	if err := sub.Subscribe(topic, subscribeQoS, in.Handle); err != nil {
		return fmt.Errorf("subscribing to %s: %w", topic, err)
	}
	in.logger.Info("telemetry ingest started", "topic", topic)
	return nil
}

// Stop removes the telemetry subscription.
func (in *Ingestor) Stop(sub Subscriber) error {
	topic := mqtt.Topics{}.AllVehicleTelemetry()
	if err := sub.Unsubscribe(topic); err != nil {
		return fmt.Errorf("unsubscribing from %s: %w", topic, err)
	}
	in.logger.Info("telemetry ingest stopped")
	return nil
}

// Handle applies one message. Failures are logged and counted here, so
// it always returns nil to the MQTT client.
func (in *Ingestor) Handle(topic string, payload []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	outcome, err := in.apply(ctx, topic, payload)
	if in.recorder != nil {
		in.recorder.ObserveTelemetry(outcome)
	}

	switch outcome {
	case OutcomeApplied:
	case OutcomeMalformed, OutcomeUnknownVehicle:
		in.logger.Warn("telemetry report dropped", "topic", topic, "reason", outcome, "error", err)
	default:
		in.logger.Error("telemetry report failed", "topic", topic, "error", err)
	}
	return nil
}

func (in *Ingestor) apply(ctx context.Context, topic string, payload []byte) (string, error) {
	vehicleID, ok := mqtt.Topics{}.ParseVehicleTelemetry(topic)
	if !ok {
		return OutcomeMalformed, fmt.Errorf("%w: topic %q", ErrMalformed, topic)
	}

	r, err := parseReport(payload)
	if err != nil {
		return OutcomeMalformed, err
	}

	v, err := in.vehicles.GetVehicle(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, fleet.ErrVehicleNotFound) {
			return OutcomeUnknownVehicle, err
		}
		return OutcomeError, err
	}

	v.Location = fleet.Location{Lat: *r.Lat, Lng: *r.Lng}
	if r.CurrentLoad != nil {
		v.CurrentLoad = *r.CurrentLoad
	}
	v.LastUpdated = in.now().UTC()

	matched, err := in.vehicles.ReplaceVehicle(ctx, v)
	if err != nil {
		return OutcomeError, err
	}
	if !matched {
		// Deleted between load and replace.
		return OutcomeUnknownVehicle, fleet.ErrVehicleNotFound
	}

	in.broadcast.Broadcast(live.VehicleUpdate{Vehicle: *v})
	if in.positions != nil {
		in.positions.WriteVehiclePosition(*v)
	}
	return OutcomeApplied, nil
}

func parseReport(payload []byte) (report, error) {
	var r report
	if err := json.Unmarshal(payload, &r); err != nil {
		return r, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if r.Lat == nil || r.Lng == nil {
		return r, fmt.Errorf("%w: lat and lng are required", ErrMalformed)
	}
	if math.Abs(*r.Lat) > 90 || math.Abs(*r.Lng) > 180 {
		return r, fmt.Errorf("%w: coordinates out of range", ErrMalformed)
	}
	if r.CurrentLoad != nil && *r.CurrentLoad < 0 {
		return r, fmt.Errorf("%w: negative current_load", ErrMalformed)
	}
	return r, nil
}
