package fleet

import (
	"encoding/json"
	"time"

	"github.com/hyderfleet/fleetops/internal/docstore"
)

// Collection names in the document store.
const (
	CollectionVehicles = "vehicles"
	CollectionJobs     = "delivery_jobs"
	CollectionAlerts   = "alerts"
	CollectionZones    = "zones"
)

// VehicleStatus is the operating state of a vehicle.
type VehicleStatus string

// Known vehicle states.
const (
	VehicleIdle        VehicleStatus = "idle"
	VehicleEnRoute     VehicleStatus = "en-route"
	VehicleMaintenance VehicleStatus = "maintenance"
)

// JobStatus is the progress of a delivery job.
type JobStatus string

// Known job states.
const (
	JobPending   JobStatus = "pending"
	JobInTransit JobStatus = "in-transit"
	JobDelivered JobStatus = "delivered"
)

// AlertType classifies an alert.
type AlertType string

// Known alert types.
const (
	AlertDelay       AlertType = "delay"
	AlertMaintenance AlertType = "maintenance"
	AlertOverload    AlertType = "overload"
)

// Severity ranks an alert.
type Severity string

// Known severities.
const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Location is a point in WGS84 degrees.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Address is a street address with coordinates.
type Address struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// Vehicle is a truck or van in the fleet.
type Vehicle struct {
	ID           string        `json:"id"`
	PlateNumber  string        `json:"plate_number"`
	DriverID     *string       `json:"driver_id"`
	DriverName   *string       `json:"driver_name"`
	Status       VehicleStatus `json:"status"`
	Location     Location      `json:"location"`
	LastUpdated  time.Time     `json:"last_updated"`
	VehicleType  string        `json:"vehicle_type"`
	LoadCapacity float64       `json:"load_capacity"`
	CurrentLoad  float64       `json:"current_load"`
}

// DeliveryJob is a single pickup-to-delivery assignment.
type DeliveryJob struct {
	ID               string     `json:"id"`
	JobNumber        string     `json:"job_number"`
	VehicleID        *string    `json:"vehicle_id"`
	DriverID         *string    `json:"driver_id"`
	Status           JobStatus  `json:"status"`
	Zone             string     `json:"zone"`
	PickupLocation   Address    `json:"pickup_location"`
	DeliveryLocation Address    `json:"delivery_location"`
	LoadType         string     `json:"load_type"`
	LoadWeight       float64    `json:"load_weight"`
	EstimatedETA     *time.Time `json:"estimated_eta"`
	ActualETA        *time.Time `json:"actual_eta"`
	CreatedAt        time.Time  `json:"created_at"`
	CompletedAt      *time.Time `json:"completed_at"`
}

// Alert is an operational warning raised against a vehicle or job.
type Alert struct {
	ID           string    `json:"id"`
	Type         AlertType `json:"type"`
	Severity     Severity  `json:"severity"`
	Message      string    `json:"message"`
	VehicleID    *string   `json:"vehicle_id"`
	JobID        *string   `json:"job_id"`
	CreatedAt    time.Time `json:"created_at"`
	Acknowledged bool      `json:"acknowledged"`
}

// Zone is an industrial area with a static delay tally.
type Zone struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Coordinates Location `json:"coordinates"`
	DelayCount  int      `json:"delay_count"`
}

// JobFilter narrows job listings. Empty fields impose no constraint.
type JobFilter struct {
	Status JobStatus
	Zone   string
}

// AlertFilter narrows alert listings. A nil Acknowledged imposes no constraint.
type AlertFilter struct {
	Acknowledged *bool
}

// normalise converts every timestamp to UTC.
func (v *Vehicle) normalise() {
	v.LastUpdated = v.LastUpdated.UTC()
}

func (j *DeliveryJob) normalise() {
	j.CreatedAt = j.CreatedAt.UTC()
	j.EstimatedETA = utcPtr(j.EstimatedETA)
	j.ActualETA = utcPtr(j.ActualETA)
	j.CompletedAt = utcPtr(j.CompletedAt)
}

func (a *Alert) normalise() {
	a.CreatedAt = a.CreatedAt.UTC()
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// stamp encodes a time in docstore.TimeFormat so sorts and range filters on
// stored documents follow time order.
type stamp time.Time

func (s stamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(s).UTC().Format(docstore.TimeFormat) + `"`), nil
}

func stampPtr(t *time.Time) *stamp {
	if t == nil {
		return nil
	}
	s := stamp(*t)
	return &s
}

// MarshalJSON writes timestamps in fixed width.
func (v Vehicle) MarshalJSON() ([]byte, error) {
	type plain Vehicle
	return json.Marshal(struct {
		plain
		LastUpdated stamp `json:"last_updated"`
	}{plain(v), stamp(v.LastUpdated)})
}

// MarshalJSON writes timestamps in fixed width.
func (j DeliveryJob) MarshalJSON() ([]byte, error) {
	type plain DeliveryJob
	return json.Marshal(struct {
		plain
		EstimatedETA *stamp `json:"estimated_eta"`
		ActualETA    *stamp `json:"actual_eta"`
		CreatedAt    stamp  `json:"created_at"`
		CompletedAt  *stamp `json:"completed_at"`
	}{plain(j), stampPtr(j.EstimatedETA), stampPtr(j.ActualETA), stamp(j.CreatedAt), stampPtr(j.CompletedAt)})
}

// MarshalJSON writes timestamps in fixed width.
func (a Alert) MarshalJSON() ([]byte, error) {
	type plain Alert
	return json.Marshal(struct {
		plain
		CreatedAt stamp `json:"created_at"`
	}{plain(a), stamp(a.CreatedAt)})
}
