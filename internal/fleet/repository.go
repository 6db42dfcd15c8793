package fleet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hyderfleet/fleetops/internal/docstore"
)

// Listing caps. Results beyond the cap are silently dropped.
const (
	VehicleListLimit = 1000
	JobListLimit     = 1000
	AlertListLimit   = 100
	ZoneListLimit    = 100

	// analyticsScanLimit bounds the delivered jobs read for analytics.
	analyticsScanLimit = 1000
)

// Repository persists fleet records in the document store.
type Repository struct {
	vehicles *docstore.Collection
	jobs     *docstore.Collection
	alerts   *docstore.Collection
	zones    *docstore.Collection
}

// NewRepository creates a Repository over store.
func NewRepository(store *docstore.Store) *Repository {
	return &Repository{
		vehicles: store.Collection(CollectionVehicles),
		jobs:     store.Collection(CollectionJobs),
		alerts:   store.Collection(CollectionAlerts),
		zones:    store.Collection(CollectionZones),
	}
}

// ListVehicles returns up to VehicleListLimit vehicles.
func (r *Repository) ListVehicles(ctx context.Context) ([]Vehicle, error) {
	var out []Vehicle
	if err := r.vehicles.Find(ctx, nil, docstore.FindOptions{Limit: VehicleListLimit}, &out); err != nil {
		return nil, fmt.Errorf("listing vehicles: %w", err)
	}
	return out, nil
}

// GetVehicle returns the vehicle with the given id.
func (r *Repository) GetVehicle(ctx context.Context, id string) (*Vehicle, error) {
	var v Vehicle
	if err := r.vehicles.FindOne(ctx, docstore.Filter{docstore.Eq("id", id)}, &v); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, fmt.Errorf("getting vehicle %s: %w", id, err)
	}
	return &v, nil
}

// ReplaceVehicle overwrites every settable field of the stored vehicle.
// It reports whether a stored vehicle matched; no match is not an error.
func (r *Repository) ReplaceVehicle(ctx context.Context, v *Vehicle) (bool, error) {
	v.normalise()
	return replace(ctx, r.vehicles, v.ID, v)
}

// InsertVehicles stores new vehicles in one batch.
func (r *Repository) InsertVehicles(ctx context.Context, vehicles []Vehicle) error {
	docs := make([]any, len(vehicles))
	for i := range vehicles {
		vehicles[i].normalise()
		docs[i] = vehicles[i]
	}
	if err := r.vehicles.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("inserting vehicles: %w", err)
	}
	return nil
}

// ListJobs returns up to JobListLimit jobs matching all set filter fields.
func (r *Repository) ListJobs(ctx context.Context, f JobFilter) ([]DeliveryJob, error) {
	var filter docstore.Filter
	if f.Status != "" {
		filter = append(filter, docstore.Eq("status", string(f.Status)))
	}
	if f.Zone != "" {
		filter = append(filter, docstore.Eq("zone", f.Zone))
	}

	var out []DeliveryJob
	if err := r.jobs.Find(ctx, filter, docstore.FindOptions{Limit: JobListLimit}, &out); err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	return out, nil
}

// GetJob returns the delivery job with the given id.
func (r *Repository) GetJob(ctx context.Context, id string) (*DeliveryJob, error) {
	var j DeliveryJob
	if err := r.jobs.FindOne(ctx, docstore.Filter{docstore.Eq("id", id)}, &j); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("getting job %s: %w", id, err)
	}
	return &j, nil
}

// ReplaceJob overwrites every settable field of the stored job.
func (r *Repository) ReplaceJob(ctx context.Context, j *DeliveryJob) (bool, error) {
	j.normalise()
	return replace(ctx, r.jobs, j.ID, j)
}

// InsertJobs stores new jobs in one batch.
func (r *Repository) InsertJobs(ctx context.Context, jobs []DeliveryJob) error {
	docs := make([]any, len(jobs))
	for i := range jobs {
		jobs[i].normalise()
		docs[i] = jobs[i]
	}
	if err := r.jobs.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("inserting jobs: %w", err)
	}
	return nil
}

// DeliveredJobs returns delivered jobs, optionally only those completed at
// or after since. A zero since returns all delivered jobs.
func (r *Repository) DeliveredJobs(ctx context.Context, since time.Time) ([]DeliveryJob, error) {
	filter := docstore.Filter{docstore.Eq("status", string(JobDelivered))}
	if !since.IsZero() {
		// Lexical comparison on RFC 3339 strings; the caller re-checks exact bounds.
		filter = append(filter, docstore.Gte("completed_at", since.UTC().Truncate(time.Second).Add(-time.Second)))
	}

	var out []DeliveryJob
	if err := r.jobs.Find(ctx, filter, docstore.FindOptions{Limit: analyticsScanLimit}, &out); err != nil {
		return nil, fmt.Errorf("listing delivered jobs: %w", err)
	}
	return out, nil
}

// ListAlerts returns up to AlertListLimit alerts, newest first.
func (r *Repository) ListAlerts(ctx context.Context, f AlertFilter) ([]Alert, error) {
	var filter docstore.Filter
	if f.Acknowledged != nil {
		filter = append(filter, docstore.Eq("acknowledged", *f.Acknowledged))
	}

	opts := docstore.FindOptions{
		Limit: AlertListLimit,
		Sort:  []docstore.Sort{{Field: "created_at", Desc: true}},
	}
	var out []Alert
	if err := r.alerts.Find(ctx, filter, opts, &out); err != nil {
		return nil, fmt.Errorf("listing alerts: %w", err)
	}
	return out, nil
}

// AcknowledgeAlert sets the acknowledged flag on one alert.
func (r *Repository) AcknowledgeAlert(ctx context.Context, id string) error {
	matched, err := r.alerts.UpdateOne(ctx, id, docstore.Set{"acknowledged": true})
	if err != nil {
		return fmt.Errorf("acknowledging alert %s: %w", id, err)
	}
	if !matched {
		return ErrAlertNotFound
	}
	return nil
}

// InsertAlerts stores new alerts in one batch.
func (r *Repository) InsertAlerts(ctx context.Context, alerts []Alert) error {
	docs := make([]any, len(alerts))
	for i := range alerts {
		alerts[i].normalise()
		docs[i] = alerts[i]
	}
	if err := r.alerts.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("inserting alerts: %w", err)
	}
	return nil
}

// ListZones returns up to ZoneListLimit zones.
func (r *Repository) ListZones(ctx context.Context) ([]Zone, error) {
	var out []Zone
	if err := r.zones.Find(ctx, nil, docstore.FindOptions{Limit: ZoneListLimit}, &out); err != nil {
		return nil, fmt.Errorf("listing zones: %w", err)
	}
	return out, nil
}

// InsertZones stores new zones in one batch.
func (r *Repository) InsertZones(ctx context.Context, zones []Zone) error {
	docs := make([]any, len(zones))
	for i := range zones {
		docs[i] = zones[i]
	}
	if err := r.zones.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("inserting zones: %w", err)
	}
	return nil
}

// replace sets every field of record except id on the stored document.
func replace(ctx context.Context, c *docstore.Collection, id string, record any) (bool, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return false, fmt.Errorf("encoding %s/%s: %w", c.Name(), id, err)
	}
	var set docstore.Set
	if err := json.Unmarshal(data, &set); err != nil {
		return false, fmt.Errorf("decoding %s/%s fields: %w", c.Name(), id, err)
	}
	delete(set, "id")

	matched, err := c.UpdateOne(ctx, id, set)
	if err != nil {
		return false, fmt.Errorf("replacing %s/%s: %w", c.Name(), id, err)
	}
	return matched, nil
}
