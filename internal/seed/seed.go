package seed

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/hyderfleet/fleetops/internal/auth"
	"github.com/hyderfleet/fleetops/internal/fleet"
	"github.com/hyderfleet/fleetops/internal/infrastructure/logging"
)

// Response messages for the init endpoint.
const (
	MessageInitialized        = "Mock data initialized successfully"
	MessageAlreadyInitialized = "Mock data already initialized"
)

// Generated record counts.
const (
	VehicleCount = 20
	JobCount     = 50
	AlertCount   = 15
)

// Bounding box of generated coordinates.
const (
	minLat = 17.2
	maxLat = 17.7
	minLng = 78.2
	maxLng = 78.6
)

var (
	driverNames = []string{
		"Rajesh Kumar", "Amit Singh", "Vijay Reddy", "Suresh Rao", "Prakash Naidu",
		"Krishna Murthy", "Ramesh Babu", "Srinivas Goud", "Venkat Rao", "Mahesh Kumar",
	}
	vehicleTypes   = []string{"Truck", "Van", "Mini Truck"}
	loadCapacities = []float64{5000, 8000, 10000}
	vehicleStates  = []fleet.VehicleStatus{fleet.VehicleIdle, fleet.VehicleEnRoute, fleet.VehicleMaintenance}
	jobStates      = []fleet.JobStatus{fleet.JobPending, fleet.JobInTransit, fleet.JobDelivered}
	loadTypes      = []string{
		"Electronics", "Pharmaceuticals", "Food Items",
		"Building Materials", "Textiles", "Machinery Parts",
	}
	localities = []string{"Gachibowli", "Hitech City", "Jubilee Hills", "Banjara Hills", "Secunderabad"}
	alertTypes = []fleet.AlertType{fleet.AlertDelay, fleet.AlertMaintenance, fleet.AlertOverload}
	severities = []fleet.Severity{fleet.SeverityLow, fleet.SeverityMedium, fleet.SeverityHigh}
)

type account struct {
	username string
	password string
	role     auth.Role
}

var accounts = []account{
	{"admin", "admin123", auth.RoleAdmin},
	{"driver1", "driver123", auth.RoleDriver},
	{"viewer", "viewer123", auth.RoleViewer},
}

// FleetStore is the write side of the fleet repository.
type FleetStore interface {
	InsertZones(ctx context.Context, zones []fleet.Zone) error
	InsertVehicles(ctx context.Context, vehicles []fleet.Vehicle) error
	InsertJobs(ctx context.Context, jobs []fleet.DeliveryJob) error
	InsertAlerts(ctx context.Context, alerts []fleet.Alert) error
}

// Result describes what Run did.
type Result struct {
	AlreadyInitialized bool
}

// Message is the user-facing summary of r.
func (r Result) Message() string {
	if r.AlreadyInitialized {
		return MessageAlreadyInitialized
	}
	return MessageInitialized
}

// Seeder generates and stores demonstration data.
type Seeder struct {
	users  auth.UserRepository
	store  FleetStore
	rng    *rand.Rand
	now    func() time.Time
	logger *logging.Logger
}

// New creates a Seeder. A nil rng uses a randomly seeded source.
func New(users auth.UserRepository, store FleetStore, rng *rand.Rand, logger *logging.Logger) *Seeder {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // demonstration data
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Seeder{
		users:  users,
		store:  store,
		rng:    rng,
		now:    time.Now,
		logger: logger.Component("seed"),
	}
}

// Run seeds the store unless a user account already exists.
//
// Accounts are written first; a concurrent Run that loses the race on the
// unique username index reports AlreadyInitialized.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	count, err := s.users.Count(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("checking user count: %w", err)
	}
	if count > 0 {
		s.logger.Info("users exist, skipping mock data")
		return Result{AlreadyInitialized: true}, nil
	}

	now := s.now().UTC()

	users, err := s.buildUsers(now)
	if err != nil {
		return Result{}, err
	}
	if err := s.users.InsertMany(ctx, users); err != nil {
		if errors.Is(err, auth.ErrUsernameExists) {
			return Result{AlreadyInitialized: true}, nil
		}
		return Result{}, fmt.Errorf("seeding users: %w", err)
	}

	zones := s.zones()
	vehicles := s.vehicles(now)
	jobs := s.jobs(now, vehicles)
	alerts := s.alerts(now, vehicles, jobs)

	if err := s.store.InsertZones(ctx, zones); err != nil {
		return Result{}, fmt.Errorf("seeding zones: %w", err)
	}
	if err := s.store.InsertVehicles(ctx, vehicles); err != nil {
		return Result{}, fmt.Errorf("seeding vehicles: %w", err)
	}
	if err := s.store.InsertJobs(ctx, jobs); err != nil {
		return Result{}, fmt.Errorf("seeding jobs: %w", err)
	}
	if err := s.store.InsertAlerts(ctx, alerts); err != nil {
		return Result{}, fmt.Errorf("seeding alerts: %w", err)
	}

	s.logger.Info("mock data initialized",
		"users", len(users),
		"zones", len(zones),
		"vehicles", len(vehicles),
		"jobs", len(jobs),
		"alerts", len(alerts),
	)
	return Result{}, nil
}

func (s *Seeder) buildUsers(now time.Time) ([]auth.User, error) {
	users := make([]auth.User, 0, len(accounts))
	for _, a := range accounts {
		hash, err := auth.HashPassword(a.password)
		if err != nil {
			return nil, fmt.Errorf("hashing password for %s: %w", a.username, err)
		}
		users = append(users, auth.User{
			ID:           uuid.NewString(),
			Username:     a.username,
			Email:        a.username + "@hyderfleet.com",
			Role:         a.role,
			CreatedAt:    now,
			PasswordHash: hash,
		})
	}
	return users, nil
}

func (s *Seeder) zones() []fleet.Zone {
	return []fleet.Zone{
		{ID: uuid.NewString(), Name: "Patancheru", Coordinates: fleet.Location{Lat: 17.5333, Lng: 78.2644}, DelayCount: 12},
		{ID: uuid.NewString(), Name: "Medchal", Coordinates: fleet.Location{Lat: 17.6260, Lng: 78.4813}, DelayCount: 8},
		{ID: uuid.NewString(), Name: "Shamshabad", Coordinates: fleet.Location{Lat: 17.2543, Lng: 78.3972}, DelayCount: 15},
	}
}

func (s *Seeder) vehicles(now time.Time) []fleet.Vehicle {
	vehicles := make([]fleet.Vehicle, VehicleCount)
	for i := range vehicles {
		vehicles[i] = fleet.Vehicle{
			ID:           uuid.NewString(),
			PlateNumber:  s.plate(),
			DriverID:     ptr(uuid.NewString()),
			DriverName:   ptr(pick(s.rng, driverNames)),
			Status:       vehicleStates[i%len(vehicleStates)],
			Location:     s.point(),
			LastUpdated:  now,
			VehicleType:  pick(s.rng, vehicleTypes),
			LoadCapacity: pick(s.rng, loadCapacities),
			CurrentLoad:  s.uniform(0, 5000),
		}
	}
	return vehicles
}

func (s *Seeder) jobs(now time.Time, vehicles []fleet.Vehicle) []fleet.DeliveryJob {
	zoneNames := []string{"Patancheru", "Medchal", "Shamshabad"}

	jobs := make([]fleet.DeliveryJob, JobCount)
	for i := range jobs {
		zone := pick(s.rng, zoneNames)
		status := pick(s.rng, jobStates)
		created := now.Add(-s.hours(0, 72))
		eta := created.Add(s.hours(1, 8))

		job := fleet.DeliveryJob{
			ID:        uuid.NewString(),
			JobNumber: fmt.Sprintf("HF%04d", i+1),
			Status:    status,
			Zone:      zone,
			PickupLocation: s.address(
				fmt.Sprintf("%s Industrial Area, Sector %d", zone, s.between(1, 10)),
			),
			DeliveryLocation: s.address("Hyderabad City, " + pick(s.rng, localities)),
			LoadType:         pick(s.rng, loadTypes),
			LoadWeight:       math.Round(s.uniform(100, 5000)*100) / 100,
			EstimatedETA:     &eta,
			CreatedAt:        created,
		}
		if status != fleet.JobPending {
			job.VehicleID = ptr(pick(s.rng, vehicles).ID)
			job.DriverID = ptr(uuid.NewString())
		}
		if status == fleet.JobDelivered {
			actual := eta.Add(time.Duration(s.between(-30, 60)) * time.Minute)
			completed := created.Add(s.hours(2, 10))
			job.ActualETA = &actual
			job.CompletedAt = &completed
		}
		jobs[i] = job
	}
	return jobs
}

func (s *Seeder) alerts(now time.Time, vehicles []fleet.Vehicle, jobs []fleet.DeliveryJob) []fleet.Alert {
	alerts := make([]fleet.Alert, AlertCount)
	for i := range alerts {
		kind := pick(s.rng, alertTypes)
		alert := fleet.Alert{
			ID:       uuid.NewString(),
			Type:     kind,
			Severity: pick(s.rng, severities),
		}

		switch kind {
		case fleet.AlertDelay:
			alert.Message = fmt.Sprintf("Job %s delayed by %d minutes", pick(s.rng, jobs).JobNumber, s.between(15, 90))
		case fleet.AlertMaintenance:
			alert.Message = fmt.Sprintf("Vehicle %s maintenance due in %d days", pick(s.rng, vehicles).PlateNumber, s.between(1, 7))
		case fleet.AlertOverload:
			alert.Message = fmt.Sprintf("Vehicle %s load exceeds safe threshold", pick(s.rng, vehicles).PlateNumber)
		}

		alert.VehicleID = ptr(pick(s.rng, vehicles).ID)
		if kind == fleet.AlertDelay {
			alert.JobID = ptr(pick(s.rng, jobs).ID)
		}
		alert.CreatedAt = now.Add(-s.hours(0, 48))
		alert.Acknowledged = s.rng.IntN(2) == 1
		alerts[i] = alert
	}
	return alerts
}

// plate returns a Telangana registration such as TS09AB1234.
func (s *Seeder) plate() string {
	return fmt.Sprintf("TS%02d%c%c%d",
		s.between(10, 39),
		rune('A'+s.rng.IntN(26)),
		rune('A'+s.rng.IntN(26)),
		s.between(1000, 9999),
	)
}

func (s *Seeder) point() fleet.Location {
	return fleet.Location{Lat: s.uniform(minLat, maxLat), Lng: s.uniform(minLng, maxLng)}
}

func (s *Seeder) address(label string) fleet.Address {
	p := s.point()
	return fleet.Address{Address: label, Lat: p.Lat, Lng: p.Lng}
}

func (s *Seeder) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// between returns an integer in [lo, hi].
func (s *Seeder) between(lo, hi int) int {
	return lo + s.rng.IntN(hi-lo+1)
}

func (s *Seeder) hours(lo, hi int) time.Duration {
	return time.Duration(s.between(lo, hi)) * time.Hour
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}

func ptr[T any](v T) *T {
	return &v
}
