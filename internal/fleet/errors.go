package fleet

import "errors"

// Domain errors for the fleet package.
var (
	// ErrVehicleNotFound is returned when a vehicle ID does not exist.
	ErrVehicleNotFound = errors.New("fleet: vehicle not found")

	// ErrJobNotFound is returned when a delivery job ID does not exist.
	ErrJobNotFound = errors.New("fleet: job not found")

	// ErrAlertNotFound is returned when an alert ID does not exist.
	ErrAlertNotFound = errors.New("fleet: alert not found")
)
