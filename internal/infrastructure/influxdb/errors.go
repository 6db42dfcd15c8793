package influxdb

import "errors"

var (
	// ErrDisabled means history recording is switched off; fleetd runs without it.
	ErrDisabled = errors.New("influxdb: position history disabled")

	// ErrMissingTarget means the org or bucket for fleet history is not set.
	ErrMissingTarget = errors.New("influxdb: org and bucket are required for fleet history")

	// ErrConnectionFailed means the history server did not answer at startup.
	ErrConnectionFailed = errors.New("influxdb: history server unreachable")

	// ErrNotConnected means the client was closed or never connected.
	ErrNotConnected = errors.New("influxdb: history client not connected")
)
