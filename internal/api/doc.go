// Package api implements the fleetops HTTP REST API.
//
// This package provides:
//   - Auth endpoints (register, login, me) issuing bearer tokens
//   - Read endpoints for vehicles, delivery jobs, alerts and zones
//   - Role-checked update endpoints that broadcast live-update events
//   - Delivery analytics (daily counts, on-time percentage, zone delays)
//   - Middleware stack (request ID, logging, metrics, recovery, CORS)
//
// # Architecture
//
// Every protected handler follows the same shape: the auth middleware
// resolves the bearer token to a user, the handler checks the role for
// mutations, calls the fleet repository, broadcasts the resulting event
// through the live hub and answers with JSON. Broadcast events are also
// mirrored to MQTT when an EventPublisher is configured.
//
// # Graceful Degradation
//
// MQTT, InfluxDB and metrics are optional; the REST API and live channel
// work without them.
package api
