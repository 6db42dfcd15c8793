// Package telemetry applies vehicle location reports received over MQTT.
//
// Vehicles publish to fleet/telemetry/{vehicle_id}/location:
//
//	{"lat": 17.45, "lng": 78.38, "current_load": 1200}
//
// current_load is optional. Each accepted report updates the stored
// vehicle, is broadcast to live clients as a vehicle_update event and,
// when a position writer is configured, is recorded as history.
// Reports for unknown vehicles and malformed payloads are logged and
// dropped; nothing is retried.
package telemetry
