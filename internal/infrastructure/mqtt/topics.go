package mqtt

import (
	"fmt"
	"strings"
)

// TopicPrefix is the root of every fleetops topic.
const TopicPrefix = "fleet"

// Topics provides builders for fleetops MQTT topics.
//
//	mqtt.Topics{}.VehicleTelemetry("v-123") // "fleet/telemetry/v-123/location"
type Topics struct{}

// VehicleTelemetry returns the location topic for one vehicle.
func (Topics) VehicleTelemetry(vehicleID string) string {
	return fmt.Sprintf("%s/telemetry/%s/location", TopicPrefix, vehicleID)
}

// AllVehicleTelemetry matches location updates from every vehicle.
func (Topics) AllVehicleTelemetry() string {
	return TopicPrefix + "/telemetry/+/location"
}

// ParseVehicleTelemetry extracts the vehicle id from a telemetry topic.
func (Topics) ParseVehicleTelemetry(topic string) (string, bool) {
	parts := strings.Split(topic, "/")
	if len(parts) != 4 || parts[0] != TopicPrefix || parts[1] != "telemetry" || parts[3] != "location" || parts[2] == "" { //nolint:mnd // fleet/telemetry/{id}/location
		return "", false
	}
	return parts[2], true
}

// Event returns the mirror topic for a live-update event type.
func (Topics) Event(eventType string) string {
	return fmt.Sprintf("%s/events/%s", TopicPrefix, eventType)
}

// SystemStatus is the retained online/offline status topic.
func (Topics) SystemStatus() string {
	return TopicPrefix + "/system/status"
}
