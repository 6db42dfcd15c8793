// Package mqtt provides MQTT client connectivity for fleetops.
//
// MQTT is optional. When enabled it carries two flows:
//
//	vehicle trackers → fleet/telemetry/{vehicle_id}/location → fleetd
//	fleetd → fleet/events/{event_type} → downstream consumers
//
// The first feeds vehicle positions into the store; the second mirrors
// every live-update event for systems that cannot hold a WebSocket open.
// Neither flow is a delivery guarantee.
//
// The client wraps paho.mqtt.golang with:
//   - Auto-reconnect with exponential backoff
//   - Subscriptions restored after reconnect
//   - Last Will and Testament on fleet/system/status
//   - Panic recovery around message handlers
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.Subscribe(mqtt.Topics{}.AllVehicleTelemetry(), 1,
//	    func(topic string, payload []byte) error {
//	        id, _ := mqtt.Topics{}.ParseVehicleTelemetry(topic)
//	        ...
//	    })
package mqtt
