package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/hyderfleet/fleetops/internal/fleet"
)

// Measurement names.
const (
	MeasurementVehiclePosition = "vehicle_position"
	MeasurementJobStatus       = "job_status"
)

// WriteVehiclePosition records where a vehicle was and how loaded it was at v.LastUpdated.
func (c *Client) WriteVehiclePosition(v fleet.Vehicle) {
	if !c.IsConnected() {
		return
	}

	at := v.LastUpdated
	if at.IsZero() {
		at = time.Now()
	}

	c.writeAPI.WritePoint(write.NewPoint(
		MeasurementVehiclePosition,
		map[string]string{
			"vehicle_id":   v.ID,
			"plate_number": v.PlateNumber,
			"status":       string(v.Status),
		},
		map[string]any{
			"lat":          v.Location.Lat,
			"lng":          v.Location.Lng,
			"current_load": v.CurrentLoad,
		},
		at,
	))
}

// WriteJobStatus records a job's status as of now.
func (c *Client) WriteJobStatus(j fleet.DeliveryJob) {
	if !c.IsConnected() {
		return
	}

	c.writeAPI.WritePoint(write.NewPoint(
		MeasurementJobStatus,
		map[string]string{
			"job_id": j.ID,
			"zone":   j.Zone,
			"status": string(j.Status),
		},
		map[string]any{
			"load_weight": j.LoadWeight,
		},
		time.Now(),
	))
}
