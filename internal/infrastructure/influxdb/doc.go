// Package influxdb records vehicle position history and job status
// transitions in InfluxDB v2.
//
// Writes are non-blocking: points are batched by the client library and
// flushed on an interval, with asynchronous write errors delivered to the
// callback set via SetOnError. InfluxDB is optional; when disabled,
// Connect returns ErrDisabled and callers run without history.
//
// Measurements:
//
//	vehicle_position  tags: vehicle_id, plate_number, status   fields: lat, lng, current_load
//	job_status        tags: job_id, zone, status                fields: load_weight
package influxdb
