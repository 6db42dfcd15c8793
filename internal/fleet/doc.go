// Package fleet holds the dashboard's operational records (vehicles,
// delivery jobs, alerts and zones), their document-store repository, and
// the analytics derived from delivered jobs.
//
// Status fields are not constrained to their named values and may move
// between any two states. Callers replace records wholesale; the only
// partial update is alert acknowledgement.
package fleet
