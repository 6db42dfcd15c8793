// Package seed populates an empty store with demonstration data for the
// Hyderabad industrial corridor: three accounts, three zones, 20 vehicles,
// 50 delivery jobs and 15 alerts.
//
// Seeding is skipped when any user account exists.
package seed
