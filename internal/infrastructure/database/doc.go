// Package database provides SQLite connectivity for fleetops.
//
// It owns the connection lifecycle (opened once at startup, closed once at
// shutdown), WAL mode and busy-timeout pragmas, and forward-only schema
// migrations embedded in the binary. The document store in
// internal/docstore is built on top of the handle returned by Open.
//
// Usage:
//
//	db, err := database.Open(ctx, database.Config{Path: cfg.Database.Path(), WALMode: true})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
package database
