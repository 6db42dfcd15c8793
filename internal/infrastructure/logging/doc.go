// Package logging provides structured logging for fleetops.
//
// It wraps Go's log/slog so every component logs the same way:
// JSON in production, text while developing, with service and version
// attached to every entry.
//
// Configuration comes from the logging section of config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr, discard
//
// Usage:
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("api listening", "address", addr)
//	logger.Component("hub").Debug("client connected", "clients", n)
//
// Never log bearer tokens, password hashes or signing secrets.
package logging
