// Package logging provides structured logging for the address planner.
//
// It wraps log/slog and adds the service and version fields to every
// entry. Output goes to stdout, stderr, or a size-rotated file.
//
// Logging is configured via the logging section of config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "file"     # stdout, stderr, file
//	  file:
//	    path: "./logs/gaplan.log"
//	    max_size: 10     # megabytes before rotation
//
// Usage:
//
//	logger := logging.New(cfg.Logging, version)
//	defer logger.Close()
//	logger.Info("plan generated", "rows", len(rows))
//
// Never log MQTT passwords or InfluxDB tokens.
package logging
