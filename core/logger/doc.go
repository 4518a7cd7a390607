// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments (development vs production)
// and integrates with the Fiber web framework used by the publish server.
//
// # Context Awareness
//
// Two helpers attach correlation fields:
//   - WithRayID extracts the RayID from a Fiber context so all logs of one request can be correlated.
//   - ForRun tags a logger with the run_id and stage of a pipeline run.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Sync loop started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Publish failed", zap.Error(err))
package logger
