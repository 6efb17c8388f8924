// Package logging provides structured logging using uber/zap.
//
// This package offers production-ready logging with two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Logs go to stderr so the interactive chat surface on stdout stays clean.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Connected", zap.String("room", roomID))
//	logger.Error("Dial failed", zap.Error(err))
package logging
