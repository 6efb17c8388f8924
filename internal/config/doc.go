// Package config provides 12-factor configuration management for the chat client.
//
// Configuration is loaded from environment variables with sensible defaults.
// An optional YAML file and CLI flags can override environment variables.
//
// Configuration Sections:
//   - Server: collaborative server base URL
//   - Session: room, nickname, reconnect and typing timings
//   - Logging: log level and output format
//   - Metrics: optional Prometheus listener
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Connecting to %s\n", cfg.Server.URL)
//
// Environment Variables:
//   - GUMMY_SERVER_URL, GUMMY_ROOM, GUMMY_NICKNAME
//   - GUMMY_RECONNECT_DELAY, GUMMY_TYPING_DEBOUNCE, GUMMY_TYPING_TTL
//   - GUMMY_SEND_RATE, GUMMY_SEND_BURST
//   - GUMMY_LOG_LEVEL, GUMMY_LOG_DEV, GUMMY_METRICS_ADDR
package config
