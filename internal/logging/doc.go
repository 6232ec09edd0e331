// Package logging provides structured logging for the bridge.
//
// This package wraps zap with convenience functions for common logging
// patterns used throughout the daemon, plus helpers for dumping raw
// protocol bytes.
//
// # Log Levels
//
//   - Debug: frame hex dumps, queue activity, per-response decoding
//   - Info: startup, ready transition, collaborator lifecycle
//   - Warn: dropped frames, reconnect-worthy conditions
//   - Error: channel failures, startup failures
//
// # Configuration
//
// Initialize logging at daemon startup:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// CLI commands that want silent-by-default behaviour use
// InitializeFromEnv, which only enables output when AV2BRIDGE_LOG_LEVEL is
// set. The daemon can additionally mirror output into a size-rotated log
// file via InitializeWithRotation.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use.
package logging
