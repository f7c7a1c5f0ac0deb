// Package telemetry provides the orchestration core's only logging surface:
// env-gated diagnostic output, in the same shape the rest of the pack's
// ambient logging takes. There is no logging framework underneath it by
// design (see DESIGN.md) — just log.Printf behind an env switch.
package telemetry

import (
	"log"
	"os"
	"strings"
)

// DebugEnabled reports whether orchestration debug logging is enabled.
// Enable with GROUNDEDQUERY_DEBUG=1 (or true/yes/on).
func DebugEnabled() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("GROUNDEDQUERY_DEBUG"))) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

// Infof logs an informational line tagged with component when debug
// logging is enabled.
func Infof(component, format string, args ...any) {
	if !DebugEnabled() {
		return
	}
	log.Printf("[debug]["+component+"][INFO] "+format, args...)
}

// Warnf logs a warning line tagged with component when debug logging is
// enabled.
func Warnf(component, format string, args ...any) {
	if !DebugEnabled() {
		return
	}
	log.Printf("[debug]["+component+"][WARN] "+format, args...)
}

// Errorf logs an error line tagged with component when debug logging is
// enabled.
func Errorf(component, format string, args ...any) {
	if !DebugEnabled() {
		return
	}
	log.Printf("[debug]["+component+"][ERROR] "+format, args...)
}
