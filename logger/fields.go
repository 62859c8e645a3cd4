package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across tagweb.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Components
	FieldComponent = "component"
	FieldClientID  = "client_id"

	// Graph shape
	FieldNodes    = "nodes"
	FieldLinks    = "links"
	FieldIsolated = "isolated"
	FieldTagID    = "tag_id"

	// Simulation
	FieldSteps    = "steps"
	FieldInterval = "interval"
	FieldEnergy   = "energy"

	// View
	FieldZoom      = "zoom"
	FieldThreshold = "threshold"
	FieldRelation  = "relation_type"

	// Errors
	FieldError = "error"

	// Files and network
	FieldFile    = "file"
	FieldFormat  = "format"
	FieldAddress = "address"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type Engine struct {
//	    logger *zap.SugaredLogger
//	}
//
//	func NewEngine() *Engine {
//	    return &Engine{
//	        logger: logger.ComponentLogger("view.engine"),
//	    }
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
//
// Example:
//
//	clientLogger := logger.ChildLogger(baseLogger, logger.FieldClientID, c.id)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
