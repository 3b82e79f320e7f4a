package logger

import (
	"go.uber.org/zap"
)

// Standard field names for structured logging across typomatic.
const (
	// Resolution
	FieldSpecifier   = "specifier"
	FieldNamespace   = "namespace"
	FieldDeclaration = "declaration"
	FieldPackage     = "package"

	// Emission
	FieldContext  = "context"
	FieldLanguage = "language"
	FieldLabel    = "label"

	// Components
	FieldComponent = "component"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts
	FieldCount = "count"

	// Files and paths
	FieldFile = "file"
	FieldPath = "path"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
//	type Orchestrator struct {
//	    log *zap.SugaredLogger
//	}
//
//	o := &Orchestrator{log: logger.ComponentLogger("orchestrator")}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
