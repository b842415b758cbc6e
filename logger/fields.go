package logger

import (
	"go.uber.org/zap"
)

// Standard field names for structured logging across uistate.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Declarations
	FieldRoot    = "root"    // qualified name of the marked union
	FieldVariant = "variant" // qualified name of a variant
	FieldParent  = "parent"  // immediate enclosing union of a variant
	FieldPackage = "package" // Go import path or manifest namespace

	// Pipeline
	FieldPass       = "pass"
	FieldLang       = "lang"
	FieldDiagnostic = "diagnostic"
	FieldRunID      = "run_id"

	// Components
	FieldComponent = "component"

	// Errors
	FieldError = "error"
	FieldHint  = "hint"

	// Counts
	FieldCount    = "count"
	FieldDeferred = "deferred"

	// Files and paths
	FieldFile = "file"
	FieldLine = "line"
	FieldDir  = "dir"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type Processor struct {
//	    logger *zap.SugaredLogger
//	}
//
//	func New() *Processor {
//	    return &Processor{
//	        logger: logger.ComponentLogger("processor"),
//	    }
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
//
// Example:
//
//	rootLogger := logger.ChildLogger(base, logger.FieldRoot, root.Qualified)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
