// Package diagnostic defines the non-fatal findings reported while generating.
//
// Diagnostics are data: the pipeline collects them and hands them to the host,
// which logs them and decides whether any should fail the build.
package diagnostic

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/uistate/decl"
	"github.com/teranos/uistate/errors"
	"github.com/teranos/uistate/logger"
)

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Kind classifies a diagnostic.
type Kind string

const (
	// KindNotSealed: a marked declaration is not a union. No output for that root.
	KindNotSealed Kind = "NotSealedError"
	// KindUnresolved: a root stayed unresolved after the last pass.
	KindUnresolved Kind = "UnresolvedSymbolDeferral"
	// KindEmptySimpleName: a variant had no name; its helper was skipped.
	KindEmptySimpleName Kind = "EmptySimpleNameError"
	// KindDuplicateAccessor: two helpers on one receiver shared a name; the later was skipped.
	KindDuplicateAccessor Kind = "DuplicateAccessorError"
	// KindRender: a target could not render a root. No output for that root.
	KindRender Kind = "RenderError"
)

// Diagnostic is one finding about a root or one of its variants.
type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Root     string // qualified name of the root being processed
	Subject  string // qualified name of the offending declaration
	Pos      decl.Position
	Err      error
}

// New builds a diagnostic of kind k about subject within root.
func New(k Kind, root string, subject decl.Type, err error) Diagnostic {
	d := Diagnostic{
		Kind:     k,
		Severity: severityOf(k),
		Root:     root,
		Err:      err,
	}
	if subject != nil {
		d.Subject = subject.Ref().Qualified
		d.Pos = decl.PositionOf(subject)
	}
	return d
}

func severityOf(k Kind) Severity {
	switch k {
	case KindEmptySimpleName, KindDuplicateAccessor:
		return SeverityWarning
	default:
		return SeverityError
	}
}

// String formats the diagnostic for display.
func (d Diagnostic) String() string {
	var sb strings.Builder

	if d.Pos.File != "" {
		sb.WriteString(d.Pos.File)
		if d.Pos.Line > 0 {
			sb.WriteString(fmt.Sprintf(":%d", d.Pos.Line))
		}
		sb.WriteString(" - ")
	}

	sb.WriteString(d.Severity.String())
	sb.WriteString(": [")
	sb.WriteString(string(d.Kind))
	sb.WriteString("] ")

	subject := d.Subject
	if subject == "" {
		subject = d.Root
	}
	sb.WriteString(subject)
	if d.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(d.Err.Error())
	}

	for _, hint := range errors.GetAllHints(d.Err) {
		sb.WriteString("\n  hint: ")
		sb.WriteString(hint)
	}

	return sb.String()
}

// Log writes the diagnostic to log at a level matching its severity.
func (d Diagnostic) Log(log *zap.SugaredLogger) {
	fields := []interface{}{
		logger.FieldDiagnostic, string(d.Kind),
		logger.FieldRoot, d.Root,
	}
	if d.Subject != "" && d.Subject != d.Root {
		fields = append(fields, logger.FieldVariant, d.Subject)
	}
	if d.Pos.File != "" {
		fields = append(fields, logger.FieldFile, d.Pos.File, logger.FieldLine, d.Pos.Line)
	}
	if d.Err != nil {
		fields = append(fields, logger.FieldError, d.Err.Error())
	}
	if hints := errors.GetAllHints(d.Err); len(hints) > 0 {
		fields = append(fields, logger.FieldHint, strings.Join(hints, "; "))
	}

	if d.Severity == SeverityError {
		log.Errorw(message(d.Kind), fields...)
		return
	}
	log.Warnw(message(d.Kind), fields...)
}

func message(k Kind) string {
	switch k {
	case KindNotSealed:
		return "uistate marker only works for sealed types"
	case KindUnresolved:
		return "declaration never resolved"
	case KindEmptySimpleName:
		return "variant has no name, helper skipped"
	case KindDuplicateAccessor:
		return "helper name already used on this receiver, helper skipped"
	case KindRender:
		return "could not render extensions"
	default:
		return string(k)
	}
}

// HasErrors reports whether any diagnostic is an error.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Count returns the number of diagnostics of kind k.
func Count(diags []Diagnostic, k Kind) int {
	n := 0
	for _, d := range diags {
		if d.Kind == k {
			n++
		}
	}
	return n
}
