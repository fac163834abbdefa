// Package diag defines the structured diagnostics the lowering stage
// reports: coded errors carrying the source file and range they point
// at, plus non-fatal warnings.
package diag

import (
	"errors"
	"fmt"

	"github.com/johngalambos/Fable/internal/source"
)

// Code categorizes diagnostics. Lowering errors are L1xx, trait
// resolution L2xx, inline expansion L3xx, aggregation A3xx,
// persistence P1xx.
type Code string

const (
	// Lowering errors (L100-L199)
	CodeUnexpectedExpr   Code = "L100" // expression no recognizer accepted
	CodeUnsupportedConst Code = "L101" // constant kind outside the supported set
	CodeErasedArity      Code = "L110" // erased or key-value case with too many fields
	CodeUnknownCase      Code = "L111" // union case not declared by its entity
	CodeUnionMutation    Code = "L112" // write through an immutable union view
	CodeStyleMismatch    Code = "L113" // accessor disagrees with the union classification
	CodeThisUnavailable  Code = "L120" // instance reference outside an instance member
	CodeUnboundValue     Code = "L130" // identifier with no binding in scope
	CodeMissingTarget    Code = "L140" // decision jump to an unknown target
	CodeBadImport        Code = "L150" // malformed import attribute
	CodeNonPrimaryBase   Code = "L160" // base constructor call bypassing the primary
	CodeKeyValueNesting  Code = "L161" // key-value list composed with another construct
	CodePolyTypeTest     Code = "L162" // type test against a generic or erased type

	// Trait resolution errors (L200-L209)
	CodeTraitNoMatch   Code = "L200" // no candidate member matched
	CodeTraitAmbiguous Code = "L201" // several candidates survived disambiguation

	// Inline expansion errors (L300-L309)
	CodeInlineCycle   Code = "L300" // inlined member reaches itself
	CodeInlineDepth   Code = "L301" // expansion exceeded the depth quota
	CodeInlineMissing Code = "L302" // call site marked inline but body unknown

	// Aggregation errors (A300-A309)
	CodeDuplicateName Code = "A300" // two public declarations share a name at one level

	// Persistence errors (P100-P199)
	CodeArtifactOpen    Code = "P100" // side artifact cannot be opened or migrated
	CodeArtifactVersion Code = "P101" // artifact written by a newer schema
	CodeArtifactEntry   Code = "P110" // malformed or conflicting file-map entry

	// Advisory warnings (W100+), never fatal
	CodeInlineOperator Code = "W100" // inlined operator applied to a non-standard type
)

// Error is a fatal lowering diagnostic. Lowering stops at the first
// Error; warnings accumulate.
type Error struct {
	Code    Code
	Message string

	// File is the source path of the compilation unit.
	File string

	// Range points at the offending source, when known.
	Range *source.Range

	// Details carries extra context for tooling.
	Details map[string]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.File != "" && e.Range != nil:
		return fmt.Sprintf("[%s] %s:%s: %s", e.Code, e.File, e.Range, e.Message)
	case e.File != "":
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.File, e.Message)
	case e.Range != nil:
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Range, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// At returns a copy of the error annotated with a source range.
func (e *Error) At(r source.Range) *Error {
	dup := *e
	if !r.IsZero() {
		dup.Range = &r
	}
	return &dup
}

// In returns a copy of the error annotated with a file path.
func (e *Error) In(file string) *Error {
	dup := *e
	dup.File = file
	return &dup
}

// With adds one detail entry, returning the error for chaining.
func (e *Error) With(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// CodeOf extracts the diagnostic code from err, unwrapping as needed.
// Returns empty when err is not a diag.Error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsCode reports whether err carries the given code. Uses errors.As
// to handle wrapped errors.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// Warning is a non-fatal diagnostic. The lowering result is still
// usable; the condition is surfaced for the caller to report.
type Warning struct {
	Code    Code
	Message string
	File    string
	Range   *source.Range
}

func (w Warning) String() string {
	if w.File != "" && w.Range != nil {
		return fmt.Sprintf("[%s] %s:%s: %s", w.Code, w.File, w.Range, w.Message)
	}
	if w.File != "" {
		return fmt.Sprintf("[%s] %s: %s", w.Code, w.File, w.Message)
	}
	return fmt.Sprintf("[%s] %s", w.Code, w.Message)
}

// Warn creates a Warning with a formatted message.
func Warn(code Code, format string, args ...any) Warning {
	return Warning{Code: code, Message: fmt.Sprintf(format, args...)}
}
