package harness

import "fmt"

// Result is the outcome of one scenario execution.
type Result struct {
	// Pass indicates overall scenario success: every expectation held.
	Pass bool `json:"pass"`

	// Fixture echoes the fixture that was lowered.
	Fixture string `json:"fixture"`

	// Canonical is the deterministic text dump of the lowered file.
	// Empty when lowering failed.
	Canonical string `json:"canonical,omitempty"`

	// Fingerprint is the content hash of the lowered file. Empty when
	// lowering failed.
	Fingerprint string `json:"fingerprint,omitempty"`

	// Decls lists the top-level declaration names in output order.
	Decls []string `json:"decls,omitempty"`

	// Warnings lists the warning codes lowering reported, in order.
	Warnings []string `json:"warnings,omitempty"`

	// Diagnostic is the fatal diagnostic text when lowering aborted.
	Diagnostic string `json:"diagnostic,omitempty"`

	// Errors lists expectation failures. Empty when Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result for a fixture; expectation
// checks demote it.
func NewResult(fixture string) *Result {
	return &Result{Pass: true, Fixture: fixture}
}

// AddError records an expectation failure and marks the result failed.
func (r *Result) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}
