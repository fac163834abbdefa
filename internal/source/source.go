// Package source provides source positions and ranges attached to
// front-end nodes, IR nodes and diagnostics.
//
// Ranges are carried through lowering untouched: the front end produces
// them, the IR preserves them, and diagnostics report them. Columns and
// lines are 1-based, matching editor conventions.
package source

import "fmt"

// Position is a single point in a source file.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Range is a half-open span of source code between two positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// NewRange creates a range from start and end line/column pairs.
func NewRange(startLine, startCol, endLine, endCol int) Range {
	return Range{
		Start: Position{Line: startLine, Column: startCol},
		End:   Position{Line: endLine, Column: endCol},
	}
}

// String renders the range as "line,col--line,col" for diagnostics.
func (r Range) String() string {
	return fmt.Sprintf("%d,%d--%d,%d", r.Start.Line, r.Start.Column, r.End.Line, r.End.Column)
}

// IsZero reports whether the range carries no position information.
func (r Range) IsZero() bool {
	return r.Start.Line == 0 && r.Start.Column == 0 && r.End.Line == 0 && r.End.Column == 0
}

// Merge returns the smallest range covering both r and other.
// A zero range on either side yields the other unchanged.
func (r Range) Merge(other Range) Range {
	if r.IsZero() {
		return other
	}
	if other.IsZero() {
		return r
	}
	merged := r
	if other.Start.Line < r.Start.Line ||
		(other.Start.Line == r.Start.Line && other.Start.Column < r.Start.Column) {
		merged.Start = other.Start
	}
	if other.End.Line > r.End.Line ||
		(other.End.Line == r.End.Line && other.End.Column > r.End.Column) {
		merged.End = other.End
	}
	return merged
}
