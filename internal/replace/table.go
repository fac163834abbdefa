package replace

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/johngalambos/Fable/internal/ir"
)

//go:embed builtins.cue
var builtinsCUE string

// EntryKind discriminates the three replacement shapes.
type EntryKind uint8

const (
	// KindOperator rewrites the call to an operator application.
	KindOperator EntryKind = iota
	// KindHelper rewrites the call to a runtime library export.
	KindHelper
	// KindIdentity passes the first argument through unchanged.
	KindIdentity
)

// Entry is one replacement rule for a (module, member) pair.
type Entry struct {
	Module string
	Member string
	Kind   EntryKind

	// Operator rewrite
	Symbol string
	Class  ir.OpClass

	// Helper rewrite
	Selector string
	Path     string
}

// Table holds replacement entries indexed by declaring module.
type Table struct {
	entries map[string]map[string]Entry
}

// Lookup finds the entry for a member of a module.
func (t *Table) Lookup(module, member string) (Entry, bool) {
	members, ok := t.entries[module]
	if !ok {
		return Entry{}, false
	}
	e, ok := members[member]
	return e, ok
}

// Modules returns the number of modules the table covers.
func (t *Table) Modules() int { return len(t.entries) }

// LoadBuiltins parses the embedded builtin table. The embedded source
// is validated at test time; a parse failure here is a build defect.
func LoadBuiltins() (*Table, error) {
	return Parse(builtinsCUE)
}

// MustBuiltins is LoadBuiltins panicking on error. The lowering stage
// loads the table once at startup.
func MustBuiltins() *Table {
	t, err := LoadBuiltins()
	if err != nil {
		panic(err)
	}
	return t
}

// Parse compiles CUE source into a replacement table. Callers can
// extend the builtins by parsing their own source and merging with
// Extend.
func Parse(src string) (*Table, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(src)
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return fromValue(v.LookupPath(cue.ParsePath("replacements")))
}

// Extend merges other's entries over t, returning t. Later entries
// win per (module, member).
func (t *Table) Extend(other *Table) *Table {
	for module, members := range other.entries {
		if t.entries[module] == nil {
			t.entries[module] = make(map[string]Entry, len(members))
		}
		for name, e := range members {
			t.entries[module][name] = e
		}
	}
	return t
}

func fromValue(v cue.Value) (*Table, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if !v.Exists() {
		return nil, &TableError{Field: "replacements", Message: "replacements struct is required"}
	}

	t := &Table{entries: make(map[string]map[string]Entry)}

	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		module := iter.Label()
		moduleVal := iter.Value()

		defaultPath := ""
		if pv := moduleVal.LookupPath(cue.ParsePath("path")); pv.Exists() {
			defaultPath, err = pv.String()
			if err != nil {
				return nil, formatCUEError(err)
			}
		}

		membersVal := moduleVal.LookupPath(cue.ParsePath("members"))
		if !membersVal.Exists() {
			return nil, &TableError{
				Field:   module,
				Message: "members struct is required",
				Pos:     moduleVal.Pos(),
			}
		}
		memberIter, err := membersVal.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}

		entries := make(map[string]Entry)
		for memberIter.Next() {
			name := memberIter.Label()
			entry, err := parseMember(module, name, defaultPath, memberIter.Value())
			if err != nil {
				return nil, err
			}
			entries[name] = entry
		}
		t.entries[module] = entries
	}
	return t, nil
}

// parseMember reads one member mapping. Exactly one of operator,
// helper or identity must be present.
func parseMember(module, name, defaultPath string, v cue.Value) (Entry, error) {
	entry := Entry{Module: module, Member: name}
	forms := 0

	if opVal := v.LookupPath(cue.ParsePath("operator")); opVal.Exists() {
		forms++
		entry.Kind = KindOperator
		symbol, err := opVal.LookupPath(cue.ParsePath("symbol")).String()
		if err != nil {
			return entry, formatCUEError(err)
		}
		entry.Symbol = symbol

		class := "binary"
		if cv := opVal.LookupPath(cue.ParsePath("class")); cv.Exists() {
			class, err = cv.String()
			if err != nil {
				return entry, formatCUEError(err)
			}
		}
		switch class {
		case "unary":
			entry.Class = ir.UnaryOp
		case "binary":
			entry.Class = ir.BinaryOp
		case "logical":
			entry.Class = ir.LogicalOp
		default:
			return entry, &TableError{
				Field:   fmt.Sprintf("%s.%s.operator.class", module, name),
				Message: fmt.Sprintf("unknown operator class %q", class),
				Pos:     cvPos(opVal),
			}
		}
	}

	if hVal := v.LookupPath(cue.ParsePath("helper")); hVal.Exists() {
		forms++
		entry.Kind = KindHelper
		selector, err := hVal.LookupPath(cue.ParsePath("selector")).String()
		if err != nil {
			return entry, formatCUEError(err)
		}
		entry.Selector = selector

		entry.Path = defaultPath
		if pv := hVal.LookupPath(cue.ParsePath("path")); pv.Exists() {
			entry.Path, err = pv.String()
			if err != nil {
				return entry, formatCUEError(err)
			}
		}
		if entry.Path == "" {
			return entry, &TableError{
				Field:   fmt.Sprintf("%s.%s.helper", module, name),
				Message: "helper needs a path, either inline or as the module default",
				Pos:     cvPos(hVal),
			}
		}
	}

	if iv := v.LookupPath(cue.ParsePath("identity")); iv.Exists() {
		forms++
		entry.Kind = KindIdentity
	}

	if forms != 1 {
		return entry, &TableError{
			Field:   fmt.Sprintf("%s.%s", module, name),
			Message: fmt.Sprintf("exactly one of operator, helper or identity required, found %d", forms),
			Pos:     cvPos(v),
		}
	}
	return entry, nil
}

func cvPos(v cue.Value) token.Pos { return v.Pos() }

// TableError reports a malformed replacement table with source
// position.
type TableError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *TableError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	firstErr := errs[0]
	positions := cueerrors.Positions(firstErr)
	if len(positions) > 0 {
		return &TableError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
