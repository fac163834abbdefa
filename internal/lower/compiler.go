package lower

import (
	"errors"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/johngalambos/Fable/internal/config"
	"github.com/johngalambos/Fable/internal/diag"
	"github.com/johngalambos/Fable/internal/fsast"
	"github.com/johngalambos/Fable/internal/ir"
	"github.com/johngalambos/Fable/internal/replace"
	"github.com/johngalambos/Fable/internal/source"
)

// Runtime library modules helper rewrites import from.
const (
	libUtil   = "./fable-library/Util.js"
	libOption = "./fable-library/Option.js"
	libList   = "./fable-library/List.js"
	libDate   = "./fable-library/Date.js"
	libArray  = "./fable-library/Array.js"
)

// Compiler lowers one file at a time. Per-file state (used names,
// warnings, fresh-name counters) resets on each CompileFile call;
// cross-file caches live in the shared State.
type Compiler struct {
	state    *State
	opts     config.Options
	resolver *replace.Resolver

	filePath string
	rootName string

	usedNames map[string]struct{}
	nameSeq   map[string]int
	warnings  []diag.Warning

	// inlineStack tracks active inline expansions for cycle and
	// depth enforcement.
	inlineStack []string
}

// NewCompiler builds a compiler over the shared state. A nil state
// gets a private one, useful for single-file lowering in tests.
func NewCompiler(state *State, opts config.Options) *Compiler {
	if state == nil {
		state = NewState()
	}
	return &Compiler{
		state:    state,
		opts:     opts,
		resolver: replace.NewResolver(replace.MustBuiltins()),
	}
}

// SetResolver swaps the replacement resolver, keeping the built-in
// table available through replace.MustBuiltins for extension.
func (c *Compiler) SetResolver(r *replace.Resolver) {
	c.resolver = r
}

// Warnings returns the advisories collected by the last CompileFile.
func (c *Compiler) Warnings() []diag.Warning {
	return c.warnings
}

// CompileFile lowers a front-end file into an IR file. A fatal
// diagnostic aborts this file only; the shared caches stay valid for
// the rest of the batch.
func (c *Compiler) CompileFile(f *fsast.File, isEntry bool) (*ir.File, error) {
	c.filePath = f.SourcePath
	c.rootName = f.RootFullName
	c.usedNames = make(map[string]struct{})
	c.nameSeq = make(map[string]int)
	c.warnings = nil
	c.inlineStack = nil

	decls, err := c.aggregate(f.Decls)
	if err != nil {
		return nil, c.attach(err)
	}

	out := &ir.File{
		SourcePath: f.SourcePath,
		OutputPath: c.outputPath(f.SourcePath),
		Root:       f.RootFullName,
		Decls:      decls,
		UsedNames:  c.usedNames,
		IsEntry:    isEntry,
	}
	if m := c.state.FileMap(); m != nil {
		if err := m.Record(f.SourcePath, FileInfo{OutputPath: out.OutputPath, RootName: out.Root}); err != nil {
			return nil, c.attach(err)
		}
	}
	return out, nil
}

// attach stamps the current file path onto fatal diagnostics that
// lack one.
func (c *Compiler) attach(err error) error {
	var de *diag.Error
	if errors.As(err, &de) && de.File == "" {
		return de.In(c.filePath)
	}
	return err
}

func (c *Compiler) outputPath(sourcePath string) string {
	if m := c.state.FileMap(); m != nil {
		if info, ok := m.Lookup(sourcePath); ok && info.OutputPath != "" {
			return info.OutputPath
		}
	}
	ext := c.opts.FileExtension
	if ext == "" {
		ext = config.Default().FileExtension
	}
	return strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath)) + ext
}

// freshName returns an identifier unused in this file, registering
// it. Collisions append a numeric suffix.
func (c *Compiler) freshName(prefix string) string {
	if prefix == "" {
		prefix = "x"
	}
	for {
		n := c.nameSeq[prefix]
		c.nameSeq[prefix] = n + 1
		name := prefix
		if n > 0 {
			name = prefix + "_" + strconv.Itoa(n)
		}
		if _, taken := c.usedNames[name]; !taken {
			c.usedNames[name] = struct{}{}
			return name
		}
	}
}

// bindVal allocates an output ident for a front-end value and binds
// it in the context.
func (c *Compiler) bindVal(ctx Context, v *fsast.Val) (Context, ir.Ident) {
	id := ir.Ident{
		Name:      c.freshName(sanitizeName(v.Name)),
		Typ:       c.lowerType(ctx, v.Type),
		IsMutable: v.IsMutable,
	}
	return ctx.Bind(v, ir.IdentExpr{Loc: rangePtr(v.Range), Ident: id}), id
}

// bindVals binds several values left to right, later names seeing
// earlier ones for collision purposes only.
func (c *Compiler) bindVals(ctx Context, vals []*fsast.Val) (Context, []ir.Ident) {
	ids := make([]ir.Ident, len(vals))
	for i, v := range vals {
		ctx, ids[i] = c.bindVal(ctx, v)
	}
	return ctx, ids
}

func (c *Compiler) warnAt(code diag.Code, r source.Range, format string, args ...any) {
	w := diag.Warn(code, format, args...)
	w.File = c.filePath
	if !r.IsZero() {
		w.Range = &r
	}
	c.warnings = append(c.warnings, w)
}

// jsKeywords are output-language names an identifier may not take.
var jsKeywords = map[string]struct{}{
	"break": {}, "case": {}, "catch": {}, "class": {}, "const": {},
	"continue": {}, "debugger": {}, "default": {}, "delete": {}, "do": {},
	"else": {}, "enum": {}, "export": {}, "extends": {}, "false": {},
	"finally": {}, "for": {}, "function": {}, "if": {}, "import": {},
	"in": {}, "instanceof": {}, "new": {}, "null": {}, "return": {},
	"super": {}, "switch": {}, "this": {}, "throw": {}, "true": {},
	"try": {}, "typeof": {}, "var": {}, "void": {}, "while": {},
	"with": {}, "yield": {}, "arguments": {}, "eval": {},
}

// sanitizeName rewrites a source identifier into a legal output
// identifier. Quoted F# names may carry arbitrary characters.
func sanitizeName(name string) string {
	if name == "" {
		return "x"
	}
	var b strings.Builder
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == '$':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := b.String()
	if _, reserved := jsKeywords[out]; reserved {
		out = out + "$"
	}
	return out
}
