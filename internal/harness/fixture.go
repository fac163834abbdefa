package harness

import (
	"fmt"
	"sort"

	"github.com/johngalambos/Fable/internal/fsast"
)

// Fixture is a named front-end declaration set the harness lowers on
// demand. Build returns a fresh tree on every call so scenarios never
// share node identity; decision targets and inline caches key on
// pointers.
type Fixture struct {
	Name        string
	Description string
	Build       func() *fsast.File
}

var fixtures = map[string]Fixture{}

// Register adds a fixture to the registry. Names are package-level
// constants, not user input; a duplicate is a programming error.
func Register(f Fixture) {
	if f.Name == "" || f.Build == nil {
		panic("harness: fixture needs a name and a build function")
	}
	if _, exists := fixtures[f.Name]; exists {
		panic(fmt.Sprintf("harness: fixture %q registered twice", f.Name))
	}
	fixtures[f.Name] = f
}

// Lookup resolves a registered fixture by name.
func Lookup(name string) (Fixture, bool) {
	f, ok := fixtures[name]
	return f, ok
}

// Names returns the registered fixture names sorted.
func Names() []string {
	out := make([]string, 0, len(fixtures))
	for n := range fixtures {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func init() {
	Register(Fixture{
		Name:        "pipeline-basics",
		Description: "module functions over conditionals and tuples",
		Build:       pipelineBasics,
	})
	Register(Fixture{
		Name:        "option-fallback",
		Description: "option match lowering to a null test with inline leaves",
		Build:       optionFallback,
	})
	Register(Fixture{
		Name:        "shape-records",
		Description: "record entity with derived constructor and structural members",
		Build:       shapeRecords,
	})
	Register(Fixture{
		Name:        "duplicate-name",
		Description: "two public bindings claiming one top-level name",
		Build:       duplicateName,
	})
}

// --- tree construction helpers ---

func intType() fsast.Type  { return fsast.EntityType(fsast.SysInt32, nil) }
func boolType() fsast.Type { return fsast.EntityType(fsast.SysBool, nil) }

func optionType(elem fsast.Type) fsast.Type {
	return fsast.EntityType(fsast.SysOption, nil, elem)
}

func local(name string, t fsast.Type) *fsast.Val {
	return &fsast.Val{Name: name, Type: t}
}

func use(v *fsast.Val) fsast.ValueRef {
	return fsast.ValueRef{Typ: v.Type, Val: v}
}

func moduleFunc(root, name string, args []*fsast.Val, body fsast.Expr) fsast.MemberDecl {
	params := make([]fsast.Type, len(args))
	for i, a := range args {
		params[i] = a.Type
	}
	return fsast.MemberDecl{
		Member: &fsast.Member{
			Name:                    name,
			FullName:                root + "." + name,
			DeclaringEntityFullName: root,
			IsPublic:                true,
			ParamTypes:              params,
			ReturnType:              body.NodeType(),
		},
		Args: args,
		Body: body,
	}
}

// --- built-in fixtures ---

// pipelineBasics is two module functions with no replacement or
// entity involvement: a conditional select and a tuple literal.
func pipelineBasics() *fsast.File {
	flag := local("flag", boolType())
	x := local("x", intType())
	y := local("y", intType())
	choose := moduleFunc("Pipeline", "choose", []*fsast.Val{flag, x, y}, fsast.IfThenElse{
		Typ:  intType(),
		Cond: use(flag),
		Then: use(x),
		Else: use(y),
	})

	n := local("n", intType())
	pair := moduleFunc("Pipeline", "pair", []*fsast.Val{n}, fsast.NewTuple{
		Typ:  fsast.TupleType(intType(), intType()),
		Args: []fsast.Expr{use(n), use(n)},
	})

	return &fsast.File{
		SourcePath:   "src/Pipeline.fs",
		RootFullName: "Pipeline",
		Decls:        []fsast.Decl{choose, pair},
	}
}

// optionFallback matches an int option: Some binds its payload once,
// None falls back to a default. Both leaves are single-reference, so
// the decision inlines them without closures.
func optionFallback() *fsast.File {
	opt := local("opt", optionType(intType()))
	dflt := local("dflt", intType())
	v := local("v", intType())

	some := &fsast.UnionCase{
		Name:   "Some",
		Fields: []*fsast.Field{{Name: "Value", Type: intType()}},
	}

	tree := fsast.DecisionTree{
		Typ: intType(),
		Decision: fsast.IfThenElse{
			Typ:  intType(),
			Cond: fsast.UnionTest{Typ: boolType(), Operand: use(opt), Case: some},
			Then: fsast.Success{Typ: intType(), Index: 0, Bound: []fsast.Expr{
				fsast.UnionGet{Typ: intType(), Operand: use(opt), Case: some, Field: some.Fields[0]},
			}},
			Else: fsast.Success{Typ: intType(), Index: 1},
		},
		Targets: []fsast.DecisionTarget{
			{Bound: []*fsast.Val{v}, Body: use(v)},
			{Body: use(dflt)},
		},
	}

	return &fsast.File{
		SourcePath:   "src/Options.fs",
		RootFullName: "Options",
		Decls: []fsast.Decl{
			moduleFunc("Options", "fallback", []*fsast.Val{opt, dflt}, tree),
		},
	}
}

// shapeRecords declares a record entity and a module function
// constructing it, so lowering derives the record's constructor,
// accessors and structural equality members.
func shapeRecords() *fsast.File {
	point := &fsast.Entity{
		FullName: "Shapes.Point",
		Name:     "Point",
		IsRecord: true,
		IsPublic: true,
		Fields: []*fsast.Field{
			{Name: "x", Type: intType()},
			{Name: "y", Type: intType()},
		},
	}
	pointType := fsast.EntityType(point.FullName, point)

	zero := fsast.Const{Typ: intType(), Value: int64(0)}
	u := local("unitVar", fsast.UnitType())
	origin := moduleFunc("Shapes", "origin", []*fsast.Val{u}, fsast.NewRecord{
		Typ:  pointType,
		Args: []fsast.Expr{zero, zero},
	})

	return &fsast.File{
		SourcePath:   "src/Shapes.fs",
		RootFullName: "Shapes",
		Decls: []fsast.Decl{
			fsast.EntityDecl{Entity: point},
			origin,
		},
	}
}

// duplicateName declares the same public name twice at the top level.
// Lowering must reject the file before any output exists.
func duplicateName() *fsast.File {
	answer := func() fsast.MemberDecl {
		return moduleFunc("Dup", "answer", nil, fsast.Const{Typ: intType(), Value: int64(42)})
	}
	return &fsast.File{
		SourcePath:   "src/Dup.fs",
		RootFullName: "Dup",
		Decls:        []fsast.Decl{answer(), answer()},
	}
}
