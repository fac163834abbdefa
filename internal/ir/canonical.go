package ir

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Canonical renders an expression as deterministic, line-oriented
// text. The rendering is the ONLY serialization used for fingerprint
// computation, and the form golden tests compare against.
//
// Properties:
//  1. One node per line, children indented two spaces
//  2. Strings NFC normalized before quoting
//  3. Floats formatted with strconv shortest round-trip form
//  4. Source ranges excluded, so equal trees render equally
//     regardless of provenance
func Canonical(e Expr) string {
	var p printer
	p.expr(e)
	return p.b.String()
}

// CanonicalFile renders a whole lowered file. Declarations render in
// order; used names render sorted.
func CanonicalFile(f *File) string {
	var p printer
	p.line("file %s", quoteStr(f.Root))
	p.indent++
	p.line("source %s", quoteStr(f.SourcePath))
	if f.OutputPath != "" {
		p.line("output %s", quoteStr(f.OutputPath))
	}
	if f.IsEntry {
		p.line("entry")
	}
	if len(f.UsedNames) > 0 {
		names := make([]string, 0, len(f.UsedNames))
		for n := range f.UsedNames {
			names = append(names, n)
		}
		sort.Strings(names)
		p.line("used %s", strings.Join(names, " "))
	}
	for _, d := range f.Decls {
		p.decl(d)
	}
	return p.b.String()
}

type printer struct {
	b      strings.Builder
	indent int
}

func (p *printer) line(format string, args ...any) {
	for i := 0; i < p.indent; i++ {
		p.b.WriteString("  ")
	}
	fmt.Fprintf(&p.b, format, args...)
	p.b.WriteByte('\n')
}

func (p *printer) child(e Expr) {
	p.indent++
	p.expr(e)
	p.indent--
}

func (p *printer) expr(e Expr) {
	switch v := e.(type) {
	case Const:
		p.line("const %s : %s", constRepr(v.Value), v.Typ)
	case IdentExpr:
		p.line("ident %s%s : %s", v.Ident.Name, mutSuffix(v.Ident.IsMutable), v.Ident.Typ)
	case This:
		p.line("this : %s", v.Typ)
	case Base:
		p.line("base : %s", v.Typ)
	case Lambda:
		p.line("lambda (%s) : %s", identList(v.Params), v.Typ)
		p.child(v.Body)
	case EntityRef:
		p.line("entityref %s : %s", v.FullName, v.Typ)
	case ImportRef:
		p.line("import %s from %s : %s", quoteStr(v.Selector), quoteStr(v.Path), v.Typ)
	case OperatorRef:
		p.line("op %s %s", opClassName(v.Class), quoteStr(v.Symbol))
	case Apply:
		p.line("apply %s : %s", applyKindName(v.Kind), v.Typ)
		p.indent++
		if v.Callee != nil {
			p.expr(v.Callee)
		} else {
			p.line("nocallee")
		}
		for _, a := range v.Args {
			p.expr(a)
		}
		p.indent--
	case Set:
		p.line("set")
		p.indent++
		p.expr(v.Callee)
		if v.Prop != nil {
			p.line("prop")
			p.child(v.Prop)
		}
		p.line("value")
		p.child(v.Value)
		p.indent--
	case Sequential:
		p.line("seq : %s", v.ExprType())
		p.indent++
		for _, x := range v.Exprs {
			p.expr(x)
		}
		p.indent--
	case IfThenElse:
		p.line("if : %s", v.Typ)
		p.child(v.Cond)
		p.child(v.Then)
		p.child(v.Else)
	case WhileLoop:
		p.line("while")
		p.child(v.Guard)
		p.child(v.Body)
	case ForLoop:
		dir := "down"
		if v.IsUp {
			dir = "up"
		}
		p.line("for %s %s", v.Var.Name, dir)
		p.child(v.Start)
		p.child(v.Limit)
		p.child(v.Body)
	case ForOfLoop:
		p.line("forof %s", v.Var.Name)
		p.child(v.Iterable)
		p.child(v.Body)
	case Switch:
		p.line("switch")
		p.indent++
		p.expr(v.Subject)
		for _, c := range v.Cases {
			p.line("case")
			p.indent++
			for _, t := range c.Tests {
				p.expr(t)
			}
			p.line("body")
			p.child(c.Body)
			p.indent--
		}
		if v.Default != nil {
			p.line("default")
			p.child(v.Default)
		}
		p.indent--
	case TryCatch:
		p.line("try : %s", v.Typ)
		p.child(v.Body)
		if v.Catch != nil {
			name := "_"
			if v.CatchVar != nil {
				name = v.CatchVar.Name
			}
			p.line("catch %s", name)
			p.child(v.Catch)
		}
		if v.Finalizer != nil {
			p.line("finally")
			p.child(v.Finalizer)
		}
	case ObjectExpr:
		p.line("object : %s", v.Typ)
		p.indent++
		if v.BaseCall != nil {
			p.line("basecall")
			p.child(v.BaseCall)
		}
		for _, m := range v.Members {
			p.line("member %s %s (%s)", memberKindName(m.Kind), quoteStr(m.Name), identList(m.Args))
			p.child(m.Body)
		}
		p.indent--
	case VarDecl:
		p.line("var %s%s", v.Var.Name, mutSuffix(v.IsMutable))
		p.child(v.Value)
	case Wrapped:
		p.line("wrapped : %s", v.Typ)
		p.child(v.Inner)
	case Quote:
		p.line("quote")
		p.child(v.Inner)
	default:
		p.line("unknown %T", e)
	}
}

func (p *printer) decl(d Decl) {
	switch v := d.(type) {
	case ActionDecl:
		p.line("action")
		p.child(v.Body)
	case MemberDecl:
		flags := ""
		if v.IsPublic {
			flags += " public"
		}
		if v.IsMutable {
			flags += " mutable"
		}
		if v.IsEntry {
			flags += " entry"
		}
		p.line("member %s %s (%s)%s : %s",
			memberKindName(v.Kind), v.FullName, identList(v.Args), flags, v.Typ)
		p.child(v.Body)
	case EntityDecl:
		p.line("entity %s %s style=%s", v.Entity.Kind, v.Entity.FullName, v.Entity.Style)
		p.indent++
		for _, c := range v.Entity.Cases {
			p.line("case %s arity=%d", quoteStr(c.OutputName()), c.Arity)
		}
		if len(v.Entity.FieldNames) > 0 {
			p.line("fields %s", strings.Join(v.Entity.FieldNames, " "))
		}
		if len(v.Entity.Interfaces) > 0 {
			p.line("implements %s", strings.Join(v.Entity.Interfaces, " "))
		}
		for _, m := range v.Members {
			p.decl(m)
		}
		p.indent--
	default:
		p.line("unknown-decl %T", d)
	}
}

func constRepr(v ConstValue) string {
	switch c := v.(type) {
	case UnitVal:
		return "unit"
	case NullVal:
		return "null"
	case BoolVal:
		return strconv.FormatBool(c.Val)
	case StringVal:
		return "str " + quoteStr(c.Val)
	case NumberVal:
		return "num " + c.Kind.String() + " " + formatNum(c.Val, c.Kind)
	case ArrayVal:
		parts := make([]string, len(c.Elems))
		for i, e := range c.Elems {
			parts[i] = constRepr(e)
		}
		return "bulk [" + strings.Join(parts, " ") + "]"
	}
	return fmt.Sprintf("unknown %T", v)
}

// formatNum prints integers without a fraction and floats in the
// shortest form that round-trips.
func formatNum(v float64, kind NumberKind) string {
	if kind.IsInteger() {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// quoteStr NFC-normalizes then quotes. Normalization here keeps two
// renderings of the same accented identifier from fingerprinting
// differently.
func quoteStr(s string) string {
	return strconv.Quote(norm.NFC.String(s))
}

func identList(ids []Ident) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.Name + mutSuffix(id.IsMutable)
	}
	return strings.Join(parts, " ")
}

func mutSuffix(mutable bool) string {
	if mutable {
		return "!"
	}
	return ""
}

func applyKindName(k ApplyKind) string {
	switch k {
	case ApplyCall:
		return "call"
	case ApplyConstruct:
		return "construct"
	case ApplyGet:
		return "get"
	}
	return "unknown"
}

func memberKindName(k MemberKind) string {
	switch k {
	case MemberMethod:
		return "method"
	case MemberGetter:
		return "getter"
	case MemberSetter:
		return "setter"
	case MemberConstructor:
		return "constructor"
	case MemberBinding:
		return "binding"
	}
	return "unknown"
}

func opClassName(c OpClass) string {
	switch c {
	case UnaryOp:
		return "unary"
	case BinaryOp:
		return "binary"
	case LogicalOp:
		return "logical"
	}
	return "unknown"
}
