package ir

import "fmt"

// Validation error codes (V100-V199)
const (
	// Expression shape errors (V100-V109)
	ErrUnknownNode     = "V100" // unrecognized expression variant
	ErrNilExpr         = "V101" // nil expression in a required position
	ErrMissingElse     = "V102" // conditional without an else branch
	ErrBadConstruct    = "V103" // structural construct with non-structural type
	ErrEmptySwitch     = "V104" // switch with no cases and no default
	ErrBareTry         = "V105" // try with neither catch nor finalizer
	ErrDuplicateParam  = "V106" // duplicate parameter name
	ErrOperatorArity   = "V107" // operand count does not fit operator class
	ErrEmptySequential = "V108" // sequential with no expressions

	// Declaration shape errors (V110-V119)
	ErrNilBody        = "V110" // member declaration without a body
	ErrNilEntity      = "V111" // entity declaration without an entity
	ErrErasedArity    = "V112" // erased union case carrying several fields
	ErrEmptyRoot      = "V113" // file without a root name
	ErrCaseFieldCount = "V114" // negative case arity
)

// ValidationError reports one IR well-formedness violation.
type ValidationError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Path, e.Message)
}

// ValidateFile checks a lowered file for shape violations the emitter
// cannot tolerate. Returns all errors found (does not fail-fast).
func ValidateFile(f *File) []ValidationError {
	var errs []ValidationError
	if f.Root == "" {
		errs = append(errs, ValidationError{
			Path:    "root",
			Message: "file root name is required",
			Code:    ErrEmptyRoot,
		})
	}
	for i, d := range f.Decls {
		errs = append(errs, validateDecl(d, fmt.Sprintf("decls[%d]", i))...)
	}
	return errs
}

// ValidateExpr checks one expression tree.
func ValidateExpr(e Expr) []ValidationError {
	return validateExpr(e, "expr")
}

func validateDecl(d Decl, path string) []ValidationError {
	var errs []ValidationError
	switch v := d.(type) {
	case ActionDecl:
		errs = append(errs, validateExpr(v.Body, path+".body")...)
	case MemberDecl:
		if v.Body == nil {
			errs = append(errs, ValidationError{
				Path:    path + ".body",
				Message: fmt.Sprintf("member %q has no body", v.FullName),
				Code:    ErrNilBody,
			})
		} else {
			errs = append(errs, validateExpr(v.Body, path+".body")...)
		}
		errs = append(errs, checkParams(v.Args, path+".args")...)
	case EntityDecl:
		if v.Entity == nil {
			errs = append(errs, ValidationError{
				Path:    path + ".entity",
				Message: "entity declaration carries no entity",
				Code:    ErrNilEntity,
			})
			return errs
		}
		errs = append(errs, validateEntity(v.Entity, path)...)
		for i, m := range v.Members {
			errs = append(errs, validateDecl(m, fmt.Sprintf("%s.members[%d]", path, i))...)
		}
	default:
		errs = append(errs, ValidationError{
			Path:    path,
			Message: fmt.Sprintf("unrecognized declaration %T", d),
			Code:    ErrUnknownNode,
		})
	}
	return errs
}

func validateEntity(e *Entity, path string) []ValidationError {
	var errs []ValidationError
	for i, c := range e.Cases {
		if c.Arity < 0 {
			errs = append(errs, ValidationError{
				Path:    fmt.Sprintf("%s.cases[%d]", path, i),
				Message: fmt.Sprintf("case %q has negative arity %d", c.Name, c.Arity),
				Code:    ErrCaseFieldCount,
			})
		}
		if e.Style == StyleErased && c.Arity > 1 {
			errs = append(errs, ValidationError{
				Path:    fmt.Sprintf("%s.cases[%d]", path, i),
				Message: fmt.Sprintf("erased union case %q carries %d fields, at most one allowed", c.Name, c.Arity),
				Code:    ErrErasedArity,
			})
		}
	}
	return errs
}

func validateExpr(e Expr, path string) []ValidationError {
	var errs []ValidationError
	if e == nil {
		return []ValidationError{{
			Path:    path,
			Message: "nil expression",
			Code:    ErrNilExpr,
		}}
	}
	switch v := e.(type) {
	case Const, IdentExpr, This, Base, EntityRef, ImportRef, OperatorRef:
		// leaves
	case Lambda:
		errs = append(errs, checkParams(v.Params, path+".params")...)
		errs = append(errs, validateExpr(v.Body, path+".body")...)
	case Apply:
		if v.Callee == nil && v.Kind != ApplyConstruct {
			errs = append(errs, ValidationError{
				Path:    path + ".callee",
				Message: "only structural construction may omit the callee",
				Code:    ErrNilExpr,
			})
		}
		if v.Callee == nil && v.Kind == ApplyConstruct {
			k := v.Typ.Kind
			if k != TypeArray && k != TypeTuple && k != TypeList {
				errs = append(errs, ValidationError{
					Path:    path,
					Message: fmt.Sprintf("structural construct typed %s, want array, tuple or list", v.Typ),
					Code:    ErrBadConstruct,
				})
			}
		}
		if op, ok := v.Callee.(OperatorRef); ok {
			want := 2
			if op.Class == UnaryOp {
				want = 1
			}
			if len(v.Args) != want {
				errs = append(errs, ValidationError{
					Path:    path,
					Message: fmt.Sprintf("operator %q given %d operands, want %d", op.Symbol, len(v.Args), want),
					Code:    ErrOperatorArity,
				})
			}
		}
		if v.Callee != nil {
			errs = append(errs, validateExpr(v.Callee, path+".callee")...)
		}
		for i, a := range v.Args {
			errs = append(errs, validateExpr(a, fmt.Sprintf("%s.args[%d]", path, i))...)
		}
	case Set:
		errs = append(errs, validateExpr(v.Callee, path+".callee")...)
		if v.Prop != nil {
			errs = append(errs, validateExpr(v.Prop, path+".prop")...)
		}
		errs = append(errs, validateExpr(v.Value, path+".value")...)
	case Sequential:
		if len(v.Exprs) == 0 {
			errs = append(errs, ValidationError{
				Path:    path,
				Message: "sequential with no expressions",
				Code:    ErrEmptySequential,
			})
		}
		for i, x := range v.Exprs {
			errs = append(errs, validateExpr(x, fmt.Sprintf("%s[%d]", path, i))...)
		}
	case IfThenElse:
		errs = append(errs, validateExpr(v.Cond, path+".cond")...)
		errs = append(errs, validateExpr(v.Then, path+".then")...)
		if v.Else == nil {
			errs = append(errs, ValidationError{
				Path:    path + ".else",
				Message: "conditional requires an else branch, lower unit to a unit constant",
				Code:    ErrMissingElse,
			})
		} else {
			errs = append(errs, validateExpr(v.Else, path+".else")...)
		}
	case WhileLoop:
		errs = append(errs, validateExpr(v.Guard, path+".guard")...)
		errs = append(errs, validateExpr(v.Body, path+".body")...)
	case ForLoop:
		errs = append(errs, validateExpr(v.Start, path+".start")...)
		errs = append(errs, validateExpr(v.Limit, path+".limit")...)
		errs = append(errs, validateExpr(v.Body, path+".body")...)
	case ForOfLoop:
		errs = append(errs, validateExpr(v.Iterable, path+".iterable")...)
		errs = append(errs, validateExpr(v.Body, path+".body")...)
	case Switch:
		errs = append(errs, validateExpr(v.Subject, path+".subject")...)
		if len(v.Cases) == 0 && v.Default == nil {
			errs = append(errs, ValidationError{
				Path:    path,
				Message: "switch with no cases and no default",
				Code:    ErrEmptySwitch,
			})
		}
		for i, c := range v.Cases {
			for j, t := range c.Tests {
				errs = append(errs, validateExpr(t, fmt.Sprintf("%s.cases[%d].tests[%d]", path, i, j))...)
			}
			errs = append(errs, validateExpr(c.Body, fmt.Sprintf("%s.cases[%d].body", path, i))...)
		}
		if v.Default != nil {
			errs = append(errs, validateExpr(v.Default, path+".default")...)
		}
	case TryCatch:
		errs = append(errs, validateExpr(v.Body, path+".body")...)
		if v.Catch == nil && v.Finalizer == nil {
			errs = append(errs, ValidationError{
				Path:    path,
				Message: "try requires a catch or a finalizer",
				Code:    ErrBareTry,
			})
		}
		if v.Catch != nil {
			errs = append(errs, validateExpr(v.Catch, path+".catch")...)
		}
		if v.Finalizer != nil {
			errs = append(errs, validateExpr(v.Finalizer, path+".finally")...)
		}
	case ObjectExpr:
		if v.BaseCall != nil {
			errs = append(errs, validateExpr(v.BaseCall, path+".basecall")...)
		}
		for i, m := range v.Members {
			errs = append(errs, checkParams(m.Args, fmt.Sprintf("%s.members[%d].args", path, i))...)
			errs = append(errs, validateExpr(m.Body, fmt.Sprintf("%s.members[%d].body", path, i))...)
		}
	case VarDecl:
		errs = append(errs, validateExpr(v.Value, path+".value")...)
	case Wrapped:
		errs = append(errs, validateExpr(v.Inner, path+".inner")...)
	case Quote:
		errs = append(errs, validateExpr(v.Inner, path+".inner")...)
	default:
		errs = append(errs, ValidationError{
			Path:    path,
			Message: fmt.Sprintf("unrecognized expression %T", e),
			Code:    ErrUnknownNode,
		})
	}
	return errs
}

func checkParams(ids []Ident, path string) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool, len(ids))
	for i, id := range ids {
		if seen[id.Name] {
			errs = append(errs, ValidationError{
				Path:    fmt.Sprintf("%s[%d]", path, i),
				Message: fmt.Sprintf("duplicate parameter name %q", id.Name),
				Code:    ErrDuplicateParam,
			})
		}
		seen[id.Name] = true
	}
	return errs
}
