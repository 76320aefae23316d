package vars

import "fmt"

// Mutability controls whether a variable can be changed or removed.
type Mutability int

const (
	// Normal variables can be changed and unset.
	Normal Mutability = iota
	// Readonly variables reject writes and unset.
	Readonly
	// ReadonlyUnsettable is like Readonly, it's used internally for $?.
	ReadonlyUnsettable
)

// IsReadonly is true for both readonly variants.
func (m Mutability) IsReadonly() bool {
	return m == Readonly || m == ReadonlyUnsettable
}

func (m Mutability) String() string {
	switch m {
	case Normal:
		return "normal"
	case Readonly:
		return "readonly"
	case ReadonlyUnsettable:
		return "readonly-unsettable"
	default:
		return fmt.Sprintf("Mutability(%d)", int(m))
	}
}

// ScopeKind is the kind of visibility a variable has.
type ScopeKind int

const (
	// KindGlobal variables are exported to child processes.
	KindGlobal ScopeKind = iota
	// KindLocal variables are removed when the enclosing function returns.
	KindLocal
	// KindNested variables belong to a shell level.
	KindNested
)

// Scope is where a variable lives. The zero value is Global.
type Scope struct {
	Kind  ScopeKind
	Level uint32
}

// Global returns the exported scope.
func Global() Scope {
	return Scope{Kind: KindGlobal}
}

// Local returns the function-local scope.
func Local() Scope {
	return Scope{Kind: KindLocal}
}

// Nested returns the scope of the given shell level.
func Nested(level uint32) Scope {
	return Scope{Kind: KindNested, Level: level}
}

// IsGlobal is true for exported variables.
func (s Scope) IsGlobal() bool {
	return s.Kind == KindGlobal
}

func (s Scope) String() string {
	switch s.Kind {
	case KindGlobal:
		return "global"
	case KindLocal:
		return "local"
	default:
		return fmt.Sprintf("nested(%d)", s.Level)
	}
}

// Variable is a single named value in the store.
type Variable struct {
	Value      Value
	Mutability Mutability
	Scope      Scope

	// Line and Column hold where the variable was declared, 0 for variables
	// the shell created itself.
	Line   uint
	Column uint
}

// NewVariable creates a variable with the given value.
func NewVariable(value Value, mutability Mutability, scope Scope) Variable {
	return Variable{
		Value:      value,
		Mutability: mutability,
		Scope:      scope,
	}
}

// At sets the declaration site of the variable.
func (v Variable) At(line, column uint) Variable {
	v.Line = line
	v.Column = column
	return v
}

// String returns the textual form of the variable's value.
func (v Variable) String() string {
	if v.Value == nil {
		return ""
	}
	return v.Value.String()
}
