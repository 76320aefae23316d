// Package ast defines the statement tree the evaluator walks.
package ast

import (
	"fmt"
	"sort"

	"github.com/josephlewis42/elvi/core/vars"
)

// Action is a single statement. The concrete types form a closed set and the
// evaluator switches over all of them.
type Action interface {
	isAction()
}

// AssignVariable sets Name to Variable. A nil Variable.Value keeps the
// current value and only changes the variable's attributes, which is what
// `readonly x` does.
type AssignVariable struct {
	Name     string
	Variable vars.Variable
}

// Builtin runs one of the shell's intrinsic commands.
type Builtin struct {
	Kind BuiltinKind
	// Name is the name the builtin was invoked as, e.g. "[" for Test.
	Name string
	Args []vars.Value
}

// ExternalCommand runs a function or a program, Args[0] is its name.
type ExternalCommand struct {
	Args []vars.Value
}

// Conditional is a condition and the statements run when it succeeds.
type Conditional struct {
	Condition Action
	Then      []Action
}

// If runs the first branch whose condition succeeds, or Else. A nil Else
// means there was no else branch.
type If struct {
	Conditional
	Elifs []Conditional
	Else  []Action
}

// For runs Body once for each expanded item with Var set to it. If
// OverParams is set Items is ignored and the positional parameters are used.
type For struct {
	Var        string
	Items      []vars.Value
	OverParams bool
	Body       []Action
}

// While runs Body as long as Condition succeeds, or fails if Until is set.
type While struct {
	Condition Action
	Body      []Action
	Until     bool
}

// FunctionDefinition is a user defined function. A nil Body is the same as
// an empty one.
type FunctionDefinition struct {
	Name string
	Body []Action
}

// FunctionDeclaration registers a function.
type FunctionDeclaration struct {
	Function FunctionDefinition
}

// Subshell runs Body against a copy of the variables.
type Subshell struct {
	Body []Action
}

// BraceGroup runs Body against the caller's variables.
type BraceGroup struct {
	Body []Action
}

// AndOrOp is the operator joining an AndOr list.
type AndOrOp int

const (
	// And runs Right if Left succeeds.
	And AndOrOp = iota
	// Or runs Right if Left fails.
	Or
)

func (op AndOrOp) String() string {
	if op == And {
		return "&&"
	}
	return "||"
}

// AndOr runs Left and then conditionally Right.
type AndOr struct {
	Op    AndOrOp
	Left  Action
	Right Action
}

// Not inverts the status of Action.
type Not struct {
	Action Action
}

// Noop does nothing.
type Noop struct{}

func (*AssignVariable) isAction()      {}
func (*Builtin) isAction()             {}
func (*ExternalCommand) isAction()     {}
func (*If) isAction()                  {}
func (*For) isAction()                 {}
func (*While) isAction()               {}
func (*FunctionDeclaration) isAction() {}
func (*Subshell) isAction()            {}
func (*BraceGroup) isAction()          {}
func (*AndOr) isAction()               {}
func (*Not) isAction()                 {}
func (*Noop) isAction()                {}

// BuiltinKind identifies a builtin.
type BuiltinKind int

const (
	Cd BuiltinKind = iota
	Dbg
	Echo
	Exit
	Hash
	Shift
	Test
	Unset
)

var builtinNames = map[string]BuiltinKind{
	"cd":    Cd,
	"dbg":   Dbg,
	"echo":  Echo,
	"exit":  Exit,
	"hash":  Hash,
	"shift": Shift,
	"test":  Test,
	"[":     Test,
	"unset": Unset,
}

// LookupBuiltin finds the builtin invoked as name.
func LookupBuiltin(name string) (BuiltinKind, bool) {
	kind, ok := builtinNames[name]
	return kind, ok
}

// BuiltinNames returns every name a builtin can be invoked as, sorted.
func BuiltinNames() []string {
	var out []string
	for name := range builtinNames {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (k BuiltinKind) String() string {
	switch k {
	case Cd:
		return "cd"
	case Dbg:
		return "dbg"
	case Echo:
		return "echo"
	case Exit:
		return "exit"
	case Hash:
		return "hash"
	case Shift:
		return "shift"
	case Test:
		return "test"
	case Unset:
		return "unset"
	default:
		return fmt.Sprintf("BuiltinKind(%d)", int(k))
	}
}
