// Package parse turns shell scripts into statement trees.
//
// Scripts are tokenized and parsed with mvdan.cc/sh, the resulting syntax
// tree is then narrowed down to the statements the evaluator supports.
package parse

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/josephlewis42/elvi/core/ast"
	"github.com/josephlewis42/elvi/core/status"
	"github.com/josephlewis42/elvi/core/vars"
	"mvdan.cc/sh/v3/syntax"
)

// SyntaxError is returned for scripts that can't be parsed or that use
// unsupported features.
type SyntaxError struct {
	File   string
	Line   uint
	Column uint
	Msg    string
}

var _ status.Error = (*SyntaxError)(nil)

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Msg)
}

// Status implements status.Error.
func (*SyntaxError) Status() status.Status { return status.Misuse }

// Parse reads a script from r. The name is used in error messages.
func Parse(r io.Reader, name string) ([]ast.Action, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	file, err := syntax.NewParser().Parse(bytes.NewReader(src), name)
	if err != nil {
		return nil, convertError(name, err)
	}

	c := &converter{name: name, src: string(src)}
	return c.stmts(file.Stmts)
}

// String parses a script held in memory.
func String(script, name string) ([]ast.Action, error) {
	return Parse(strings.NewReader(script), name)
}

func convertError(name string, err error) error {
	var parseErr syntax.ParseError
	if errors.As(err, &parseErr) {
		return &SyntaxError{File: name, Line: parseErr.Pos.Line(), Column: parseErr.Pos.Col(), Msg: parseErr.Text}
	}

	var langErr syntax.LangError
	if errors.As(err, &langErr) {
		return &SyntaxError{
			File:   name,
			Line:   langErr.Pos.Line(),
			Column: langErr.Pos.Col(),
			Msg:    fmt.Sprintf("%s is not supported", langErr.Feature),
		}
	}

	return &SyntaxError{File: name, Msg: err.Error()}
}

type converter struct {
	name string
	src  string
}

func (c *converter) unsupported(node syntax.Node, what string) error {
	pos := node.Pos()
	return &SyntaxError{
		File:   c.name,
		Line:   pos.Line(),
		Column: pos.Col(),
		Msg:    fmt.Sprintf("%s are not supported", what),
	}
}

func (c *converter) stmts(stmts []*syntax.Stmt) ([]ast.Action, error) {
	out := make([]ast.Action, 0, len(stmts))
	for _, stmt := range stmts {
		action, err := c.stmt(stmt)
		if err != nil {
			return nil, err
		}
		out = append(out, action)
	}
	return out, nil
}

func (c *converter) stmt(stmt *syntax.Stmt) (ast.Action, error) {
	switch {
	case stmt.Background || stmt.Coprocess:
		return nil, c.unsupported(stmt, "background jobs")
	case len(stmt.Redirs) > 0:
		return nil, c.unsupported(stmt.Redirs[0], "redirections")
	}

	var action ast.Action = &ast.Noop{}
	if stmt.Cmd != nil {
		var err error
		if action, err = c.command(stmt.Cmd); err != nil {
			return nil, err
		}
	}

	if stmt.Negated {
		action = &ast.Not{Action: action}
	}
	return action, nil
}

// group turns a list of statements into a single action.
func (c *converter) group(stmts []*syntax.Stmt) (ast.Action, error) {
	actions, err := c.stmts(stmts)
	if err != nil {
		return nil, err
	}
	switch len(actions) {
	case 0:
		return &ast.Noop{}, nil
	case 1:
		return actions[0], nil
	default:
		return &ast.BraceGroup{Body: actions}, nil
	}
}

func (c *converter) command(cmd syntax.Command) (ast.Action, error) {
	switch cmd := cmd.(type) {
	case *syntax.CallExpr:
		return c.call(cmd)

	case *syntax.DeclClause:
		return c.decl(cmd, cmd.Variant.Value, cmd.Args)

	case *syntax.IfClause:
		return c.ifClause(cmd)

	case *syntax.WhileClause:
		cond, err := c.group(cmd.Cond)
		if err != nil {
			return nil, err
		}
		body, err := c.stmts(cmd.Do)
		if err != nil {
			return nil, err
		}
		return &ast.While{Condition: cond, Body: body, Until: cmd.Until}, nil

	case *syntax.ForClause:
		return c.forClause(cmd)

	case *syntax.FuncDecl:
		return c.funcDecl(cmd)

	case *syntax.Block:
		body, err := c.stmts(cmd.Stmts)
		if err != nil {
			return nil, err
		}
		return &ast.BraceGroup{Body: body}, nil

	case *syntax.Subshell:
		body, err := c.stmts(cmd.Stmts)
		if err != nil {
			return nil, err
		}
		return &ast.Subshell{Body: body}, nil

	case *syntax.BinaryCmd:
		var op ast.AndOrOp
		switch cmd.Op {
		case syntax.AndStmt:
			op = ast.And
		case syntax.OrStmt:
			op = ast.Or
		default:
			return nil, c.unsupported(cmd, "pipelines")
		}

		left, err := c.stmt(cmd.X)
		if err != nil {
			return nil, err
		}
		right, err := c.stmt(cmd.Y)
		if err != nil {
			return nil, err
		}
		return &ast.AndOr{Op: op, Left: left, Right: right}, nil

	case *syntax.CaseClause:
		return nil, c.unsupported(cmd, "case statements")
	case *syntax.ArithmCmd:
		return nil, c.unsupported(cmd, "arithmetic commands")
	case *syntax.TestClause:
		return nil, c.unsupported(cmd, "[[ ]] tests")
	default:
		return nil, c.unsupported(cmd, fmt.Sprintf("%T commands", cmd))
	}
}

func (c *converter) call(cmd *syntax.CallExpr) (ast.Action, error) {
	if len(cmd.Args) == 0 {
		var out []ast.Action
		for _, assign := range cmd.Assigns {
			action, err := c.assign(assign, vars.Normal, vars.Nested(0))
			if err != nil {
				return nil, err
			}
			out = append(out, action)
		}
		if len(out) == 1 {
			return out[0], nil
		}
		return &ast.BraceGroup{Body: out}, nil
	}

	if len(cmd.Assigns) > 0 {
		return nil, c.unsupported(cmd.Assigns[0], "command prefix assignments")
	}

	name := cmd.Args[0].Lit()
	args, err := c.words(cmd.Args)
	if err != nil {
		return nil, err
	}

	if kind, ok := ast.LookupBuiltin(name); ok {
		return &ast.Builtin{Kind: kind, Name: name, Args: args[1:]}, nil
	}
	return &ast.ExternalCommand{Args: args}, nil
}

func (c *converter) decl(node syntax.Node, variant string, assigns []*syntax.Assign) (ast.Action, error) {
	var mutability vars.Mutability
	var scope vars.Scope
	switch variant {
	case "readonly":
		mutability, scope = vars.Readonly, vars.Nested(0)
	case "export":
		mutability, scope = vars.Normal, vars.Global()
	case "local":
		mutability, scope = vars.Normal, vars.Local()
	default:
		return nil, c.unsupported(node, variant+" declarations")
	}

	out := make([]ast.Action, 0, len(assigns))
	for _, assign := range assigns {
		action, err := c.assign(assign, mutability, scope)
		if err != nil {
			return nil, err
		}
		out = append(out, action)
	}

	switch len(out) {
	case 0:
		return &ast.Noop{}, nil
	case 1:
		return out[0], nil
	default:
		return &ast.BraceGroup{Body: out}, nil
	}
}

func (c *converter) assign(assign *syntax.Assign, mutability vars.Mutability, scope vars.Scope) (ast.Action, error) {
	switch {
	case assign.Append:
		return nil, c.unsupported(assign, "appending assignments")
	case assign.Array != nil || assign.Index != nil:
		return nil, c.unsupported(assign, "arrays")
	case assign.Name == nil:
		return nil, c.unsupported(assign, "dynamic declarations")
	}

	variable := vars.NewVariable(nil, mutability, scope).At(assign.Pos().Line(), assign.Pos().Col())
	switch {
	case assign.Naked:
		// Keep the current value.
	case assign.Value == nil:
		variable.Value = vars.PlainString("")
	default:
		value, err := c.word(assign.Value)
		if err != nil {
			return nil, err
		}
		variable.Value = value
	}

	return &ast.AssignVariable{Name: assign.Name.Value, Variable: variable}, nil
}

func (c *converter) ifClause(clause *syntax.IfClause) (ast.Action, error) {
	cond, err := c.conditional(clause)
	if err != nil {
		return nil, err
	}
	out := &ast.If{Conditional: cond}

	for next := clause.Else; next != nil; next = next.Else {
		if len(next.Cond) == 0 {
			body, err := c.stmts(next.Then)
			if err != nil {
				return nil, err
			}
			out.Else = body
			break
		}

		elif, err := c.conditional(next)
		if err != nil {
			return nil, err
		}
		out.Elifs = append(out.Elifs, elif)
	}

	return out, nil
}

func (c *converter) conditional(clause *syntax.IfClause) (ast.Conditional, error) {
	cond, err := c.group(clause.Cond)
	if err != nil {
		return ast.Conditional{}, err
	}
	then, err := c.stmts(clause.Then)
	if err != nil {
		return ast.Conditional{}, err
	}
	return ast.Conditional{Condition: cond, Then: then}, nil
}

func (c *converter) forClause(clause *syntax.ForClause) (ast.Action, error) {
	iter, ok := clause.Loop.(*syntax.WordIter)
	if !ok {
		return nil, c.unsupported(clause, "C-style for loops")
	}

	body, err := c.stmts(clause.Do)
	if err != nil {
		return nil, err
	}

	loop := &ast.For{Var: iter.Name.Value, Body: body}
	if !iter.InPos.IsValid() {
		loop.OverParams = true
		return loop, nil
	}

	if loop.Items, err = c.words(iter.Items); err != nil {
		return nil, err
	}
	return loop, nil
}

func (c *converter) funcDecl(decl *syntax.FuncDecl) (ast.Action, error) {
	fn := ast.FunctionDefinition{Name: decl.Name.Value}

	if decl.Body != nil {
		if block, ok := decl.Body.Cmd.(*syntax.Block); ok && len(decl.Body.Redirs) == 0 {
			body, err := c.stmts(block.Stmts)
			if err != nil {
				return nil, err
			}
			fn.Body = body
		} else {
			action, err := c.stmt(decl.Body)
			if err != nil {
				return nil, err
			}
			fn.Body = []ast.Action{action}
		}
	}

	return &ast.FunctionDeclaration{Function: fn}, nil
}
