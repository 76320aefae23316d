package eval

import (
	"errors"
	"fmt"

	"github.com/josephlewis42/elvi/core/ast"
	"github.com/josephlewis42/elvi/core/status"
	"github.com/josephlewis42/elvi/core/vars"
)

// runAll runs actions in order, $? holds each one's status in turn. A
// non-nil error is always an *ExitError.
func (s *Shell) runAll(actions []ast.Action) (status.Status, error) {
	code := status.Success
	for _, action := range actions {
		var err error
		code, err = s.eval(action)
		if err != nil {
			return code, err
		}
		s.Vars.SetStatus(code)
	}
	return code, nil
}

func (s *Shell) eval(action ast.Action) (status.Status, error) {
	s.Log.Printf("level %d: %T", s.level, action)

	switch a := action.(type) {
	case *ast.AssignVariable:
		return s.assign(a)
	case *ast.Builtin:
		return s.builtin(a)
	case *ast.ExternalCommand:
		return s.external(a)
	case *ast.If:
		return s.ifClause(a)
	case *ast.For:
		return s.forLoop(a)
	case *ast.While:
		return s.whileLoop(a)
	case *ast.FunctionDeclaration:
		s.Registry.Register(a.Function)
		return status.Success, nil
	case *ast.Subshell:
		return s.subshell(s.fork(), a.Body)
	case *ast.BraceGroup:
		return s.runAll(a.Body)
	case *ast.AndOr:
		return s.andOr(a)
	case *ast.Not:
		code, err := s.eval(a.Action)
		return code.Invert(), err
	case *ast.Noop:
		return status.Success, nil
	default:
		return s.report(fmt.Errorf("unknown action %T", action)), nil
	}
}

// condition runs a test and records its status in $?.
func (s *Shell) condition(action ast.Action) (bool, error) {
	code, err := s.eval(action)
	if err != nil {
		return false, err
	}
	s.Vars.SetStatus(code)
	return code.OK(), nil
}

func (s *Shell) assign(a *ast.AssignVariable) (status.Status, error) {
	v := a.Variable

	switch v.Scope.Kind {
	case vars.KindLocal:
		if !s.inFunction {
			return s.report(errors.New("local: not in a function")), nil
		}
	case vars.KindNested:
		v.Scope = vars.Nested(s.level)
	}

	if v.Value == nil {
		// Declarations without a value only change attributes.
		existing, ok := s.Vars.Lookup(a.Name)
		switch {
		case !ok:
			v.Value = vars.PlainString("")
		case existing.Mutability.IsReadonly():
			return status.Success, nil
		default:
			v.Value = existing.Value
			if a.Variable.Scope.Kind == vars.KindNested {
				v.Scope = existing.Scope
			}
		}
	} else {
		value, err := s.resolve(v.Value)
		if err != nil {
			return status.Failure, err
		}
		v.Value = value
	}

	return s.set(a.Name, v)
}

// set stores a variable, writing to a readonly variable stops the shell.
func (s *Shell) set(name string, v vars.Variable) (status.Status, error) {
	if err := s.Vars.Set(name, v); err != nil {
		code := s.report(err)
		return code, &ExitError{Code: code, Fatal: true}
	}
	return status.Success, nil
}

func (s *Shell) ifClause(a *ast.If) (status.Status, error) {
	branches := append([]ast.Conditional{a.Conditional}, a.Elifs...)
	for _, branch := range branches {
		ok, err := s.condition(branch.Condition)
		if err != nil {
			return status.Failure, err
		}
		if ok {
			return s.runAll(branch.Then)
		}
	}

	if a.Else != nil {
		return s.runAll(a.Else)
	}
	return status.Success, nil
}

func (s *Shell) forLoop(a *ast.For) (status.Status, error) {
	var items []string
	if a.OverParams {
		if params := s.Vars.Params(); len(params) > 1 {
			items = params[1:]
		}
	} else {
		var err error
		if items, err = s.fields(a.Items); err != nil {
			return status.Failure, err
		}
	}

	code := status.Success
	for _, item := range items {
		v, ok := s.Vars.Lookup(a.Var)
		if ok {
			v.Value = vars.PlainString(item)
		} else {
			v = vars.NewVariable(vars.PlainString(item), vars.Normal, vars.Global())
		}
		if code, err := s.set(a.Var, v); err != nil {
			return code, err
		}

		var err error
		if code, err = s.runAll(a.Body); err != nil {
			return code, err
		}
	}
	return code, nil
}

func (s *Shell) whileLoop(a *ast.While) (status.Status, error) {
	code := status.Success
	for {
		ok, err := s.condition(a.Condition)
		if err != nil {
			return status.Failure, err
		}
		if ok == a.Until {
			return code, nil
		}

		if code, err = s.runAll(a.Body); err != nil {
			return code, err
		}
	}
}

func (s *Shell) andOr(a *ast.AndOr) (status.Status, error) {
	ok, err := s.condition(a.Left)
	if err != nil {
		return status.Failure, err
	}
	if ok == (a.Op == ast.And) {
		return s.eval(a.Right)
	}
	return s.Vars.Status(), nil
}

// subshell runs body in child, a shell created by fork. Leaving restores
// the working directory if the body changed it.
func (s *Shell) subshell(child *Shell, body []ast.Action) (status.Status, error) {
	code, err := child.runAll(body)

	var exit *ExitError
	if errors.As(err, &exit) && !exit.Fatal {
		code, err = exit.Code, nil
	}

	if pwd := s.Vars.Get(vars.EnvPWD); child.Vars.Get(vars.EnvPWD) != pwd {
		if chErr := s.Chdir(pwd); chErr != nil {
			s.Log.Printf("restoring %q: %v", pwd, chErr)
		}
	}
	s.Vars.PruneNested(s.level)

	return code, err
}
