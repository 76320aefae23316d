package eval

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"syscall"

	"github.com/josephlewis42/elvi/core/ast"
	"github.com/josephlewis42/elvi/core/builtins"
	"github.com/josephlewis42/elvi/core/parse"
	"github.com/josephlewis42/elvi/core/status"
	"github.com/josephlewis42/elvi/core/vars"
)

// resolve expands a value that's about to be stored.
func (s *Shell) resolve(v vars.Value) (vars.Value, error) {
	if cmd, ok := v.(vars.CommandSubstitution); ok {
		out, err := s.substitute(string(cmd))
		return vars.PlainString(out), err
	}
	return s.expander().Word(v), nil
}

// fields expands command arguments into the words passed to the command.
func (s *Shell) fields(values []vars.Value) ([]string, error) {
	expander := s.expander()

	var out []string
	for _, v := range values {
		if cmd, ok := v.(vars.CommandSubstitution); ok {
			text, err := s.substitute(string(cmd))
			if err != nil {
				return nil, err
			}
			v = vars.PlainString(text)
		}

		for _, field := range expander.Fields(v) {
			out = append(out, field.String())
		}
	}
	return out, nil
}

// substitute runs script in a subshell and returns what it wrote to stdout
// without the final newline.
func (s *Shell) substitute(script string) (string, error) {
	actions, err := parse.String(script, s.Name)
	if err != nil {
		s.report(err)
		return "", nil
	}

	var buf bytes.Buffer
	child := s.fork()
	child.Stdout = &buf

	s.Log.Printf("substitute %q", script)
	if _, err := s.subshell(child, actions); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func (s *Shell) builtin(a *ast.Builtin) (status.Status, error) {
	args, err := s.fields(a.Args)
	if err != nil {
		return status.Failure, err
	}

	s.Log.Printf("builtin %s %q", a.Name, args)
	code, err := builtins.Run(a.Kind, a.Name, s.builtinEnv(), args)

	var req *builtins.ExitRequest
	switch {
	case errors.As(err, &req):
		if req.Err != nil {
			s.report(req.Err)
		}
		return req.Code, &ExitError{Code: req.Code, Fatal: req.Fatal}
	case err != nil:
		s.report(err)
	}
	return code, nil
}

func (s *Shell) external(a *ast.ExternalCommand) (status.Status, error) {
	args, err := s.fields(a.Args)
	if err != nil {
		return status.Failure, err
	}
	if len(args) == 0 {
		return status.Success, nil
	}

	if fn, ok := s.Registry.Function(args[0]); ok {
		return s.call(fn, args)
	}
	return s.spawn(args)
}

// call runs a function with args as its positional parameters.
func (s *Shell) call(fn ast.FunctionDefinition, args []string) (status.Status, error) {
	saved := s.Vars.Params()
	outer := s.inFunction

	s.Vars.SetParams(args)
	s.inFunction = true
	defer func() {
		if !outer {
			s.Vars.PruneLocals()
		}
		s.Vars.SetParams(saved)
		s.inFunction = outer
	}()

	s.Log.Printf("call %s %q", fn.Name, args[1:])
	return s.runAll(fn.Body)
}

// spawn runs an executable and waits for it to finish.
func (s *Shell) spawn(args []string) (status.Status, error) {
	cmd, err := s.Registry.Launch(args, s.Vars)
	if err != nil {
		return s.report(err), nil
	}
	cmd.Stdin = s.Stdin
	cmd.Stdout = s.Stdout
	cmd.Stderr = s.Stderr

	s.Log.Printf("launch %s %q in %s", cmd.Path, cmd.Args[1:], cmd.Dir)
	return s.waitStatus(args[0], cmd.Run()), nil
}

// waitStatus converts the result of running a process into a status.
// Processes killed by a signal get SignalBase plus the signal number.
func (s *Shell) waitStatus(name string, err error) status.Status {
	if err == nil {
		return status.Success
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return s.report(fmt.Errorf("%s: %w", name, err))
	}

	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return status.FromSignal(int(ws.Signal()))
	}
	return status.FromExitCode(exitErr.ExitCode())
}
