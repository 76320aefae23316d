// Package eval walks statement trees and runs them.
package eval

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/josephlewis42/elvi/core/ast"
	"github.com/josephlewis42/elvi/core/builtins"
	"github.com/josephlewis42/elvi/core/expand"
	"github.com/josephlewis42/elvi/core/registry"
	"github.com/josephlewis42/elvi/core/status"
	"github.com/josephlewis42/elvi/core/vars"
	"github.com/spf13/afero"
)

// ExitError unwinds the evaluator when the shell, or a subshell, stops.
type ExitError struct {
	Code status.Status

	// Fatal stops the whole process, otherwise only the innermost subshell
	// is left.
	Fatal bool
}

var _ status.Error = (*ExitError)(nil)

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// Status implements status.Error.
func (e *ExitError) Status() status.Status {
	return e.Code
}

// Shell holds the state of a running script.
type Shell struct {
	Vars     *vars.Store
	Registry *registry.Registry
	Fs       afero.Fs

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Log receives a trace of every action and every process launch.
	Log *log.Logger

	// Color is one of ColorAlways, ColorAuto or ColorNever.
	Color string

	// Name is used in syntax errors of command substitutions.
	Name string

	// Prefix starts every diagnostic line.
	Prefix string

	// Pid is the value of $$.
	Pid     int
	HomeDir expand.HomeDirFunc
	Chdir   func(dir string) error

	// level is the subshell depth, the top level script runs at 1.
	level      uint32
	inFunction bool
}

// New creates a shell that discards its output. Callers attach streams by
// setting the exported fields.
func New(store *vars.Store, reg *registry.Registry, fsys afero.Fs) *Shell {
	return &Shell{
		Vars:     store,
		Registry: reg,
		Fs:       fsys,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
		Log:      log.New(io.Discard, "", 0),
		Color:    ColorNever,
		Name:     "elvi",
		Prefix:   "elvi",
		Pid:      os.Getpid(),
		HomeDir:  expand.SystemHomeDir,
		Chdir:    os.Chdir,
		level:    1,
	}
}

// Level returns the current subshell depth.
func (s *Shell) Level() uint32 {
	return s.level
}

// Run evaluates a script and returns its exit status.
func (s *Shell) Run(actions []ast.Action) status.Status {
	code, err := s.runAll(actions)

	var exit *ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}
	if err != nil {
		return s.report(err)
	}
	return code
}

// fork creates a subshell running against a copy of the variables and the
// command registry.
func (s *Shell) fork() *Shell {
	child := *s
	child.Vars = s.Vars.Clone()
	child.Registry = s.Registry.Clone()
	child.level++
	return &child
}

func (s *Shell) expander() *expand.Expander {
	return &expand.Expander{
		Vars:    s.Vars,
		Fs:      s.Fs,
		Pid:     s.Pid,
		HomeDir: s.HomeDir,
	}
}

func (s *Shell) builtinEnv() *builtins.Env {
	return &builtins.Env{
		Vars:     s.Vars,
		Registry: s.Registry,
		Fs:       s.Fs,
		Stdout:   s.Stdout,
		Stderr:   s.Stderr,
		HomeDir:  s.HomeDir,
		Chdir:    s.Chdir,
	}
}
