// Package builtins implements the commands built into the shell.
package builtins

import (
	"fmt"
	"io"
	"os"

	"github.com/josephlewis42/elvi/core/ast"
	"github.com/josephlewis42/elvi/core/expand"
	"github.com/josephlewis42/elvi/core/registry"
	"github.com/josephlewis42/elvi/core/status"
	"github.com/josephlewis42/elvi/core/vars"
	"github.com/pborman/getopt/v2"
	"github.com/spf13/afero"
)

// Env is the part of the shell builtins can see and change.
type Env struct {
	Vars     *vars.Store
	Registry *registry.Registry
	Fs       afero.Fs

	Stdout io.Writer
	Stderr io.Writer

	// HomeDir resolves ~user for cd.
	HomeDir expand.HomeDirFunc
	// Chdir changes the process's working directory.
	Chdir func(dir string) error
}

// NewEnv creates an environment that changes the real working directory.
func NewEnv(store *vars.Store, reg *registry.Registry, fsys afero.Fs, stdout, stderr io.Writer) *Env {
	return &Env{
		Vars:     store,
		Registry: reg,
		Fs:       fsys,
		Stdout:   stdout,
		Stderr:   stderr,
		HomeDir:  expand.SystemHomeDir,
		Chdir:    os.Chdir,
	}
}

// ExitRequest is returned by builtins that stop the shell.
type ExitRequest struct {
	Code status.Status

	// Fatal stops the whole process rather than the current subshell.
	Fatal bool

	// Err is the reason for a fatal exit, if any.
	Err error
}

var _ status.Error = (*ExitRequest)(nil)

func (e *ExitRequest) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit %d", e.Code)
}

func (e *ExitRequest) Unwrap() error {
	return e.Err
}

// Status implements status.Error.
func (e *ExitRequest) Status() status.Status {
	return e.Code
}

// Run runs the builtin kind, invoked as name, with already expanded
// arguments.
//
// The returned error, if any, is the diagnostic to report. An *ExitRequest
// asks the caller to stop the shell.
func Run(kind ast.BuiltinKind, name string, env *Env, args []string) (status.Status, error) {
	switch kind {
	case ast.Cd:
		return Cd(env, args)
	case ast.Dbg:
		return Dbg(env, args)
	case ast.Echo:
		return Echo(env, args)
	case ast.Exit:
		return Exit(env, args)
	case ast.Hash:
		return Hash(env, args)
	case ast.Shift:
		return Shift(env, args)
	case ast.Test:
		return Test(env, name, args)
	case ast.Unset:
		return Unset(env, args)
	default:
		return status.CommandNotFound, &status.NotFoundError{Name: name}
	}
}

// command is a builtin's option parser.
type command struct {
	Use   string
	Short string

	flags *getopt.Set
	help  *bool
}

func newCommand(use, short string) *command {
	cmd := newPlainCommand(use, short)
	cmd.help = cmd.flags.BoolLong("help", 'h', "show this help and exit")
	return cmd
}

// newPlainCommand creates a parser without --help, for builtins that treat
// -h as an ordinary argument.
func newPlainCommand(use, short string) *command {
	return &command{Use: use, Short: short, flags: getopt.New()}
}

// Flags gets the command's flag set.
func (c *command) Flags() *getopt.Set {
	return c.flags
}

// Parse parses the options in args, the name of the builtin isn't included.
func (c *command) Parse(name string, args []string) error {
	return c.flags.Getopt(append([]string{name}, args...), nil)
}

// PrintHelp writes help for the command to the given writer.
func (c *command) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, c.Use)
	fmt.Fprintln(w, c.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	c.flags.PrintOptions(w)
}

// ShowHelp reports whether --help was given.
func (c *command) ShowHelp() bool {
	return c.help != nil && *c.help
}

func setGlobal(env *Env, name, value string) error {
	return env.Vars.Set(name, vars.NewVariable(vars.PlainString(value), vars.Normal, vars.Global()))
}
