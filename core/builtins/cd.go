package builtins

import (
	"fmt"
	"path/filepath"

	"github.com/josephlewis42/elvi/core/expand"
	"github.com/josephlewis42/elvi/core/status"
	"github.com/josephlewis42/elvi/core/vars"
)

// Cd changes the working directory.
func Cd(env *Env, args []string) (status.Status, error) {
	cmd := newCommand("cd [DIR|-]", "Change the shell working directory.")
	if err := cmd.Parse("cd", args); err != nil || cmd.ShowHelp() {
		cmd.PrintHelp(env.Stderr)
		if err != nil {
			return status.Misuse, &status.UsageError{Name: "cd", Msg: err.Error()}
		}
		return status.Success, nil
	}

	args = cmd.Flags().Args()
	if len(args) > 1 {
		return status.Misuse, &status.UsageError{Name: "cd", Msg: "too many arguments"}
	}

	pwd := env.Vars.Get(vars.EnvPWD)
	switch {
	case len(args) == 0:
		return changeDir(env, env.Vars.Get(vars.EnvHome), pwd, "")

	case args[0] == "-":
		target := env.Vars.Get(vars.EnvOldPWD)
		if s, err := changeDir(env, target, pwd, args[0]); err != nil {
			return s, err
		}
		fmt.Fprintln(env.Stdout, target)
		return status.Success, nil

	default:
		home := env.Vars.Get(vars.EnvHome)
		target := expand.Tilde(args[0], home, env.HomeDir)
		if !filepath.IsAbs(target) {
			target = filepath.Join(pwd, target)
		}
		return changeDir(env, filepath.Clean(target), pwd, args[0])
	}
}

// changeDir moves the shell to target, which must be a directory. The
// original argument is used in error messages.
func changeDir(env *Env, target, pwd, arg string) (status.Status, error) {
	if arg == "" {
		arg = target
	}

	info, err := env.Fs.Stat(target)
	if err != nil || !info.IsDir() {
		return status.Misuse, &status.CannotCdError{Name: "cd", Path: arg}
	}

	if err := env.Chdir(target); err != nil {
		return status.Misuse, &status.CannotCdError{Name: "cd", Path: arg}
	}

	if err := setGlobal(env, vars.EnvOldPWD, pwd); err != nil {
		return status.Of(err), err
	}
	if err := setGlobal(env, vars.EnvPWD, target); err != nil {
		return status.Of(err), err
	}
	return status.Success, nil
}
