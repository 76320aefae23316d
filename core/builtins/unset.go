package builtins

import (
	"github.com/josephlewis42/elvi/core/status"
)

// Unset removes variables or, with -f, functions. Names that don't exist are
// ignored.
func Unset(env *Env, args []string) (status.Status, error) {
	cmd := newCommand("unset [-fv] [NAME...]", "Unset shell values and functions.")
	functions := cmd.Flags().Bool('f', "treat NAME as a function")
	cmd.Flags().Bool('v', "treat NAME as a variable")

	if err := cmd.Parse("unset", args); err != nil || cmd.ShowHelp() {
		cmd.PrintHelp(env.Stderr)
		if err != nil {
			return status.Misuse, &status.UsageError{Name: "unset", Msg: err.Error()}
		}
		return status.Success, nil
	}

	for _, name := range cmd.Flags().Args() {
		if *functions {
			env.Registry.Deregister(name)
			continue
		}

		v, ok := env.Vars.Lookup(name)
		if !ok {
			continue
		}
		if v.Mutability.IsReadonly() {
			return status.Misuse, &status.ReadonlyError{Name: name, Line: v.Line, Column: v.Column}
		}
		env.Vars.Unset(name)
	}

	return status.Success, nil
}
