package builtins

import (
	"errors"
	"fmt"

	"github.com/josephlewis42/elvi/core/status"
)

// Dbg prints variables along with their mutability.
func Dbg(env *Env, args []string) (status.Status, error) {
	cmd := newCommand("dbg NAME...", "Print shell variables for debugging.")
	if err := cmd.Parse("dbg", args); err != nil || cmd.ShowHelp() || len(cmd.Flags().Args()) == 0 {
		cmd.PrintHelp(env.Stderr)
		if cmd.ShowHelp() && err == nil {
			return status.Success, nil
		}
		return status.Failure, nil
	}

	var errs []error
	for _, name := range cmd.Flags().Args() {
		v, ok := env.Vars.Lookup(name)
		if !ok {
			errs = append(errs, &status.NoSuchVariableError{Name: name, Caller: "dbg"})
			continue
		}

		if v.Mutability.IsReadonly() {
			fmt.Fprint(env.Stdout, "readonly ")
		}
		fmt.Fprintf(env.Stdout, "%s=%s\n", name, v)
	}

	if len(errs) > 0 {
		return status.Failure, errors.Join(errs...)
	}
	return status.Success, nil
}
