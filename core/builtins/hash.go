package builtins

import (
	"fmt"

	"github.com/josephlewis42/elvi/core/status"
)

// Hash prints or rebuilds the cache of executables found on $PATH.
func Hash(env *Env, args []string) (status.Status, error) {
	cmd := newCommand("hash [-r]", "Remember or display program locations.")
	regenerate := cmd.Flags().Bool('r', "forget every remembered location and scan $PATH again")

	if err := cmd.Parse("hash", args); err != nil {
		return status.Failure, &status.SubCommandNotFoundError{Name: "hash", Cmd: args[0]}
	}
	if cmd.ShowHelp() {
		cmd.PrintHelp(env.Stdout)
		return status.Success, nil
	}
	if rest := cmd.Flags().Args(); len(rest) > 0 {
		return status.Failure, &status.SubCommandNotFoundError{Name: "hash", Cmd: rest[0]}
	}

	if *regenerate {
		env.Registry.Regenerate(env.Vars)
		return status.Success, nil
	}

	for _, entry := range env.Registry.Paths() {
		fmt.Fprintln(env.Stdout, entry)
	}
	return status.Success, nil
}
