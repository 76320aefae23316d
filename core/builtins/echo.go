package builtins

import (
	"fmt"
	"strings"

	"github.com/josephlewis42/elvi/core/status"
)

// Echo writes its arguments separated by spaces.
func Echo(env *Env, args []string) (status.Status, error) {
	cmd := newPlainCommand("echo [-n] [ARG] ...", "Display a line of text.")
	noNewline := cmd.Flags().Bool('n', "do not output the trailing newline")

	// Anything that doesn't parse as options is printed as-is.
	if err := cmd.Parse("echo", args); err != nil {
		*noNewline = false
	} else {
		args = cmd.Flags().Args()
	}

	fmt.Fprint(env.Stdout, strings.Join(args, " "))
	if !*noNewline {
		fmt.Fprintln(env.Stdout)
	}

	return status.Success, nil
}
