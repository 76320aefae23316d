package builtins

import (
	"fmt"
	"strconv"

	"github.com/josephlewis42/elvi/core/status"
)

// Exit asks the shell to stop with the given status, or success.
func Exit(env *Env, args []string) (status.Status, error) {
	if len(args) == 0 {
		return status.Success, &ExitRequest{Code: status.Success}
	}

	code, err := status.Parse(args[0])
	if err != nil {
		return status.Misuse, &status.IllegalNumberError{Name: args[0], Caller: "exit"}
	}
	return code, &ExitRequest{Code: code}
}

// Shift drops positional parameters, one if no count is given. Shifting more
// than there are stops the shell.
func Shift(env *Env, args []string) (status.Status, error) {
	n := 1
	if len(args) > 0 {
		var err error
		n, err = strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return status.Misuse, &status.IllegalNumberError{Name: args[0], Caller: "shift"}
		}
	}

	if err := env.Vars.Shift(n); err != nil {
		return status.Misuse, &ExitRequest{
			Code:  status.Misuse,
			Fatal: true,
			Err:   fmt.Errorf("shift: %w", err),
		}
	}
	return status.Success, nil
}
