package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"unicode"

	"tasker/internal/exitcode"
	"tasker/internal/view"
)

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses the 1-based task number from the first argument and
// returns it with the remaining arguments.
func ParseTaskRef(args []string) (int, []string, error) {
	if len(args) == 0 {
		return 0, nil, ErrTaskRefRequired
	}

	ref := args[0]
	if !isAllDigits(ref) {
		return 0, nil, fmt.Errorf("invalid task reference: %s", ref)
	}
	num, err := strconv.Atoi(ref)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid task reference: %s", ref)
	}
	return num, args[1:], nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// resolveRow parses the task reference in args, mounts the list and returns
// the referenced row. Without a session loginMsg is printed instead. On
// failure the error is already printed and the exit code is returned.
func resolveRow(ctx context.Context, env *Env, args []string, loginMsg string) (*view.TaskList, view.Row, []string, int) {
	num, rest, err := ParseTaskRef(args)
	if err != nil {
		env.errorf("%v", err)
		return nil, view.Row{}, nil, exitcode.UserError
	}
	if num < 1 {
		env.errorf("task number out of range: %d", num)
		return nil, view.Row{}, nil, exitcode.UserError
	}

	list, code := env.taskList(ctx)
	if code != exitcode.Success {
		return nil, view.Row{}, nil, code
	}
	if !list.Authenticated() {
		env.errorf("%s", loginMsg)
		return nil, view.Row{}, nil, exitcode.AuthError
	}

	row, err := list.Row(num)
	if err != nil {
		env.errorf("task number out of range: %d", num)
		return nil, view.Row{}, nil, exitcode.UserError
	}
	return list, row, rest, exitcode.Success
}
