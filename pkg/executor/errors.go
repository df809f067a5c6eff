// Package executor implements the deterministic command and query executors
// over a world-state-view transaction.
package executor

import "fmt"

// Command error codes shared across commands. Command-specific semantic
// failures use codes 3-8; the taxonomy is part of the client contract and
// must stay numerically stable.
const (
	CodeKV             = 1
	CodeAlreadyExists  = 1
	CodeNoPermission   = 2
	CodeNotImplemented = 100
)

// CommandError reports a failed command. The caller rolls the transaction
// back; no partial writes survive.
type CommandError struct {
	CommandName string
	Code        int
	Detail      string
}

func (e *CommandError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: error code %d", e.CommandName, e.Code)
	}
	return fmt.Sprintf("%s: error code %d: %s", e.CommandName, e.Code, e.Detail)
}

func newCommandError(cmd Command, code int, detail string) *CommandError {
	return &CommandError{
		CommandName: cmd.Name(),
		Code:        code,
		Detail:      detail,
	}
}
