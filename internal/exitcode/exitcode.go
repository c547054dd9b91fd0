// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown task number, bad settings).
	UserError = 1

	// AuthError indicates a missing, expired or rejected session, or a failed login.
	AuthError = 2

	// BackendError indicates a failed task request: an error status or no response.
	BackendError = 3
)
