// Package view holds the state of the login form and the task list, and
// reconciles that state with the backend.
package view

import "errors"

// Notification texts.
const (
	MsgLoggedIn       = "logged in successfully"
	MsgLoginFailed    = "wrong username or password"
	MsgSessionExpired = "session expired, please log in again"

	MsgFetchFailed = "failed to fetch tasks, please try again later"

	MsgTaskAdded    = "task added"
	MsgAddFailed    = "error adding task: "
	MsgAddRetry     = "please try again"
	MsgNetworkError = "network error, please try again"

	MsgTitleUpdated  = "task title updated"
	MsgTitleFailed   = "error updating task title"
	MsgDescUpdated   = "task description updated"
	MsgDescFailed    = "error updating task description"
	MsgStatusUpdated = "task status updated"
	MsgStatusFailed  = "error updating task status"
	MsgUpdatePending = "update already in progress"

	MsgTaskDeleted   = "task deleted"
	MsgDeleteFailed  = "error deleting task"
	MsgLoginToAdd    = "please log in to add a task"
	MsgLoginToUpdate = "please log in to update the task"
	MsgLoginToStatus = "please log in to update task status"
	MsgLoginToDelete = "please log in to delete the task"
)

var (
	// ErrNotLoggedIn is returned by task actions without an authenticated session.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrPending is returned when a row already has an update in flight.
	ErrPending = errors.New("update already in progress")

	// ErrTokenExpired is returned when login yields a token that has
	// already expired.
	ErrTokenExpired = errors.New("login token already expired")

	// ErrIncomplete is returned when the login form is submitted without
	// a username or password.
	ErrIncomplete = errors.New("username and password required")
)
