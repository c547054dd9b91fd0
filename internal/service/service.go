// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for task backend operations.
// All REST calls go through this interface.
// Views and commands never build HTTP requests directly.
type Service interface {
	// Login exchanges credentials for a bearer token.
	// Any failure is reported as an *AuthError.
	Login(ctx context.Context, username, password string) (string, error)

	// ListTasks returns every task of the authenticated user in API order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask posts a new task and returns the server representation,
	// including the server-assigned ID.
	CreateTask(ctx context.Context, task Task) (Task, error)

	// UpdateTask replaces title, desc and marked_as_done of a task.
	UpdateTask(ctx context.Context, id string, task Task) error

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, id string) error
}
