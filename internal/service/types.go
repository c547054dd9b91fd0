// Package service defines the backend-agnostic interface for task operations.
package service

import "time"

// DefaultTaskTitle is the title given to a task added without one.
const DefaultTaskTitle = "New Task"

// Task represents a single task item.
// ID is assigned by the backend and treated as opaque.
type Task struct {
	ID           string
	Title        string
	Desc         string
	MarkedAsDone bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewTask returns the default representation posted by an add.
func NewTask() Task {
	return Task{Title: DefaultTaskTitle}
}
