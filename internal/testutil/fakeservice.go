// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"strconv"
	"sync"

	"tasker/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.RWMutex
	tasks  []service.Task
	users  map[string]string // username -> password
	nextID int
	calls  []string

	// Error injection for testing
	LoginErr      error
	ListTasksErr  error
	CreateTaskErr error
	UpdateTaskErr error
	DeleteTaskErr error

	// IssueToken, when set, replaces the "token-<user>" tokens Login returns.
	IssueToken func(username string) string

	// UpdateGate, when set, blocks UpdateTask until it receives a value or
	// the context is done.
	UpdateGate chan struct{}
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		users:  make(map[string]string),
		nextID: 1,
	}
}

// AddUser registers credentials accepted by Login.
func (f *FakeService) AddUser(username, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[username] = password
}

// AddTask adds a task and returns its ID.
func (f *FakeService) AddTask(title string, done bool) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := service.Task{ID: f.newIDLocked(), Title: title, MarkedAsDone: done}
	f.tasks = append(f.tasks, t)
	return t.ID
}

// Tasks returns a copy of the stored tasks.
func (f *FakeService) Tasks() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.Task, len(f.tasks))
	copy(result, f.tasks)
	return result
}

// Calls returns the names of the methods called so far.
func (f *FakeService) Calls() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]string, len(f.calls))
	copy(result, f.calls)
	return result
}

// Login implements service.Service.
func (f *FakeService) Login(ctx context.Context, username, password string) (string, error) {
	f.record("Login")
	if f.LoginErr != nil {
		return "", f.LoginErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if pw, ok := f.users[username]; !ok || pw != password {
		return "", &service.AuthError{Err: service.ErrUnauthorized}
	}
	if f.IssueToken != nil {
		return f.IssueToken(username), nil
	}
	return "token-" + username, nil
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.record("ListTasks")
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	return f.Tasks(), nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, task service.Task) (service.Task, error) {
	f.record("CreateTask")
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	task.ID = f.newIDLocked()
	f.tasks = append(f.tasks, task)
	return task, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id string, task service.Task) error {
	f.record("UpdateTask")
	if f.UpdateGate != nil {
		select {
		case <-f.UpdateGate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if f.UpdateTaskErr != nil {
		return f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			task.ID = id
			f.tasks[i] = task
			return nil
		}
	}
	return &service.FetchError{Op: "update task", Status: 404, Err: service.ErrNotFound}
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	f.record("DeleteTask")
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return &service.FetchError{Op: "delete task", Status: 404, Err: service.ErrNotFound}
}

func (f *FakeService) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *FakeService) newIDLocked() string {
	id := strconv.Itoa(f.nextID)
	f.nextID++
	return id
}
