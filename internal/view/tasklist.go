package view

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"tasker/internal/config"
	"tasker/internal/logger"
	"tasker/internal/service"
	"tasker/internal/session"
)

// Status is the load status of a TaskList.
type Status int

const (
	// StatusIdle means nothing was loaded, e.g. because nobody is logged in.
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Row is a task as held by the view.
// Pending is set while a confirmed update of the row is in flight.
type Row struct {
	service.Task
	Pending bool
}

// Snapshot is an immutable copy of the view state.
type Snapshot struct {
	Status        Status
	Authenticated bool
	Rows          []Row
	Err           string
}

// Options configure a TaskList.
type Options struct {
	// Policy selects optimistic or confirmed edits. Empty means optimistic.
	Policy config.SyncPolicy

	// Store is cleared when the backend rejects the session. Optional.
	Store *session.Store

	Notifier Notifier
}

// TaskList is the task list view-model. Its methods may be called from
// several goroutines; the lock is never held across backend calls.
type TaskList struct {
	svc    service.Service
	sess   *session.Session
	store  *session.Store
	policy config.SyncPolicy
	notify Notifier

	mu        sync.Mutex
	status    Status
	rows      []Row
	errMsg    string
	listeners []func(Snapshot)
}

// NewTaskList creates a view over svc for sess.
func NewTaskList(svc service.Service, sess *session.Session, opts Options) *TaskList {
	policy := opts.Policy
	if policy == "" {
		policy = config.PolicyOptimistic
	}
	if sess == nil {
		sess = session.New(nil, session.Anonymous)
	}
	return &TaskList{
		svc:    svc,
		sess:   sess,
		store:  opts.Store,
		policy: policy,
		notify: notifierOrDiscard(opts.Notifier),
	}
}

// Subscribe registers fn to receive a snapshot after every state change.
func (v *TaskList) Subscribe(fn func(Snapshot)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.listeners = append(v.listeners, fn)
}

// Snapshot returns the current state.
func (v *TaskList) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

// Authenticated reports whether task actions are available.
func (v *TaskList) Authenticated() bool {
	return v.sess.Authenticated()
}

// Mount loads the task list if the session is authenticated.
// A failed load is shown in place of the list; no notification is sent
// unless the session was rejected.
func (v *TaskList) Mount(ctx context.Context) error {
	if !v.Authenticated() {
		v.publish()
		return nil
	}

	v.mu.Lock()
	v.status = StatusLoading
	v.errMsg = ""
	v.mu.Unlock()
	v.publish()

	tasks, err := v.svc.ListTasks(ctx)

	v.mu.Lock()
	if err != nil {
		v.status = StatusError
		v.errMsg = MsgFetchFailed
	} else {
		v.status = StatusReady
		v.rows = make([]Row, len(tasks))
		for i, t := range tasks {
			v.rows[i] = Row{Task: t}
		}
	}
	v.mu.Unlock()

	if err != nil {
		logger.Debug().Err(err).Msg("fetch tasks failed")
		v.expireIfRejected(err)
	}
	v.publish()
	return err
}

// Row returns the row at 1-based position n.
func (v *TaskList) Row(n int) (Row, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if n < 1 || n > len(v.rows) {
		return Row{}, fmt.Errorf("%w: task number out of range: %d", service.ErrNotFound, n)
	}
	return v.rows[n-1], nil
}

// Add posts task and appends the server representation.
// Callers usually pass service.NewTask().
func (v *TaskList) Add(ctx context.Context, task service.Task) (service.Task, error) {
	if !v.requireSession(MsgLoginToAdd) {
		return service.Task{}, ErrNotLoggedIn
	}

	created, err := v.svc.CreateTask(ctx, task)
	if err != nil {
		if !v.expireIfRejected(err) {
			v.fail(addFailureMessage(err))
		}
		return service.Task{}, err
	}

	v.mu.Lock()
	v.rows = append(v.rows, Row{Task: created})
	if v.status != StatusError {
		v.status = StatusReady
	}
	v.mu.Unlock()
	v.publish()
	v.success(MsgTaskAdded)
	return created, nil
}

// addFailureMessage inspects the server answer for a message. Only the add
// path does this; other paths report a fixed text.
func addFailureMessage(err error) string {
	var fe *service.FetchError
	if errors.As(err, &fe) && fe.HasResponse() {
		msg := fe.Message
		if msg == "" {
			msg = MsgAddRetry
		}
		return MsgAddFailed + msg
	}
	return MsgNetworkError
}

// EditTitle changes the title of the task with id.
func (v *TaskList) EditTitle(ctx context.Context, id, title string) error {
	return v.update(ctx, id, func(t *service.Task) { t.Title = title },
		MsgLoginToUpdate, MsgTitleUpdated, MsgTitleFailed)
}

// EditDesc changes the description of the task with id.
func (v *TaskList) EditDesc(ctx context.Context, id, desc string) error {
	return v.update(ctx, id, func(t *service.Task) { t.Desc = desc },
		MsgLoginToUpdate, MsgDescUpdated, MsgDescFailed)
}

// SetDone changes the completion flag of the task with id.
func (v *TaskList) SetDone(ctx context.Context, id string, done bool) error {
	return v.update(ctx, id, func(t *service.Task) { t.MarkedAsDone = done },
		MsgLoginToStatus, MsgStatusUpdated, MsgStatusFailed)
}

// update sends the full representation of a row after applying mutate.
//
// Optimistic: the row changes before the request and is not rolled back
// on failure. Confirmed: the row is marked pending and changes only after
// the backend accepts the update.
func (v *TaskList) update(ctx context.Context, id string, mutate func(*service.Task), loginMsg, okMsg, failMsg string) error {
	if !v.requireSession(loginMsg) {
		return ErrNotLoggedIn
	}

	v.mu.Lock()
	i := v.indexLocked(id)
	if i < 0 {
		v.mu.Unlock()
		return fmt.Errorf("%w: task %s", service.ErrNotFound, id)
	}
	if v.rows[i].Pending {
		v.mu.Unlock()
		v.fail(MsgUpdatePending)
		return ErrPending
	}
	next := v.rows[i].Task
	mutate(&next)
	confirmed := v.policy == config.PolicyConfirmed
	if confirmed {
		v.rows[i].Pending = true
	} else {
		v.rows[i].Task = next
	}
	v.mu.Unlock()
	v.publish()

	err := v.svc.UpdateTask(ctx, id, next)

	if confirmed {
		v.mu.Lock()
		// The row may have been deleted while the request was in flight.
		if i := v.indexLocked(id); i >= 0 {
			v.rows[i].Pending = false
			if err == nil {
				v.rows[i].Task = next
			}
		}
		v.mu.Unlock()
		v.publish()
	}

	if err != nil {
		logger.Debug().Err(err).Str("id", id).Msg("update task failed")
		if !v.expireIfRejected(err) {
			v.fail(failMsg)
		}
		return err
	}
	v.success(okMsg)
	return nil
}

// Delete removes the task with id on the backend, then locally.
// A failed delete leaves the row in place.
func (v *TaskList) Delete(ctx context.Context, id string) error {
	if !v.requireSession(MsgLoginToDelete) {
		return ErrNotLoggedIn
	}

	v.mu.Lock()
	found := v.indexLocked(id) >= 0
	v.mu.Unlock()
	if !found {
		return fmt.Errorf("%w: task %s", service.ErrNotFound, id)
	}

	if err := v.svc.DeleteTask(ctx, id); err != nil {
		logger.Debug().Err(err).Str("id", id).Msg("delete task failed")
		if !v.expireIfRejected(err) {
			v.fail(MsgDeleteFailed)
		}
		return err
	}

	v.mu.Lock()
	if i := v.indexLocked(id); i >= 0 {
		v.rows = append(v.rows[:i], v.rows[i+1:]...)
	}
	v.mu.Unlock()
	v.publish()
	v.success(MsgTaskDeleted)
	return nil
}

// requireSession notifies msg and returns false without an authenticated
// session.
func (v *TaskList) requireSession(msg string) bool {
	if v.Authenticated() {
		return true
	}
	v.fail(msg)
	return false
}

// expireIfRejected ends the session when err is a 401. The stored token is
// cleared so later commands start anonymous.
func (v *TaskList) expireIfRejected(err error) bool {
	if !errors.Is(err, service.ErrUnauthorized) {
		return false
	}
	v.sess.Expire()
	if v.store != nil {
		if cerr := v.store.ClearToken(); cerr != nil {
			logger.Warn().Err(cerr).Msg("failed to clear rejected token")
		}
	}
	v.publish()
	v.fail(MsgSessionExpired)
	return true
}

func (v *TaskList) indexLocked(id string) int {
	for i := range v.rows {
		if v.rows[i].ID == id {
			return i
		}
	}
	return -1
}

func (v *TaskList) snapshotLocked() Snapshot {
	rows := make([]Row, len(v.rows))
	copy(rows, v.rows)
	return Snapshot{
		Status:        v.status,
		Authenticated: v.sess.Authenticated(),
		Rows:          rows,
		Err:           v.errMsg,
	}
}

func (v *TaskList) publish() {
	v.mu.Lock()
	snap := v.snapshotLocked()
	listeners := make([]func(Snapshot), len(v.listeners))
	copy(listeners, v.listeners)
	v.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

func (v *TaskList) success(msg string) {
	v.notify.Notify(Notification{Level: LevelSuccess, Message: msg})
}

func (v *TaskList) fail(msg string) {
	v.notify.Notify(Notification{Level: LevelError, Message: msg})
}
