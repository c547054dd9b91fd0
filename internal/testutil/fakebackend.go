package testutil

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"tasker/internal/service"
)

// DropConnection makes an injected failure close the connection without a
// response, simulating a network error.
const DropConnection = -1

// Recorded is a request seen by FakeBackend.
type Recorded struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
}

type failure struct {
	status int
	body   string
}

type fakeTask struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Desc         string `json:"desc"`
	MarkedAsDone bool   `json:"marked_as_done"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

type taskInput struct {
	Title        string `json:"title"`
	Desc         string `json:"desc"`
	MarkedAsDone bool   `json:"marked_as_done"`
}

// FakeBackend is an in-memory implementation of the task REST API served
// over httptest. Tasks are owned by the user whose token created them.
type FakeBackend struct {
	mu       sync.Mutex
	users    map[string]string      // username -> password
	tokens   map[string]string      // token -> username
	tasks    map[string][]*fakeTask // username -> tasks
	nextID   int64
	issued   int
	failures map[string]failure // op -> injected failure
	requests []Recorded
	server   *httptest.Server
}

// NewFakeBackend starts a fake backend that is closed when t finishes.
func NewFakeBackend(t testing.TB) *FakeBackend {
	t.Helper()
	f := &FakeBackend{
		users:    make(map[string]string),
		tokens:   make(map[string]string),
		tasks:    make(map[string][]*fakeTask),
		nextID:   1,
		failures: make(map[string]failure),
	}
	f.server = httptest.NewServer(f.router())
	t.Cleanup(f.server.Close)
	return f
}

// URL returns the base URL of the backend.
func (f *FakeBackend) URL() string { return f.server.URL }

// Client returns an HTTP client for the backend.
func (f *FakeBackend) Client() *http.Client { return f.server.Client() }

// AddUser registers a user.
func (f *FakeBackend) AddUser(username, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[username] = password
}

// IssueToken returns a valid token for username without a login request.
func (f *FakeBackend) IssueToken(username string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.issueLocked(username)
}

// RevokeTokens invalidates every issued token.
func (f *FakeBackend) RevokeTokens() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = make(map[string]string)
}

// AddTask stores a task for username and returns its ID.
func (f *FakeBackend) AddTask(username, title string, done bool) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.newTaskLocked(taskInput{Title: title, MarkedAsDone: done})
	f.tasks[username] = append(f.tasks[username], t)
	return strconv.FormatInt(t.ID, 10)
}

// Tasks returns the stored tasks of username.
func (f *FakeBackend) Tasks(username string) []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []service.Task
	for _, t := range f.tasks[username] {
		result = append(result, service.Task{
			ID:           strconv.FormatInt(t.ID, 10),
			Title:        t.Title,
			Desc:         t.Desc,
			MarkedAsDone: t.MarkedAsDone,
		})
	}
	return result
}

// Fail makes every request of op ("login", "list", "create", "update" or
// "delete") answer status with body. Use DropConnection for a network error.
func (f *FakeBackend) Fail(op string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[op] = failure{status: status, body: body}
}

// Recover removes an injected failure.
func (f *FakeBackend) Recover(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failures, op)
}

// Requests returns the requests seen so far.
func (f *FakeBackend) Requests() []Recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]Recorded, len(f.requests))
	copy(result, f.requests)
	return result
}

func (f *FakeBackend) router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(f.record)

	r.POST("/users/get-token", f.injected("login"), f.getToken)

	tasks := r.Group("/tasks", f.requireToken)
	tasks.GET("", f.injected("list"), f.list)
	tasks.POST("", f.injected("create"), f.create)
	tasks.PUT("/:id", f.injected("update"), f.update)
	tasks.DELETE("/:id", f.injected("delete"), f.delete)
	return r
}

func (f *FakeBackend) record(c *gin.Context) {
	f.mu.Lock()
	f.requests = append(f.requests, Recorded{
		Method:        c.Request.Method,
		Path:          c.Request.URL.Path,
		Authorization: c.GetHeader("Authorization"),
		RequestID:     c.GetHeader("X-Request-Id"),
	})
	f.mu.Unlock()
	c.Next()
}

func (f *FakeBackend) injected(op string) gin.HandlerFunc {
	return func(c *gin.Context) {
		f.mu.Lock()
		fail, ok := f.failures[op]
		f.mu.Unlock()
		if !ok {
			c.Next()
			return
		}
		if fail.status == DropConnection {
			conn, _, err := c.Writer.Hijack()
			if err == nil {
				conn.Close()
			}
			c.Abort()
			return
		}
		c.Data(fail.status, "application/json; charset=UTF-8", []byte(fail.body))
		c.Abort()
	}
}

func (f *FakeBackend) requireToken(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	f.mu.Lock()
	user, ok := f.tokens[token]
	f.mu.Unlock()
	if token == "" || !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"name":    "Unauthorized",
			"message": "Your request was made with invalid credentials.",
			"code":    0,
			"status":  http.StatusUnauthorized,
		})
		return
	}
	c.Set("user", user)
	c.Next()
}

func (f *FakeBackend) getToken(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if pw, ok := f.users[req.Username]; !ok || pw != req.Password || req.Password == "" {
		c.JSON(http.StatusUnprocessableEntity, []gin.H{
			{"field": "password", "message": "Incorrect username or password."},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": f.issueLocked(req.Username)})
}

func (f *FakeBackend) list(c *gin.Context) {
	user := c.GetString("user")
	f.mu.Lock()
	defer f.mu.Unlock()
	items := f.tasks[user]
	if items == nil {
		items = []*fakeTask{}
	}
	c.JSON(http.StatusOK, items)
}

func (f *FakeBackend) create(c *gin.Context) {
	in, ok := bindTask(c)
	if !ok {
		return
	}
	user := c.GetString("user")
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.newTaskLocked(in)
	f.tasks[user] = append(f.tasks[user], t)
	c.JSON(http.StatusCreated, t)
}

func (f *FakeBackend) update(c *gin.Context) {
	in, ok := bindTask(c)
	if !ok {
		return
	}
	user := c.GetString("user")
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.findLocked(user, c.Param("id"))
	if t == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Object not found: " + c.Param("id")})
		return
	}
	t.Title = in.Title
	t.Desc = in.Desc
	t.MarkedAsDone = in.MarkedAsDone
	t.UpdatedAt = time.Now().UTC().Format("2006-01-02 15:04:05")
	c.JSON(http.StatusOK, t)
}

func (f *FakeBackend) delete(c *gin.Context) {
	user := c.GetString("user")
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks[user] {
		if strconv.FormatInt(t.ID, 10) == c.Param("id") {
			f.tasks[user] = append(f.tasks[user][:i], f.tasks[user][i+1:]...)
			c.Status(http.StatusNoContent)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "Object not found: " + c.Param("id")})
}

func bindTask(c *gin.Context) (taskInput, bool) {
	var in taskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return in, false
	}
	if strings.TrimSpace(in.Title) == "" {
		c.JSON(http.StatusUnprocessableEntity, []gin.H{
			{"field": "title", "message": "Title cannot be blank."},
		})
		return in, false
	}
	return in, true
}

func (f *FakeBackend) issueLocked(username string) string {
	f.issued++
	token := "token-" + username + "-" + strconv.Itoa(f.issued)
	f.tokens[token] = username
	return token
}

func (f *FakeBackend) newTaskLocked(in taskInput) *fakeTask {
	now := time.Now().UTC().Format("2006-01-02 15:04:05")
	t := &fakeTask{
		ID:           f.nextID,
		Title:        in.Title,
		Desc:         in.Desc,
		MarkedAsDone: in.MarkedAsDone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.nextID++
	return t
}

func (f *FakeBackend) findLocked(username, id string) *fakeTask {
	for _, t := range f.tasks[username] {
		if strconv.FormatInt(t.ID, 10) == id {
			return t
		}
	}
	return nil
}
