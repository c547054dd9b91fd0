package restapi_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"tasker/internal/backend/restapi"
	"tasker/internal/config"
	"tasker/internal/service"
	"tasker/internal/session"
	"tasker/internal/testutil"
)

func authedSession(token string) *session.Session {
	return session.New(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}, session.Authenticated)
}

func newClient(backend *testutil.FakeBackend, sess *session.Session) *restapi.Client {
	return restapi.NewWithHTTPClient(backend.URL(), backend.Client(), sess)
}

func TestLogin_Success(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.AddUser("alice", "secret")

	client := newClient(backend, session.New(nil, session.Anonymous))
	token, err := client.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	reqs := backend.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "/users/get-token", reqs[0].Path)
	assert.Empty(t, reqs[0].Authorization)
	assert.NotEmpty(t, reqs[0].RequestID)
}

func TestLogin_NeverSendsStoredToken(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.AddUser("alice", "secret")

	client := newClient(backend, authedSession("old-token"))
	_, err := client.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Empty(t, backend.Requests()[0].Authorization)
}

func TestLogin_BadCredentials(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.AddUser("alice", "secret")

	client := newClient(backend, nil)
	_, err := client.Login(context.Background(), "alice", "wrong")

	var authErr *service.AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestLogin_NetworkFailure(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.Fail("login", testutil.DropConnection, "")

	client := newClient(backend, nil)
	_, err := client.Login(context.Background(), "alice", "secret")

	var authErr *service.AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestLogin_EmptyToken(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.Fail("login", http.StatusOK, `{"access_token":""}`)

	client := newClient(backend, nil)
	_, err := client.Login(context.Background(), "alice", "secret")

	var authErr *service.AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestListTasks(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	token := backend.IssueToken("alice")
	backend.AddTask("alice", "Buy milk", false)
	backend.AddTask("alice", "Walk dog", true)
	backend.AddTask("bob", "Not mine", false)

	client := newClient(backend, authedSession(token))
	tasks, err := client.ListTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	assert.Equal(t, "1", tasks[0].ID)
	assert.Equal(t, "Buy milk", tasks[0].Title)
	assert.False(t, tasks[0].MarkedAsDone)
	assert.False(t, tasks[0].CreatedAt.IsZero(), "created_at should be parsed")
	assert.Equal(t, "Walk dog", tasks[1].Title)
	assert.True(t, tasks[1].MarkedAsDone)

	assert.Equal(t, "Bearer "+token, backend.Requests()[0].Authorization)
}

func TestListTasks_Empty(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	token := backend.IssueToken("alice")

	client := newClient(backend, authedSession(token))
	tasks, err := client.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestListTasks_ServerError(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	token := backend.IssueToken("alice")
	backend.Fail("list", http.StatusInternalServerError, `{"name":"Internal Server Error","message":"boom"}`)

	client := newClient(backend, authedSession(token))
	_, err := client.ListTasks(context.Background())

	var fetchErr *service.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "list tasks", fetchErr.Op)
	assert.Equal(t, http.StatusInternalServerError, fetchErr.Status)
	assert.Equal(t, "boom", fetchErr.Message)
	assert.True(t, fetchErr.HasResponse())
}

func TestListTasks_NetworkError(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	token := backend.IssueToken("alice")
	backend.Fail("list", testutil.DropConnection, "")

	client := newClient(backend, authedSession(token))
	_, err := client.ListTasks(context.Background())

	var fetchErr *service.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.False(t, fetchErr.HasResponse())
}

func TestListTasks_UnauthorizedExpiresSession(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	token := backend.IssueToken("alice")
	backend.RevokeTokens()

	sess := authedSession(token)
	client := newClient(backend, sess)
	_, err := client.ListTasks(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrUnauthorized))
	assert.Equal(t, session.Expired, sess.State())

	// Expired sessions no longer attach the header.
	_, _ = client.ListTasks(context.Background())
	reqs := backend.Requests()
	assert.Empty(t, reqs[len(reqs)-1].Authorization)
}

func TestListTasks_AnonymousSendsNoHeader(t *testing.T) {
	backend := testutil.NewFakeBackend(t)

	client := newClient(backend, session.New(nil, session.Anonymous))
	_, err := client.ListTasks(context.Background())
	require.ErrorIs(t, err, service.ErrUnauthorized)
	assert.Empty(t, backend.Requests()[0].Authorization)
}

func TestCreateTask_ReturnsServerID(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	token := backend.IssueToken("alice")
	backend.AddTask("alice", "Existing", false)

	client := newClient(backend, authedSession(token))
	created, err := client.CreateTask(context.Background(), service.NewTask())
	require.NoError(t, err)

	assert.Equal(t, "2", created.ID)
	assert.Equal(t, "New Task", created.Title)
	assert.Empty(t, created.Desc)
	assert.False(t, created.MarkedAsDone)
	assert.Len(t, backend.Tasks("alice"), 2)
}

func TestCreateTask_ValidationMessage(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	token := backend.IssueToken("alice")

	client := newClient(backend, authedSession(token))
	_, err := client.CreateTask(context.Background(), service.Task{Title: "  "})

	var fetchErr *service.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusUnprocessableEntity, fetchErr.Status)
	assert.Equal(t, "Title cannot be blank.", fetchErr.Message)
}

func TestCreateTask_GoogleStyleErrorBody(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	token := backend.IssueToken("alice")
	backend.Fail("create", http.StatusBadRequest, `{"error":{"code":400,"message":"quota exceeded"}}`)

	client := newClient(backend, authedSession(token))
	_, err := client.CreateTask(context.Background(), service.NewTask())

	var fetchErr *service.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "quota exceeded", fetchErr.Message)
}

func TestCreateTask_MissingID(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	token := backend.IssueToken("alice")
	backend.Fail("create", http.StatusCreated, `{"title":"New Task"}`)

	client := newClient(backend, authedSession(token))
	_, err := client.CreateTask(context.Background(), service.NewTask())

	var fetchErr *service.FetchError
	require.ErrorAs(t, err, &fetchErr)
}

func TestCreateTask_StringID(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	token := backend.IssueToken("alice")
	backend.Fail("create", http.StatusCreated, `{"id":"abc-1","title":"New Task","desc":"","marked_as_done":false}`)

	client := newClient(backend, authedSession(token))
	created, err := client.CreateTask(context.Background(), service.NewTask())
	require.NoError(t, err)
	assert.Equal(t, "abc-1", created.ID)
}

func TestUpdateTask_SendsFullRepresentation(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	token := backend.IssueToken("alice")
	id := backend.AddTask("alice", "Buy milk", false)

	client := newClient(backend, authedSession(token))
	err := client.UpdateTask(context.Background(), id, service.Task{Title: "Buy oat milk", Desc: "2 litres", MarkedAsDone: true})
	require.NoError(t, err)

	stored := backend.Tasks("alice")
	require.Len(t, stored, 1)
	assert.Equal(t, "Buy oat milk", stored[0].Title)
	assert.Equal(t, "2 litres", stored[0].Desc)
	assert.True(t, stored[0].MarkedAsDone)

	reqs := backend.Requests()
	assert.Equal(t, http.MethodPut, reqs[0].Method)
	assert.Equal(t, "/tasks/"+id, reqs[0].Path)
}

func TestUpdateTask_NotFound(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	token := backend.IssueToken("alice")

	client := newClient(backend, authedSession(token))
	err := client.UpdateTask(context.Background(), "99", service.Task{Title: "x"})

	var fetchErr *service.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.Status)
}

func TestDeleteTask(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	token := backend.IssueToken("alice")
	id := backend.AddTask("alice", "Buy milk", false)

	client := newClient(backend, authedSession(token))
	require.NoError(t, client.DeleteTask(context.Background(), id))
	assert.Empty(t, backend.Tasks("alice"))
}

func TestDeleteTask_Failure(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	token := backend.IssueToken("alice")
	id := backend.AddTask("alice", "Buy milk", false)
	backend.Fail("delete", http.StatusInternalServerError, "")

	client := newClient(backend, authedSession(token))
	err := client.DeleteTask(context.Background(), id)

	var fetchErr *service.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Empty(t, fetchErr.Message)
	assert.Len(t, backend.Tasks("alice"), 1)
}

func TestNew_UsesConfig(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	token := backend.IssueToken("alice")

	cfg := &config.Config{Settings: config.Settings{APIURL: backend.URL()}}
	client := restapi.New(cfg, authedSession(token))
	_, err := client.ListTasks(context.Background())
	require.NoError(t, err)
}
