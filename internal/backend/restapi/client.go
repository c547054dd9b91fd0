// Package restapi implements the service.Service interface over the task
// backend's JSON REST API.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/googleapi"

	"tasker/internal/config"
	"tasker/internal/logger"
	"tasker/internal/service"
	"tasker/internal/session"
)

const (
	tokenPath = "/users/get-token"
	tasksPath = "/tasks"

	// RequestIDHeader carries a per-request UUID for log correlation.
	RequestIDHeader = "X-Request-Id"
)

// Client implements service.Service against the REST backend.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Session
	timeout time.Duration
}

// New creates a client for cfg.APIURL.
// sess supplies the bearer token; it may be anonymous.
func New(cfg *config.Config, sess *session.Session) *Client {
	return &Client{
		baseURL: cfg.APIURL,
		http:    &http.Client{},
		session: sess,
		timeout: cfg.Timeout,
	}
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client, sess *session.Session) *Client {
	return &Client{baseURL: baseURL, http: httpClient, session: sess}
}

// Login exchanges credentials for an access token.
// No session token is sent with this request.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp tokenResponse
	_, err := c.do(ctx, call{
		method: http.MethodPost,
		path:   tokenPath,
		in:     credentials{Username: username, Password: password},
		out:    &resp,
		anon:   true,
	})
	if err != nil {
		return "", &service.AuthError{Err: err}
	}
	if resp.AccessToken == "" {
		return "", &service.AuthError{Err: errors.New("no access_token in response")}
	}
	return resp.AccessToken, nil
}

// ListTasks returns every task of the session's user in API order.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var items []taskJSON
	status, err := c.do(ctx, call{method: http.MethodGet, path: tasksPath, out: &items})
	if err != nil {
		return nil, c.fetchError("list tasks", status, err)
	}

	result := make([]service.Task, 0, len(items))
	for _, item := range items {
		result = append(result, item.toTask())
	}
	return result, nil
}

// CreateTask posts task and returns the server representation.
func (c *Client) CreateTask(ctx context.Context, task service.Task) (service.Task, error) {
	var created taskJSON
	status, err := c.do(ctx, call{
		method: http.MethodPost,
		path:   tasksPath,
		in:     bodyOf(task),
		out:    &created,
	})
	if err != nil {
		return service.Task{}, c.fetchError("create task", status, err)
	}
	if created.ID == "" {
		return service.Task{}, c.fetchError("create task", status, errors.New("response has no id"))
	}
	return created.toTask(), nil
}

// UpdateTask sends the full representation of a task.
// The echoed body is not used.
func (c *Client) UpdateTask(ctx context.Context, id string, task service.Task) error {
	status, err := c.do(ctx, call{
		method: http.MethodPut,
		path:   taskPath(id),
		in:     bodyOf(task),
	})
	if err != nil {
		return c.fetchError("update task", status, err)
	}
	return nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	status, err := c.do(ctx, call{method: http.MethodDelete, path: taskPath(id)})
	if err != nil {
		return c.fetchError("delete task", status, err)
	}
	return nil
}

func taskPath(id string) string {
	return tasksPath + "/" + url.PathEscape(id)
}

// call describes a single request.
type call struct {
	method string
	path   string
	in     any
	out    any

	// anon suppresses the Authorization header.
	anon bool
}

// do issues one request. It returns the HTTP status (0 if no response
// arrived) and an error for transport failures, non-2xx statuses and
// undecodable bodies.
func (c *Client) do(ctx context.Context, cl call) (int, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if cl.in != nil {
		data, err := json.Marshal(cl.in)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	if cl.in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	authed := false
	if !cl.anon && c.session != nil {
		authed = c.session.SetAuthHeader(req)
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		logger.Debug().
			Str("method", cl.method).
			Str("path", cl.path).
			Str("request_id", requestID).
			Err(err).
			Msg("api request failed")
		return 0, err
	}
	defer res.Body.Close()

	logger.Debug().
		Str("method", cl.method).
		Str("path", cl.path).
		Int("status", res.StatusCode).
		Str("request_id", requestID).
		Bool("auth", authed).
		Dur("elapsed", time.Since(start)).
		Msg("api request")

	if err := googleapi.CheckResponse(res); err != nil {
		return res.StatusCode, err
	}

	if cl.out != nil {
		if err := json.NewDecoder(res.Body).Decode(cl.out); err != nil && !errors.Is(err, io.EOF) {
			return res.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return res.StatusCode, nil
}

// fetchError converts a request failure into a *service.FetchError.
// A 401 expires the client's session.
func (c *Client) fetchError(op string, status int, err error) error {
	fe := &service.FetchError{Op: op, Status: status, Err: err}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		fe.Status = apiErr.Code
		fe.Message = serverMessage(apiErr)
		if apiErr.Code == http.StatusUnauthorized {
			if c.session != nil {
				c.session.Expire()
			}
			fe.Err = fmt.Errorf("%w: %w", service.ErrUnauthorized, err)
		}
	}
	return fe
}
