// Package api implements the HTTP+JSON client for the task backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nibzard/taskboard/internal/task"
)

// DefaultBaseURL is the base used when none is configured.
const DefaultBaseURL = "http://127.0.0.1:5000/api"

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string // "error" field of the response body, if any
	RequestID  string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
}

// RequestError is a failure after a request was issued, such as a
// transport error or an undecodable body. It keeps the request id.
type RequestError struct {
	Method    string
	Path      string
	RequestID string
	Err       error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// Patch is a partial task update. Nil fields are omitted from the body.
type Patch struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// TitlePatch returns a patch that only changes the title.
func TitlePatch(title string) Patch {
	return Patch{Title: &title}
}

// CompletedPatch returns a patch that only changes the completed flag.
func CompletedPatch(completed bool) Patch {
	return Patch{Completed: &completed}
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds every request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithValidation toggles JSON Schema checks on decoded responses.
func WithValidation(enabled bool) Option {
	return func(c *Client) {
		c.validate = enabled
	}
}

// WithRequestIDs overrides the request id generator.
func WithRequestIDs(next func() string) Option {
	return func(c *Client) {
		if next != nil {
			c.nextID = next
		}
	}
}

// Client talks to the task backend. It performs no retries.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	timeout    time.Duration
	validate   bool
	nextID     func() string
}

// New creates a client for the backend rooted at rawURL (for example
// "http://127.0.0.1:5000/api").
func New(rawURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(rawURL) == "" {
		rawURL = DefaultBaseURL
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", rawURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host are required", rawURL)
	}

	c := &Client{
		baseURL:    parsed,
		httpClient: http.DefaultClient,
		validate:   true,
		nextID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

type listResponse struct {
	Tasks []task.Task `json:"tasks"`
}

type createRequest struct {
	Title string `json:"title"`
}

type createResponse struct {
	Task task.Task `json:"task"`
}

// ListTasks fetches every task in server order.
func (c *Client) ListTasks(ctx context.Context) ([]task.Task, error) {
	var out listResponse
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &out, task.ValidateList); err != nil {
		return nil, err
	}
	if out.Tasks == nil {
		out.Tasks = []task.Task{}
	}
	return out.Tasks, nil
}

// CreateTask creates a task and returns the server's record of it.
func (c *Client) CreateTask(ctx context.Context, title string) (task.Task, error) {
	var out createResponse
	if err := c.do(ctx, http.MethodPost, "/tasks", createRequest{Title: title}, &out, task.ValidateCreated); err != nil {
		return task.Task{}, err
	}
	return out.Task, nil
}

// UpdateTask applies a partial update. The response body is discarded.
func (c *Client) UpdateTask(ctx context.Context, id int, patch Patch) error {
	if patch.Title == nil && patch.Completed == nil {
		return errors.New("update task: empty patch")
	}
	return c.do(ctx, http.MethodPut, taskPath(id), patch, nil, nil)
}

// DeleteTask deletes a task. The response body is discarded.
func (c *Client) DeleteTask(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil, nil)
}

// Stats fetches the aggregate counts.
func (c *Client) Stats(ctx context.Context) (task.Stats, error) {
	var out task.Stats
	if err := c.do(ctx, http.MethodGet, "/stats", nil, &out, task.ValidateStats); err != nil {
		return task.Stats{}, err
	}
	return out, nil
}

func taskPath(id int) string {
	return "/tasks/" + strconv.Itoa(id)
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload, out any, check func([]byte) error) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%s %s: encode request: %w", method, endpoint, err)
		}
		body = bytes.NewReader(data)
	}

	rel := &url.URL{Path: path.Join(c.baseURL.Path, endpoint)}
	u := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("%s %s: create request: %w", method, endpoint, err)
	}
	requestID := c.nextID()
	fail := func(format string, err error) error {
		return &RequestError{Method: method, Path: endpoint, RequestID: requestID, Err: fmt.Errorf(format, err)}
	}
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp, method, endpoint, requestID)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail("read response: %w", err)
	}
	if c.validate && check != nil {
		if err := check(data); err != nil {
			return fail("unexpected response: %w", err)
		}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fail("decode response: %w", err)
	}
	return nil
}

func statusError(resp *http.Response, method, endpoint, requestID string) error {
	se := &StatusError{
		Method:     method,
		Path:       endpoint,
		StatusCode: resp.StatusCode,
		RequestID:  requestID,
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && len(data) > 0 {
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &payload) == nil {
			se.Message = payload.Error
		}
	}
	return se
}

// RequestID extracts the correlation id from an error returned by the
// client, or "" when none is attached.
func RequestID(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.RequestID
	}
	var re *RequestError
	if errors.As(err, &re) {
		return re.RequestID
	}
	return ""
}
