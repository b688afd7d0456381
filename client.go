package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const (
	routeRegister = "/api/auth/register/"
	routeLogin    = "/api/auth/login/"
	routeLogout   = "/api/auth/logout/"
	routeDelete   = "/api/auth/delete/"
	routeUser     = "/api/auth/user/"
	routeGet      = "/api/auth/get/"
	routeUpdate   = "/api/auth/update/"
)

// Client mediates all account operations against the remote service and
// drives the [Store] through the fixed request lifecycle. Construct it
// through [Builder.Build].
//
// Every operation follows the same three phases: raise the loading flag,
// issue exactly one HTTP request, then settle — install the
// operation-specific success transition or the normalized failure
// message, and drop the loading flag. A failed operation never changes
// identity fields; the one deliberate exception is [Client.DeleteUser],
// whose success is itself a logout.
type Client struct {
	config  Config
	http    *http.Client
	baseURL *url.URL
	store   *Store
	audit   *auditDispatcher
	metrics *Metrics
	group   *singleflight.Group
}

// Store returns the session store. Consumers read snapshots and subscribe
// here; they must not install identity through the store while an
// operation is settling.
func (c *Client) Store() *Store {
	return c.store
}

// Metrics returns the operation counters.
func (c *Client) Metrics() *Metrics {
	return c.metrics
}

// AuditDropped reports how many audit events were discarded because the
// dispatcher buffer was full.
func (c *Client) AuditDropped() uint64 {
	return c.audit.droppedCount()
}

// Close drains and stops the audit dispatcher. The client must not be
// used after Close.
func (c *Client) Close() {
	c.audit.close()
}

// invoke runs one operation through the lifecycle. With the single-flight
// guard enabled, concurrent invocations of the same operation share one
// outcome instead of racing on the loading and error flags.
func (c *Client) invoke(ctx context.Context, op Operation, subject string, fn func(context.Context) (int, *APIError)) error {
	if c == nil || c.store == nil {
		return ErrClientNotReady
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if c.group != nil {
		_, err, _ := c.group.Do(op.String(), func() (any, error) {
			return nil, c.settle(ctx, op, subject, fn)
		})
		return err
	}
	return c.settle(ctx, op, subject, fn)
}

func (c *Client) settle(ctx context.Context, op Operation, subject string, fn func(context.Context) (int, *APIError)) error {
	requestID := requestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
		ctx = WithRequestID(ctx, requestID)
	}

	c.store.SetLoading(true)

	status, failure := fn(ctx)
	if failure != nil {
		c.store.SetError(failure.Message)
		c.store.SetLoading(false)
		c.metrics.incFailure(op)
		c.audit.emit(ctx, AuditEvent{
			Timestamp: time.Now(),
			Operation: op.String(),
			RequestID: requestID,
			Username:  subject,
			Status:    status,
			Success:   false,
			Error:     failure.Message,
		})
		return failure
	}

	// Success always clears the failure flag. Identity transitions
	// (SetAuthData, SetUser) have cleared it already; logout-shaped
	// operations have not.
	c.store.SetError("")
	c.store.SetLoading(false)
	c.metrics.incSuccess(op)
	c.audit.emit(ctx, AuditEvent{
		Timestamp: time.Now(),
		Operation: op.String(),
		RequestID: requestID,
		Username:  subject,
		Status:    status,
		Success:   true,
	})
	return nil
}

// do issues one request. authed attaches the current session token as the
// Authorization header when present; an absent token is not a client-side
// short-circuit — the request goes out and the server's authorization
// rejection flows back through normalization.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, authed bool) (*http.Response, error) {
	// JoinPath keeps any path prefix on the configured base URL, so
	// "https://host/app" routes to /app/api/... rather than /api/....
	full := c.baseURL.JoinPath(path)

	req, err := http.NewRequestWithContext(ctx, method, full.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.Server.UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if requestID := requestIDFromContext(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}
	if authed {
		if token := c.store.Snapshot().Token; token != "" {
			req.Header.Set("Authorization", "Token "+token)
		}
	}

	return c.http.Do(req)
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload any, authed bool) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(payload); err != nil {
			return nil, err
		}
		body = buf
	}
	return c.do(ctx, method, path, body, authed)
}

// call issues one request and hands back the status and body, converting
// transport problems and non-2xx statuses into normalized failures.
func (c *Client) call(ctx context.Context, op Operation, method, path string, payload any, authed bool) (int, []byte, *APIError) {
	resp, err := c.doJSON(ctx, method, path, payload, authed)
	if err != nil {
		return 0, nil, transportFailure(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, transportFailure(op, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return resp.StatusCode, body, serverFailure(op, resp.StatusCode, body)
	}
	return resp.StatusCode, body, nil
}
