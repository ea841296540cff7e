// Package client talks to the third-party user-management API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/training/practice/internal/apperror"
	"github.com/training/practice/internal/model"
)

const maxErrorBody = 4 << 10

type requestIDKey struct{}

// WithRequestID attaches a correlation id that is forwarded upstream as X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// PostmanClient issues one HTTP call per remote operation. There is no retry;
// every call is bounded by the client timeout.
type PostmanClient struct {
	baseURL    string
	httpClient *http.Client
	headers    http.Header
	log        zerolog.Logger
}

// NewPostmanClient creates a client rooted at baseURL.
func NewPostmanClient(baseURL string, timeout time.Duration, log zerolog.Logger) *PostmanClient {
	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept", "application/json")

	return &PostmanClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		headers:    headers,
		log:        log.With().Str("component", "postman_client").Logger(),
	}
}

func userPath(id model.PostmanID) string {
	return "/users/" + strconv.FormatInt(int64(id), 10)
}

func (c *PostmanClient) ListUsers(ctx context.Context) ([]model.PostmanWireUser, error) {
	var out []model.PostmanWireUser
	err := c.do(ctx, http.MethodGet, "/users", nil, nil, &out)
	return out, err
}

func (c *PostmanClient) GetUser(ctx context.Context, id model.PostmanID) (*model.PostmanWireUser, error) {
	var out model.PostmanWireUser
	if err := c.do(ctx, http.MethodGet, userPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *PostmanClient) ListUsersByRole(ctx context.Context, role string) ([]model.PostmanWireUser, error) {
	var out []model.PostmanWireUser
	err := c.do(ctx, http.MethodGet, "/users", url.Values{"role": {role}}, nil, &out)
	return out, err
}

func (c *PostmanClient) CreateUser(ctx context.Context, body model.PostmanWireUser) (*model.PostmanWireUser, error) {
	var out model.PostmanWireUser
	if err := c.do(ctx, http.MethodPost, "/users", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser replaces the remote user (PUT).
func (c *PostmanClient) UpdateUser(ctx context.Context, id model.PostmanID, body model.PostmanWireUser) (*model.PostmanWireUser, error) {
	var out model.PostmanWireUser
	if err := c.do(ctx, http.MethodPut, userPath(id), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PatchUser sends only the non-empty fields of body (PATCH).
func (c *PostmanClient) PatchUser(ctx context.Context, id model.PostmanID, body model.PostmanWireUser) (*model.PostmanWireUser, error) {
	var out model.PostmanWireUser
	if err := c.do(ctx, http.MethodPatch, userPath(id), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *PostmanClient) DeleteUser(ctx context.Context, id model.PostmanID) error {
	return c.do(ctx, http.MethodDelete, userPath(id), nil, nil, nil)
}

func (c *PostmanClient) GetUserPermissions(ctx context.Context, id model.PostmanID) ([]string, error) {
	var out []string
	err := c.do(ctx, http.MethodGet, userPath(id)+"/permissions", nil, nil, &out)
	return out, err
}

func (c *PostmanClient) AssignRole(ctx context.Context, id model.PostmanID, role string) (*model.PostmanWireUser, error) {
	var out model.PostmanWireUser
	if err := c.do(ctx, http.MethodPost, userPath(id)+"/roles", url.Values{"role": {role}}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do is the single place where transport failures and upstream statuses are
// turned into application errors.
func (c *PostmanClient) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	for key, values := range c.headers {
		req.Header[key] = values
	}
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("Upstream call failed")
		if isTimeout(err) {
			return apperror.Timeout(err, "Upstream request timed out: %s %s", method, path)
		}
		return apperror.Upstream(0, err, "Upstream request failed: %s %s", method, path)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("Upstream call")

	if resp.StatusCode == http.StatusNotFound {
		return apperror.NotFound("Upstream resource not found: %s %s", method, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return apperror.Upstream(resp.StatusCode, errors.New(strings.TrimSpace(string(snippet))),
			"Upstream returned %d for %s %s", resp.StatusCode, method, path)
	}

	if out == nil {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return apperror.Timeout(err, "Upstream request timed out: %s %s", method, path)
		}
		return apperror.Upstream(resp.StatusCode, err, "Reading upstream response failed: %s %s", method, path)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperror.Upstream(resp.StatusCode, err, "Upstream returned an unreadable body: %s %s", method, path)
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
