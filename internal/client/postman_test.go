package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/training/practice/internal/apperror"
	"github.com/training/practice/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *PostmanClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewPostmanClient(srv.URL+"/", timeout, zerolog.Nop())
}

func TestGetUserDecodesWireSchema(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/users/5", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "req-123", r.Header.Get("X-Request-ID"))
		_, _ = io.WriteString(w, `{"id":"5","name":"Leanne","email":"l@x.com","status":"active"}`)
	}, time.Second)

	ctx := WithRequestID(context.Background(), "req-123")
	u, err := c.GetUser(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, model.PostmanID(5), u.ID)
	require.Equal(t, "Leanne", u.Name)
	require.Equal(t, "active", u.Status)
}

func TestListUsersByRoleSendsQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users", r.URL.Path)
		assert.Equal(t, "admin", r.URL.Query().Get("role"))
		_, _ = io.WriteString(w, `[{"id":1,"name":"A"},{"id":2,"name":"B"}]`)
	}, time.Second)

	users, err := c.ListUsersByRole(context.Background(), "admin")
	require.NoError(t, err)
	require.Len(t, users, 2)
}

func TestPatchUserOmitsEmptyFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var raw map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Equal(t, map[string]any{"name": "New"}, raw)

		_, _ = io.WriteString(w, `{"id":3,"name":"New"}`)
	}, time.Second)

	u, err := c.PatchUser(context.Background(), 3, model.PostmanWireUser{Name: "New"})
	require.NoError(t, err)
	require.Equal(t, "New", u.Name)
}

func TestDeleteUserAcceptsEmptyBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}, time.Second)

	require.NoError(t, c.DeleteUser(context.Background(), 9))
}

func TestUpstreamErrorsAreClassified(t *testing.T) {
	t.Run("404 is not found", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}, time.Second)

		_, err := c.GetUser(context.Background(), 1)
		require.True(t, apperror.Is(err, apperror.KindNotFound))
	})

	t.Run("5xx is upstream with status", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusServiceUnavailable)
		}, time.Second)

		_, err := c.ListUsers(context.Background())
		require.True(t, apperror.Is(err, apperror.KindUpstream))

		var appErr *apperror.Error
		require.ErrorAs(t, err, &appErr)
		require.Equal(t, http.StatusServiceUnavailable, appErr.Status)
	})

	t.Run("slow upstream is timeout", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(500 * time.Millisecond):
			case <-r.Context().Done():
			}
		}, 50*time.Millisecond)

		_, err := c.GetUserPermissions(context.Background(), 1)
		require.True(t, apperror.Is(err, apperror.KindTimeout))
	})

	t.Run("unreachable host is upstream", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		base := srv.URL
		srv.Close()

		c := NewPostmanClient(base, time.Second, zerolog.Nop())
		_, err := c.ListUsers(context.Background())
		require.True(t, apperror.Is(err, apperror.KindUpstream))
	})
}
