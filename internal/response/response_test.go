package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/training/practice/internal/apperror"
)

func newEngine(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", handler)
	return r
}

func perform(t *testing.T, r http.Handler, requestID string) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if requestID != "" {
		req.Header.Set(HeaderRequestID, requestID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestRequestIDIsEchoedOrGenerated(t *testing.T) {
	r := newEngine(func(c *gin.Context) { OK(c, nil) })

	w, env := perform(t, r, "abc-123")
	require.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
	require.Equal(t, "abc-123", env.RequestID)
	require.True(t, env.Success)
	require.Equal(t, MsgOperationSuccessful, env.Message)
	require.Nil(t, env.Data)
	require.NotEmpty(t, env.Timestamp)

	w, env = perform(t, r, "")
	require.NotEmpty(t, env.RequestID)
	require.Equal(t, env.RequestID, w.Header().Get(HeaderRequestID))
}

func TestMalformedRequestIDIsReplaced(t *testing.T) {
	r := newEngine(func(c *gin.Context) { OK(c, nil) })

	cases := map[string]string{
		"too long":      strings.Repeat("a", MaxRequestIDLength+1),
		"line break":    "abc\nforged=1",
		"spaces":        "abc def",
		"markup":        "<script>",
		"non ascii":     "idé",
		"json breakout": `abc","admin":true`,
	}
	for name, inbound := range cases {
		t.Run(name, func(t *testing.T) {
			w, env := perform(t, r, inbound)
			require.NotEqual(t, inbound, env.RequestID)
			require.Equal(t, env.RequestID, w.Header().Get(HeaderRequestID))
			_, err := uuid.Parse(env.RequestID)
			require.NoError(t, err)
		})
	}

	t.Run("longest allowed id is kept", func(t *testing.T) {
		inbound := strings.Repeat("x", MaxRequestIDLength)
		w, env := perform(t, r, inbound)
		require.Equal(t, inbound, env.RequestID)
		require.Equal(t, inbound, w.Header().Get(HeaderRequestID))
	})

	t.Run("punctuation used by tracing ids is kept", func(t *testing.T) {
		inbound := "svc.a:trace_01-XYZ"
		_, env := perform(t, r, inbound)
		require.Equal(t, inbound, env.RequestID)
	})
}

func TestErrorTranslation(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", apperror.NotFound("User not found with ID: %s", "x"), http.StatusNotFound, "User not found with ID: x"},
		{"conflict", apperror.Conflict("Email already exists: %s", "a@b.c"), http.StatusConflict, "Email already exists: a@b.c"},
		{"bad request", apperror.BadRequest("bad sort"), http.StatusBadRequest, "bad sort"},
		{"upstream", apperror.Upstream(503, errors.New("secret detail"), "Upstream returned 503"), http.StatusBadGateway, "Upstream returned 503"},
		{"timeout", apperror.Timeout(errors.New("deadline"), "Upstream request timed out"), http.StatusGatewayTimeout, "Upstream request timed out"},
		{"unhandled", errors.New("pq: connection refused"), http.StatusInternalServerError, "An unexpected error occurred"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newEngine(func(c *gin.Context) { Error(c, tc.err) })
			w, env := perform(t, r, "rid")

			require.Equal(t, tc.status, w.Code)
			require.False(t, env.Success)
			require.Equal(t, tc.message, env.Message)
			require.Nil(t, env.Data)
			require.Equal(t, "rid", env.RequestID)
		})
	}
}

func TestValidationErrorKeepsFields(t *testing.T) {
	fields := []apperror.FieldError{
		{Field: "name", Message: "name is a required field"},
		{Field: "email", Message: "email must be a valid email address"},
	}
	r := newEngine(func(c *gin.Context) { Error(c, apperror.Validation(fields)) })
	w, env := perform(t, r, "")

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Validation failed: name: name is a required field, email: email must be a valid email address", env.Message)
	require.Equal(t, fields, env.Errors)
}
