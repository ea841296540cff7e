package response

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/training/practice/internal/apperror"
)

// Envelope is the standardized API response wrapper.
type Envelope struct {
	Success   bool                  `json:"success"`
	Message   string                `json:"message"`
	Data      any                   `json:"data"`
	Errors    []apperror.FieldError `json:"errors,omitempty"`
	Timestamp string                `json:"timestamp"`
	RequestID string                `json:"requestId"`
}

// ────────────────────────────────────────────────────────────────────────────
// Helper builders
// ────────────────────────────────────────────────────────────────────────────

// Success sends a successful envelope with the given status code, message and data.
func Success(c *gin.Context, statusCode int, message string, data any) {
	c.JSON(statusCode, build(c, true, message, data, nil))
}

// OK sends 200 with the generic success message.
func OK(c *gin.Context, data any) {
	Success(c, http.StatusOK, MsgOperationSuccessful, data)
}

// Fail sends an error envelope with data set to null.
func Fail(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, build(c, false, message, nil, nil))
}

// FailWithData sends an error envelope that still carries a payload.
func FailWithData(c *gin.Context, statusCode int, message string, data any) {
	c.JSON(statusCode, build(c, false, message, data, nil))
}

// AbortFail aborts the middleware chain and sends an error envelope.
func AbortFail(c *gin.Context, statusCode int, code ErrCode) {
	c.AbortWithStatusJSON(statusCode, build(c, false, GetMessage(code), nil, nil))
}

// Error is the single translation point from service errors to HTTP.
// Unclassified errors are logged and reported as a generic 500 so no
// internal detail reaches the caller.
func Error(c *gin.Context, err error) {
	log := zerolog.Ctx(c.Request.Context())

	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		log.Error().Err(err).Str("request_id", RequestID(c)).Msg("Unhandled error")
		Fail(c, http.StatusInternalServerError, GetMessage(ErrInternal))
		return
	}

	status, code := classify(appErr.Kind)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("code", string(code)).Str("request_id", RequestID(c)).Msg("Request failed")
	} else {
		log.Debug().Err(err).Str("code", string(code)).Msg("Request rejected")
	}

	message := appErr.Message
	if message == "" {
		message = GetMessage(code)
	}
	c.JSON(status, build(c, false, message, nil, appErr.Fields))
}

func classify(kind apperror.Kind) (int, ErrCode) {
	switch kind {
	case apperror.KindNotFound:
		return http.StatusNotFound, ErrNotFound
	case apperror.KindConflict:
		return http.StatusConflict, ErrConflict
	case apperror.KindValidation:
		return http.StatusBadRequest, ErrValidation
	case apperror.KindBadRequest:
		return http.StatusBadRequest, ErrInvalidPayload
	case apperror.KindUpstream:
		return http.StatusBadGateway, ErrUpstream
	case apperror.KindTimeout:
		return http.StatusGatewayTimeout, ErrUpstreamTimeout
	default:
		return http.StatusInternalServerError, ErrInternal
	}
}

// ────────────────────────────────────────────────────────────────────────────
// Internal helpers
// ────────────────────────────────────────────────────────────────────────────

func build(c *gin.Context, success bool, message string, data any, fields []apperror.FieldError) Envelope {
	return Envelope{
		Success:   success,
		Message:   message,
		Data:      data,
		Errors:    fields,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: RequestID(c),
	}
}

// RequestID returns the correlation id for c, generating one if the
// middleware did not run.
func RequestID(c *gin.Context) string {
	if id := c.GetString(ContextKeyRequestID); id != "" {
		return id
	}
	id := uuid.New().String()
	c.Set(ContextKeyRequestID, id)
	c.Header(HeaderRequestID, id)
	return id
}
