package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/training/practice/internal/response"
)

// Recovery turns a handler panic into the standard 500 envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		zerolog.Ctx(c.Request.Context()).Error().
			Str("panic", fmt.Sprint(rec)).
			Str("request_id", response.RequestID(c)).
			Str("path", c.Request.URL.Path).
			Msg("Recovered from panic")
		response.AbortFail(c, http.StatusInternalServerError, response.ErrInternal)
	})
}

// NoRoute answers unknown paths with a 404 envelope.
func NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.AbortFail(c, http.StatusNotFound, response.ErrRouteNotFound)
	}
}

// NoMethod answers a known path with an unsupported method with a 405 envelope.
func NoMethod() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.AbortFail(c, http.StatusMethodNotAllowed, response.ErrMethodNotAllowed)
	}
}
