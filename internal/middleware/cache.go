package middleware

import (
	"github.com/gin-gonic/gin"
)

// NoStore marks API responses as uncacheable; user data changes on every write.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
