package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// UserIDHeader carries the caller identity of admin requests.
	UserIDHeader = "X-User-ID"
	// UserIDKey is the gin context key holding the caller identity.
	UserIDKey = "user_id"
)

// CallerIdentity stores the X-User-ID header in the context. Whether the
// caller may mutate anything is decided by the tracker service.
func CallerIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(UserIDKey, strings.TrimSpace(c.GetHeader(UserIDHeader)))
		c.Next()
	}
}

// UserID returns the caller identity set by CallerIdentity.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
