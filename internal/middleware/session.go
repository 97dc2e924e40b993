package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionHeader = "X-Session-ID"
	SessionCookie = "session_id"

	sessionKey = "session_id"
)

// Session resolves the caller's session from the header or cookie and
// issues a fresh id when neither carries a valid uuid.
func Session(ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(SessionHeader)
		if id == "" {
			id, _ = c.Cookie(SessionCookie)
		}

		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		c.Set(sessionKey, id)
		c.Header(SessionHeader, id)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, id, int(ttl.Seconds()), "/", "", false, true)

		c.Next()
	}
}

// SessionID returns the id resolved by Session, or "" when the middleware
// did not run.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}
