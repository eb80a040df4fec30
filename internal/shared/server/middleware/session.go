package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionCookieName is the cookie carrying the visitor's workspace id.
const SessionCookieName = "sf_session"

const sessionIDKey = "sessionId"

// Session assigns every visitor a stable workspace id. A missing or
// malformed cookie is replaced with a fresh UUID.
func Session(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookieName)
		id = strings.TrimSpace(id)
		if err != nil || !validSessionID(id) {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookieName, id, 0, "/", "", secure, true)
		}
		c.Set(sessionIDKey, id)
		c.Next()
	}
}

// SessionIDFromContext fetches the workspace id set by Session.
func SessionIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(sessionIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

func validSessionID(id string) bool {
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
