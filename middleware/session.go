package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionCookie = "cart_session"
	SessionHeader = "X-Cart-Session"
	sessionKey    = "cartSession"
)

// CartSession resolves the cart session id from the cookie or the
// X-Cart-Session header, minting a new one when neither is a valid UUID.
func CartSession(maxAge int) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(SessionHeader)
		if id == "" {
			id, _ = c.Cookie(SessionCookie)
		}
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, id, maxAge, "/", "", false, true)
		}
		c.Header(SessionHeader, id)
		c.Set(sessionKey, id)
		c.Next()
	}
}

func SessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}
