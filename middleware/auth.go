package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TokenVerifier verifies a session token and returns its email claim.
type TokenVerifier interface {
	VerifyEmailToken(token string) (string, error)
}

// CurrentUser reads the session token from the "token" cookie, verifies
// it, and stashes the email claim in the context for the handler. Missing,
// tampered and expired tokens all abort with 401.
func CurrentUser(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("token")
		if err != nil || token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		email, err := tokens.VerifyEmailToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		c.Set("email", email)
		c.Next()
	}
}
