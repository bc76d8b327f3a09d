package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shortify/shortify/internal/domain"
)

// principalKey is the gin context key holding the authenticated principal.
const principalKey = "auth.principal"

// RequireAuth rejects requests without a valid session token.
func RequireAuth(tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject, ok := verifyRequest(tokens, c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				domain.ErrorResponse{Error: "unauthorized, please log in"})
			return
		}
		c.Set(principalKey, subject)
		c.Next()
	}
}

// OptionalAuth populates the principal when a valid token is present but
// lets anonymous requests through.
func OptionalAuth(tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if subject, ok := verifyRequest(tokens, c); ok {
			c.Set(principalKey, subject)
		}
		c.Next()
	}
}

// Principal returns the authenticated principal for the request, or the
// empty string for anonymous requests.
func Principal(c *gin.Context) string {
	subject, _ := c.Get(principalKey)
	if s, ok := subject.(string); ok {
		return s
	}
	return ""
}

func verifyRequest(tokens *TokenManager, c *gin.Context) (string, bool) {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie == "" {
		return "", false
	}

	subject, err := tokens.Verify(cookie)
	if err != nil {
		return "", false
	}
	return subject, true
}
