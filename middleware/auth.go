package middleware

import (
	"net/http"
	"strings"

	"github.com/galazzia/storefront-api/auth"
	"github.com/gin-gonic/gin"
)

const (
	ClaimsKey = "claims"
	CartIDKey = "cart_id"
)

// ValidateToken accepts "Authorization: Bearer <token>" or a ?token= query
// parameter (used by the websocket feed) and stores the claims in the context.
func ValidateToken(issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			return
		}

		claims, err := issuer.Parse(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(ClaimsKey, claims)
		if claims.CartID != "" {
			c.Set(CartIDKey, claims.CartID)
		}
		c.Next()
	}
}

// RequireRole must run after ValidateToken.
func RequireRole(role auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := c.Get(ClaimsKey)
		if !ok || claims.(*auth.Claims).Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.Next()
	}
}

// CartID returns the cart session bound to the guest token.
func CartID(c *gin.Context) string {
	return c.GetString(CartIDKey)
}
