package adminController

import (
	"log"
	"net/http"
	"time"

	"github.com/galazzia/storefront-api/auth"
	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// POST /admin/login
func Login(password auth.AdminPassword, issuer *auth.TokenIssuer, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password is required"})
			return
		}

		if !password.Check(req.Password) {
			log.Printf("⚠️ Failed admin login from %s", c.ClientIP())
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
			return
		}

		token, expiresAt, err := issuer.IssueAdmin(ttl)
		if err != nil {
			log.Println("❌ Failed to issue admin token:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token, "expires_at": expiresAt})
	}
}
