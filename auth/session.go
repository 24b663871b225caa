package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Dantikal/electronik-shop/middleware"
)

// POST /auth/session
// Allocates a session key for an anonymous visitor and sets it as a cookie.
// Calling it again within the same session returns the existing key.
func CreateSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		key, err := c.Cookie(middleware.SessionCookie)
		if err != nil || key == "" {
			key = uuid.NewString()
			middleware.SetSessionCookie(c, key)
		}
		c.JSON(http.StatusOK, gin.H{"session_key": key})
	}
}
