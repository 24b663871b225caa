package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Dantikal/electronik-shop/config"
)

// SessionCookie carries the anonymous visitor's cart session key.
const SessionCookie = "shop_session"

const sessionCookieMaxAge = 30 * 24 * 60 * 60

// Identity attaches "user_id" to the context when a valid bearer token is
// present. Requests without a token pass through as anonymous; requests with
// a bad token are rejected.
func Identity(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if tokenString == "" {
			c.Next()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("invalid token signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}
		id, ok := claims["user_id"].(float64)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		c.Set("user_id", uint(id))
		c.Next()
	}
}

// RequireUser aborts anonymous requests.
func RequireUser(c *gin.Context) {
	if _, exists := c.Get("user_id"); !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		c.Abort()
		return
	}
	c.Next()
}

// RequireAPIKey guards the admin surface used by the external
// payment-confirmation process.
func RequireAPIKey(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.AdminAPIKey == "" || c.GetHeader("X-API-KEY") != cfg.AdminAPIKey {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing API key"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated user, or nil for anonymous callers.
func CurrentUserID(c *gin.Context) *uint {
	if v, exists := c.Get("user_id"); exists {
		if id, ok := v.(uint); ok {
			return &id
		}
	}
	return nil
}

// SessionKey returns the visitor's session key, allocating one on first use.
// Repeated calls within the same request or session return the same key.
func SessionKey(c *gin.Context) string {
	if v, exists := c.Get("session_key"); exists {
		if key, ok := v.(string); ok {
			return key
		}
	}
	key, err := c.Cookie(SessionCookie)
	if err != nil || key == "" {
		key = uuid.NewString()
		SetSessionCookie(c, key)
	}
	c.Set("session_key", key)
	return key
}

func SetSessionCookie(c *gin.Context, key string) {
	c.SetCookie(SessionCookie, key, sessionCookieMaxAge, "/", "", false, true)
}
