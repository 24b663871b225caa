package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Dantikal/electronik-shop/config"
	"github.com/Dantikal/electronik-shop/middleware"
	"github.com/Dantikal/electronik-shop/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

// authRouter wires the auth endpoints behind the same identity middleware the
// server uses, plus a protected probe route and an open one.
func authRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWTSecret: "test-secret"}
	r := gin.New()
	r.Use(middleware.Identity(cfg))

	group := r.Group("/auth")
	{
		group.POST("/register", Register(db, cfg))
		group.POST("/login", Login(db, cfg))
		group.POST("/session", CreateSession())
	}

	r.GET("/me", middleware.RequireUser, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": *middleware.CurrentUserID(c)})
	})
	r.GET("/open", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerBody() gin.H {
	return gin.H{
		"first_name": "Ivan",
		"email":      "ivan@example.com",
		"password":   "secret123",
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	r := authRouter(db)

	w := doJSON(t, r, http.MethodPost, "/auth/register", "", registerBody())
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotContains(t, w.Body.String(), "secret123")

	w = doJSON(t, r, http.MethodPost, "/auth/register", "", registerBody())
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "already registered")

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.EqualValues(t, 1, users)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	r := authRouter(db)
	doJSON(t, r, http.MethodPost, "/auth/register", "", registerBody())

	w := doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{"email": "ivan@example.com", "password": "wrong-pass"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Unknown accounts answer the same way as bad passwords.
	w = doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{"email": "nobody@example.com", "password": "secret123"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginTokenAuthenticatesRequests(t *testing.T) {
	db := newTestDB(t)
	r := authRouter(db)
	doJSON(t, r, http.MethodPost, "/auth/register", "", registerBody())

	w := doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{"email": "ivan@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	w = doJSON(t, r, http.MethodGet, "/me", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var me struct {
		UserID uint `json:"user_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	require.Equal(t, login.User.ID, me.UserID)
}

func TestIdentityMiddleware(t *testing.T) {
	db := newTestDB(t)
	r := authRouter(db)

	// Anonymous requests pass through open routes.
	w := doJSON(t, r, http.MethodGet, "/open", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// But never reach protected ones.
	w = doJSON(t, r, http.MethodGet, "/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// A garbage token is rejected even on open routes.
	w = doJSON(t, r, http.MethodGet, "/open", "not-a-jwt", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionCookieIdempotent(t *testing.T) {
	db := newTestDB(t)
	r := authRouter(db)

	w := doJSON(t, r, http.MethodPost, "/auth/session", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var first struct {
		SessionKey string `json:"session_key"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	require.NotEmpty(t, first.SessionKey)

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	require.Equal(t, first.SessionKey, cookie.Value)

	// Repeating the call with the cookie returns the same key.
	req := httptest.NewRequest(http.MethodPost, "/auth/session", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var second struct {
		SessionKey string `json:"session_key"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	require.Equal(t, first.SessionKey, second.SessionKey)
}
