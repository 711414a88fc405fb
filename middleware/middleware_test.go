package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"roombook/config"
	"roombook/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	config.AppConfig.JWTSecret = "test-secret"
}

func newAuthRouter() *gin.Engine {
	r := gin.New()
	r.Use(JWTAuthMiddleware())
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userID": c.GetString("userID"), "admin": c.GetBool("isAdmin")})
	})
	admin := r.Group("/admin")
	admin.Use(AdminOnlyMiddleware())
	admin.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func doGet(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	r := newAuthRouter()

	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/me", "garbage").Code)

	token, err := utils.GenerateToken("user-1", utils.RoleUser, time.Hour)
	require.NoError(t, err)
	w := doGet(r, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userID":"user-1","admin":false}`, w.Body.String())

	expired, err := utils.GenerateToken("user-1", utils.RoleUser, -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/me", expired).Code)
}

func TestAdminOnlyMiddleware(t *testing.T) {
	r := newAuthRouter()

	user, err := utils.GenerateToken("user-1", utils.RoleUser, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, doGet(r, "/admin/ping", user).Code)

	admin, err := utils.GenerateToken("ops", utils.RoleAdmin, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, doGet(r, "/admin/ping", admin).Code)
}

func newLimitedRouter(t *testing.T, trusted []string) *gin.Engine {
	t.Helper()
	r := gin.New()
	require.NoError(t, r.SetTrustedProxies(trusted))
	r.Use(RateLimitMiddleware(2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func sendFrom(r http.Handler, remoteAddr, forwardedFor string) int {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitMiddleware(t *testing.T) {
	r := newLimitedRouter(t, nil)

	assert.Equal(t, http.StatusOK, sendFrom(r, "1.1.1.1:4000", ""))
	assert.Equal(t, http.StatusOK, sendFrom(r, "1.1.1.1:4001", ""))
	assert.Equal(t, http.StatusTooManyRequests, sendFrom(r, "1.1.1.1:4002", ""))
	assert.Equal(t, http.StatusOK, sendFrom(r, "2.2.2.2:4000", ""))
}

func TestRateLimitIgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	r := newLimitedRouter(t, nil)

	assert.Equal(t, http.StatusOK, sendFrom(r, "1.1.1.1:4000", "9.9.9.1"))
	assert.Equal(t, http.StatusOK, sendFrom(r, "1.1.1.1:4000", "9.9.9.2"))
	assert.Equal(t, http.StatusTooManyRequests, sendFrom(r, "1.1.1.1:4000", "9.9.9.3"),
		"a rotating X-Forwarded-For must not mint fresh limiters")
}

func TestRateLimitUsesForwardedForFromTrustedProxy(t *testing.T) {
	r := newLimitedRouter(t, []string{"10.0.0.1"})

	assert.Equal(t, http.StatusOK, sendFrom(r, "10.0.0.1:4000", "3.3.3.3"))
	assert.Equal(t, http.StatusOK, sendFrom(r, "10.0.0.1:4000", "3.3.3.3"))
	assert.Equal(t, http.StatusTooManyRequests, sendFrom(r, "10.0.0.1:4000", "3.3.3.3"))
	assert.Equal(t, http.StatusOK, sendFrom(r, "10.0.0.1:4000", "4.4.4.4"))
}

func TestRateLimiterStorePrunesIdleEntries(t *testing.T) {
	store := newRateLimiterStore(2)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	first := store.getLimiter("1.1.1.1")
	now = now.Add(limiterIdle / 2)
	store.getLimiter("2.2.2.2")
	require.Len(t, store.limiters, 2)

	now = now.Add(limiterIdle/2 + time.Second)
	store.getLimiter("2.2.2.2")
	assert.Len(t, store.limiters, 1)
	assert.NotContains(t, store.limiters, "1.1.1.1")

	assert.NotSame(t, first, store.getLimiter("1.1.1.1"))
}
