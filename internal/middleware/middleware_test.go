package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func sign(t *testing.T, claims jwt.MapClaims, key string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return s
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user":  c.GetString(ContextUserID),
			"email": c.GetString(ContextUserEmail),
			"role":  c.GetString(ContextUserRole),
		})
	})
	r.GET("/x", handlers...)
	return r
}

func do(r http.Handler, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter(AuthMiddleware(secret))

	tok := sign(t, jwt.MapClaims{
		"sub":   "user_123",
		"email": "ana@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}, secret)

	w := do(r, "Bearer "+tok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":"user_123","email":"ana@example.com","role":"customer"}`, w.Body.String())
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	r := newRouter(AuthMiddleware(secret))

	expired := sign(t, jwt.MapClaims{"sub": "u", "exp": time.Now().Add(-time.Hour).Unix()}, secret)
	wrongKey := sign(t, jwt.MapClaims{"sub": "u"}, "other")
	noSub := sign(t, jwt.MapClaims{"email": "a@b.c"}, secret)

	cases := map[string]string{
		"":                   "missing_authorization_header",
		"Basic abc":          "invalid_authorization_header",
		"Bearer ":            "invalid_authorization_header",
		"Bearer " + expired:  "invalid_token",
		"Bearer " + wrongKey: "invalid_token",
		"Bearer " + noSub:    "invalid_token_payload",
	}
	for header, code := range cases {
		w := do(r, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
		assert.Contains(t, w.Body.String(), code, header)
	}
}

func TestRequireRole(t *testing.T) {
	r := newRouter(AuthMiddleware(secret), RequireRole(RoleAdmin))

	customer := sign(t, jwt.MapClaims{"sub": "u1", "role": "customer"}, secret)
	admin := sign(t, jwt.MapClaims{"sub": "u2", "role": "admin"}, secret)

	assert.Equal(t, http.StatusForbidden, do(r, "Bearer "+customer).Code)
	assert.Equal(t, http.StatusOK, do(r, "Bearer "+admin).Code)
}

func TestCronSecret(t *testing.T) {
	r := newRouter(CronSecret("s3cret"))
	assert.Equal(t, http.StatusOK, do(r, "Bearer s3cret").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "Bearer nope").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)

	disabled := newRouter(CronSecret(""))
	assert.Equal(t, http.StatusServiceUnavailable, do(disabled, "Bearer anything").Code)
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://app.example.com"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
