package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"royalty-backend/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "test-secret-that-is-long-enough-for-hs256"

func newAuthRouter(manager *jwt.Manager) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Recovery())
	api := r.Group("/", AuthMiddleware(manager))
	api.GET("/authors", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextSubject))
	})
	api.POST("/authors/1/pay-unpaid", RequireScope("settle"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func send(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	t.Parallel()

	manager := jwt.NewManager(testSecret, time.Hour)
	r := newAuthRouter(manager)

	valid, err := manager.GenerateAccessToken("accounting", "write")
	require.NoError(t, err)
	expired, err := jwt.NewManager(testSecret, -time.Minute).GenerateAccessToken("accounting", "write")
	require.NoError(t, err)
	foreign, err := jwt.NewManager("some-other-secret", time.Hour).GenerateAccessToken("accounting", "write")
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"valid token", valid, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"expired token", expired, http.StatusUnauthorized},
		{"wrong signing key", foreign, http.StatusUnauthorized},
		{"garbage", "not-a-jwt", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := send(r, http.MethodGet, "/authors", tt.token)
			assert.Equal(t, tt.status, w.Code)
		})
	}

	t.Run("subject stored on context", func(t *testing.T) {
		t.Parallel()

		w := send(r, http.MethodGet, "/authors", valid)
		assert.Equal(t, "accounting", w.Body.String())
	})
}

func TestAuthMiddleware_RejectsNonBearerScheme(t *testing.T) {
	t.Parallel()

	r := newAuthRouter(jwt.NewManager(testSecret, time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/authors", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireScope(t *testing.T) {
	t.Parallel()

	manager := jwt.NewManager(testSecret, time.Hour)
	r := newAuthRouter(manager)

	tests := []struct {
		scope  string
		status int
	}{
		{"settle", http.StatusOK},
		{"write settle", http.StatusOK},
		{"admin", http.StatusOK},
		{"write", http.StatusForbidden},
		{"", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run("scope "+tt.scope, func(t *testing.T) {
			t.Parallel()

			token, err := manager.GenerateAccessToken("ops", tt.scope)
			require.NoError(t, err)

			w := send(r, http.MethodPost, "/authors/1/pay-unpaid", token)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	r := newAuthRouter(jwt.NewManager(testSecret, time.Hour))

	t.Run("propagates caller id", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/authors", nil)
		req.Header.Set(HeaderRequestID, "req-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "req-123", w.Header().Get(HeaderRequestID))
	})

	t.Run("mints id when absent", func(t *testing.T) {
		t.Parallel()

		w := send(r, http.MethodGet, "/authors", "")
		assert.Len(t, w.Header().Get(HeaderRequestID), 36)
	})
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	r := newAuthRouter(jwt.NewManager(testSecret, time.Hour))

	w := send(r, http.MethodGet, "/panic", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_SERVER_ERROR")
}
