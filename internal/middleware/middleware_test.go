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

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://portal.example"}), RequestLogger())

	api := r.Group("/api", AuthMiddleware(secret))
	api.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": UserID(c), "role": c.GetString(ContextUserRole)})
	})
	api.GET("/staff", RequireStaff(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Origin", "https://portal.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthAcceptsValidToken(t *testing.T) {
	r := newRouter()
	token := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{
		"sub": 11, "role": "patient", "exp": time.Now().Add(time.Hour).Unix(),
	})

	w := do(r, http.MethodGet, "/api/whoami", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":11,"role":"patient"}`, w.Body.String())
	assert.Equal(t, "https://portal.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestAuthRejects(t *testing.T) {
	r := newRouter()

	cases := map[string]string{
		"missing":      "",
		"wrong secret": sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": 1, "role": "staff"}),
		"expired":      sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": 1, "role": "staff", "exp": time.Now().Add(-time.Hour).Unix()}),
		"no role":      sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": 1}),
	}

	for name, token := range cases {
		w := do(r, http.MethodGet, "/api/whoami", token)
		assert.Equal(t, http.StatusUnauthorized, w.Code, name)
	}
}

func TestRequireStaff(t *testing.T) {
	r := newRouter()

	patient := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": 11, "role": "patient"})
	doctor := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": 3, "role": "doctor"})

	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/api/staff", patient).Code)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodGet, "/api/staff", doctor).Code)
}

func TestCORSPreflightAndUnknownOrigin(t *testing.T) {
	r := newRouter()

	w := do(r, http.MethodOptions, "/api/whoami", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
