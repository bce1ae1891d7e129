package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

func sign(t *testing.T, claims jwt.MapClaims, key []byte) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func authRouter() *gin.Engine {
	r := gin.New()
	r.GET("/me", RequireUser(secret), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c).String())
	})
	return r
}

func TestRequireUser(t *testing.T) {
	user := uuid.New()
	valid := sign(t, jwt.MapClaims{"sub": user.String(), "exp": time.Now().Add(time.Hour).Unix()}, secret)

	cases := []struct {
		name   string
		header string
		cookie string
		status int
	}{
		{"bearer header", "Bearer " + valid, "", http.StatusOK},
		{"cookie", "", valid, http.StatusOK},
		{"missing", "", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + valid, "", http.StatusUnauthorized},
		{"wrong key", "Bearer " + sign(t, jwt.MapClaims{"sub": user.String()}, []byte("other")), "", http.StatusUnauthorized},
		{"expired", "Bearer " + sign(t, jwt.MapClaims{"sub": user.String(), "exp": time.Now().Add(-time.Hour).Unix()}, secret), "", http.StatusUnauthorized},
		{"subject not uuid", "Bearer " + sign(t, jwt.MapClaims{"sub": "admin"}, secret), "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "access_token", Value: tc.cookie})
			}
			w := httptest.NewRecorder()
			authRouter().ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, user.String(), w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), `"code":"unauthenticated"`)
			}
		})
	}
}

func TestRequireCronSecret(t *testing.T) {
	r := gin.New()
	r.POST("/run", RequireCronSecret("s3cret"), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodPost, "/run", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/run", nil)
	req.Header.Set("X-Cron-Secret", "s3cret")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	disabled := gin.New()
	disabled.POST("/run", RequireCronSecret(""), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	req = httptest.NewRequest(http.MethodPost, "/run", nil)
	req.Header.Set("X-Cron-Secret", "")
	w = httptest.NewRecorder()
	disabled.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRateLimiter_SlidingWindow(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	r := gin.New()
	r.GET("/x", rl.Limit(), func(c *gin.Context) { c.Status(http.StatusOK) })
	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.2"))

	now = now.Add(61 * time.Second)
	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
}

func TestRateLimiter_SweepDropsIdleKeys(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(5, time.Minute)
	rl.now = func() time.Time { return now }

	r := gin.New()
	r.GET("/x", rl.Limit(), func(c *gin.Context) { c.Status(http.StatusOK) })
	hit := func(ip string) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = ip + ":1234"
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	hit("10.0.0.1")
	now = now.Add(30 * time.Second)
	hit("10.0.0.2")
	require.Len(t, rl.requests, 2)

	now = now.Add(45 * time.Second)
	rl.Sweep()
	assert.Len(t, rl.requests, 1)
	assert.Contains(t, rl.requests, "ip:10.0.0.2")

	now = now.Add(time.Minute)
	rl.Sweep()
	assert.Empty(t, rl.requests)
}

func TestRateLimiter_InstancesKeepSeparateBudgets(t *testing.T) {
	taxCheck := NewRateLimiter(1, time.Minute)
	email := NewRateLimiter(1, time.Minute)

	r := gin.New()
	r.POST("/api/tax-check", taxCheck.Limit(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/api/emails", email.Limit(), func(c *gin.Context) { c.Status(http.StatusOK) })
	post := func(path string) int {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.RemoteAddr = "10.0.0.9:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, post("/api/emails"))
	assert.Equal(t, http.StatusOK, post("/api/tax-check"))
	assert.Equal(t, http.StatusTooManyRequests, post("/api/emails"))
}
