package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"unitra/internal/pkg/ratelimit"
	"unitra/internal/store"
)

func rateLimitRouter(limiter *ratelimit.Limiter, failOpen bool, userID, tier string) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set(CtxUserID, userID)
			c.Set(CtxTier, tier)
		}
	})
	r.Use(RateLimit(limiter, "translate", failOpen))
	r.POST("/translate", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doPost(router *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/translate", nil))
	return w
}

func TestRateLimit_AllowsUnderLimit(t *testing.T) {
	limiter := ratelimit.New(store.NewMemory())
	router := rateLimitRouter(limiter, false, "u1", "free")

	w := doPost(router)

	assert.Equal(t, http.StatusOK, w.Code)
	// FREE tier is 20/min.
	assert.Equal(t, "20", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "19", w.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimit_RejectsOverLimit(t *testing.T) {
	limiter := ratelimit.New(store.NewMemory())
	router := rateLimitRouter(limiter, false, "u1", "free")

	var w *httptest.ResponseRecorder
	for i := 0; i < 21; i++ {
		w = doPost(router)
	}

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimit_TierControlsLimit(t *testing.T) {
	limiter := ratelimit.New(store.NewMemory())
	router := rateLimitRouter(limiter, false, "u1", "pro")

	w := doPost(router)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "120", w.Header().Get("X-RateLimit-Limit"))
}

func TestRateLimit_UnknownTierFallsBackToFree(t *testing.T) {
	limiter := ratelimit.New(store.NewMemory())
	router := rateLimitRouter(limiter, false, "u1", "platinum")

	w := doPost(router)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "20", w.Header().Get("X-RateLimit-Limit"))
}

func TestRateLimit_NoIdentity(t *testing.T) {
	limiter := ratelimit.New(store.NewMemory())
	router := rateLimitRouter(limiter, false, "", "")

	w := doPost(router)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestRateLimit_StoreDownFailClosed(t *testing.T) {
	limiter := ratelimit.New(failingStore{})
	router := rateLimitRouter(limiter, false, "u1", "free")

	w := doPost(router)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "STORE_UNAVAILABLE")
}

func TestRateLimit_StoreDownFailOpen(t *testing.T) {
	limiter := ratelimit.New(failingStore{})
	router := rateLimitRouter(limiter, true, "u1", "free")

	w := doPost(router)

	assert.Equal(t, http.StatusOK, w.Code)
}
