package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestTokenBucketRefillsAcrossPartialIntervals(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := newTokenBucket(1, 10*time.Second)
	b.last = now
	b.now = func() time.Time { return now }

	ok, _ := b.take()
	assert.True(t, ok)
	ok, wait := b.take()
	assert.False(t, ok)
	assert.Equal(t, 10*time.Second, wait)

	// 兩次各過 6 秒，累積超過一個補充週期
	now = now.Add(6 * time.Second)
	ok, wait = b.take()
	assert.False(t, ok)
	assert.Equal(t, 4*time.Second, wait)

	now = now.Add(6 * time.Second)
	ok, _ = b.take()
	assert.True(t, ok)

	ok, wait = b.take()
	assert.False(t, ok)
	assert.Equal(t, 8*time.Second, wait)
}

func TestRateLimitSkipsExemptPaths(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := newTokenBucket(1, time.Minute)
	b.last = now
	b.now = func() time.Time { return now }

	router := gin.New()
	router.Use(rateLimit(b, "/live"))
	router.GET("/live", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/recipes.json", func(c *gin.Context) { c.Status(http.StatusOK) })

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	assert.Equal(t, http.StatusOK, get("/recipes.json").Code)

	rec := get("/recipes.json")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, get("/live").Code)
	}
}

func TestRecoveryReturnsJSON(t *testing.T) {
	t.Parallel()

	router := gin.New()
	router.Use(Recovery())
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error","code":"INTERNAL_ERROR"}`, rec.Body.String())
}
