package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"recipe-normalizer/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// tokenBucket 每個 interval 補充一個令牌，未滿一個週期的時間會保留到下次
type tokenBucket struct {
	mu       sync.Mutex
	tokens   int
	capacity int
	interval time.Duration
	last     time.Time
	now      func() time.Time
}

func newTokenBucket(requests int, window time.Duration) *tokenBucket {
	return &tokenBucket{
		tokens:   requests,
		capacity: requests,
		interval: max(window/time.Duration(requests), time.Nanosecond),
		last:     time.Now(),
		now:      time.Now,
	}
}

// take 取用一個令牌；取不到時回傳距離下一個令牌的時間
func (b *tokenBucket) take() (bool, time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	if n := int(now.Sub(b.last) / b.interval); n > 0 {
		b.tokens = min(b.capacity, b.tokens+n)
		b.last = b.last.Add(time.Duration(n) * b.interval)
	}

	if b.tokens == 0 {
		return false, b.interval - now.Sub(b.last)
	}
	b.tokens--
	return true, 0
}

// RateLimit 限制讀取集合檔案的請求頻率，skip 中的路徑（健康檢查）不受限
func RateLimit(requests int, window time.Duration, skip ...string) gin.HandlerFunc {
	return rateLimit(newTokenBucket(requests, window), skip...)
}

func rateLimit(bucket *tokenBucket, skip ...string) gin.HandlerFunc {
	exempt := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		exempt[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := exempt[c.FullPath()]; ok {
			c.Next()
			return
		}

		ok, wait := bucket.take()
		if ok {
			c.Next()
			return
		}

		retryAfter := max(int(math.Ceil(wait.Seconds())), 1)
		common.LogInfo("Rate limit exceeded",
			zap.String("ip", c.ClientIP()),
			zap.String("path", c.Request.URL.Path),
			zap.Int("retry_after", retryAfter),
		)
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":       "Too many requests",
			"code":        "TOO_MANY_REQUESTS",
			"retry_after": retryAfter,
		})
	}
}
