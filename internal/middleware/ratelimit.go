package middleware

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/tasktribe/tasktribe-api/internal/config"
	apierrors "github.com/tasktribe/tasktribe-api/internal/errors"
)

// RateLimit is a redis-backed token bucket keyed by client IP, applied to
// the credential endpoints. When redis is unavailable requests pass through
// rather than failing closed.
func RateLimit(cfg *config.Config, rdb *redis.Client) gin.HandlerFunc {
	if !cfg.RateLimitEnabled || rdb == nil {
		return func(c *gin.Context) { c.Next() }
	}

	limiterScript := redis.NewScript(`
		local key = KEYS[1]
		local now_ms = tonumber(ARGV[1])
		local capacity = tonumber(ARGV[2])
		local refill_tokens = tonumber(ARGV[3])
		local interval_ms = tonumber(ARGV[4])
		local ttl_seconds = tonumber(ARGV[5])

		local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
		local tokens = tonumber(state[1])
		local last_refill = tonumber(state[2])

		if tokens == nil or last_refill == nil then
			tokens = capacity
			last_refill = now_ms
		end

		if interval_ms > 0 and refill_tokens > 0 then
			local elapsed = math.max(0, now_ms - last_refill)
			local intervals = math.floor(elapsed / interval_ms)
			if intervals > 0 then
				tokens = math.min(capacity, tokens + (intervals * refill_tokens))
				last_refill = last_refill + (intervals * interval_ms)
			end
		end

		local allowed = 0
		if tokens > 0 then
			allowed = 1
			tokens = tokens - 1
		end

		redis.call('HMSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
		redis.call('EXPIRE', key, ttl_seconds)

		return allowed
	`)

	ttl := 2 * cfg.RateLimitInterval
	if ttl < time.Minute {
		ttl = time.Minute
	}

	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", c.FullPath(), c.ClientIP())

		args := []interface{}{
			time.Now().UnixMilli(),
			cfg.RateLimitCapacity,
			cfg.RateLimitRefill,
			cfg.RateLimitInterval.Milliseconds(),
			int64(ttl / time.Second),
		}

		allowed, err := limiterScript.Run(c.Request.Context(), rdb, []string{key}, args...).Int64()
		if err != nil {
			log.Printf("rate limiter unavailable for %s: %v", key, err)
			c.Next()
			return
		}

		if allowed != 1 {
			apierrors.TooManyRequests(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}
