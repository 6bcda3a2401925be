package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/kingrain94/notes-saas-api/internal/metrics"
	"github.com/kingrain94/notes-saas-api/internal/service"
	"github.com/kingrain94/notes-saas-api/pkg/logger"
)

const rateLimitWindow = time.Minute

// Counter increments a fixed-window request counter and returns the new value.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// redisCommands is the part of *redis.Client the counter uses.
type redisCommands interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

type redisCounter struct {
	client redisCommands
}

// NewRedisCounter counts in Redis so limits hold across API instances.
func NewRedisCounter(client *redis.Client) Counter {
	return &redisCounter{client: client}
}

// Incr starts the window on the first hit only, so later hits never extend it. Plain
// EXPIRE keeps this working on Redis versions without EXPIRE NX.
func (r *redisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, fmt.Errorf("failed to start rate limit window: %w", err)
		}
	}
	return count, nil
}

type RateLimitConfig struct {
	TenantLimit int
	GlobalLimit int
	LoginLimit  int
}

type RateLimitMiddleware struct {
	counter Counter
	config  RateLimitConfig
	metrics *metrics.Metrics
	logger  *logger.Logger
}

func NewRateLimitMiddleware(counter Counter, config RateLimitConfig, m *metrics.Metrics, logger *logger.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		counter: counter,
		config:  config,
		metrics: m,
		logger:  logger,
	}
}

// TenantRateLimit limits requests per authenticated tenant. It must run after JWTAuth.
func (m *RateLimitMiddleware) TenantRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, service.KindAuthentication, "Tenant required for rate limiting")
			return
		}
		m.limit(c, "tenant", principal.TenantSlug, m.config.TenantLimit)
	}
}

// GlobalRateLimit limits requests per client IP.
func (m *RateLimitMiddleware) GlobalRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.limit(c, "global", c.ClientIP(), m.config.GlobalLimit)
	}
}

// LoginRateLimit limits credential attempts per client IP.
func (m *RateLimitMiddleware) LoginRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.limit(c, "login", c.ClientIP(), m.config.LoginLimit)
	}
}

func (m *RateLimitMiddleware) limit(c *gin.Context, scope, subject string, limit int) {
	if limit <= 0 {
		c.Next()
		return
	}

	key := fmt.Sprintf("rate_limit:%s:%s", scope, subject)
	reset := strconv.FormatInt(time.Now().Add(rateLimitWindow).Unix(), 10)

	current, err := m.counter.Incr(c.Request.Context(), key, rateLimitWindow)
	if err != nil {
		// Fail open: an unavailable Redis must not take the API down with it.
		m.logger.Error("Redis error in rate limiting", err)
		c.Next()
		return
	}

	c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Header("X-RateLimit-Reset", reset)

	if current > int64(limit) {
		m.metrics.RateLimited(scope)
		c.Header("X-RateLimit-Remaining", "0")
		c.Header("Retry-After", strconv.Itoa(int(rateLimitWindow.Seconds())))
		abortWithError(c, http.StatusTooManyRequests, service.KindRateLimited, fmt.Sprintf("%s rate limit of %d requests per minute exceeded", scope, limit))
		return
	}

	c.Header("X-RateLimit-Remaining", strconv.FormatInt(int64(limit)-current, 10))
	c.Next()
}
