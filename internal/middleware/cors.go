package middleware

import (
	"net/http"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gin-gonic/gin"

	"github.com/kingrain94/notes-saas-api/internal/metrics"
	"github.com/kingrain94/notes-saas-api/internal/service"
)

const (
	corsAllowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	corsAllowHeaders = "Authorization, Content-Type, X-Request-ID"
	corsMaxAge       = "600"
)

// CORSMiddleware answers cross-origin requests from a fixed allow-list. Entries may be
// glob patterns such as https://*.vercel.app.
type CORSMiddleware struct {
	allowed []string
	metrics *metrics.Metrics
}

func NewCORSMiddleware(allowedOrigins []string, m *metrics.Metrics) *CORSMiddleware {
	allowed := make([]string, 0, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin != "" && doublestar.ValidatePattern(origin) {
			allowed = append(allowed, origin)
		}
	}
	return &CORSMiddleware{allowed: allowed, metrics: m}
}

func (m *CORSMiddleware) IsAllowed(origin string) bool {
	for _, pattern := range m.allowed {
		if pattern == "*" || pattern == origin {
			return true
		}
		if ok, _ := doublestar.Match(pattern, origin); ok {
			return true
		}
	}
	return false
}

func (m *CORSMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		c.Writer.Header().Add("Vary", "Origin")

		if origin == "" {
			c.Next()
			return
		}

		if !m.IsAllowed(origin) {
			m.metrics.CORSRejected()
			if c.Request.Method == http.MethodOptions {
				abortWithError(c, http.StatusForbidden, service.KindAuthorization, "Origin not allowed")
				return
			}
			// Without CORS headers the browser withholds the response.
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Set("Access-Control-Expose-Headers", "X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			h.Set("Access-Control-Max-Age", corsMaxAge)
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
