package middleware

import (
	"net/http"
	"regexp"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kingrain94/notes-saas-api/internal/service"
	"github.com/kingrain94/notes-saas-api/pkg/logger"
)

// freeTextParams carry user search text and are exempt from pattern blocking.
var freeTextParams = []string{"q"}

type ValidationMiddleware struct {
	logger   *logger.Logger
	patterns []*regexp.Regexp
}

func NewValidationMiddleware(logger *logger.Logger) *ValidationMiddleware {
	return &ValidationMiddleware{
		logger:   logger,
		patterns: compileSuspiciousPatterns(),
	}
}

// SanitizeInput strips null bytes and control characters from query parameters and headers.
func (m *ValidationMiddleware) SanitizeInput() gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Request.URL.Query()
		changed := false
		for key, values := range query {
			for i, value := range values {
				sanitized := sanitizeString(value)
				if sanitized != value {
					m.logger.Info("Sanitized query parameter", zap.String("key", key))
					values[i] = sanitized
					changed = true
				}
			}
		}
		if changed {
			c.Request.URL.RawQuery = query.Encode()
		}

		for key, values := range c.Request.Header {
			if strings.EqualFold(key, "authorization") {
				continue
			}
			for i, value := range values {
				sanitized := sanitizeString(value)
				if sanitized != value {
					m.logger.Info("Sanitized header", zap.String("key", key))
					c.Request.Header[key][i] = sanitized
				}
			}
		}

		c.Next()
	}
}

// ValidateContentType rejects request bodies whose media type is not allowed.
func (m *ValidationMiddleware) ValidateContentType(allowedTypes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodDelete ||
			c.Request.Method == http.MethodOptions || c.Request.ContentLength == 0 {
			c.Next()
			return
		}

		contentType := strings.TrimSpace(strings.Split(c.GetHeader("Content-Type"), ";")[0])
		if contentType == "" {
			abortWithError(c, http.StatusBadRequest, service.KindValidation, "Content-Type header is required")
			return
		}

		if !slices.Contains(allowedTypes, contentType) {
			abortWithError(c, http.StatusUnsupportedMediaType, service.KindValidation,
				"Unsupported Content-Type, allowed: "+strings.Join(allowedTypes, ", "))
			return
		}

		c.Next()
	}
}

// ValidateRequestSize limits request body size.
func (m *ValidationMiddleware) ValidateRequestSize(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			abortWithError(c, http.StatusRequestEntityTooLarge, service.KindValidation, "Request body too large")
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}

func compileSuspiciousPatterns() []*regexp.Regexp {
	sqlInjectionPatterns := []string{
		`(?i)(\bUNION\b.*\bSELECT\b)`,
		`(?i)(\bOR\b.*=.*\bOR\b)`,
		`(?i)(\bDROP\b.*\bTABLE\b)`,
		`(?i)(\bALTER\b.*\bTABLE\b)`,
		`(?i)(\bDELETE\b.*\bFROM\b)`,
		`/\*.*\*/`,
	}

	xssPatterns := []string{
		`(?i)<script.*?>`,
		`(?i)javascript:`,
		`(?i)onerror=`,
		`(?i)onload=`,
		`(?i)<iframe.*?>`,
	}

	pathTraversalPatterns := []string{
		`\.\./`,
		`\.\.\\`,
		`(?i)%2e%2e%2f`,
		`(?i)%2e%2e%5c`,
	}

	all := slices.Concat(sqlInjectionPatterns, xssPatterns, pathTraversalPatterns)
	compiled := make([]*regexp.Regexp, len(all))
	for i, pattern := range all {
		compiled[i] = regexp.MustCompile(pattern)
	}
	return compiled
}

// BlockSuspiciousPatterns rejects requests whose path, structured query parameters or
// headers look like injection or traversal attempts. Note bodies are stored verbatim and
// never interpolated, so they are not inspected.
func (m *ValidationMiddleware) BlockSuspiciousPatterns() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.containsSuspiciousPattern(c.Request.URL.Path) {
			m.logger.Warn("Blocked suspicious request",
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()))
			abortWithError(c, http.StatusBadRequest, service.KindValidation, "Invalid request")
			return
		}

		for key, values := range c.Request.URL.Query() {
			if slices.Contains(freeTextParams, key) {
				continue
			}
			for _, value := range values {
				if m.containsSuspiciousPattern(value) {
					m.logger.Warn("Blocked suspicious query parameter",
						zap.String("key", key),
						zap.String("ip", c.ClientIP()))
					abortWithError(c, http.StatusBadRequest, service.KindValidation, "Invalid request")
					return
				}
			}
		}

		for key, values := range c.Request.Header {
			if strings.EqualFold(key, "authorization") {
				continue
			}
			for _, value := range values {
				if m.containsSuspiciousPattern(value) {
					m.logger.Warn("Blocked suspicious header",
						zap.String("key", key),
						zap.String("ip", c.ClientIP()))
					abortWithError(c, http.StatusBadRequest, service.KindValidation, "Invalid request")
					return
				}
			}
		}

		c.Next()
	}
}

func sanitizeString(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		// Keep printable characters plus newline, carriage return and tab.
		if r >= 32 || r == '\n' || r == '\r' || r == '\t' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (m *ValidationMiddleware) containsSuspiciousPattern(input string) bool {
	for _, pattern := range m.patterns {
		if pattern.MatchString(input) {
			return true
		}
	}
	return false
}
