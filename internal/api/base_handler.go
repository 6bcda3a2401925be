package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/kingrain94/notes-saas-api/internal/api/dto"
	"github.com/kingrain94/notes-saas-api/internal/domain"
	"github.com/kingrain94/notes-saas-api/internal/service"
	"github.com/kingrain94/notes-saas-api/internal/utils"
	"github.com/kingrain94/notes-saas-api/pkg/logger"
)

type BaseHandler struct {
	logger *logger.Logger
}

func NewBaseHandler(logger *logger.Logger) *BaseHandler {
	return &BaseHandler{logger: logger}
}

// RequestCtx returns the request context, which carries the principal once JWTAuth ran.
func (h *BaseHandler) RequestCtx(ginCtx *gin.Context) context.Context {
	return ginCtx.Request.Context()
}

// Principal returns the authenticated caller or writes a 401 and returns false.
func (h *BaseHandler) Principal(c *gin.Context) (domain.Principal, bool) {
	principal, err := utils.GetPrincipalFromContext(c.Request.Context())
	if err != nil {
		h.respondError(c, service.ErrInvalidToken)
		return domain.Principal{}, false
	}
	return principal, true
}

func statusForKind(kind service.ErrorKind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindAuthentication:
		return http.StatusUnauthorized
	case service.KindAuthorization:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	case service.KindQuotaExceeded:
		return http.StatusPaymentRequired
	case service.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// respondError is the single place where service errors become HTTP responses.
// Internal causes are logged and never sent to the client.
func (h *BaseHandler) respondError(c *gin.Context, err error) {
	kind := service.KindOf(err)
	status := statusForKind(kind)

	message := "internal server error"
	if kind != service.KindInternal {
		var svcErr *service.Error
		if errors.As(err, &svcErr) {
			message = svcErr.Message
		}
	} else if h != nil && h.logger != nil {
		h.logger.Error("request failed", err)
	}

	c.AbortWithStatusJSON(status, dto.Error{Error: string(kind), Message: message})
}

// bindError reports a request that could not be decoded or failed binding rules.
func (h *BaseHandler) bindError(c *gin.Context, err error) {
	h.respondError(c, service.NewValidationError("%s", describeBindError(err)))
}

func describeBindError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request body"
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := toSnakeCase(fe.Field())
		switch fe.Tag() {
		case "required":
			messages = append(messages, field+" is required")
		case "email":
			messages = append(messages, field+" must be a valid email")
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(messages, "; ")
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
