package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/certledger/internal/common"
	"github.com/dmitrijs2005/certledger/internal/server/relay"
	"github.com/gin-gonic/gin"
)

// statusFor maps service and relay errors onto HTTP status codes. Unmapped
// errors become 500 with a generic message so internals never leak.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorValidation), errors.Is(err, relay.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, relay.ErrHashMismatch),
		errors.Is(err, relay.ErrSignerMismatch):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, common.ErrorNotApproved):
		return http.StatusForbidden, "account pending approval"
	case errors.Is(err, relay.ErrNotAnIssuer):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict, "already exists"
	case errors.Is(err, relay.ErrAuthorizationExpired),
		errors.Is(err, relay.ErrAuthorizationExhausted):
		return http.StatusConflict, err.Error()
	case errors.Is(err, relay.ErrInsufficientBalance):
		return http.StatusPaymentRequired, err.Error()
	case errors.Is(err, relay.ErrDryRunReverted),
		errors.Is(err, relay.ErrReverted):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, relay.ErrConfirmationTimeout):
		return http.StatusGatewayTimeout, err.Error()
	case errors.Is(err, relay.ErrSubmissionFailed):
		return http.StatusBadGateway, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func (s *Server) abortWithError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
