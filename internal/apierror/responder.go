// Package apierror traduce los errores de negocio a respuestas HTTP.
package apierror

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"order-loom/internal/dto"
	"order-loom/internal/service"
)

const (
	CodeForbidden         = "forbidden"
	CodeUnauthorized      = "unauthorized"
	CodeConflict          = "conflict"
	CodeNotFound          = "not_found"
	CodeInvalidTransition = "invalid_transition"
	CodeBadRequest        = "bad_request"
	CodeStorageFault      = "storage_fault"
	CodeInternal          = "internal"
)

// Classify devuelve el status HTTP y el código para un error.
func Classify(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized, CodeUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, CodeForbidden
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, CodeConflict
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, service.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, CodeInvalidTransition
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, CodeBadRequest
	case errors.Is(err, service.ErrStorage):
		return http.StatusServiceUnavailable, CodeStorageFault
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// Respond escribe {"error", "code"} y corta la cadena de handlers.
// Para fallas internas no se expone el detalle, solo se loguea.
func Respond(c *gin.Context, log *zap.Logger, err error) {
	status, code := Classify(err)

	msg := err.Error()
	var fe *service.ForbiddenError
	switch {
	case errors.As(err, &fe):
		msg = fe.Error()
	case status >= http.StatusInternalServerError:
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
		msg = http.StatusText(status)
	}

	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: msg, Code: code})
}

func BadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: msg, Code: CodeBadRequest})
}
