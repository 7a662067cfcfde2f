package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/transfer-backend/internal/response"
	"github.com/stemsi/transfer-backend/internal/service"
)

// respondError maps a service error onto the response envelope. Unknown
// errors are logged and reported as 500.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	var precondition *service.PreconditionError
	var importErr *service.ImportError

	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrStudentNotFound)
	case errors.Is(err, service.ErrDuplicateStudent):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	case errors.As(err, &precondition):
		response.FailWithDetail(c, http.StatusPreconditionFailed, response.ErrPreconditionFailed, precondition.Error())
	case errors.Is(err, service.ErrMajorUnsupported):
		response.Fail(c, http.StatusNotFound, response.ErrMajorUnsupported)
	case errors.Is(err, service.ErrCampusUnavailable):
		response.Fail(c, http.StatusBadRequest, response.ErrCampusUnavailable)
	case errors.Is(err, service.ErrNoResults):
		response.Fail(c, http.StatusNotFound, response.ErrNoResults)
	case errors.Is(err, service.ErrReceiptInvalid):
		response.FailWithDetail(c, http.StatusUnprocessableEntity, response.ErrReceiptInvalid, err.Error())
	case errors.Is(err, service.ErrAdvisorDisabled):
		response.Fail(c, http.StatusServiceUnavailable, response.ErrAdvisorDisabled)
	case errors.As(err, &importErr):
		if len(importErr.Fields) > 0 {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrImportFailed, importErr.Fields)
			return
		}
		response.FailWithDetail(c, http.StatusBadRequest, response.ErrImportFailed, importErr.Error())
	default:
		log.Error().Err(err).Str("route", c.FullPath()).Msg("request failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
