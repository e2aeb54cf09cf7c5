package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/saborconflow/studio-backend/internal/integration"
	"github.com/saborconflow/studio-backend/internal/notify"
	"github.com/saborconflow/studio-backend/internal/repository"
	"github.com/saborconflow/studio-backend/internal/response"
	"github.com/saborconflow/studio-backend/internal/service"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// respondError maps service and repository errors onto the response envelope.
// Unknown errors are logged and reported as 500.
func respondError(c *gin.Context, err error) {
	var fieldErr *service.FieldError
	var apiErr *integration.APIError
	log := zerolog.Ctx(c.Request.Context())

	switch {
	case errors.As(err, &fieldErr):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
			fieldErr.Field: fieldErr.Message,
		})
	case errors.Is(err, repository.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, repository.ErrDuplicate):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	case errors.Is(err, repository.ErrReferenced), errors.Is(err, service.ErrRoleInUse):
		response.Fail(c, http.StatusConflict, response.ErrDependencyExists)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
	case errors.Is(err, service.ErrProtectedRole), errors.Is(err, service.ErrSelfDelete):
		response.Fail(c, http.StatusForbidden, response.ErrActionForbidden)
	case errors.Is(err, service.ErrPasswordRequired):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
			"password": "password is required",
		})
	case errors.Is(err, service.ErrReviewLinkInvalid):
		response.Fail(c, http.StatusNotFound, response.ErrReviewLinkInvalid)
	case errors.Is(err, service.ErrDuplicateRSVP):
		response.Fail(c, http.StatusConflict, response.ErrDuplicateRSVP)
	case errors.Is(err, service.ErrRSVPTargetRequired):
		response.Fail(c, http.StatusBadRequest, response.ErrRSVPTargetRequired)
	case errors.Is(err, service.ErrDateInPast):
		response.Fail(c, http.StatusBadRequest, response.ErrDateInPast)
	case errors.Is(err, service.ErrInvalidTransition):
		response.Fail(c, http.StatusConflict, response.ErrInvalidTransition)
	case errors.Is(err, service.ErrClassUnavailable):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrClassUnavailable)
	case errors.Is(err, service.ErrUnsupportedFileType):
		response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
	case errors.Is(err, service.ErrFileTooLarge):
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
	case errors.Is(err, integration.ErrNotConfigured), errors.Is(err, notify.ErrNotConfigured):
		response.Fail(c, http.StatusServiceUnavailable, response.ErrNotConfigured)
	case errors.As(err, &apiErr):
		log.Warn().Err(err).Str("service", apiErr.Service).Int("status", apiErr.StatusCode).Msg("Upstream API error")
		response.Fail(c, http.StatusBadGateway, response.ErrUpstream)
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled request error")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// paramID parses a positive integer path parameter, writing a 400 on failure.
func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

// pageParams reads ?page and ?per_page with defaults and bounds.
func pageParams(c *gin.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

func queryInt(c *gin.Context, key string) int {
	n, _ := strconv.Atoi(c.Query(key))
	return n
}
