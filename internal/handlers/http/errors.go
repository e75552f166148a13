package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerrors "github.com/rafabene/dermacheck-backend/internal/domain/errors"
	"github.com/rafabene/dermacheck-backend/internal/domain/ports"
	"github.com/rafabene/dermacheck-backend/internal/handlers/dto"
	"github.com/rafabene/dermacheck-backend/internal/handlers/middleware"
)

// errorTemplate é a página usada para erros quando o cliente pede HTML
const errorTemplate = "error.html"

type problemMapping struct {
	status      int
	problemType string
	titleKey    string
}

var problemMappings = []struct {
	err     error
	mapping problemMapping
}{
	{domainerrors.ErrInvalidCredentials, problemMapping{http.StatusUnauthorized, domainerrors.ProblemTypeUnauthorized, "error.unauthorized.title"}},
	{domainerrors.ErrUnauthorized, problemMapping{http.StatusUnauthorized, domainerrors.ProblemTypeUnauthorized, "error.unauthorized.title"}},
	{domainerrors.ErrForbidden, problemMapping{http.StatusForbidden, domainerrors.ProblemTypeForbidden, "error.forbidden.title"}},
	{domainerrors.ErrUserNotFound, problemMapping{http.StatusNotFound, domainerrors.ProblemTypeNotFound, "error.not_found.title"}},
	{domainerrors.ErrPredictionNotFound, problemMapping{http.StatusNotFound, domainerrors.ProblemTypeNotFound, "error.not_found.title"}},
	{domainerrors.ErrDiseaseNotFound, problemMapping{http.StatusNotFound, domainerrors.ProblemTypeNotFound, "error.not_found.title"}},
	{domainerrors.ErrUnsupportedFormat, problemMapping{http.StatusBadRequest, domainerrors.ProblemTypeUnsupportedFormat, "error.unsupported_format.title"}},
	{domainerrors.ErrNoFileUploaded, problemMapping{http.StatusBadRequest, domainerrors.ProblemTypeBadRequest, "error.bad_request.title"}},
	{domainerrors.ErrNoFileSelected, problemMapping{http.StatusBadRequest, domainerrors.ProblemTypeBadRequest, "error.bad_request.title"}},
	{domainerrors.ErrSelfModification, problemMapping{http.StatusBadRequest, domainerrors.ProblemTypeBadRequest, "error.bad_request.title"}},
	{domainerrors.ErrFileTooLarge, problemMapping{http.StatusRequestEntityTooLarge, domainerrors.ProblemTypeFileTooLarge, "error.file_too_large.title"}},
	{domainerrors.ErrRateLimited, problemMapping{http.StatusTooManyRequests, domainerrors.ProblemTypeRateLimited, "error.rate_limited.title"}},
	{domainerrors.ErrUsernameTaken, problemMapping{http.StatusConflict, domainerrors.ProblemTypeConflict, "error.conflict.title"}},
	{domainerrors.ErrEmailAlreadyExists, problemMapping{http.StatusConflict, domainerrors.ProblemTypeConflict, "error.conflict.title"}},
	{domainerrors.ErrAdminAlreadyExists, problemMapping{http.StatusConflict, domainerrors.ProblemTypeConflict, "error.conflict.title"}},
	{domainerrors.ErrConflict, problemMapping{http.StatusConflict, domainerrors.ProblemTypeConflict, "error.conflict.title"}},
	{domainerrors.ErrModelUnavailable, problemMapping{http.StatusInternalServerError, domainerrors.ProblemTypeModelUnavailable, "error.model_unavailable.title"}},
	{domainerrors.ErrClassificationFailed, problemMapping{http.StatusInternalServerError, domainerrors.ProblemTypeInternal, "error.internal.title"}},
	{domainerrors.ErrPersistence, problemMapping{http.StatusInternalServerError, domainerrors.ProblemTypeInternal, "error.internal.title"}},
	{domainerrors.ErrValidation, problemMapping{http.StatusBadRequest, domainerrors.ProblemTypeValidation, "error.validation.title"}},
}

// ErrorHandler converte o último erro registrado com c.Error em uma resposta RFC 7807.
// Não faz nada se o handler já escreveu a resposta.
func ErrorHandler(logger ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		respondError(c, logger, c.Errors.Last().Err)
	}
}

func respondError(c *gin.Context, logger ports.Logger, err error) {
	status, response := errorResponse(c, err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
		)
	}

	if middleware.WantsHTML(c) {
		c.HTML(status, errorTemplate, pageData(c, response))
		return
	}
	c.JSON(status, response)
}

func errorResponse(c *gin.Context, err error) (int, dto.ErrorResponse) {
	var verr *domainerrors.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, dto.ValidationErrorResponseI18n(c, dto.FieldErrors(c, verr))
	}

	for _, pm := range problemMappings {
		if errors.Is(err, pm.err) {
			m := pm.mapping
			return m.status, dto.NewErrorResponseI18n(c, m.problemType, m.titleKey, dto.TError(c, pm.err), m.status)
		}
	}

	return http.StatusInternalServerError, dto.InternalErrorResponseI18n(c)
}
