package dto

import (
	"github.com/gin-gonic/gin"
	"github.com/moogar0880/problems"
)

// ErrorResponse segue RFC 7807 (Problem Details for HTTP APIs).
// Error repete a mensagem traduzida para clientes que só leem {"error": "..."}.
type ErrorResponse struct {
	problems.Problem
	Error  string            `json:"error"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// ValidationError representa um erro de validação de campo
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponseI18n cria uma resposta de erro usando i18n.
// message é a mensagem principal (já traduzida); ela também vira o detail.
func NewErrorResponseI18n(c *gin.Context, problemType, titleKey, message string, status int) ErrorResponse {
	baseURL := c.GetString("base_url")
	if baseURL == "" {
		baseURL = "http://localhost:5000"
	}

	problem := problems.NewDetailedProblem(status, message)
	problem.Type = baseURL + problemType
	problem.Title = T(c, titleKey)
	problem.Instance = c.Request.URL.Path

	return ErrorResponse{
		Problem: *problem,
		Error:   message,
	}
}

// ValidationErrorResponseI18n cria uma resposta de erro de validação
func ValidationErrorResponseI18n(c *gin.Context, validationErrors []ValidationError) ErrorResponse {
	message := T(c, "error.validation.detail")
	if len(validationErrors) > 0 {
		message = validationErrors[0].Message
	}

	response := NewErrorResponseI18n(c, "/problems/validation-error", "error.validation.title", message, 400)
	response.Errors = validationErrors
	return response
}

// InternalErrorResponseI18n cria uma resposta de erro 500 genérica
func InternalErrorResponseI18n(c *gin.Context) ErrorResponse {
	return NewErrorResponseI18n(
		c,
		"/problems/internal-error",
		"error.internal.title",
		T(c, "error.internal.detail"),
		500,
	)
}

// MessageResponse é a resposta de sucesso das ações (equivalente ao flash das páginas)
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// PaginationResponse descreve a navegação de uma lista paginada
type PaginationResponse struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
	Pages    int   `json:"pages"`
	HasPrev  bool  `json:"has_prev"`
	HasNext  bool  `json:"has_next"`
	PrevNum  int   `json:"prev_num,omitempty"`
	NextNum  int   `json:"next_num,omitempty"`
}
