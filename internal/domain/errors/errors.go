package errors

import (
	"errors"
	"strings"
)

// Business errors
// Nota: Estes são códigos de erro (message IDs para i18n).
// As traduções devem estar em internal/infrastructure/i18n/locales/*.json
var (
	ErrUserNotFound         = errors.New("error.user_not_found")
	ErrPredictionNotFound   = errors.New("error.prediction_not_found")
	ErrDiseaseNotFound      = errors.New("error.disease_not_found")
	ErrUsernameTaken        = errors.New("error.username_taken")
	ErrEmailAlreadyExists   = errors.New("error.email_already_exists")
	ErrInvalidCredentials   = errors.New("error.invalid_credentials")
	ErrUnauthorized         = errors.New("error.unauthorized")
	ErrForbidden            = errors.New("error.forbidden")
	ErrSelfModification     = errors.New("error.self_modification")
	ErrAdminAlreadyExists   = errors.New("error.admin_already_exists")
	ErrRateLimited          = errors.New("error.rate_limited")
	ErrPersistence          = errors.New("error.persistence")
	ErrValidation           = errors.New("error.validation")
	ErrModelUnavailable     = errors.New("error.model_unavailable")
	ErrUnsupportedFormat    = errors.New("error.unsupported_format")
	ErrNoFileUploaded       = errors.New("error.no_file_uploaded")
	ErrNoFileSelected       = errors.New("error.no_file_selected")
	ErrClassificationFailed = errors.New("error.classification_failed")
	ErrConflict             = errors.New("error.conflict")
	ErrFileTooLarge         = errors.New("error.file_too_large")
)

// Field validation codes
// Nota: também são message IDs para i18n
const (
	CodeUsernameTooShort = "validation.username_too_short"
	CodeEmailInvalid     = "validation.email_invalid"
	CodePasswordTooShort = "validation.password_too_short"
	CodePasswordMismatch = "validation.password_mismatch"
	CodeRoleInvalid      = "validation.role_invalid"
	CodeUsernameTaken    = "validation.username_taken"
	CodeEmailTaken       = "validation.email_taken"
	CodeCurrentPassword  = "validation.current_password_wrong"
	CodeFieldRequired    = "validation.required"
	CodeFieldTooLong     = "validation.too_long"
)

// ProblemType define tipos de problemas (URIs RFC 7807)
// Nota: O domínio base virá de configuração (API_BASE_URL)
const (
	ProblemTypeValidation        = "/problems/validation-error"
	ProblemTypeNotFound          = "/problems/not-found"
	ProblemTypeConflict          = "/problems/conflict"
	ProblemTypeUnauthorized      = "/problems/unauthorized"
	ProblemTypeForbidden         = "/problems/forbidden"
	ProblemTypeInternal          = "/problems/internal-error"
	ProblemTypeBadRequest        = "/problems/bad-request"
	ProblemTypeModelUnavailable  = "/problems/model-unavailable"
	ProblemTypeUnsupportedFormat = "/problems/unsupported-format"
	ProblemTypeRateLimited       = "/problems/rate-limited"
	ProblemTypeFileTooLarge      = "/problems/file-too-large"
)

// DomainError representa um erro de domínio com contexto adicional
type DomainError struct {
	Type    string
	Title   string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// FieldError é um erro de validação ligado a um campo de formulário
type FieldError struct {
	Field string
	Code  string
}

// ValidationError agrega erros de campo. errors.Is(err, ErrValidation) é verdadeiro.
type ValidationError struct {
	Fields []FieldError
}

// Add registra um erro para o campo
func (e *ValidationError) Add(field, code string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Code: code})
}

// HasErrors indica se há algum erro registrado
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// OrNil retorna o próprio erro quando houver campos inválidos, senão nil
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Code)
	}
	return ErrValidation.Error() + " (" + strings.Join(parts, ", ") + ")"
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewFieldError cria um ValidationError com um único campo
func NewFieldError(field, code string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Code: code}}}
}
