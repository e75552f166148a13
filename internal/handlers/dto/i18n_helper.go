package dto

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	domainerrors "github.com/rafabene/dermacheck-backend/internal/domain/errors"
	"github.com/rafabene/dermacheck-backend/internal/handlers/middleware"
	"github.com/rafabene/dermacheck-backend/internal/infrastructure/i18n"
)

// T é um helper para traduzir mensagens no contexto do Gin
// Uso: dto.T(c, "message.login_success", map[string]interface{}{"Username": "john"})
func T(c *gin.Context, key string, params ...map[string]interface{}) string {
	// Buscar serviço i18n do contexto
	i18nService, exists := c.Get(middleware.I18nServiceContextKey)
	if !exists {
		// Fallback: retornar a chave se serviço não estiver disponível
		return key
	}

	service, ok := i18nService.(*i18n.Service)
	if !ok {
		return key
	}

	return service.T(GetLanguage(c), key, params...)
}

// TError traduz um erro de domínio; a mensagem do sentinel é o message ID
func TError(c *gin.Context, err error) string {
	for _, sentinel := range translatableErrors {
		if errors.Is(err, sentinel) {
			return T(c, sentinel.Error())
		}
	}
	return T(c, "error.internal.detail")
}

var translatableErrors = []error{
	domainerrors.ErrUserNotFound,
	domainerrors.ErrPredictionNotFound,
	domainerrors.ErrDiseaseNotFound,
	domainerrors.ErrUsernameTaken,
	domainerrors.ErrEmailAlreadyExists,
	domainerrors.ErrInvalidCredentials,
	domainerrors.ErrUnauthorized,
	domainerrors.ErrForbidden,
	domainerrors.ErrSelfModification,
	domainerrors.ErrAdminAlreadyExists,
	domainerrors.ErrRateLimited,
	domainerrors.ErrPersistence,
	domainerrors.ErrValidation,
	domainerrors.ErrModelUnavailable,
	domainerrors.ErrUnsupportedFormat,
	domainerrors.ErrNoFileUploaded,
	domainerrors.ErrNoFileSelected,
	domainerrors.ErrClassificationFailed,
	domainerrors.ErrConflict,
	domainerrors.ErrFileTooLarge,
}

// GetLanguage retorna o idioma configurado no contexto da requisição
func GetLanguage(c *gin.Context) string {
	lang, exists := c.Get(middleware.LanguageContextKey)
	if !exists {
		return "en" // Fallback
	}

	langStr, ok := lang.(string)
	if !ok {
		return "en"
	}

	return langStr
}

// FieldErrors traduz os erros de campo de um ValidationError
func FieldErrors(c *gin.Context, verr *domainerrors.ValidationError) []ValidationError {
	if verr == nil {
		return nil
	}
	result := make([]ValidationError, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		result = append(result, ValidationError{
			Field:   f.Field,
			Code:    f.Code,
			Message: T(c, f.Code),
		})
	}
	return result
}

var registerTagNames sync.Once

// RegisterValidatorTagNames faz o validator reportar campos pelo nome do formulário
func RegisterValidatorTagNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"form", "json"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return fld.Name
		})
	})
}

// BindingError converte erros de binding/validator em ValidationError de domínio.
// Erros que não são de validação (corpo malformado) viram um erro genérico de validação.
func BindingError(err error) *domainerrors.ValidationError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &domainerrors.ValidationError{}
	}

	result := &domainerrors.ValidationError{}
	for _, fe := range verrs {
		result.Add(fe.Field(), bindingCode(fe))
	}
	return result
}

func bindingCode(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return domainerrors.CodeFieldRequired
	case "max":
		return domainerrors.CodeFieldTooLong
	case "email":
		return domainerrors.CodeEmailInvalid
	case "oneof":
		return domainerrors.CodeRoleInvalid
	case "eqfield":
		return domainerrors.CodePasswordMismatch
	default:
		return domainerrors.CodeFieldRequired
	}
}
