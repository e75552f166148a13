package valueobjects

import (
	"errors"
	"strings"
)

var (
	ErrInvalidEmail = errors.New("invalid email format")
)

// MaxEmailLength é o tamanho máximo aceito para um email
const MaxEmailLength = 120

// Email é um value object que garante que emails sejam sempre válidos
type Email struct {
	value string
}

// NewEmail cria um novo Email validado
func NewEmail(email string) (Email, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	if !isValidEmail(email) {
		return Email{}, ErrInvalidEmail
	}

	return Email{value: email}, nil
}

// String retorna o valor do email
func (e Email) String() string {
	return e.value
}

// Equals compara dois emails já normalizados
func (e Email) Equals(other Email) bool {
	return e.value == other.value
}

// isValidEmail valida o formato do email
// A regra é propositalmente simples: precisa conter "@" com algo antes e depois.
func isValidEmail(email string) bool {
	if len(email) < 3 || len(email) > MaxEmailLength {
		return false
	}

	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1
}
