package entities

import (
	"errors"
	"strings"
	"time"

	"github.com/rafabene/dermacheck-backend/internal/domain/valueobjects"
)

var (
	ErrInvalidUserData = errors.New("invalid user data")
)

const (
	// MinUsernameLength é o tamanho mínimo do username
	MinUsernameLength = 3
	// MaxUsernameLength é o tamanho máximo do username
	MaxUsernameLength = 80
	// MinPasswordLength é o tamanho mínimo de senha aceito no cadastro e na troca de senha
	MinPasswordLength = 6
	// MaxFullNameLength é o tamanho máximo do nome completo
	MaxFullNameLength = 100
	// MaxPhoneLength é o tamanho máximo do telefone
	MaxPhoneLength = 20
)

// User representa um usuário do sistema
type User struct {
	ID           string
	Username     string
	Email        valueobjects.Email
	PasswordHash string
	FullName     *string
	Phone        *string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin verifica se o usuário é admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasPermission verifica se o usuário tem uma permissão
func (u *User) HasPermission(permission Permission) bool {
	return u.Role.HasPermission(permission)
}

// GetPermissions retorna todas as permissões do usuário
func (u *User) GetPermissions() []string {
	perms := u.Role.GetPermissions()
	result := make([]string, len(perms))
	for i, p := range perms {
		result[i] = string(p)
	}
	return result
}

// DisplayName retorna o nome completo quando existir, senão o username
func (u *User) DisplayName() string {
	if u.FullName != nil && *u.FullName != "" {
		return *u.FullName
	}
	return u.Username
}

// Matches verifica se o termo aparece no username, email ou nome completo (case-insensitive)
func (u *User) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(u.Username), term) ||
		strings.Contains(u.Email.String(), term) {
		return true
	}
	return u.FullName != nil && strings.Contains(strings.ToLower(*u.FullName), term)
}

// Validate valida regras de negócio da entidade User
func (u *User) Validate() error {
	if u.Email.String() == "" {
		return errors.New("email is required")
	}

	if len(u.Username) < MinUsernameLength {
		return errors.New("username must be at least 3 characters")
	}

	if len(u.Username) > MaxUsernameLength {
		return errors.New("username must be at most 80 characters")
	}

	if u.FullName != nil && len(*u.FullName) > MaxFullNameLength {
		return errors.New("full name must be at most 100 characters")
	}

	if u.Phone != nil && len(*u.Phone) > MaxPhoneLength {
		return errors.New("phone must be at most 20 characters")
	}

	if u.Role != RoleAdmin && u.Role != RoleUser {
		return errors.New("invalid role")
	}

	return nil
}

// OptionalString converte uma string vazia em nil, após remover espaços
func OptionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
