package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/rafabene/dermacheck-backend/internal/domain/entities"
	"github.com/rafabene/dermacheck-backend/internal/services"
)

// Checkbox aceita "on"/"true"/"1" de formulários HTML e booleanos de JSON
type Checkbox bool

// UnmarshalParam implementa binding.BindUnmarshaler
func (b *Checkbox) UnmarshalParam(param string) error {
	switch strings.ToLower(strings.TrimSpace(param)) {
	case "on", "true", "1", "yes":
		*b = true
	default:
		*b = false
	}
	return nil
}

// UnmarshalJSON aceita true/false ou as strings de UnmarshalParam
func (b *Checkbox) UnmarshalJSON(data []byte) error {
	var value bool
	if err := json.Unmarshal(data, &value); err == nil {
		*b = Checkbox(value)
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return b.UnmarshalParam(raw)
}

// LoginRequest representa o formulário de login
type LoginRequest struct {
	Username string   `form:"username" json:"username" binding:"required"`
	Password string   `form:"password" json:"password" binding:"required"`
	Remember Checkbox `form:"remember" json:"remember"`
}

// RegisterRequest representa o formulário de cadastro
type RegisterRequest struct {
	Username        string `form:"username" json:"username"`
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"password"`
	PasswordConfirm string `form:"password_confirm" json:"password_confirm"`
	FullName        string `form:"full_name" json:"full_name" binding:"max=100"`
}

// ToInput converte para a entrada do serviço
func (r RegisterRequest) ToInput() services.RegisterInput {
	return services.RegisterInput{
		Username:        strings.TrimSpace(r.Username),
		Email:           strings.TrimSpace(r.Email),
		Password:        r.Password,
		PasswordConfirm: r.PasswordConfirm,
		FullName:        strings.TrimSpace(r.FullName),
	}
}

// ProfileEditRequest representa o formulário de edição de perfil
type ProfileEditRequest struct {
	FullName           string `form:"full_name" json:"full_name" binding:"max=100"`
	Email              string `form:"email" json:"email"`
	Phone              string `form:"phone" json:"phone" binding:"max=20"`
	CurrentPassword    string `form:"current_password" json:"current_password"`
	NewPassword        string `form:"new_password" json:"new_password"`
	NewPasswordConfirm string `form:"new_password_confirm" json:"new_password_confirm"`
}

// ToInput converte para a entrada do serviço
func (r ProfileEditRequest) ToInput() services.UpdateProfileInput {
	return services.UpdateProfileInput{
		FullName:           strings.TrimSpace(r.FullName),
		Email:              strings.TrimSpace(r.Email),
		Phone:              strings.TrimSpace(r.Phone),
		CurrentPassword:    r.CurrentPassword,
		NewPassword:        r.NewPassword,
		NewPasswordConfirm: r.NewPasswordConfirm,
	}
}

// AdminUserRequest representa os formulários de criação e edição de usuário pelo admin
type AdminUserRequest struct {
	Username        string `form:"username" json:"username"`
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"password"`
	PasswordConfirm string `form:"password_confirm" json:"password_confirm"`
	FullName        string `form:"full_name" json:"full_name" binding:"max=100"`
	Phone           string `form:"phone" json:"phone" binding:"max=20"`
	Role            string `form:"role" json:"role" binding:"omitempty,oneof=admin user"`
}

// ToInput converte para a entrada do serviço
func (r AdminUserRequest) ToInput() services.AdminUserInput {
	return services.AdminUserInput{
		Username:        strings.TrimSpace(r.Username),
		Email:           strings.TrimSpace(r.Email),
		Password:        strings.TrimSpace(r.Password),
		PasswordConfirm: strings.TrimSpace(r.PasswordConfirm),
		FullName:        strings.TrimSpace(r.FullName),
		Phone:           strings.TrimSpace(r.Phone),
		Role:            strings.TrimSpace(r.Role),
	}
}

// UserResponse representa a resposta de um usuário
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  *string   `json:"full_name"`
	Phone     *string   `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ToUserResponse converte uma entidade User para UserResponse
func ToUserResponse(user *entities.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email.String(),
		FullName:  user.FullName,
		Phone:     user.Phone,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
}

// ToUserResponses converte uma lista de entidades User para UserResponse
func ToUserResponses(users []*entities.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i, user := range users {
		responses[i] = ToUserResponse(user)
	}
	return responses
}

// SessionResponse é a resposta de login (e de login/cadastro com sessão já aberta)
type SessionResponse struct {
	Success   bool         `json:"success"`
	Message   string       `json:"message"`
	User      UserResponse `json:"user"`
	Token     string       `json:"token,omitempty"`
	ExpiresAt *time.Time   `json:"expires_at,omitempty"`
	Next      string       `json:"next,omitempty"`
}

// UserMessageResponse é a resposta das ações sobre um usuário
type UserMessageResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// ProfileResponse é o perfil com as predições mais recentes
type ProfileResponse struct {
	User        UserResponse     `json:"user"`
	Predictions []PredictionView `json:"predictions"`
}

// RoleToggleResponse é a resposta de /admin/users/:id/toggle-role
type RoleToggleResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	NewRole string `json:"new_role"`
}
