package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rafabene/dermacheck-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/dermacheck-backend/internal/domain/errors"
	"github.com/rafabene/dermacheck-backend/internal/domain/ports"
	"github.com/rafabene/dermacheck-backend/internal/domain/repositories"
	"github.com/rafabene/dermacheck-backend/internal/domain/valueobjects"
)

// AuthService cuida de cadastro, login e resolução da sessão
type AuthService struct {
	userRepo repositories.UserRepository
	hasher   ports.PasswordHasher
	sessions ports.SessionManager
	events   ports.EventPublisher
	logger   ports.Logger
}

// NewAuthService cria um novo AuthService
func NewAuthService(
	userRepo repositories.UserRepository,
	hasher ports.PasswordHasher,
	sessions ports.SessionManager,
	events ports.EventPublisher,
	logger ports.Logger,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		sessions: sessions,
		events:   events,
		logger:   logger,
	}
}

// RegisterInput representa os dados do formulário de cadastro
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
	FullName        string
}

// Register cria uma conta com papel user
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*entities.User, error) {
	username := strings.TrimSpace(input.Username)
	s.logger.Info("registering user", "username", username)

	verr := &domainerrors.ValidationError{}
	validateUsername(verr, username)
	email, err := valueobjects.NewEmail(input.Email)
	if err != nil {
		verr.Add("email", domainerrors.CodeEmailInvalid)
	}
	validatePassword(verr, "password", input.Password, input.PasswordConfirm)
	validateOptional(verr, "full_name", input.FullName, entities.MaxFullNameLength)
	if verr.HasErrors() {
		return nil, verr
	}

	if err := checkAvailability(ctx, s.userRepo, "", username, email, verr); err != nil {
		return nil, err
	}
	if verr.HasErrors() {
		return nil, verr
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FullName:     entities.OptionalString(input.FullName),
		Role:         entities.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, conflictAsFieldError(ctx, s.userRepo, err, username)
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	publish(ctx, s.events, s.logger, ports.EventUserRegistered, ports.UserRegistered{
		UserID:     user.ID,
		Username:   user.Username,
		Role:       string(user.Role),
		OccurredAt: time.Now().UTC(),
	})

	return user, nil
}

// LoginResult é a sessão emitida para um login bem-sucedido
type LoginResult struct {
	User   *entities.User
	Token  string
	Claims ports.SessionClaims
}

// Login valida as credenciais e emite um token de sessão
func (s *AuthService) Login(ctx context.Context, username, password string, remember bool) (*LoginResult, error) {
	username = strings.TrimSpace(username)

	verr := &domainerrors.ValidationError{}
	if username == "" {
		verr.Add("username", domainerrors.CodeFieldRequired)
	}
	if password == "" {
		verr.Add("password", domainerrors.CodeFieldRequired)
	}
	if verr.HasErrors() {
		return nil, verr
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.hasher.Compare(user.PasswordHash, password) {
		s.logger.Warn("login failed", "username", username)
		return nil, domainerrors.ErrInvalidCredentials
	}

	token, claims, err := s.sessions.Issue(user.ID, string(user.Role), remember)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "user_id", user.ID, "remember", remember)
	return &LoginResult{User: user, Token: token, Claims: claims}, nil
}

// CurrentUser resolve o dono de um token. O usuário é sempre relido do banco,
// então mudanças de papel e remoções valem na próxima requisição.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*entities.User, error) {
	if token == "" {
		return nil, domainerrors.ErrUnauthorized
	}

	claims, err := s.sessions.Parse(token)
	if err != nil {
		return nil, domainerrors.ErrUnauthorized
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domainerrors.ErrUnauthorized
	}
	return user, nil
}

// CreateAdminInput são os dados do primeiro administrador
type CreateAdminInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

// CreateAdmin cria o administrador inicial; recusa se já existir algum admin
func (s *AuthService) CreateAdmin(ctx context.Context, input CreateAdminInput) (*entities.User, error) {
	role := entities.RoleAdmin
	admins, err := s.userRepo.Count(ctx, &role)
	if err != nil {
		return nil, err
	}
	if admins > 0 {
		return nil, domainerrors.ErrAdminAlreadyExists
	}

	username := strings.TrimSpace(input.Username)
	verr := &domainerrors.ValidationError{}
	validateUsername(verr, username)
	email, err := valueobjects.NewEmail(input.Email)
	if err != nil {
		verr.Add("email", domainerrors.CodeEmailInvalid)
	}
	if len(input.Password) < entities.MinPasswordLength {
		verr.Add("password", domainerrors.CodePasswordTooShort)
	}
	if verr.HasErrors() {
		return nil, verr
	}

	if err := checkAvailability(ctx, s.userRepo, "", username, email, verr); err != nil {
		return nil, err
	}
	if verr.HasErrors() {
		return nil, verr
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FullName:     entities.OptionalString(input.FullName),
		Role:         entities.RoleAdmin,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, conflictAsFieldError(ctx, s.userRepo, err, username)
	}

	s.logger.Info("admin created", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func validateUsername(verr *domainerrors.ValidationError, username string) {
	switch {
	case len(username) < entities.MinUsernameLength:
		verr.Add("username", domainerrors.CodeUsernameTooShort)
	case len(username) > entities.MaxUsernameLength:
		verr.Add("username", domainerrors.CodeFieldTooLong)
	}
}

func validateOptional(verr *domainerrors.ValidationError, field, value string, maxLen int) {
	if len(strings.TrimSpace(value)) > maxLen {
		verr.Add(field, domainerrors.CodeFieldTooLong)
	}
}

// validatePassword exige tamanho mínimo e confirmação idêntica
func validatePassword(verr *domainerrors.ValidationError, field, password, confirm string) {
	if len(password) < entities.MinPasswordLength {
		verr.Add(field, domainerrors.CodePasswordTooShort)
	}
	if password != confirm {
		verr.Add(field+"_confirm", domainerrors.CodePasswordMismatch)
	}
}

func checkAvailability(
	ctx context.Context,
	userRepo repositories.UserRepository,
	selfID, username string,
	email valueobjects.Email,
	verr *domainerrors.ValidationError,
) error {
	if username != "" {
		existing, err := userRepo.FindByUsername(ctx, username)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			verr.Add("username", domainerrors.CodeUsernameTaken)
		}
	}

	if email.String() != "" {
		existing, err := userRepo.FindByEmail(ctx, email.String())
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			verr.Add("email", domainerrors.CodeEmailTaken)
		}
	}
	return nil
}

// conflictAsFieldError converte a violação de unicidade (corrida entre a checagem e o insert)
// no erro de campo correspondente
func conflictAsFieldError(ctx context.Context, userRepo repositories.UserRepository, err error, username string) error {
	if !errors.Is(err, domainerrors.ErrConflict) {
		return err
	}
	if existing, findErr := userRepo.FindByUsername(ctx, username); findErr == nil && existing != nil {
		return domainerrors.NewFieldError("username", domainerrors.CodeUsernameTaken)
	}
	return domainerrors.NewFieldError("email", domainerrors.CodeEmailTaken)
}

func publish(ctx context.Context, events ports.EventPublisher, logger ports.Logger, routingKey string, payload any) {
	if events == nil {
		return
	}
	if err := events.Publish(ctx, routingKey, payload); err != nil {
		logger.Warn("failed to publish event", "routing_key", routingKey, "error", err)
	}
}
