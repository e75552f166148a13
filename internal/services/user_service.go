package services

import (
	"context"
	"strings"

	"github.com/rafabene/dermacheck-backend/internal/domain/entities"
	"github.com/rafabene/dermacheck-backend/internal/domain/errors"
	"github.com/rafabene/dermacheck-backend/internal/domain/ports"
	"github.com/rafabene/dermacheck-backend/internal/domain/repositories"
	"github.com/rafabene/dermacheck-backend/internal/domain/valueobjects"
)

// UsersPageSize é o tamanho de página da listagem de usuários do admin
const UsersPageSize = 20

// UserService contém a lógica de negócio para usuários
type UserService struct {
	userRepo       repositories.UserRepository
	predictionRepo repositories.PredictionRepository
	hasher         ports.PasswordHasher
	uow            ports.UnitOfWork
	logger         ports.Logger
}

// NewUserService cria um novo UserService
func NewUserService(
	userRepo repositories.UserRepository,
	predictionRepo repositories.PredictionRepository,
	hasher ports.PasswordHasher,
	uow ports.UnitOfWork,
	logger ports.Logger,
) *UserService {
	return &UserService{
		userRepo:       userRepo,
		predictionRepo: predictionRepo,
		hasher:         hasher,
		uow:            uow,
		logger:         logger,
	}
}

// GetUser busca um usuário por ID
func (s *UserService) GetUser(ctx context.Context, id string) (*entities.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.ErrUserNotFound
	}
	return user, nil
}

// ListUsers lista usuários com filtros (página fixa de UsersPageSize)
func (s *UserService) ListUsers(ctx context.Context, filters repositories.UserFilters) (repositories.Page[*entities.User], error) {
	filters.PageSize = UsersPageSize
	return s.userRepo.List(ctx, filters)
}

// UpdateProfileInput representa o formulário de edição de perfil.
// Campos vazios mantêm o valor atual; a senha só muda com senha atual e nova preenchidas.
type UpdateProfileInput struct {
	FullName           string
	Email              string
	Phone              string
	CurrentPassword    string
	NewPassword        string
	NewPasswordConfirm string
}

// UpdateProfile aplica a edição do próprio perfil e indica se a senha foi trocada
func (s *UserService) UpdateProfile(ctx context.Context, user *entities.User, input UpdateProfileInput) (passwordChanged bool, err error) {
	verr := &errors.ValidationError{}
	updated := *user

	if fullName := entities.OptionalString(input.FullName); fullName != nil {
		validateOptional(verr, "full_name", *fullName, entities.MaxFullNameLength)
		updated.FullName = fullName
	}
	if phone := entities.OptionalString(input.Phone); phone != nil {
		validateOptional(verr, "phone", *phone, entities.MaxPhoneLength)
		updated.Phone = phone
	}

	if raw := strings.TrimSpace(input.Email); raw != "" {
		email, err := valueobjects.NewEmail(raw)
		switch {
		case err != nil:
			verr.Add("email", errors.CodeEmailInvalid)
		case !email.Equals(user.Email):
			if err := checkAvailability(ctx, s.userRepo, user.ID, "", email, verr); err != nil {
				return false, err
			}
			updated.Email = email
		}
	}

	if input.CurrentPassword != "" && input.NewPassword != "" {
		if !s.hasher.Compare(user.PasswordHash, input.CurrentPassword) {
			verr.Add("current_password", errors.CodeCurrentPassword)
		} else {
			validatePassword(verr, "new_password", input.NewPassword, input.NewPasswordConfirm)
		}
		passwordChanged = true
	}

	if verr.HasErrors() {
		return false, verr
	}

	if passwordChanged {
		hash, err := s.hasher.Hash(input.NewPassword)
		if err != nil {
			return false, err
		}
		updated.PasswordHash = hash
	}

	if err := s.userRepo.Update(ctx, &updated); err != nil {
		return false, conflictAsFieldError(ctx, s.userRepo, err, "")
	}
	*user = updated

	s.logger.Info("profile updated", "user_id", user.ID, "password_changed", passwordChanged)
	return passwordChanged, nil
}

// AdminUserInput representa o formulário de criação/edição de usuário do admin
type AdminUserInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
	FullName        string
	Phone           string
	Role            string
}

// CreateUser cria um usuário com qualquer papel (formulário do admin)
func (s *UserService) CreateUser(ctx context.Context, input AdminUserInput) (*entities.User, error) {
	s.logger.Info("creating user", "username", input.Username)

	username, email, role, verr := validateAdminInput(input, true)
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
		Phone:        entities.OptionalString(input.Phone),
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, conflictAsFieldError(ctx, s.userRepo, err, username)
	}

	s.logger.Info("user created", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// UpdateUser substitui os dados do usuário; senha vazia mantém a atual.
// O admin pode editar a própria conta, mas não o próprio papel.
func (s *UserService) UpdateUser(ctx context.Context, actorID, id string, input AdminUserInput) (*entities.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	username, email, role, verr := validateAdminInput(input, false)
	if verr.HasErrors() {
		return nil, verr
	}
	if actorID == user.ID && role != user.Role {
		return nil, errors.ErrSelfModification
	}
	if err := checkAvailability(ctx, s.userRepo, user.ID, username, email, verr); err != nil {
		return nil, err
	}
	if verr.HasErrors() {
		return nil, verr
	}

	user.Username = username
	user.Email = email
	user.FullName = entities.OptionalString(input.FullName)
	user.Phone = entities.OptionalString(input.Phone)
	user.Role = role

	if input.Password != "" {
		hash, err := s.hasher.Hash(input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, conflictAsFieldError(ctx, s.userRepo, err, username)
	}

	s.logger.Info("user updated", "user_id", user.ID, "role", user.Role, "actor_id", actorID)
	return user, nil
}

// ToggleRole alterna o papel entre admin e user. Um admin não pode alterar o próprio papel.
func (s *UserService) ToggleRole(ctx context.Context, actorID, id string) (*entities.User, error) {
	if actorID == id {
		return nil, errors.ErrSelfModification
	}

	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Role = user.Role.Toggled()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user role toggled", "user_id", user.ID, "role", user.Role, "actor_id", actorID)
	return user, nil
}

// DeleteUser remove o usuário e todo o seu histórico numa única transação.
// Um admin não pode remover a própria conta.
func (s *UserService) DeleteUser(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return errors.ErrSelfModification
	}

	if _, err := s.GetUser(ctx, id); err != nil {
		return err
	}

	err := s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.predictionRepo.DeleteByUser(txCtx, id); err != nil {
			return err
		}
		return s.userRepo.Delete(txCtx, id)
	})
	if err != nil {
		s.logger.Error("failed to delete user", "user_id", id, "error", err)
		return err
	}

	s.logger.Info("user deleted", "user_id", id, "actor_id", actorID)
	return nil
}

// validateAdminInput valida o formulário do admin; a senha é obrigatória só na criação
func validateAdminInput(input AdminUserInput, create bool) (string, valueobjects.Email, entities.Role, *errors.ValidationError) {
	verr := &errors.ValidationError{}

	username := strings.TrimSpace(input.Username)
	validateUsername(verr, username)

	email, err := valueobjects.NewEmail(input.Email)
	if err != nil {
		verr.Add("email", errors.CodeEmailInvalid)
	}

	if create || input.Password != "" {
		validatePassword(verr, "password", input.Password, input.PasswordConfirm)
	}

	rawRole := strings.TrimSpace(input.Role)
	if rawRole == "" {
		rawRole = string(entities.RoleUser)
	}
	role, ok := entities.ParseRole(rawRole)
	if !ok {
		verr.Add("role", errors.CodeRoleInvalid)
	}

	validateOptional(verr, "full_name", input.FullName, entities.MaxFullNameLength)
	validateOptional(verr, "phone", input.Phone, entities.MaxPhoneLength)

	return username, email, role, verr
}
