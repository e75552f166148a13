package repositories

import (
	"context"
	"time"

	"github.com/rafabene/dermacheck-backend/internal/domain/entities"
)

// UserRepository define a interface para persistência de usuários
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	FindByID(ctx context.Context, id string) (*entities.User, error)
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters UserFilters) (Page[*entities.User], error)
	Count(ctx context.Context, role *entities.Role) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	ListWithPredictions(ctx context.Context, filters GroupedPredictionFilters) (Page[*UserPredictions], error)
}

// UserFilters contém filtros para listagem de usuários
type UserFilters struct {
	Role   *entities.Role
	Search string // Busca em username, email e nome completo
	PageRequest
}

// GroupedPredictionFilters filtra a visão de predições agrupadas por usuário.
// Search filtra somente usuários; Class filtra as predições pela classe exata.
type GroupedPredictionFilters struct {
	Search string
	Class  string
	PageRequest
}

// UserPredictions é um usuário com as suas predições mais recentes
type UserPredictions struct {
	User        *entities.User
	Predictions []*entities.PredictionHistory
}
