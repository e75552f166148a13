package repositories

import (
	"context"
	"time"

	"github.com/rafabene/dermacheck-backend/internal/domain/entities"
)

// PredictionRepository define a interface para persistência do histórico de predições
type PredictionRepository interface {
	Create(ctx context.Context, prediction *entities.PredictionHistory) error
	FindByID(ctx context.Context, id string) (*entities.PredictionHistory, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
	ListRecentByUser(ctx context.Context, userID string, limit int) ([]*entities.PredictionHistory, error)
	ListByUser(ctx context.Context, userID string, page PageRequest) (Page[*entities.PredictionHistory], error)
	ListByUserAndClass(ctx context.Context, userID, class string, limit int) ([]*entities.PredictionHistory, error)
	ListRecentWithUser(ctx context.Context, limit int) ([]*entities.PredictionHistory, error)
	Count(ctx context.Context, filters PredictionCountFilters) (int64, error)
	TopClasses(ctx context.Context, limit int) ([]ClassCount, error)
	DistinctClasses(ctx context.Context) ([]string, error)
}

// PredictionCountFilters restringe contagens de predições
type PredictionCountFilters struct {
	UserID string
	Since  *time.Time
}

// ClassCount é a quantidade de predições de uma classe
type ClassCount struct {
	Class string
	Count int64
}
