package gormstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/rafabene/dermacheck-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/dermacheck-backend/internal/domain/errors"
	"github.com/rafabene/dermacheck-backend/internal/domain/repositories"
)

// PredictionRepository implementa repositories.PredictionRepository
type PredictionRepository struct {
	db *gorm.DB
}

// NewPredictionRepository cria um novo PredictionRepository
func NewPredictionRepository(db *gorm.DB) repositories.PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) Create(ctx context.Context, prediction *entities.PredictionHistory) error {
	model := predictionToModel(prediction)

	db := dbFromContext(ctx, r.db)
	if err := db.Omit("User").Create(model).Error; err != nil {
		return translateError(err)
	}

	prediction.ID = model.ID
	prediction.CreatedAt = fromMillis(model.CreatedAt)
	return nil
}

func (r *PredictionRepository) FindByID(ctx context.Context, id string) (*entities.PredictionHistory, error) {
	var model PredictionModel

	db := dbFromContext(ctx, r.db)
	if err := db.Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return predictionToEntity(&model), nil
}

func (r *PredictionRepository) Delete(ctx context.Context, id string) error {
	db := dbFromContext(ctx, r.db)
	result := db.Where("id = ?", id).Delete(&PredictionModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrPredictionNotFound
	}
	return nil
}

func (r *PredictionRepository) DeleteByUser(ctx context.Context, userID string) error {
	db := dbFromContext(ctx, r.db)
	return db.Where("user_id = ?", userID).Delete(&PredictionModel{}).Error
}

func (r *PredictionRepository) ListRecentByUser(ctx context.Context, userID string, limit int) ([]*entities.PredictionHistory, error) {
	var models []*PredictionModel

	db := dbFromContext(ctx, r.db)
	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, err
	}

	return predictionsToEntities(models), nil
}

func (r *PredictionRepository) ListByUser(ctx context.Context, userID string, page repositories.PageRequest) (repositories.Page[*entities.PredictionHistory], error) {
	req := page.Normalize()

	db := dbFromContext(ctx, r.db)
	query := db.Model(&PredictionModel{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return repositories.Page[*entities.PredictionHistory]{}, err
	}

	var models []*PredictionModel
	if err := query.Order("created_at DESC").
		Limit(req.PageSize).Offset(req.Offset()).
		Find(&models).Error; err != nil {
		return repositories.Page[*entities.PredictionHistory]{}, err
	}

	return repositories.NewPage(req, predictionsToEntities(models), total), nil
}

func (r *PredictionRepository) ListByUserAndClass(ctx context.Context, userID, class string, limit int) ([]*entities.PredictionHistory, error) {
	var models []*PredictionModel

	db := dbFromContext(ctx, r.db)
	if err := db.Where("user_id = ? AND predicted_class = ?", userID, class).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, err
	}

	return predictionsToEntities(models), nil
}

// ListRecentWithUser retorna as últimas predições de todos os usuários com o dono carregado
func (r *PredictionRepository) ListRecentWithUser(ctx context.Context, limit int) ([]*entities.PredictionHistory, error) {
	var models []*PredictionModel

	db := dbFromContext(ctx, r.db)
	if err := db.Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, err
	}

	return predictionsToEntities(models), nil
}

func (r *PredictionRepository) Count(ctx context.Context, filters repositories.PredictionCountFilters) (int64, error) {
	db := dbFromContext(ctx, r.db)
	query := db.Model(&PredictionModel{})

	if filters.UserID != "" {
		query = query.Where("user_id = ?", filters.UserID)
	}
	if filters.Since != nil {
		query = query.Where("created_at >= ?", filters.Since.UnixMilli())
	}

	var total int64
	err := query.Count(&total).Error
	return total, err
}

func (r *PredictionRepository) TopClasses(ctx context.Context, limit int) ([]repositories.ClassCount, error) {
	var rows []struct {
		PredictedClass string
		Total          int64
	}

	db := dbFromContext(ctx, r.db)
	if err := db.Model(&PredictionModel{}).
		Select("predicted_class, COUNT(id) AS total").
		Group("predicted_class").
		Order("total DESC").Order("predicted_class ASC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make([]repositories.ClassCount, len(rows))
	for i, row := range rows {
		counts[i] = repositories.ClassCount{Class: row.PredictedClass, Count: row.Total}
	}
	return counts, nil
}

func (r *PredictionRepository) DistinctClasses(ctx context.Context) ([]string, error) {
	var classes []string

	db := dbFromContext(ctx, r.db)
	err := db.Model(&PredictionModel{}).
		Distinct("predicted_class").
		Order("predicted_class ASC").
		Pluck("predicted_class", &classes).Error
	return classes, err
}

// Conversores
func predictionToModel(p *entities.PredictionHistory) *PredictionModel {
	return &PredictionModel{
		ID:               p.ID,
		UserID:           p.UserID,
		PredictedClass:   p.PredictedClass,
		Confidence:       p.Confidence,
		ImagePath:        p.ImagePath,
		ImageBase64:      p.ImageBase64,
		AllProbabilities: p.AllProbabilities,
		CreatedAt:        toMillis(p.CreatedAt),
	}
}

func predictionToEntity(model *PredictionModel) *entities.PredictionHistory {
	p := &entities.PredictionHistory{
		ID:               model.ID,
		UserID:           model.UserID,
		PredictedClass:   model.PredictedClass,
		Confidence:       model.Confidence,
		ImagePath:        model.ImagePath,
		ImageBase64:      model.ImageBase64,
		AllProbabilities: model.AllProbabilities,
		CreatedAt:        fromMillis(model.CreatedAt),
	}

	if model.User != nil {
		// Email inválido no banco não deve esconder a predição
		if owner, err := userToEntity(model.User); err == nil {
			p.User = owner
		}
	}

	return p
}

func predictionsToEntities(models []*PredictionModel) []*entities.PredictionHistory {
	result := make([]*entities.PredictionHistory, 0, len(models))
	for _, model := range models {
		result = append(result, predictionToEntity(model))
	}
	return result
}
