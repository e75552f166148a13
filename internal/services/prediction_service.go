package services

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/rafabene/dermacheck-backend/internal/domain/entities"
	"github.com/rafabene/dermacheck-backend/internal/domain/errors"
	"github.com/rafabene/dermacheck-backend/internal/domain/ports"
	"github.com/rafabene/dermacheck-backend/internal/domain/repositories"
	"github.com/rafabene/dermacheck-backend/internal/infrastructure/imaging"
	"github.com/rafabene/dermacheck-backend/internal/infrastructure/inference"
)

const (
	// DefaultHistoryLimit é o limite padrão de /api/profile/history
	DefaultHistoryLimit = 10
	// MaxHistoryLimit é o maior limite aceito
	MaxHistoryLimit = 100
	// HistoryPageSize é o tamanho de página de /profile/history
	HistoryPageSize = 20
)

// ImageClassifier classifica um upload e devolve a imagem decodificada
type ImageClassifier interface {
	ClassifyUpload(ctx context.Context, filename string, data []byte) (*entities.Classification, image.Image, error)
	Available() bool
}

// PredictionService orquestra classificação, preview e histórico
type PredictionService struct {
	classifier     ImageClassifier
	predictionRepo repositories.PredictionRepository
	metrics        ports.PredictionMetrics
	events         ports.EventPublisher
	logger         ports.Logger
	uploadDir      string // vazio: uploads originais não são guardados
	now            func() time.Time
}

// NewPredictionService cria um novo PredictionService
func NewPredictionService(
	classifier ImageClassifier,
	predictionRepo repositories.PredictionRepository,
	metrics ports.PredictionMetrics,
	events ports.EventPublisher,
	logger ports.Logger,
	uploadDir string,
) *PredictionService {
	return &PredictionService{
		classifier:     classifier,
		predictionRepo: predictionRepo,
		metrics:        metrics,
		events:         events,
		logger:         logger,
		uploadDir:      uploadDir,
		now:            time.Now,
	}
}

// ModelAvailable indica se o classificador foi carregado
func (s *PredictionService) ModelAvailable() bool {
	return s.classifier.Available()
}

// PredictResult é o resultado de uma classificação
type PredictResult struct {
	Classification *entities.Classification
	PreviewBase64  string
	// History é nil quando o registro não pôde ser salvo
	History *entities.PredictionHistory
}

// Predict classifica o upload e registra o histórico do usuário.
// Falhas ao salvar o histórico são logadas e não afetam o resultado.
func (s *PredictionService) Predict(ctx context.Context, user *entities.User, filename string, data []byte) (*PredictResult, error) {
	if filename == "" {
		return nil, errors.ErrNoFileSelected
	}
	if len(data) == 0 {
		return nil, errors.ErrNoFileUploaded
	}

	classification, img, err := s.classifier.ClassifyUpload(ctx, filename, data)
	if err != nil {
		s.logger.Warn("classification failed", "user_id", user.ID, "filename", filename, "error", err)
		return nil, err
	}

	preview, err := imaging.Preview(img, imaging.PreviewMaxSide)
	if err != nil {
		return nil, fmt.Errorf("failed to render preview: %w", err)
	}

	s.metrics.ObservePrediction(classification.Label, classification.Confidence)
	result := &PredictResult{Classification: classification, PreviewBase64: preview}

	history, err := s.appendHistory(ctx, user, filename, data, classification, preview)
	if err != nil {
		s.metrics.HistoryPersistFailed()
		s.logger.Error("failed to save prediction history", "user_id", user.ID, "error", err)
	} else {
		result.History = history
	}

	event := ports.PredictionCreated{
		UserID:         user.ID,
		PredictedClass: classification.Label,
		Confidence:     classification.Confidence,
		Persisted:      result.History != nil,
		OccurredAt:     s.now().UTC(),
	}
	if result.History != nil {
		event.PredictionID = result.History.ID
	}
	publish(ctx, s.events, s.logger, ports.EventPredictionCreated, event)

	s.logger.Info("prediction completed",
		"user_id", user.ID,
		"predicted_class", classification.Label,
		"confidence", classification.Confidence,
		"persisted", result.History != nil,
	)
	return result, nil
}

func (s *PredictionService) appendHistory(
	ctx context.Context,
	user *entities.User,
	filename string,
	data []byte,
	c *entities.Classification,
	preview string,
) (*entities.PredictionHistory, error) {
	imagePath, err := s.storeUpload(filename, data)
	if err != nil {
		return nil, err
	}

	history, err := entities.NewPredictionHistory(user.ID, c, &preview, imagePath)
	if err != nil {
		return nil, err
	}
	if err := s.predictionRepo.Create(ctx, history); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return history, nil
}

// storeUpload grava o arquivo original como <uuid>.<ext> em uploadDir
func (s *PredictionService) storeUpload(filename string, data []byte) (*string, error) {
	if s.uploadDir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(s.uploadDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	name := uuid.NewString() + "." + inference.Extension(filename)
	path := filepath.Join(s.uploadDir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}
	return &path, nil
}

// RecentHistory retorna as últimas predições do usuário (limit entre 1 e MaxHistoryLimit)
func (s *PredictionService) RecentHistory(ctx context.Context, userID string, limit int) ([]*entities.PredictionHistory, error) {
	if limit < 1 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	return s.predictionRepo.ListRecentByUser(ctx, userID, limit)
}

// HistoryPage retorna uma página do histórico do usuário
func (s *PredictionService) HistoryPage(ctx context.Context, userID string, page int) (repositories.Page[*entities.PredictionHistory], error) {
	return s.predictionRepo.ListByUser(ctx, userID, repositories.PageRequest{Page: page, PageSize: HistoryPageSize})
}

// DeleteHistory remove um registro do histórico; somente o dono ou um admin podem remover
func (s *PredictionService) DeleteHistory(ctx context.Context, actor *entities.User, id string) error {
	prediction, err := s.predictionRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if prediction == nil {
		return errors.ErrPredictionNotFound
	}
	if !prediction.CanBeDeletedBy(actor) {
		s.logger.Warn("history delete denied", "prediction_id", id, "user_id", actor.ID)
		return errors.ErrForbidden
	}

	if err := s.predictionRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("history deleted", "prediction_id", id, "user_id", actor.ID)
	return nil
}

// AdminDeletePrediction remove qualquer predição (moderação)
func (s *PredictionService) AdminDeletePrediction(ctx context.Context, id string) error {
	if err := s.predictionRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("prediction deleted by admin", "prediction_id", id)
	return nil
}
