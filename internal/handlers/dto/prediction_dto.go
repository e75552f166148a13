package dto

import (
	"time"

	"github.com/rafabene/dermacheck-backend/internal/domain/entities"
	"github.com/rafabene/dermacheck-backend/internal/domain/repositories"
	"github.com/rafabene/dermacheck-backend/internal/infrastructure/catalog"
	"github.com/rafabene/dermacheck-backend/internal/infrastructure/imaging"
	"github.com/rafabene/dermacheck-backend/internal/services"
)

// CreatedAtLayout é o formato de created_at_formatted (ex: "05 March 2025, 14:30")
const CreatedAtLayout = "02 January 2006, 15:04"

// PredictResponse é a resposta de POST /api/predict
type PredictResponse struct {
	Success          bool                  `json:"success"`
	PredictedClass   string                `json:"predicted_class"`
	Confidence       float64               `json:"confidence"`
	AllProbabilities entities.Distribution `json:"all_probabilities"`
	ImagePreview     string                `json:"image_preview"`
	HistoryID        string                `json:"history_id,omitempty"`
}

// ToPredictResponse converte o resultado do serviço
func ToPredictResponse(result *services.PredictResult) PredictResponse {
	response := PredictResponse{
		Success:          true,
		PredictedClass:   result.Classification.Label,
		Confidence:       result.Classification.Confidence,
		AllProbabilities: result.Classification.Distribution,
		ImagePreview:     imaging.DataURI(result.PreviewBase64),
	}
	if result.History != nil {
		response.HistoryID = result.History.ID
	}
	return response
}

// PredictionView é um registro do histórico com a distribuição já desserializada.
// O preview salvo sai uma única vez, como data URI.
type PredictionView struct {
	ID                 string                `json:"id"`
	PredictedClass     string                `json:"predicted_class"`
	Confidence         float64               `json:"confidence"`
	ImagePreview       string                `json:"image_preview,omitempty"`
	AllProbabilities   entities.Distribution `json:"all_probabilities"`
	CreatedAt          time.Time             `json:"created_at"`
	CreatedAtFormatted string                `json:"created_at_formatted"`
	User               *UserResponse         `json:"user,omitempty"`
}

// ToPredictionView converte um registro do histórico
func ToPredictionView(p *entities.PredictionHistory) PredictionView {
	view := PredictionView{
		ID:                 p.ID,
		PredictedClass:     p.PredictedClass,
		Confidence:         p.Confidence,
		AllProbabilities:   entities.ParseDistribution(p.AllProbabilities),
		CreatedAt:          p.CreatedAt,
		CreatedAtFormatted: "-",
	}
	if p.ImageBase64 != nil && *p.ImageBase64 != "" {
		view.ImagePreview = imaging.DataURI(*p.ImageBase64)
	}
	if !p.CreatedAt.IsZero() {
		view.CreatedAtFormatted = p.CreatedAt.Format(CreatedAtLayout)
	}
	if p.User != nil {
		user := ToUserResponse(p.User)
		view.User = &user
	}
	return view
}

// ToPredictionViews converte uma lista de registros
func ToPredictionViews(predictions []*entities.PredictionHistory) []PredictionView {
	views := make([]PredictionView, len(predictions))
	for i, p := range predictions {
		views[i] = ToPredictionView(p)
	}
	return views
}

// ToPagination descreve a navegação de qualquer página
func ToPagination[T any](page repositories.Page[T]) PaginationResponse {
	return PaginationResponse{
		Page:     page.Page,
		PageSize: page.PageSize,
		Total:    page.Total,
		Pages:    page.TotalPages(),
		HasPrev:  page.HasPrev(),
		HasNext:  page.HasNext(),
		PrevNum:  page.PrevNum(),
		NextNum:  page.NextNum(),
	}
}

// HistoryResponse é a resposta de GET /api/profile/history
type HistoryResponse struct {
	Success     bool             `json:"success"`
	Predictions []PredictionView `json:"predictions"`
}

// HistoryPageResponse é a resposta de GET /profile/history
type HistoryPageResponse struct {
	Predictions []PredictionView   `json:"predictions"`
	Pagination  PaginationResponse `json:"pagination"`
}

// DiseasesResponse é a resposta de /api/diseases e /api/diseases/preview
type DiseasesResponse struct {
	Diseases []catalog.DiseaseSummary `json:"diseases"`
}

// ImagesResponse é a resposta de /api/disease/:name/images
type ImagesResponse struct {
	Images      []string `json:"images"`
	TotalImages int      `json:"total_images"`
}

// HealthResponse é a resposta de /health
type HealthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	Env         string `json:"env"`
}
