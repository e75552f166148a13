package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerrors "github.com/rafabene/dermacheck-backend/internal/domain/errors"
	"github.com/rafabene/dermacheck-backend/internal/handlers/dto"
	"github.com/rafabene/dermacheck-backend/internal/handlers/middleware"
	"github.com/rafabene/dermacheck-backend/internal/services"
)

// uploadField é o campo multipart com a imagem
const uploadField = "file"

// PredictionHandler lida com a classificação de imagens
type PredictionHandler struct {
	predictionService *services.PredictionService
	maxUploadBytes    int64
}

// NewPredictionHandler cria um novo PredictionHandler
func NewPredictionHandler(predictionService *services.PredictionService, maxUploadBytes int64) *PredictionHandler {
	return &PredictionHandler{
		predictionService: predictionService,
		maxUploadBytes:    maxUploadBytes,
	}
}

// PredictPage exibe a página de upload
func (h *PredictionHandler) PredictPage(c *gin.Context) {
	render(c, http.StatusOK, "predict.html", gin.H{"model_loaded": h.predictionService.ModelAvailable()})
}

// Predict classifica a imagem enviada e salva no histórico do usuário
// @Summary      Classificar imagem de pele
// @Description  Recebe uma imagem (jpg, jpeg, png ou webp) e devolve a classe prevista e a distribuição completa
// @Tags         predictions
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Imagem"
// @Success      200 {object} dto.PredictResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      413 {object} dto.ErrorResponse
// @Failure      429 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /api/predict [post]
func (h *PredictionHandler) Predict(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	fileHeader, err := c.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, domainerrors.ErrFileTooLarge)
			return
		}
		fail(c, domainerrors.ErrNoFileUploaded)
		return
	}
	if fileHeader.Filename == "" {
		fail(c, domainerrors.ErrNoFileSelected)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		fail(c, domainerrors.ErrNoFileUploaded)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		fail(c, err)
		return
	}

	result, err := h.predictionService.Predict(c.Request.Context(), middleware.CurrentUser(c), fileHeader.Filename, data)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPredictResponse(result))
}
