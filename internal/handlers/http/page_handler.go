package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/dermacheck-backend/internal/handlers/dto"
)

// ModelStatus informa se o classificador está disponível
type ModelStatus interface {
	ModelAvailable() bool
}

// PageHandler atende as páginas públicas e o health check
type PageHandler struct {
	model   ModelStatus
	catalog DiseaseCatalog
	env     string
}

// NewPageHandler cria um novo PageHandler
func NewPageHandler(model ModelStatus, catalog DiseaseCatalog, env string) *PageHandler {
	return &PageHandler{model: model, catalog: catalog, env: env}
}

// Health informa o estado do serviço. Modelo ausente não derruba o health check.
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.HealthResponse
// @Router       /health [get]
func (h *PageHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:      "ok",
		ModelLoaded: h.model.ModelAvailable(),
		Env:         h.env,
	})
}

// Index é a página inicial
func (h *PageHandler) Index(c *gin.Context) {
	render(c, http.StatusOK, "index.html", gin.H{
		"model_loaded": h.model.ModelAvailable(),
		"diseases":     h.catalog.List(c.Request.Context()),
	})
}

// Articles é a página de artigos educativos
func (h *PageHandler) Articles(c *gin.Context) {
	render(c, http.StatusOK, "artikel.html", dto.DiseasesResponse{Diseases: h.catalog.Preview(c.Request.Context())})
}
