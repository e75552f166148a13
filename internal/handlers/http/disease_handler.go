package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/dermacheck-backend/internal/handlers/dto"
	"github.com/rafabene/dermacheck-backend/internal/infrastructure/catalog"
)

// DiseaseCatalog é o conteúdo de referência das classes
type DiseaseCatalog interface {
	List(ctx context.Context) []catalog.DiseaseSummary
	Preview(ctx context.Context) []catalog.DiseaseSummary
	Get(name string) (catalog.DiseaseInfo, error)
	SampleImages(name string, n int) []string
}

// DiseaseHandler expõe o catálogo de doenças
type DiseaseHandler struct {
	catalog DiseaseCatalog
}

// NewDiseaseHandler cria um novo DiseaseHandler
func NewDiseaseHandler(catalog DiseaseCatalog) *DiseaseHandler {
	return &DiseaseHandler{catalog: catalog}
}

// ListDiseases lista as classes com a quantidade de imagens do dataset
// @Summary      Listar doenças
// @Tags         diseases
// @Produce      json
// @Success      200 {object} dto.DiseasesResponse
// @Router       /api/diseases [get]
func (h *DiseaseHandler) ListDiseases(c *gin.Context) {
	c.JSON(http.StatusOK, dto.DiseasesResponse{Diseases: h.catalog.List(c.Request.Context())})
}

// PreviewDiseases é como ListDiseases, com a explicação de cada classe
// @Summary      Listar doenças com explicação
// @Tags         diseases
// @Produce      json
// @Success      200 {object} dto.DiseasesResponse
// @Router       /api/diseases/preview [get]
func (h *DiseaseHandler) PreviewDiseases(c *gin.Context) {
	c.JSON(http.StatusOK, dto.DiseasesResponse{Diseases: h.catalog.Preview(c.Request.Context())})
}

// GetDisease retorna o conteúdo educativo de uma classe
// @Summary      Detalhe da doença
// @Tags         diseases
// @Produce      json
// @Param        name path string true "Nome da classe"
// @Success      200 {object} catalog.DiseaseInfo
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/disease/{name} [get]
func (h *DiseaseHandler) GetDisease(c *gin.Context) {
	info, err := h.catalog.Get(c.Param("name"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// DiseaseImages sorteia imagens de exemplo da classe
// @Summary      Imagens de exemplo
// @Tags         diseases
// @Produce      json
// @Param        name path string true "Nome da classe"
// @Success      200 {object} dto.ImagesResponse
// @Router       /api/disease/{name}/images [get]
func (h *DiseaseHandler) DiseaseImages(c *gin.Context) {
	images := h.catalog.SampleImages(c.Param("name"), catalog.DefaultSampleSize)
	c.JSON(http.StatusOK, dto.ImagesResponse{Images: images, TotalImages: len(images)})
}
