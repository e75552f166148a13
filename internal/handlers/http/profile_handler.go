package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/dermacheck-backend/internal/handlers/dto"
	"github.com/rafabene/dermacheck-backend/internal/handlers/middleware"
	"github.com/rafabene/dermacheck-backend/internal/services"
)

// ProfileHandler atende o perfil e o histórico do usuário logado
type ProfileHandler struct {
	userService       *services.UserService
	predictionService *services.PredictionService
}

// NewProfileHandler cria um novo ProfileHandler
func NewProfileHandler(userService *services.UserService, predictionService *services.PredictionService) *ProfileHandler {
	return &ProfileHandler{
		userService:       userService,
		predictionService: predictionService,
	}
}

// Profile mostra o usuário e suas últimas predições
// @Summary      Perfil
// @Tags         profile
// @Produce      json
// @Success      200 {object} dto.ProfileResponse
// @Failure      401 {object} dto.ErrorResponse
// @Router       /profile [get]
func (h *ProfileHandler) Profile(c *gin.Context) {
	user := middleware.CurrentUser(c)

	predictions, err := h.predictionService.RecentHistory(c.Request.Context(), user.ID, services.DefaultHistoryLimit)
	if err != nil {
		fail(c, err)
		return
	}

	render(c, http.StatusOK, "profile.html", dto.ProfileResponse{
		User:        dto.ToUserResponse(user),
		Predictions: dto.ToPredictionViews(predictions),
	})
}

// EditProfilePage exibe o formulário de edição
func (h *ProfileHandler) EditProfilePage(c *gin.Context) {
	render(c, http.StatusOK, "edit_profile.html", gin.H{"user": dto.ToUserResponse(middleware.CurrentUser(c))})
}

// EditProfile atualiza nome, email, telefone e, opcionalmente, a senha
// @Summary      Editar perfil
// @Tags         profile
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        request body dto.ProfileEditRequest true "Campos do perfil"
// @Success      200 {object} dto.UserMessageResponse
// @Failure      400 {object} dto.ErrorResponse
// @Router       /profile/edit [post]
func (h *ProfileHandler) EditProfile(c *gin.Context) {
	var req dto.ProfileEditRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, dto.BindingError(err))
		return
	}

	user := middleware.CurrentUser(c)
	passwordChanged, err := h.userService.UpdateProfile(c.Request.Context(), user, req.ToInput())
	if err != nil {
		fail(c, err)
		return
	}

	message := dto.T(c, "message.profile_updated")
	if passwordChanged {
		message = dto.T(c, "message.password_changed") + " " + message
	}

	respondAction(c, http.StatusOK, "/profile", message, dto.UserMessageResponse{
		Success: true,
		Message: message,
		User:    dto.ToUserResponse(user),
	})
}

// HistoryPage lista o histórico paginado (20 por página)
// @Summary      Histórico paginado
// @Tags         profile
// @Produce      json
// @Param        page query int false "Página"
// @Success      200 {object} dto.HistoryPageResponse
// @Router       /profile/history [get]
func (h *ProfileHandler) HistoryPage(c *gin.Context) {
	page, err := h.predictionService.HistoryPage(c.Request.Context(), middleware.CurrentUser(c).ID, pageParam(c))
	if err != nil {
		fail(c, err)
		return
	}

	render(c, http.StatusOK, "history.html", dto.HistoryPageResponse{
		Predictions: dto.ToPredictionViews(page.Items),
		Pagination:  dto.ToPagination(page),
	})
}

// RecentHistory retorna as últimas predições em JSON
// @Summary      Histórico recente
// @Tags         profile
// @Produce      json
// @Param        limit query int false "Quantidade (1 a 100, padrão 10)"
// @Success      200 {object} dto.HistoryResponse
// @Router       /api/profile/history [get]
func (h *ProfileHandler) RecentHistory(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultHistoryLimit)))
	if err != nil {
		limit = services.DefaultHistoryLimit
	}

	predictions, err := h.predictionService.RecentHistory(c.Request.Context(), middleware.CurrentUser(c).ID, limit)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.HistoryResponse{
		Success:     true,
		Predictions: dto.ToPredictionViews(predictions),
	})
}

// DeleteHistory remove um registro do histórico (dono ou admin)
// @Summary      Remover do histórico
// @Tags         profile
// @Produce      json
// @Param        id path string true "ID do registro"
// @Success      200 {object} dto.MessageResponse
// @Failure      403 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/profile/history/{id}/delete [post]
func (h *ProfileHandler) DeleteHistory(c *gin.Context) {
	if err := h.predictionService.DeleteHistory(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Success: true,
		Message: dto.T(c, "message.history_deleted"),
	})
}
