package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/dermacheck-backend/internal/domain/entities"
	"github.com/rafabene/dermacheck-backend/internal/domain/repositories"
	"github.com/rafabene/dermacheck-backend/internal/handlers/dto"
	"github.com/rafabene/dermacheck-backend/internal/handlers/middleware"
	"github.com/rafabene/dermacheck-backend/internal/services"
)

// AdminHandler atende o painel de administração
type AdminHandler struct {
	userService       *services.UserService
	predictionService *services.PredictionService
	reportService     *services.ReportService
}

// NewAdminHandler cria um novo AdminHandler
func NewAdminHandler(
	userService *services.UserService,
	predictionService *services.PredictionService,
	reportService *services.ReportService,
) *AdminHandler {
	return &AdminHandler{
		userService:       userService,
		predictionService: predictionService,
		reportService:     reportService,
	}
}

// Dashboard mostra as estatísticas gerais
// @Summary      Painel de administração
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.DashboardResponse
// @Failure      403 {object} dto.ErrorResponse
// @Router       /admin [get]
func (h *AdminHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "admin/dashboard.html", dto.ToDashboardResponse(dashboard))
}

// ListUsers lista usuários com busca e filtro de papel
// @Summary      Listar usuários
// @Tags         admin
// @Produce      json
// @Param        page query int false "Página"
// @Param        search query string false "Username, email ou nome"
// @Param        role query string false "admin ou user"
// @Success      200 {object} dto.UserListResponse
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	search := strings.TrimSpace(c.Query("search"))
	roleParam := strings.TrimSpace(c.Query("role"))

	filters := repositories.UserFilters{
		Search:      search,
		PageRequest: repositories.PageRequest{Page: pageParam(c)},
	}
	if role, ok := entities.ParseRole(roleParam); ok {
		filters.Role = &role
	} else {
		roleParam = ""
	}

	page, err := h.userService.ListUsers(c.Request.Context(), filters)
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "admin/users.html", dto.ToUserListResponse(page, search, roleParam))
}

// CreateUserPage exibe o formulário de criação
func (h *AdminHandler) CreateUserPage(c *gin.Context) {
	render(c, http.StatusOK, "admin/create_user.html", gin.H{})
}

// CreateUser cria um usuário com papel e telefone
// @Summary      Criar usuário
// @Tags         admin
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        request body dto.AdminUserRequest true "Dados do usuário"
// @Success      201 {object} dto.UserMessageResponse
// @Failure      400 {object} dto.ErrorResponse
// @Router       /admin/users/create [post]
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req dto.AdminUserRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, dto.BindingError(err))
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), req.ToInput())
	if err != nil {
		fail(c, err)
		return
	}

	message := dto.T(c, "message.user_created", map[string]interface{}{"Username": user.Username})
	respondAction(c, http.StatusCreated, "/admin/users", message, dto.UserMessageResponse{
		Success: true,
		Message: message,
		User:    dto.ToUserResponse(user),
	})
}

// UserDetail mostra um usuário com o histórico paginado
// @Summary      Detalhe do usuário
// @Tags         admin
// @Produce      json
// @Param        id path string true "ID do usuário"
// @Param        page query int false "Página"
// @Success      200 {object} dto.UserDetailResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /admin/users/{id} [get]
func (h *AdminHandler) UserDetail(c *gin.Context) {
	detail, err := h.reportService.UserDetail(c.Request.Context(), c.Param("id"), pageParam(c))
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "admin/user_detail.html", dto.ToUserDetailResponse(detail))
}

// EditUserPage exibe o formulário de edição
func (h *AdminHandler) EditUserPage(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "admin/edit_user.html", gin.H{"user": dto.ToUserResponse(user)})
}

// EditUser atualiza um usuário; senha vazia mantém a atual e o admin não altera o próprio papel
// @Summary      Editar usuário
// @Tags         admin
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        id path string true "ID do usuário"
// @Param        request body dto.AdminUserRequest true "Dados do usuário"
// @Success      200 {object} dto.UserMessageResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /admin/users/{id}/edit [post]
func (h *AdminHandler) EditUser(c *gin.Context) {
	var req dto.AdminUserRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, dto.BindingError(err))
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), middleware.CurrentUser(c).ID, c.Param("id"), req.ToInput())
	if err != nil {
		fail(c, err)
		return
	}

	message := dto.T(c, "message.user_updated", map[string]interface{}{"Username": user.Username})
	respondAction(c, http.StatusOK, "/admin/users", message, dto.UserMessageResponse{
		Success: true,
		Message: message,
		User:    dto.ToUserResponse(user),
	})
}

// ToggleRole alterna o papel entre admin e user; o admin não pode alterar o próprio papel
// @Summary      Alternar papel
// @Tags         admin
// @Produce      json
// @Param        id path string true "ID do usuário"
// @Success      200 {object} dto.RoleToggleResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /admin/users/{id}/toggle-role [post]
func (h *AdminHandler) ToggleRole(c *gin.Context) {
	user, err := h.userService.ToggleRole(c.Request.Context(), middleware.CurrentUser(c).ID, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RoleToggleResponse{
		Success: true,
		Message: dto.T(c, "message.role_updated", map[string]interface{}{"Role": string(user.Role)}),
		NewRole: string(user.Role),
	})
}

// DeleteUser remove o usuário e o seu histórico; o admin não pode remover a própria conta
// @Summary      Remover usuário
// @Tags         admin
// @Produce      json
// @Param        id path string true "ID do usuário"
// @Success      200 {object} dto.MessageResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /admin/users/{id}/delete [post]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.userService.DeleteUser(c.Request.Context(), middleware.CurrentUser(c).ID, c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Success: true,
		Message: dto.T(c, "message.user_deleted"),
	})
}

// Predictions lista as predições agrupadas por usuário
// @Summary      Predições por usuário
// @Tags         admin
// @Produce      json
// @Param        page query int false "Página (10 usuários por página)"
// @Param        search query string false "Filtra usuários por username, email ou nome"
// @Param        class query string false "Classe exata"
// @Success      200 {object} dto.GroupedPredictionsResponse
// @Router       /admin/predictions [get]
func (h *AdminHandler) Predictions(c *gin.Context) {
	grouped, err := h.reportService.GroupedPredictions(c.Request.Context(), pageParam(c), c.Query("search"), c.Query("class"))
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "admin/predictions.html", dto.ToGroupedPredictionsResponse(grouped))
}

// DeletePrediction remove qualquer predição
// @Summary      Remover predição
// @Tags         admin
// @Produce      json
// @Param        id path string true "ID da predição"
// @Success      200 {object} dto.MessageResponse
// @Router       /admin/predictions/{id}/delete [post]
func (h *AdminHandler) DeletePrediction(c *gin.Context) {
	if err := h.predictionService.AdminDeletePrediction(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Success: true,
		Message: dto.T(c, "message.prediction_deleted"),
	})
}
