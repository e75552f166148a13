package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/dermacheck-backend/internal/domain/entities"
	"github.com/rafabene/dermacheck-backend/internal/domain/ports"
	"github.com/rafabene/dermacheck-backend/internal/handlers/dto"
	"github.com/rafabene/dermacheck-backend/internal/handlers/middleware"
	"github.com/rafabene/dermacheck-backend/internal/services"
)

// SessionCookie configura o cookie de sessão
type SessionCookie struct {
	Name   string
	Secure bool
}

// AuthHandler lida com login, cadastro e logout
type AuthHandler struct {
	authService *services.AuthService
	cookie      SessionCookie
	logger      ports.Logger
}

// NewAuthHandler cria um novo AuthHandler
func NewAuthHandler(authService *services.AuthService, cookie SessionCookie, logger ports.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookie:      cookie,
		logger:      logger,
	}
}

// LoginPage exibe o formulário de login
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if user := middleware.CurrentUser(c); user != nil {
		h.alreadyAuthenticated(c, user)
		return
	}
	render(c, http.StatusOK, "login.html", gin.H{"next": safeNext(c.Query("next"))})
}

// Login autentica o usuário e abre a sessão
// @Summary      Login
// @Description  Autentica por username e senha. remember estende a sessão.
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        request body dto.LoginRequest true "Credenciais"
// @Param        next query string false "Caminho para onde voltar"
// @Success      200 {object} dto.SessionResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      429 {object} dto.ErrorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	if user := middleware.CurrentUser(c); user != nil {
		h.alreadyAuthenticated(c, user)
		return
	}

	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, dto.BindingError(err))
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Username, req.Password, bool(req.Remember))
	if err != nil {
		fail(c, err)
		return
	}

	h.setSessionCookie(c, result.Token, result.Claims)

	message := dto.T(c, "message.login_success", map[string]interface{}{"Username": result.User.Username})
	next := safeNext(c.Query("next"))
	if next == "" {
		next = safeNext(c.PostForm("next"))
	}

	if middleware.WantsHTML(c) {
		if next == "" {
			next = "/"
		}
		redirectWithFlash(c, next, message)
		return
	}

	expiresAt := result.Claims.ExpiresAt
	c.JSON(http.StatusOK, dto.SessionResponse{
		Success:   true,
		Message:   message,
		User:      dto.ToUserResponse(result.User),
		Token:     result.Token,
		ExpiresAt: &expiresAt,
		Next:      next,
	})
}

// RegisterPage exibe o formulário de cadastro
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	if user := middleware.CurrentUser(c); user != nil {
		h.alreadyAuthenticated(c, user)
		return
	}
	render(c, http.StatusOK, "register.html", gin.H{})
}

// Register cadastra um novo usuário comum
// @Summary      Cadastro
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        request body dto.RegisterRequest true "Dados do usuário"
// @Success      201 {object} dto.UserMessageResponse
// @Failure      400 {object} dto.ErrorResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	if user := middleware.CurrentUser(c); user != nil {
		h.alreadyAuthenticated(c, user)
		return
	}

	var req dto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, dto.BindingError(err))
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.ToInput())
	if err != nil {
		fail(c, err)
		return
	}

	message := dto.T(c, "message.register_success")
	respondAction(c, http.StatusCreated, "/login", message, dto.UserMessageResponse{
		Success: true,
		Message: message,
		User:    dto.ToUserResponse(user),
	})
}

// Logout encerra a sessão
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.MessageResponse
// @Failure      401 {object} dto.ErrorResponse
// @Router       /logout [get]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)

	if user := middleware.CurrentUser(c); user != nil {
		h.logger.Info("user logged out", "user_id", user.ID)
	}

	message := dto.T(c, "message.logout")
	respondAction(c, http.StatusOK, "/", message, dto.MessageResponse{Success: true, Message: message})
}

func (h *AuthHandler) alreadyAuthenticated(c *gin.Context, user *entities.User) {
	if middleware.WantsHTML(c) {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.JSON(http.StatusOK, dto.SessionResponse{
		Success: true,
		User:    dto.ToUserResponse(user),
	})
}

// setSessionCookie grava o token. Sem "lembrar" o cookie vale só enquanto o navegador estiver aberto.
func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, claims ports.SessionClaims) {
	maxAge := 0
	if claims.Remember {
		maxAge = int(time.Until(claims.ExpiresAt).Seconds())
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token, maxAge, "/", "", h.cookie.Secure, true)
}
