package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/dermacheck-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/dermacheck-backend/internal/domain/errors"
	"github.com/rafabene/dermacheck-backend/internal/domain/ports"
)

const (
	// CurrentUserContextKey guarda o *entities.User autenticado
	CurrentUserContextKey = "current_user"
	// HTMLContextKey indica que templates HTML estão carregados
	HTMLContextKey = "html_enabled"
)

// SessionResolver resolve o usuário dono de um token de sessão
type SessionResolver interface {
	CurrentUser(ctx context.Context, token string) (*entities.User, error)
}

// AuthMiddleware carrega a sessão e protege as rotas
type AuthMiddleware struct {
	sessions   SessionResolver
	cookieName string
	logger     ports.Logger
}

// NewAuthMiddleware cria um novo AuthMiddleware
func NewAuthMiddleware(sessions SessionResolver, cookieName string, logger ports.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		sessions:   sessions,
		cookieName: cookieName,
		logger:     logger,
	}
}

// LoadSession resolve o usuário do cookie de sessão ou do header Authorization: Bearer.
// Sessões inválidas seguem como anônimas.
func (m *AuthMiddleware) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.token(c)
		if token == "" {
			c.Next()
			return
		}

		user, err := m.sessions.CurrentUser(c.Request.Context(), token)
		switch {
		case err == nil:
			c.Set(CurrentUserContextKey, user)
		case errors.Is(err, domainerrors.ErrUnauthorized):
			m.logger.Debug("ignoring invalid session", "path", c.Request.URL.Path)
		default:
			m.logger.Error("failed to resolve session", "error", err)
		}

		c.Next()
	}
}

func (m *AuthMiddleware) token(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := c.Cookie(m.cookieName); err == nil {
		return cookie
	}
	return ""
}

// RequireAuth exige sessão. Páginas HTML redirecionam para /login?next=<rota>.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) != nil {
			c.Next()
			return
		}

		if WantsHTML(c) {
			c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}

		_ = c.Error(domainerrors.ErrUnauthorized)
		c.Abort()
	}
}

// RequireAdmin exige sessão de admin. Páginas HTML de não-admins voltam para /.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return m.RequirePermission(entities.PermissionUserManage)
}

// RequirePermission exige que o papel do usuário tenha a permissão
func (m *AuthMiddleware) RequirePermission(permission entities.Permission) gin.HandlerFunc {
	requireAuth := m.RequireAuth()

	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			requireAuth(c)
			return
		}

		if user.HasPermission(permission) {
			c.Next()
			return
		}

		m.logger.Warn("permission denied",
			"user_id", user.ID,
			"permission", permission,
			"path", c.Request.URL.Path,
		)

		if WantsHTML(c) {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}

		_ = c.Error(domainerrors.ErrForbidden)
		c.Abort()
	}
}

// CurrentUser retorna o usuário autenticado ou nil
func CurrentUser(c *gin.Context) *entities.User {
	value, exists := c.Get(CurrentUserContextKey)
	if !exists {
		return nil
	}
	user, _ := value.(*entities.User)
	return user
}

// EnableHTML marca as requisições como aptas a receber páginas HTML
func EnableHTML() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(HTMLContextKey, true)
		c.Next()
	}
}

// WantsHTML indica se há templates carregados e o cliente prefere HTML a JSON
func WantsHTML(c *gin.Context) bool {
	if !c.GetBool(HTMLContextKey) {
		return false
	}
	return c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) == gin.MIMEHTML
}
