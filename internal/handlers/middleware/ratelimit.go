package middleware

import (
	"github.com/gin-gonic/gin"

	domainerrors "github.com/rafabene/dermacheck-backend/internal/domain/errors"
	"github.com/rafabene/dermacheck-backend/internal/domain/ports"
)

// KeyFunc extrai a chave de cota de uma requisição
type KeyFunc func(c *gin.Context) string

// ClientIPKey limita por IP do cliente
func ClientIPKey(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// UserKey limita por usuário autenticado (IP para anônimos)
func UserKey(c *gin.Context) string {
	if user := CurrentUser(c); user != nil {
		return "user:" + user.ID
	}
	return ClientIPKey(c)
}

// RateLimit rejeita com 429 quando a chave esgotou a cota.
// Se o limitador falhar, a requisição segue.
func RateLimit(limiter ports.RateLimiter, key KeyFunc, logger ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), key(c))
		if err != nil {
			logger.Warn("rate limiter unavailable", "error", err)
			c.Next()
			return
		}

		if !allowed {
			logger.Warn("rate limit exceeded", "path", c.Request.URL.Path, "key", key(c))
			_ = c.Error(domainerrors.ErrRateLimited)
			c.Abort()
			return
		}

		c.Next()
	}
}
