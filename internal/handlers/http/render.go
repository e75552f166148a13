package http

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/dermacheck-backend/internal/handlers/dto"
	"github.com/rafabene/dermacheck-backend/internal/handlers/middleware"
)

const flashCookieName = "flash"

// render responde com o template quando o cliente quer HTML, senão com JSON
func render(c *gin.Context, status int, template string, data any) {
	if template != "" && middleware.WantsHTML(c) {
		c.HTML(status, template, pageData(c, data))
		return
	}
	c.JSON(status, data)
}

// pageData acrescenta ao template o usuário logado, o idioma e a mensagem flash pendente
func pageData(c *gin.Context, data any) gin.H {
	h := gin.H{
		"data": data,
		"lang": dto.GetLanguage(c),
	}
	if user := middleware.CurrentUser(c); user != nil {
		h["current_user"] = dto.ToUserResponse(user)
	}
	if flash := popFlash(c); flash != "" {
		h["flash"] = flash
	}
	return h
}

// redirectWithFlash guarda a mensagem para a próxima página e redireciona (só HTML)
func redirectWithFlash(c *gin.Context, location, message string) {
	if message != "" {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(flashCookieName, url.QueryEscape(message), 60, "/", "", false, true)
	}
	c.Redirect(http.StatusSeeOther, location)
}

func popFlash(c *gin.Context) string {
	raw, err := c.Cookie(flashCookieName)
	if err != nil || raw == "" {
		return ""
	}
	c.SetCookie(flashCookieName, "", -1, "/", "", false, true)
	message, err := url.QueryUnescape(raw)
	if err != nil {
		return ""
	}
	return message
}

// respondAction fecha uma ação POST: redireciona páginas HTML, responde JSON aos demais
func respondAction(c *gin.Context, status int, location, message string, data any) {
	if middleware.WantsHTML(c) {
		redirectWithFlash(c, location, message)
		return
	}
	c.JSON(status, data)
}

// fail registra o erro para o ErrorHandler e interrompe a cadeia
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// safeNext aceita apenas caminhos locais ("/x", nunca "//host" ou URLs absolutas)
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}

// pageParam lê ?page=, com 1 para valores ausentes ou inválidos
func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
