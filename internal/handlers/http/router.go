package http

import (
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/rafabene/dermacheck-backend/internal/domain/ports"
	"github.com/rafabene/dermacheck-backend/internal/handlers/dto"
	"github.com/rafabene/dermacheck-backend/internal/handlers/middleware"
	"github.com/rafabene/dermacheck-backend/internal/infrastructure/i18n"
	"github.com/rafabene/dermacheck-backend/internal/infrastructure/metrics"
)

// RouterConfig reúne o que o roteador precisa. Campos opcionais: Metrics, limitadores,
// TemplatesDir e StaticDir.
type RouterConfig struct {
	BaseURL        string
	AllowedOrigins string
	TemplatesDir   string
	StaticDir      string

	Logger         ports.Logger
	I18n           *i18n.Service
	Auth           *middleware.AuthMiddleware
	Metrics        *metrics.Registry
	LoginLimiter   ports.RateLimiter
	PredictLimiter ports.RateLimiter

	Pages       *PageHandler
	AuthHandler *AuthHandler
	Predictions *PredictionHandler
	Diseases    *DiseaseHandler
	Profile     *ProfileHandler
	Admin       *AdminHandler
}

// NewRouter monta o engine com middlewares globais e todas as rotas
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	dto.RegisterValidatorTagNames()

	router := gin.Default()

	// Base URL usada nas URIs RFC 7807
	router.Use(func(c *gin.Context) {
		c.Set("base_url", cfg.BaseURL)
		c.Next()
	})

	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Middleware())
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.NewI18nMiddleware(cfg.I18n).DetectLanguage())

	if cfg.TemplatesDir != "" {
		tmpl, err := loadTemplates(cfg.TemplatesDir)
		if err != nil {
			return nil, err
		}
		router.SetHTMLTemplate(tmpl)
		router.Use(middleware.EnableHTML())
	}

	router.Use(cfg.Auth.LoadSession())
	router.Use(ErrorHandler(cfg.Logger))

	if cfg.StaticDir != "" {
		router.Static("/static", cfg.StaticDir)
	}
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	requireAuth := cfg.Auth.RequireAuth()
	requireAdmin := cfg.Auth.RequireAdmin()

	// Páginas públicas
	router.GET("/health", cfg.Pages.Health)
	router.GET("/", cfg.Pages.Index)
	router.GET("/artikel", cfg.Pages.Articles)
	router.GET("/predict", requireAuth, cfg.Predictions.PredictPage)

	// Autenticação
	router.GET("/login", cfg.AuthHandler.LoginPage)
	router.POST("/login", limit(cfg.LoginLimiter, middleware.ClientIPKey, cfg.Logger), cfg.AuthHandler.Login)
	router.GET("/register", cfg.AuthHandler.RegisterPage)
	router.POST("/register", cfg.AuthHandler.Register)
	router.GET("/logout", requireAuth, cfg.AuthHandler.Logout)

	// Perfil
	profile := router.Group("/profile", requireAuth)
	{
		profile.GET("", cfg.Profile.Profile)
		profile.GET("/edit", cfg.Profile.EditProfilePage)
		profile.POST("/edit", cfg.Profile.EditProfile)
		profile.GET("/history", cfg.Profile.HistoryPage)
	}

	// API
	api := router.Group("/api")
	{
		api.POST("/predict", requireAuth, limit(cfg.PredictLimiter, middleware.UserKey, cfg.Logger), cfg.Predictions.Predict)

		api.GET("/diseases", cfg.Diseases.ListDiseases)
		api.GET("/diseases/preview", cfg.Diseases.PreviewDiseases)
		api.GET("/disease/:name", cfg.Diseases.GetDisease)
		api.GET("/disease/:name/images", cfg.Diseases.DiseaseImages)

		history := api.Group("/profile/history", requireAuth)
		{
			history.GET("", cfg.Profile.RecentHistory)
			history.POST("/:id/delete", cfg.Profile.DeleteHistory)
		}
	}

	// Administração
	admin := router.Group("/admin", requireAdmin)
	{
		admin.GET("", cfg.Admin.Dashboard)
		admin.GET("/users", cfg.Admin.ListUsers)
		admin.GET("/users/create", cfg.Admin.CreateUserPage)
		admin.POST("/users/create", cfg.Admin.CreateUser)
		admin.GET("/users/:id", cfg.Admin.UserDetail)
		admin.GET("/users/:id/edit", cfg.Admin.EditUserPage)
		admin.POST("/users/:id/edit", cfg.Admin.EditUser)
		admin.POST("/users/:id/toggle-role", cfg.Admin.ToggleRole)
		admin.POST("/users/:id/delete", cfg.Admin.DeleteUser)
		admin.GET("/predictions", cfg.Admin.Predictions)
		admin.POST("/predictions/:id/delete", cfg.Admin.DeletePrediction)
	}

	return router, nil
}

// limit aplica o limitador quando configurado
func limit(limiter ports.RateLimiter, key middleware.KeyFunc, logger ports.Logger) gin.HandlerFunc {
	if limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.RateLimit(limiter, key, logger)
}

// loadTemplates carrega todos os .html do diretório, nomeados pelo caminho relativo
// (ex: "admin/dashboard.html")
func loadTemplates(dir string) (*template.Template, error) {
	root := template.New("")
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(path) //nolint:gosec
		if err != nil {
			return err
		}
		if _, err := root.New(filepath.ToSlash(rel)).Parse(string(content)); err != nil {
			return fmt.Errorf("failed to parse template %s: %w", rel, err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load templates from %s: %w", dir, err)
	}
	return root, nil
}
