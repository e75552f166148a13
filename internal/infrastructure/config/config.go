package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config contém todas as configurações da aplicação
type Config struct {
	Env       string
	Server    ServerConfig
	Database  DatabaseConfig
	Session   SessionConfig
	Model     ModelConfig
	Storage   StorageConfig
	Redis     RedisConfig
	AMQP      AMQPConfig
	Tracing   TracingConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
	CORS      CORSConfig
	I18n      I18nConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	BaseURL      string // URL base da API para construir URIs RFC 7807
	TemplatesDir string // Opcional: templates HTML; sem ele as páginas respondem JSON
	TimeZone     string // Fuso usado para "predições de hoje"
}

type DatabaseConfig struct {
	URL         string // DSN PostgreSQL completo (tem prioridade sobre os campos abaixo)
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	MinConns    int
	MaxIdleTime int
	SQLitePath  string // Usado quando nenhum PostgreSQL é configurado
}

type SessionConfig struct {
	Secret      string
	TTL         time.Duration
	RememberTTL time.Duration
	CookieName  string
	Secure      bool
	BcryptCost  int
}

type ModelConfig struct {
	Path             string // Artefato do classificador servido pelo model server
	ServerURL        string // Endpoint de predição (contrato REST do TensorFlow Serving)
	StatusURL        string // Endpoint de status consultado na inicialização
	ClassIndicesPath string
	Timeout          time.Duration
}

type StorageConfig struct {
	DatasetDir    string
	StaticDir     string
	UploadDir     string
	PersistUpload bool
	MaxUploadMB   int
}

type RedisConfig struct {
	URL string
}

type AMQPConfig struct {
	URL      string
	Exchange string
}

type TracingConfig struct {
	Endpoint    string
	ServiceName string
}

type RateLimitConfig struct {
	LoginPerMinute   int
	PredictPerMinute int
}

type LoggingConfig struct {
	Level  string
	Driver string // slog (padrão) ou zap
}

type CORSConfig struct {
	AllowedOrigins string
}

type I18nConfig struct {
	LocalesDir      string
	DefaultLanguage string
}

// Load carrega as configurações do ambiente (e do arquivo .env, se existir)
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	config := &Config{
		Env: v.GetString("ENV"),
		Server: ServerConfig{
			Port:         v.GetString("PORT"),
			Host:         v.GetString("HOST"),
			BaseURL:      v.GetString("API_BASE_URL"),
			TemplatesDir: v.GetString("TEMPLATES_DIR"),
			TimeZone:     v.GetString("TIMEZONE"),
		},
		Database: DatabaseConfig{
			URL:         v.GetString("DATABASE_URL"),
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetInt("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASS"),
			DBName:      v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSL_MODE"),
			MaxConns:    v.GetInt("DB_MAX_CONNS"),
			MinConns:    v.GetInt("DB_MIN_CONNS"),
			MaxIdleTime: v.GetInt("DB_MAX_IDLE_TIME"),
			SQLitePath:  v.GetString("SQLITE_PATH"),
		},
		Session: SessionConfig{
			Secret:      v.GetString("SESSION_SECRET"),
			TTL:         v.GetDuration("SESSION_TTL"),
			RememberTTL: v.GetDuration("SESSION_REMEMBER_TTL"),
			CookieName:  v.GetString("SESSION_COOKIE_NAME"),
			Secure:      v.GetBool("SESSION_COOKIE_SECURE"),
			BcryptCost:  v.GetInt("BCRYPT_COST"),
		},
		Model: ModelConfig{
			Path:             v.GetString("MODEL_PATH"),
			ServerURL:        v.GetString("MODEL_SERVER_URL"),
			StatusURL:        v.GetString("MODEL_STATUS_URL"),
			ClassIndicesPath: v.GetString("CLASS_INDICES_PATH"),
			Timeout:          v.GetDuration("MODEL_TIMEOUT"),
		},
		Storage: StorageConfig{
			DatasetDir:    v.GetString("DATASET_DIR"),
			StaticDir:     v.GetString("STATIC_DIR"),
			UploadDir:     v.GetString("UPLOAD_DIR"),
			PersistUpload: v.GetBool("PERSIST_UPLOADS"),
			MaxUploadMB:   v.GetInt("MAX_UPLOAD_MB"),
		},
		Redis: RedisConfig{
			URL: v.GetString("REDIS_URL"),
		},
		AMQP: AMQPConfig{
			URL:      v.GetString("AMQP_URL"),
			Exchange: v.GetString("AMQP_EXCHANGE"),
		},
		Tracing: TracingConfig{
			Endpoint:    v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			ServiceName: v.GetString("OTEL_SERVICE_NAME"),
		},
		RateLimit: RateLimitConfig{
			LoginPerMinute:   v.GetInt("RATE_LIMIT_LOGIN_PER_MIN"),
			PredictPerMinute: v.GetInt("RATE_LIMIT_PREDICT_PER_MIN"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Driver: v.GetString("LOG_DRIVER"),
		},
		CORS: CORSConfig{
			AllowedOrigins: v.GetString("CORS_ALLOWED_ORIGINS"),
		},
		I18n: I18nConfig{
			LocalesDir:      v.GetString("I18N_LOCALES_DIR"),
			DefaultLanguage: v.GetString("I18N_DEFAULT_LANGUAGE"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "development")
	v.SetDefault("PORT", "5000")
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("API_BASE_URL", "http://localhost:5000")
	v.SetDefault("TIMEZONE", "Local")

	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 25)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("DB_MAX_IDLE_TIME", 300)
	v.SetDefault("SQLITE_PATH", "database.db")

	v.SetDefault("SESSION_SECRET", "dev-insecure-session-secret")
	v.SetDefault("SESSION_TTL", 24*time.Hour)
	v.SetDefault("SESSION_REMEMBER_TTL", 30*24*time.Hour)
	v.SetDefault("SESSION_COOKIE_NAME", "session")
	v.SetDefault("BCRYPT_COST", 10)

	v.SetDefault("MODEL_PATH", "skin_disease_mobilenetv2_stage1.h5")
	v.SetDefault("MODEL_SERVER_URL", "http://localhost:8501/v1/models/skin_disease:predict")
	v.SetDefault("MODEL_STATUS_URL", "http://localhost:8501/v1/models/skin_disease")
	v.SetDefault("CLASS_INDICES_PATH", "class_indices.json")
	v.SetDefault("MODEL_TIMEOUT", 30*time.Second)

	v.SetDefault("DATASET_DIR", "static/dataset")
	v.SetDefault("STATIC_DIR", "static")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("MAX_UPLOAD_MB", 16)

	v.SetDefault("AMQP_EXCHANGE", "dermacheck.events")
	v.SetDefault("OTEL_SERVICE_NAME", "dermacheck-backend")

	v.SetDefault("RATE_LIMIT_LOGIN_PER_MIN", 10)
	v.SetDefault("RATE_LIMIT_PREDICT_PER_MIN", 30)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DRIVER", "slog")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	v.SetDefault("I18N_LOCALES_DIR", "./internal/infrastructure/i18n/locales")
	v.SetDefault("I18N_DEFAULT_LANGUAGE", "en")
}

// Validate rejeita combinações inseguras ou incompletas
func (c *Config) Validate() error {
	if c.IsProduction() && (c.Session.Secret == "" || c.Session.Secret == "dev-insecure-session-secret") {
		return errors.New("SESSION_SECRET must be set in production")
	}
	if c.Session.TTL <= 0 || c.Session.RememberTTL <= 0 {
		return errors.New("session lifetimes must be positive")
	}
	if c.Server.Port == "" {
		return errors.New("PORT is required")
	}
	return nil
}

// IsProduction indica se a aplicação roda em produção
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Location retorna o fuso horário configurado (Local em caso de erro)
func (s *ServerConfig) Location() *time.Location {
	if s.TimeZone == "" || s.TimeZone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(s.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

// UsePostgres indica se há configuração de PostgreSQL
func (d *DatabaseConfig) UsePostgres() bool {
	return d.URL != "" || d.Host != ""
}

// DSN retorna a connection string do PostgreSQL
func (d *DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// MaxUploadBytes retorna o limite de upload em bytes
func (s *StorageConfig) MaxUploadBytes() int64 {
	if s.MaxUploadMB <= 0 {
		return 16 << 20
	}
	return int64(s.MaxUploadMB) << 20
}
