package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/rafabene/dermacheck-backend/internal/domain/ports"
)

// SlogLogger implementa ports.Logger usando slog do stdlib
type SlogLogger struct {
	logger *slog.Logger
}

// New escolhe a implementação pelo driver configurado (slog ou zap)
func New(driver, level string) (ports.Logger, error) {
	if strings.EqualFold(driver, "zap") {
		return NewZapLogger(level)
	}
	return NewSlogLogger(level), nil
}

// NewSlogLogger cria um novo logger JSON em stdout
func NewSlogLogger(level string) ports.Logger {
	return newSlogLogger(os.Stdout, level)
}

func newSlogLogger(w io.Writer, level string) *SlogLogger {
	opts := &slog.HandlerOptions{
		Level: parseSlogLevel(level),
	}

	handler := slog.NewJSONHandler(w, opts)
	return &SlogLogger{logger: slog.New(handler)}
}

func parseSlogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *SlogLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

func (l *SlogLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

func (l *SlogLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

func (l *SlogLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

func (l *SlogLogger) With(args ...any) ports.Logger {
	return &SlogLogger{
		logger: l.logger.With(args...),
	}
}

// Nop descarta tudo (útil em testes)
func Nop() ports.Logger {
	return newSlogLogger(io.Discard, "error")
}
