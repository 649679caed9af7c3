package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// NewLogger cria o logger JSON da aplicação. Em dev o nível desce para debug.
func NewLogger(service, env string) *slog.Logger {
	level := slog.LevelInfo
	if strings.EqualFold(env, "dev") {
		level = slog.LevelDebug
	}

	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(h).With("service", service)
}

type contextKey struct{}

func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if ctx == nil || logger == nil {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext devolve o logger da requisição, ou o logger padrão.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
			return logger
		}
	}
	return slog.Default()
}
