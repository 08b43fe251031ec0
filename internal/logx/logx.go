// Package logx configures the process-wide slog logger: JSON in
// production, text everywhere else.
package logx

import (
	"log/slog"
	"os"
)

func Setup(env string) *slog.Logger {
	var h slog.Handler
	switch env {
	case "production", "prod":
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	l := slog.New(h)
	slog.SetDefault(l)
	return l
}
