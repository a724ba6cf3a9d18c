// Package activity records request-level activity. Handlers receive the
// Logger interface explicitly; which backend is active comes from the LOG
// environment option (file, db or off).
package activity

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Logger records a message plus structured data. Implementations must be
// best-effort: a failing backend never fails the request.
type Logger interface {
	Info(ctx context.Context, message string, data map[string]any)
}

// NewFromMode selects the backend for the given LOG mode. Unknown modes are
// treated as off.
func NewFromMode(mode string, logger *slog.Logger, pool *pgxpool.Pool) Logger {
	switch mode {
	case "file":
		return &fileLogger{logger: logger}
	case "db":
		return &dbLogger{pool: pool, logger: logger}
	default:
		return Nop{}
	}
}

// Nop discards everything.
type Nop struct{}

func (Nop) Info(context.Context, string, map[string]any) {}

type fileLogger struct {
	logger *slog.Logger
}

func (l *fileLogger) Info(ctx context.Context, message string, data map[string]any) {
	if l.logger == nil {
		return
	}
	l.logger.InfoContext(ctx, message, slog.Any("data", data))
}

type dbLogger struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func (l *dbLogger) Info(ctx context.Context, message string, data map[string]any) {
	if l.pool == nil {
		return
	}
	payload, err := json.Marshal(data)
	if err != nil {
		payload = []byte("{}")
	}
	if _, err := l.pool.Exec(ctx, `INSERT INTO logs (info, data, created_at) VALUES ($1, $2, NOW())`, message, payload); err != nil {
		if l.logger != nil {
			l.logger.Warn("activity log insert failed", slog.Any("error", err))
		}
	}
}
