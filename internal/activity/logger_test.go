package activity

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewFromModeSelectsBackend(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))

	require.IsType(t, &fileLogger{}, NewFromMode("file", logger, nil))
	require.IsType(t, &dbLogger{}, NewFromMode("db", logger, nil))
	require.IsType(t, Nop{}, NewFromMode("off", logger, nil))
	require.IsType(t, Nop{}, NewFromMode("", logger, nil))
	require.IsType(t, Nop{}, NewFromMode("syslog", logger, nil))
}

func TestFileLoggerWritesStructuredRecord(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	l := NewFromMode("file", logger, nil)
	l.Info(context.Background(), "customer created", map[string]any{"id": 7})

	out := buf.String()
	require.Contains(t, out, "customer created")
	require.Contains(t, out, `"id":7`)
}

func TestNopDiscards(t *testing.T) {
	require.NotPanics(t, func() {
		Nop{}.Info(context.Background(), "anything", nil)
	})
}

func TestDBLoggerWithoutPoolIsNoop(t *testing.T) {
	l := NewFromMode("db", nil, nil)
	require.NotPanics(t, func() {
		l.Info(context.Background(), "ignored", map[string]any{"id": 1})
	})
}
