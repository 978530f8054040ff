package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/couchcryptid/glacier-data-etl/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	tests := []struct {
		name      string
		level     string
		format    string
		textOut   bool
		debugOn   bool
		infoOn    bool
		warningOn bool
	}{
		{"default json info", "", "", false, false, true, true},
		{"text debug", "debug", "text", true, true, true, true},
		{"json warn", "warn", "json", false, false, false, true},
		{"unknown level falls back to info", "verbose", "TEXT", true, false, true, true},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(&config.Config{LogLevel: tt.level, LogFormat: tt.format})

			_, isText := logger.Handler().(*slog.TextHandler)
			assert.Equal(t, tt.textOut, isText)
			assert.Equal(t, tt.debugOn, logger.Enabled(ctx, slog.LevelDebug))
			assert.Equal(t, tt.infoOn, logger.Enabled(ctx, slog.LevelInfo))
			assert.Equal(t, tt.warningOn, logger.Enabled(ctx, slog.LevelWarn))
			assert.Same(t, logger, slog.Default())
		})
	}
}
