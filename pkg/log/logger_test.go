package log_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cargotrace/engine/pkg/log"
)

func TestNewUsesInfoLevel(t *testing.T) {
	logger := log.New("cargotrace-engine", "dev", "1.0.0")
	ctx := context.Background()

	assert.False(t, logger.Handler().Enabled(ctx, slog.LevelDebug))
	assert.True(t, logger.Handler().Enabled(ctx, slog.LevelInfo))
}

func TestNewWithOptionsOutputsBaseAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(log.Options{
		Service: "cargotrace-engine",
		Env:     "prod",
		Version: "2.3.4",
		Level:   slog.LevelDebug,
		Writer:  &buf,
	})
	logger.Info("document submitted", slog.Int("declared_value", 100_000))

	var got map[string]any
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assertAttr(t, got, "service", "cargotrace-engine")
	assertAttr(t, got, "env", "prod")
	assertAttr(t, got, "version", "2.3.4")
	assertAttr(t, got, "declared_value", float64(100_000))
}

func TestNewWithOptionsHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(log.Options{
		Level:  slog.LevelWarn,
		Writer: &buf,
	})
	logger.Info("suppressed")
	assert.Empty(t, buf.Bytes())

	logger.Warn("emitted")
	assert.NotEmpty(t, buf.Bytes())
}

func assertAttr(t *testing.T, got map[string]any, key string, expected any) {
	t.Helper()
	val, ok := got[key]
	assert.True(t, ok)
	assert.Equal(t, expected, val)
}
