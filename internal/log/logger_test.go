package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/taskgraph/internal/errors"
)

func jsonLogger(buf *bytes.Buffer, level Level) *Logger {
	cfg := DefaultConfig()
	cfg.Format = FormatJSON
	cfg.Level = level
	cfg.Output = buf
	return New(cfg)
}

func decode(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		records = append(records, rec)
	}
	return records
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		level Level
		want  []string
	}{
		{LevelDebug, []string{"debug", "info", "warn", "error"}},
		{LevelInfo, []string{"info", "warn", "error"}},
		{LevelWarn, []string{"warn", "error"}},
		{LevelError, []string{"error"}},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			logger := jsonLogger(&buf, tt.level)
			logger.Debug("debug")
			logger.Info("info")
			logger.Warn("warn")
			logger.Error("error")

			var got []string
			for _, rec := range decode(t, &buf) {
				got = append(got, rec["msg"].(string))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestServiceAttributes(t *testing.T) {
	var buf bytes.Buffer
	jsonLogger(&buf, LevelInfo).With("plan_id", "p1").Info("built")

	records := decode(t, &buf)
	require.Len(t, records, 1)
	assert.Equal(t, "taskgraph", records[0]["service"])
	assert.Equal(t, "dev", records[0]["version"])
	assert.Equal(t, "p1", records[0]["plan_id"])
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Output = &buf
	New(cfg).WithGroup("budget").Info("partitioned", "parts", 3)

	out := buf.String()
	assert.Contains(t, out, "msg=partitioned")
	assert.Contains(t, out, "budget.parts=3")
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := jsonLogger(&buf, LevelInfo)

	coded := errors.Wrap(errors.ErrCodeStoreWriteFailed, "cannot store plan", fmt.Errorf("disk full")).
		WithSuggestion("Free some space")
	logger.WithError(fmt.Errorf("create: %w", coded)).Warn("degraded")
	logger.WithError(fmt.Errorf("plain")).Warn("plain")
	assert.Same(t, logger, logger.WithError(nil))

	records := decode(t, &buf)
	require.Len(t, records, 2)
	assert.Equal(t, "cannot store plan", records[0]["error"])
	assert.Equal(t, string(errors.ErrCodeStoreWriteFailed), records[0]["error_code"])
	assert.Equal(t, "disk full", records[0]["cause"])
	assert.Equal(t, []any{"Free some space"}, records[0]["suggestions"])
	assert.Equal(t, "plain", records[1]["error"])
	assert.NotContains(t, records[1], "error_code")
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	logger := jsonLogger(&buf, LevelInfo)

	logger.LogError(errors.NewCoverageMissingError([]string{"a", "b"}))
	logger.LogErrorContext(context.Background(), fmt.Errorf("boom"))
	logger.LogError(nil)

	records := decode(t, &buf)
	require.Len(t, records, 2)
	assert.Equal(t, "operation failed", records[0]["msg"])
	assert.Equal(t, string(errors.ErrCodePlanCoverageMissing), records[0]["error_code"])
	assert.Contains(t, records[0]["error_message"], "a, b")
	assert.Contains(t, records[0], "docs_url")
	assert.Equal(t, "boom", records[1]["error"])
}

func TestEnabled(t *testing.T) {
	logger := jsonLogger(&bytes.Buffer{}, LevelWarn)
	assert.False(t, logger.Enabled(context.Background(), LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), LevelError))
	assert.Equal(t, LevelWarn, logger.Config().Level)
	assert.NotNil(t, logger.Slog())
}

func TestNewDefaultsOutput(t *testing.T) {
	logger := New(Config{Format: FormatJSON})
	assert.NotNil(t, logger.Config().Output)
}

func TestDefaultLogger(t *testing.T) {
	SetDefaultLogger(nil)
	first := DefaultLogger()
	require.NotNil(t, first)
	assert.Same(t, first, DefaultLogger())

	custom := New(DevelopmentConfig())
	SetDefaultLogger(custom)
	t.Cleanup(func() { SetDefaultLogger(nil) })
	assert.Same(t, custom, DefaultLogger())
}
