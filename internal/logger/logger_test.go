package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLogging(t *testing.T) {
	var buf bytes.Buffer

	InitLoggerWithWriter(Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "test-service",
		Version:     "1.0.0",
		Environment: "test",
	}, &buf)

	Info("test message", "key", "value", "number", 42)

	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))

	assert.Equal(t, "test-service", logEntry["service"])
	assert.Equal(t, "1.0.0", logEntry["version"])
	assert.Equal(t, "test", logEntry["environment"])
	assert.Equal(t, "test message", logEntry["msg"])
	assert.Equal(t, "INFO", logEntry["level"])
	assert.Equal(t, "value", logEntry["key"])
	assert.Equal(t, float64(42), logEntry["number"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerWithWriter(Config{Level: "warn", Format: "text", ServiceName: "svc"}, &buf)

	Debug("hidden")
	Info("hidden too")
	Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestRequestIDContext(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerWithWriter(Config{Level: "info", Format: "json"}, &buf)

	ctx := WithRequestID(context.Background(), "test-req-123")
	assert.Equal(t, "test-req-123", GetRequestID(ctx))
	assert.Empty(t, GetRequestID(context.Background()))

	FromContext(ctx).Info("scoped")

	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
	assert.Equal(t, "test-req-123", logEntry["request_id"])
}

func TestGenerateRequestID(t *testing.T) {
	a, b := GenerateRequestID(), GenerateRequestID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestProductionConfig(t *testing.T) {
	config := ProductionConfig()

	assert.True(t, config.IsJSON())
	assert.Equal(t, "info", config.Level)
	assert.Equal(t, "prod", config.Environment)
	assert.False(t, config.AddSource)
}

func TestDevelopmentConfig(t *testing.T) {
	config := DevelopmentConfig()

	assert.False(t, config.IsJSON())
	assert.Equal(t, "debug", config.Level)
	assert.True(t, config.AddSource)
}
