package logger

import (
	"context"
	"testing"

	"github.com/athebyme/gomarket-platform/storefront-service/pkg/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved(level zapcore.Level) (interfaces.LoggerPort, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewFromZap(zap.New(core)), logs
}

func TestLogFieldsAreStructured(t *testing.T) {
	log, logs := newObserved(zapcore.InfoLevel)

	log.Info("list product cached",
		interfaces.LogField{Key: "number", Value: "SW10001"},
		interfaces.LogField{Key: "ttl", Value: 300},
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "list product cached", entry.Message)
	assert.Equal(t, "SW10001", entry.ContextMap()["number"])
	assert.EqualValues(t, 300, entry.ContextMap()["ttl"])
}

func TestContextFieldsAreAttached(t *testing.T) {
	log, logs := newObserved(zapcore.DebugLevel)

	ctx := context.WithValue(context.Background(), interfaces.RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, interfaces.TenantIDKey, "shop-1")

	log.WarnWithContext(ctx, "search failed")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "shop-1", fields["tenant_id"])
	assert.NotContains(t, fields, "trace_id")
}

func TestWithFieldKeepsParentUntouched(t *testing.T) {
	log, logs := newObserved(zapcore.InfoLevel)

	child := log.WithTenant("shop-2").WithFields(interfaces.LogField{Key: "component", Value: "pricing"})
	child.Info("child")
	log.Info("parent")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "shop-2", logs.All()[0].ContextMap()["tenant_id"])
	assert.Equal(t, "pricing", logs.All()[0].ContextMap()["component"])
	assert.NotContains(t, logs.All()[1].ContextMap(), "tenant_id")
}

func TestLevelMapping(t *testing.T) {
	assert.Equal(t, interfaces.DebugLevel, GetLoggerLevel("debug"))
	assert.Equal(t, interfaces.ErrorLevel, GetLoggerLevel("error"))
	assert.Equal(t, interfaces.InfoLevel, GetLoggerLevel("verbose"))

	for _, level := range []interfaces.LogLevel{interfaces.DebugLevel, interfaces.WarnLevel, interfaces.PanicLevel} {
		assert.Equal(t, level, fromZapLevel(toZapLevel(level)))
	}
}
