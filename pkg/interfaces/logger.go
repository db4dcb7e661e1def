package interfaces

import "context"

// LogLevel определяет минимальный уровень логирования.
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
	PanicLevel
)

// LogField представляет поле структурированного лога.
type LogField struct {
	Key   string
	Value interface{}
}

// LoggerPort определяет интерфейс для логирования.
type LoggerPort interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	// Fatal логирует и завершает процесс.
	Fatal(msg string, args ...interface{})
	Panic(msg string, args ...interface{})

	// Варианты *WithContext добавляют request_id, tenant_id, trace_id и user_id
	// из контекста.
	DebugWithContext(ctx context.Context, msg string, args ...interface{})
	InfoWithContext(ctx context.Context, msg string, args ...interface{})
	WarnWithContext(ctx context.Context, msg string, args ...interface{})
	ErrorWithContext(ctx context.Context, msg string, args ...interface{})

	WithFields(fields ...LogField) LoggerPort
	WithField(key string, value interface{}) LoggerPort
	WithTenant(tenantID string) LoggerPort
	WithTraceID(traceID string) LoggerPort

	SetLevel(level LogLevel)
	GetLevel() LogLevel

	Sync() error
}
