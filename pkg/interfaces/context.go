package interfaces

// ContextKey - тип ключей для значений в контексте запроса.
type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"
	TenantIDKey  ContextKey = "tenant_id"
	TraceIDKey   ContextKey = "trace_id"
	UserIDKey    ContextKey = "user_id"
	PrincipalKey ContextKey = "principal"
)
