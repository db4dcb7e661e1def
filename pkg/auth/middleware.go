package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/athebyme/gomarket-platform/storefront-service/pkg/interfaces"
	"github.com/go-chi/render"
)

// PrincipalFromContext возвращает вызывающего, сохраненного AuthMiddleware.
func PrincipalFromContext(ctx context.Context) (*interfaces.Principal, bool) {
	p, ok := ctx.Value(interfaces.PrincipalKey).(*interfaces.Principal)
	return p, ok
}

func unauthorized(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// AuthMiddleware требует валидный bearer токен и кладет principal в контекст.
func AuthMiddleware(authPort interfaces.AuthPort, logger interfaces.LoggerPort) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, r, http.StatusUnauthorized, "Authorization header is required")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				unauthorized(w, r, http.StatusUnauthorized, "Invalid authorization format")
				return
			}

			principal, err := authPort.ValidateToken(r.Context(), parts[1])
			if err != nil {
				logger.WarnWithContext(r.Context(), "Invalid JWT token",
					interfaces.LogField{Key: "error", Value: err.Error()})
				unauthorized(w, r, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), interfaces.PrincipalKey, principal)
			ctx = context.WithValue(ctx, interfaces.UserIDKey, principal.UserID)
			if principal.TenantID != "" {
				ctx = context.WithValue(ctx, interfaces.TenantIDKey, principal.TenantID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole отвечает 403, если у вызывающего нет роли role.
func RequireRole(authPort interfaces.AuthPort, role string) func(http.Handler) http.Handler {
	return RequireAnyRole(authPort, role)
}

// RequireAnyRole отвечает 403, если у вызывающего нет ни одной из ролей.
func RequireAnyRole(authPort interfaces.AuthPort, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				unauthorized(w, r, http.StatusUnauthorized, "Unauthorized")
				return
			}

			if !authPort.HasAnyRole(principal, roles...) {
				unauthorized(w, r, http.StatusForbidden, "Forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
