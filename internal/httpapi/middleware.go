package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"modelrunner/internal/auth/domain"
	"modelrunner/internal/auth/service"
	"modelrunner/pkg/cryptox"
	"modelrunner/pkg/httpx"
	"modelrunner/pkg/slogx"
)

var authorizedRequests = promauto.NewCounter(prometheus.CounterOpts{
	Name: "auth_requests_authorized_total",
	Help: "Requests that passed bearer authentication and baseline authorization",
})

// AuthMiddleware is the request authorization gate. Every protected route
// runs through it exactly once:
//
//	extract header -> parse token -> resolve client -> verify secret ->
//	baseline-authorize (USE_SELF) -> attach client to context.
//
// Each failure is terminal for the request; there are no retries here.
func AuthMiddleware(auth *service.ClientService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" {
				httpx.WriteError(w, http.StatusBadRequest,
					"missing_header", "Authorization header is required")
				return
			}

			const prefix = "Bearer "
			if !strings.HasPrefix(authz, prefix) {
				httpx.WriteError(w, http.StatusBadRequest,
					"malformed_header", "Authorization header must be of the form 'Bearer <token>'")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, prefix))

			cred, err := cryptox.ParseToken(raw)
			if err != nil {
				httpx.WriteError(w, http.StatusBadRequest,
					"malformed_token", "Bearer token is not a valid credential")
				return
			}

			client, err := auth.Authenticate(ctx, cred)
			if err != nil {
				switch {
				case errors.Is(err, service.ErrAuthenticationFailed):
					httpx.WriteError(w, http.StatusUnauthorized,
						"authentication_failed", "Failed to authenticate client")
				case errors.Is(err, domain.ErrCorruptPermissions):
					log.Error("corrupt permission data during authentication", "err", err)
					httpx.WriteError(w, http.StatusInternalServerError,
						"server_error", "Internal server error")
				default:
					log.Error("storage failure during authentication", "err", err)
					httpx.WriteError(w, http.StatusInternalServerError,
						"server_error", "Internal server error")
				}
				return
			}

			if !client.Permissions.Contains(domain.PermissionUseSelf) {
				httpx.WriteError(w, http.StatusForbidden,
					"forbidden", "Client does not have permission to use the service")
				return
			}

			authorizedRequests.Inc()
			ctx = contextWithClient(ctx, client)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requirePermission writes a 403 and returns false when the client lacks the
// required capability. Handlers use it for the finer-grained Self/Other
// checks that follow the gate's baseline check.
func requirePermission(w http.ResponseWriter, client domain.Client, required domain.Permission) bool {
	if client.Permissions.Contains(required) {
		return true
	}
	httpx.WriteError(w, http.StatusForbidden,
		"forbidden", "Client does not have permission to perform this action")
	return false
}
