package rbac

import (
	"log/slog"
	"net/http"

	"github.com/gatehouse-io/gatehouse/internal/platform/httpx"
	"github.com/gatehouse-io/gatehouse/internal/shared"
)

// Middleware wires authorization checks for HTTP handlers.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
}

// Require gates a route behind a permission check for the given resource and
// action. Every protected mutation passes through here before its handler.
func (m Middleware) Require(resource string, action Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := shared.IdentityFromContext(r.Context())
			if identity == nil {
				httpx.RespondError(w, shared.ErrInvalidToken)
				return
			}
			decision, err := m.Service.Check(r.Context(), identity.UserID, resource, action)
			if err != nil {
				if m.Logger != nil {
					m.Logger.Error("authorization check", slog.String("resource", resource), slog.Any("error", err))
				}
				httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
				return
			}
			if !decision.Allowed {
				switch decision.Reason {
				case DenyResourceNotFound:
					httpx.Problem(w, http.StatusNotFound, "Not Found", "resource not found")
				default:
					httpx.Problem(w, http.StatusForbidden, "Forbidden", "missing permission: "+decision.Action.String())
				}
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
