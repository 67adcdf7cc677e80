package middleware

import (
	"net/http"

	"github.com/airqo/platform/api/internal/service"
	"github.com/airqo/platform/api/internal/tenant"
)

// TenantResolver turns the raw tenant query value into a tenant
type TenantResolver interface {
	Resolve(raw string) (tenant.ID, error)
}

// Tenant resolves the tenant query parameter before any handler runs. An
// absent value selects the default tenant; an invalid one is answered with
// a 400 envelope.
func Tenant(resolver TenantResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := resolver.Resolve(r.URL.Query().Get("tenant"))
			if err != nil {
				service.ErrorResult[any](err, "tenant").WriteJSON(w, "")
				return
			}

			if holder, ok := r.Context().Value(tenantHolderKey).(*tenantHolder); ok {
				holder.id = id
			}
			next.ServeHTTP(w, r.WithContext(tenant.WithContext(r.Context(), id)))
		})
	}
}
