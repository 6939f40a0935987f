package middleware

import (
	"net/http"

	"github.com/torqsight/maintenance-backend-go/internal/access"
	"github.com/torqsight/maintenance-backend-go/internal/handler/http/response"
)

// PlatformAdminOnly guards the operations surface. It answers not-found
// rather than forbidden so the surface is invisible to tenant users.
func PlatformAdminOnly(next http.Handler) http.Handler {
	hfn := func(w http.ResponseWriter, r *http.Request) {
		pc, ok := access.PrincipalFrom(r.Context())
		if !ok {
			response.HandleError(w, access.ErrUnauthenticated)
			return
		}
		if !pc.IsPlatformAdmin() {
			response.NotFound(w, "Resource not found")
			return
		}
		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(hfn)
}
