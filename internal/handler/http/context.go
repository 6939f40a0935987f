package http

import (
	"net/http"

	"github.com/torqsight/maintenance-backend-go/internal/access"
)

// principal pulls the snapshot attached by the PrincipalLoader middleware.
func principal(r *http.Request) (access.Context, bool) {
	return access.PrincipalFrom(r.Context())
}
