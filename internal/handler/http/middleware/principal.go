package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/torqsight/maintenance-backend-go/internal/access"
	"github.com/torqsight/maintenance-backend-go/internal/domain/auth"
	"github.com/torqsight/maintenance-backend-go/internal/domain/user"
	"github.com/torqsight/maintenance-backend-go/internal/handler/http/response"
)

// PrincipalLoader resolves the token's user_id claim against the database and
// attaches the principal snapshot to the request context. Authorization always
// runs against current membership and role, never against claims minted at
// login time, so a removed or demoted member is cut off as soon as the row
// changes.
func PrincipalLoader(userRepo user.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			userID, ok := claims["user_id"].(string)
			if !ok || userID == "" {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			u, err := userRepo.GetByID(r.Context(), userID)
			if err != nil {
				// A token for a deleted account is just unauthenticated.
				response.HandleError(w, access.ErrUnauthenticated)
				return
			}

			ctx := access.WithPrincipal(r.Context(), access.NewContext(u))
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

// RequireTenant rejects principals that have no company yet. Routes behind it
// are the tenant-scoped application surface; onboarding and invitation routes
// stay outside.
func RequireTenant(next http.Handler) http.Handler {
	hfn := func(w http.ResponseWriter, r *http.Request) {
		pc, ok := access.PrincipalFrom(r.Context())
		if !ok {
			response.HandleError(w, access.ErrUnauthenticated)
			return
		}
		if !pc.HasTenant() && !pc.IsPlatformAdmin() {
			response.HandleError(w, access.ErrNoTenantAssigned)
			return
		}
		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(hfn)
}
