package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/torqsight/maintenance-backend-go/internal/domain/user"
	"github.com/torqsight/maintenance-backend-go/internal/handler/http/middleware"
	"github.com/torqsight/maintenance-backend-go/internal/pkg/jwt"
)

func NewRouter(
	JWTService jwt.Service,
	userRepo user.UserRepository,
	authHandler AuthHandler,
	companyHandler CompanyHandler,
	userHandler UserHandler,
	invitationHandler InvitationHandler,
	clientCompanyHandler ClientCompanyHandler,
	equipmentHandler EquipmentHandler,
	workOrderHandler WorkOrderHandler,
	frontendURL string,
	env string,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "maintenance-torqsight"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{frontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
		})

		// Token preview is public: the accept page renders before login.
		r.Get("/invitations/preview/{token}", invitationHandler.Preview)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))
			r.Use(middleware.PrincipalLoader(userRepo))

			// Reachable before the user belongs to a company: profile,
			// onboarding, and invitation acceptance.
			r.Get("/users/me", userHandler.Me)
			r.Get("/invitations/my", invitationHandler.ListMine)
			r.Post("/invitations/{token}/accept", invitationHandler.Accept)
			r.Post("/onboarding", companyHandler.Onboard)

			// Tenant-scoped application surface.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireTenant)

				r.Route("/companies/my", func(r chi.Router) {
					r.Get("/", companyHandler.GetMy)
					r.Put("/", companyHandler.UpdateMy)
					r.Get("/licenses", companyHandler.Licenses)
				})

				r.Route("/users", func(r chi.Router) {
					r.Get("/", userHandler.List)
					r.Get("/{userID}", userHandler.Get)
					r.Put("/{userID}/role", userHandler.ChangeRole)
					r.Delete("/{userID}", userHandler.Remove)
				})

				r.Route("/invitations", func(r chi.Router) {
					r.Post("/", invitationHandler.Create)
					r.Get("/", invitationHandler.List)
					r.Post("/{invitationID}/resend", invitationHandler.Resend)
					r.Delete("/{invitationID}", invitationHandler.Revoke)
				})

				r.Route("/client-companies", func(r chi.Router) {
					r.Post("/", clientCompanyHandler.Create)
					r.Get("/", clientCompanyHandler.List)
					r.Get("/{clientID}", clientCompanyHandler.Get)
					r.Put("/{clientID}", clientCompanyHandler.Update)
					r.Delete("/{clientID}", clientCompanyHandler.Delete)
				})

				r.Route("/equipment", func(r chi.Router) {
					r.Post("/", equipmentHandler.Create)
					r.Get("/", equipmentHandler.List)
					r.Get("/{equipmentID}", equipmentHandler.Get)
					r.Put("/{equipmentID}", equipmentHandler.Update)
					r.Delete("/{equipmentID}", equipmentHandler.Delete)
				})

				r.Route("/work-orders", func(r chi.Router) {
					r.Post("/", workOrderHandler.Create)
					r.Get("/", workOrderHandler.List)
					r.Get("/{workOrderID}", workOrderHandler.Get)
					r.Put("/{workOrderID}", workOrderHandler.Update)
					r.Delete("/{workOrderID}", workOrderHandler.Delete)
				})
			})

			// Platform operations surface
			r.Route("/platform", func(r chi.Router) {
				r.Use(middleware.PlatformAdminOnly)
				r.Get("/companies", companyHandler.List)
				r.Get("/companies/{companyID}", companyHandler.GetByID)
				r.Post("/users/{userID}/bind", userHandler.Bind)
				r.Delete("/users/{userID}", userHandler.Delete)
			})
		})
	})
	return r
}
