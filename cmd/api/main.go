package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/torqsight/maintenance-backend-go/internal/config"
	appHTTP "github.com/torqsight/maintenance-backend-go/internal/handler/http"
	"github.com/torqsight/maintenance-backend-go/internal/pkg/billing"
	"github.com/torqsight/maintenance-backend-go/internal/pkg/cron"
	"github.com/torqsight/maintenance-backend-go/internal/pkg/database"
	"github.com/torqsight/maintenance-backend-go/internal/pkg/email"
	"github.com/torqsight/maintenance-backend-go/internal/pkg/jwt"
	"github.com/torqsight/maintenance-backend-go/internal/repository/postgresql"
	authService "github.com/torqsight/maintenance-backend-go/internal/service/auth"
	clientCompanyService "github.com/torqsight/maintenance-backend-go/internal/service/clientcompany"
	companyService "github.com/torqsight/maintenance-backend-go/internal/service/company"
	equipmentService "github.com/torqsight/maintenance-backend-go/internal/service/equipment"
	invitationService "github.com/torqsight/maintenance-backend-go/internal/service/invitation"
	licenseService "github.com/torqsight/maintenance-backend-go/internal/service/license"
	userService "github.com/torqsight/maintenance-backend-go/internal/service/user"
	workOrderService "github.com/torqsight/maintenance-backend-go/internal/service/workorder"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Pool.Close()

	userRepo := postgresql.NewUserRepository(db)
	companyRepo := postgresql.NewCompanyRepository(db)
	invitationRepo := postgresql.NewInvitationRepository(db)
	clientCompanyRepo := postgresql.NewClientCompanyRepository(db)
	equipmentRepo := postgresql.NewEquipmentRepository(db)
	workOrderRepo := postgresql.NewWorkOrderRepository(db)
	txRunner := postgresql.NewTxRunner(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	emailDispatcher, err := email.NewDispatcher(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email dispatcher:", err)
	}
	billingClient := billing.NewClient(cfg.Billing)

	admissionSvc := licenseService.NewAdmissionService(userRepo, companyRepo, txRunner)
	reconciler := licenseService.NewReconciler(companyRepo, billingClient)
	authSvc := authService.NewService(userRepo, JWTService)
	companySvc := companyService.NewService(companyRepo, admissionSvc)
	userSvc := userService.NewService(userRepo, admissionSvc, txRunner)
	invitationSvc := invitationService.NewService(
		invitationRepo,
		companyRepo,
		admissionSvc,
		emailDispatcher,
		txRunner,
		cfg.App.FrontendURL,
		cfg.Invitation.TTL,
	)
	clientCompanySvc := clientCompanyService.NewService(clientCompanyRepo, userRepo)
	equipmentSvc := equipmentService.NewService(equipmentRepo, clientCompanyRepo)
	workOrderSvc := workOrderService.NewService(workOrderRepo, equipmentRepo, clientCompanyRepo, userRepo)

	scheduler := cron.NewScheduler()
	reconciler.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	authHandler := appHTTP.NewAuthHandler(authSvc, JWTService)
	companyHandler := appHTTP.NewCompanyHandler(companySvc)
	userHandler := appHTTP.NewUserHandler(userSvc)
	invitationHandler := appHTTP.NewInvitationHandler(invitationSvc)
	clientCompanyHandler := appHTTP.NewClientCompanyHandler(clientCompanySvc)
	equipmentHandler := appHTTP.NewEquipmentHandler(equipmentSvc)
	workOrderHandler := appHTTP.NewWorkOrderHandler(workOrderSvc)

	router := appHTTP.NewRouter(
		JWTService,
		userRepo,
		authHandler,
		companyHandler,
		userHandler,
		invitationHandler,
		clientCompanyHandler,
		equipmentHandler,
		workOrderHandler,
		cfg.App.FrontendURL,
		cfg.App.Env,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error:", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fmt.Println("Shutdown error:", err)
	}
}
