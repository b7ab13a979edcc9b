package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fiihub/fii-portal-api/internal/auth"
	"github.com/fiihub/fii-portal-api/internal/cache"
	"github.com/fiihub/fii-portal-api/internal/config"
	"github.com/fiihub/fii-portal-api/internal/database"
	"github.com/fiihub/fii-portal-api/internal/handler"
	"github.com/fiihub/fii-portal-api/internal/identity"
	"github.com/fiihub/fii-portal-api/internal/middleware"
	"github.com/fiihub/fii-portal-api/internal/repository"
	"github.com/fiihub/fii-portal-api/internal/service"
)

// main is the application entrypoint for the FII reports portal API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting fii portal api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 4. Auth plumbing: token codec, cookie store, retry executor
	codec := auth.NewCodec(cfg.AdminTokenSecret)
	cookies := auth.NewCookieStore(cfg.IsProduction())
	adminAuth := auth.NewAuth(codec, cookies)
	exec := database.NewExecutor()

	// 4a. End-user identity provider (OIDC discovery)
	var provider identity.Provider
	if cfg.Identity.IssuerURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		provider, err = identity.NewOIDCProvider(ctx, &cfg.Identity)
		cancel()
		if err != nil {
			log.Error().Err(err).Msg("identity provider initialization failed")
			fmt.Fprintf(os.Stderr, "identity provider initialization failed: %v\n", err)
			os.Exit(1)
		}
		log.Info().Str("issuer", cfg.Identity.IssuerURL).Msg("identity provider ready")
	} else {
		log.Warn().Msg("IDENTITY_ISSUER_URL not set - end-user routes will be unauthenticated")
		provider = identity.NoProvider{}
	}

	// 5. Initialize repositories
	adminRepo := repository.NewAdminRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	reportRepo := repository.NewReportRepository(db)
	videoRepo := repository.NewVideoRepository(db)

	// 6. Initialize services
	storageSvc, err := service.NewStorageService(&cfg.Storage)
	if err != nil {
		log.Error().Err(err).Msg("storage service initialization failed")
		os.Exit(1)
	}
	subscriptionCache := cache.NewSubscriptionCache(redisClient)
	adminAuthSvc := service.NewAdminAuthService(adminRepo, codec, exec)
	subscriptionSvc := service.NewSubscriptionService(subscriptionRepo, subscriptionCache, exec)
	reportSvc := service.NewReportService(reportRepo, storageSvc, exec)
	videoSvc := service.NewVideoService(videoRepo, exec)

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:           handler.NewHealthHandler(db),
		Auth:             handler.NewAuthHandler(adminAuthSvc, adminAuth),
		Admin:            handler.NewAdminHandler(adminAuthSvc, adminAuth),
		Report:           handler.NewReportHandler(reportSvc, subscriptionSvc),
		ReportManagement: handler.NewReportManagementHandler(reportSvc, adminAuth),
		Video:            handler.NewVideoHandler(videoSvc, subscriptionSvc),
		VideoManagement:  handler.NewVideoManagementHandler(videoSvc, adminAuth),
		Subscription:     handler.NewSubscriptionHandler(subscriptionSvc),
		Webhook:          handler.NewWebhookHandler(subscriptionSvc, cfg.Billing.WebhookSecret),
		Panel:            handler.NewPanelHandler(),
	}

	// 8. Initialize route guard
	guard := middleware.NewGuard(cookies, provider)

	// 9. Setup router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(guard.Handle())
	setupRoutes(router, handlers)

	// 10. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 11. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 12. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health           *handler.HealthHandler
	Auth             *handler.AuthHandler
	Admin            *handler.AdminHandler
	Report           *handler.ReportHandler
	ReportManagement *handler.ReportManagementHandler
	Video            *handler.VideoHandler
	VideoManagement  *handler.VideoManagementHandler
	Subscription     *handler.SubscriptionHandler
	Webhook          *handler.WebhookHandler
	Panel            *handler.PanelHandler
}

// setupRoutes registers all routes. The route guard already ran for every
// request; admin handlers still perform full token verification themselves.
func setupRoutes(router *gin.Engine, handlers *Handlers) {
	// Billing provider webhook
	router.POST("/api/webhooks/stripe", handlers.Webhook.HandleStripeWebhook)

	router.GET("/api/health", handlers.Health.GetHealth)

	// Public report previews
	router.GET("/api/reports/preview/:id", handlers.Report.PreviewReport)

	// Subscriber content routes (provider session + active subscription)
	router.GET("/api/reports", handlers.Report.ListReports)
	router.GET("/api/reports/:id", handlers.Report.GetReport)
	router.GET("/api/videos", handlers.Video.ListVideos)
	router.GET("/api/me/subscription", handlers.Subscription.GetMySubscription)

	// Admin auth
	adminAPI := router.Group("/api/admin")
	{
		adminAPI.POST("/auth/login", handlers.Auth.Login)
		adminAPI.POST("/auth/logout", handlers.Auth.Logout)
		adminAPI.GET("/auth/me", handlers.Auth.Me)

		// Admin account management
		adminAPI.GET("/admins", handlers.Admin.ListAdmins)
		adminAPI.POST("/admins", handlers.Admin.CreateAdmin)
		adminAPI.DELETE("/admins/:id", handlers.Admin.DeleteAdmin)

		// Report management
		adminAPI.GET("/reports", handlers.ReportManagement.ListReports)
		adminAPI.POST("/reports", handlers.ReportManagement.CreateReport)
		adminAPI.PUT("/reports/:id", handlers.ReportManagement.UpdateReport)
		adminAPI.POST("/reports/:id/pdf", handlers.ReportManagement.UploadPDF)
		adminAPI.DELETE("/reports/:id", handlers.ReportManagement.DeleteReport)

		// Video management
		adminAPI.GET("/videos", handlers.VideoManagement.ListVideos)
		adminAPI.POST("/videos", handlers.VideoManagement.CreateVideo)
		adminAPI.PUT("/videos/:id", handlers.VideoManagement.UpdateVideo)
		adminAPI.DELETE("/videos/:id", handlers.VideoManagement.DeleteVideo)
	}

	// Admin panel shell (UI). The guard redirects unauthenticated browsers
	// to /admin/login before this runs. Bare /admin reaches it through the
	// trailing-slash redirect.
	router.GET("/admin/*path", handlers.Panel.ServeShell)
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	// Run migrations
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
