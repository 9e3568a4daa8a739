package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jordanlanch/brokerhub/config"
	"github.com/jordanlanch/brokerhub/pkg/api/handlers"
	custommw "github.com/jordanlanch/brokerhub/pkg/api/middleware"
	"github.com/jordanlanch/brokerhub/pkg/auth"
	"github.com/jordanlanch/brokerhub/pkg/cache"
	"github.com/jordanlanch/brokerhub/pkg/configstore"
	"github.com/jordanlanch/brokerhub/pkg/dayplan"
	"github.com/jordanlanch/brokerhub/pkg/export"
	"github.com/jordanlanch/brokerhub/pkg/integrations"
	"github.com/jordanlanch/brokerhub/pkg/integrations/evolution"
	"github.com/jordanlanch/brokerhub/pkg/integrations/ghl"
	"github.com/jordanlanch/brokerhub/pkg/integrations/n8n"
	"github.com/jordanlanch/brokerhub/pkg/integrations/vapi"
	"github.com/jordanlanch/brokerhub/pkg/jobs"
	"github.com/jordanlanch/brokerhub/pkg/logger"
	"github.com/jordanlanch/brokerhub/pkg/metrics"
	custommiddleware "github.com/jordanlanch/brokerhub/pkg/middleware"
	"github.com/jordanlanch/brokerhub/pkg/models"
	"github.com/jordanlanch/brokerhub/pkg/scoring"
	"github.com/jordanlanch/brokerhub/pkg/session"
	"github.com/jordanlanch/brokerhub/pkg/store"
)

// checkerFactory builds a connection checker from a stored API
// configuration, so saved credentials are the ones probed.
func checkerFactory(appLogger logger.Logger) configstore.CheckerFactory {
	return func(cfg models.APIConfiguration) integrations.Checker {
		switch cfg.Type {
		case models.IntegrationGHL:
			return ghl.New(cfg.Config["baseUrl"], cfg.Config["apiKey"], cfg.Config["locationId"], appLogger)
		case models.IntegrationVAPI:
			return vapi.New(cfg.Config["baseUrl"], cfg.Config["apiKey"], cfg.Config["assistantId"], appLogger)
		case models.IntegrationN8N:
			return n8n.New(cfg.Config["baseUrl"], cfg.Config["apiKey"], cfg.Config["webhookUrl"], appLogger)
		case models.IntegrationWhatsApp:
			return evolution.New(cfg.Config["baseUrl"], cfg.Config["apiKey"], cfg.Config["instanceName"], appLogger)
		default:
			return nil
		}
	}
}

func main() {
	cfg := config.Load()
	log.Printf("🔧 Configuration loaded (environment: %s)", cfg.APIEnvironment)

	appLogger := logger.New(cfg.LogLevel, cfg.LogFormat)

	// Initialize Sentry for error tracking
	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.SentryEnvironment,
			TracesSampleRate: 1.0,
			AttachStacktrace: true,
		})
		if err != nil {
			log.Printf("⚠️  Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("✅ Sentry initialized (environment: %s)", cfg.SentryEnvironment)
			defer sentry.Flush(2 * time.Second)
		}
	} else {
		log.Printf("ℹ️  Sentry disabled (no DSN configured)")
	}

	// Initialize Redis
	redisClient, err := cache.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize the collection store and seed the demo dataset
	st := store.New(redisClient, cfg.StoreNamespace, appLogger)
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := st.Seed(seedCtx, cfg.DemoPassword); err != nil {
		seedCancel()
		log.Fatalf("❌ Failed to seed demo data: %v", err)
	}
	seedCancel()

	// Initialize Prometheus metrics
	prometheusMetrics := metrics.New()
	log.Printf("✅ Prometheus metrics initialized")

	// Integration clients from the environment
	ghlClient := ghl.New(cfg.GHLBaseURL, cfg.GHLAPIKey, cfg.GHLLocationID, appLogger)
	vapiClient := vapi.New(cfg.VAPIBaseURL, cfg.VAPIAPIKey, cfg.VAPIAssistantID, appLogger)
	n8nClient := n8n.New(cfg.N8NBaseURL, cfg.N8NAPIKey, cfg.N8NWebhookURL, appLogger)
	evolutionClient := evolution.New(cfg.EvolutionBaseURL, cfg.EvolutionAPIKey, cfg.EvolutionInstanceName, appLogger)
	checkers := []integrations.Checker{ghlClient, vapiClient, n8nClient, evolutionClient}

	// Services
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpirationHours)
	sessionService := session.NewService(st, tokenManager, appLogger)
	scoringService := scoring.NewService(st, appLogger)
	dayplanService := dayplan.NewService(st, appLogger)
	exportService := export.NewService(st, appLogger)

	baseURL := fmt.Sprintf("http://%s:%s", cfg.APIHost, cfg.APIPort)
	configService := configstore.NewService(st, cfg, checkerFactory(appLogger), baseURL, appLogger)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	// Initialize rate limiters
	globalRateLimiter := custommiddleware.NewRateLimiter(cfg.RateLimitRequestsPerMinute, cfg.RateLimitBurst)
	authRateLimiter := custommiddleware.NewRateLimiter(5, 2)       // 5 req/min for login
	registerRateLimiter := custommiddleware.NewRateLimiter(3, 1)   // register abuse guard
	webhookRateLimiter := custommiddleware.NewRateLimiter(100, 20) // vendor webhooks burst hard

	// Global middleware
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Printf("[%s] %s - Status: %d", c.Request().Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	// Sentry error tracking middleware (if configured)
	if cfg.SentryDSN != "" {
		e.Use(sentryecho.New(sentryecho.Options{
			Repanic: true,
		}))
	}

	// Prometheus metrics middleware
	e.Use(prometheusMetrics.Middleware())

	// CORS with restricted origins
	e.Use(middleware.CORSWithConfig(custommiddleware.CORSConfig(cfg.CORSAllowedOrigins)))

	e.Use(middleware.Gzip())
	e.Use(middleware.Secure())
	e.Use(custommiddleware.SecurityHeaders(custommiddleware.DefaultSecurityHeadersConfig()))
	e.Use(globalRateLimiter.Middleware())

	// Health checks
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "brokerhub-api",
			"status":  "ok",
		})
	})
	e.GET("/health", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		if err := st.Ping(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"redis":  err.Error(),
			})
		}
		return c.JSON(http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Handlers
	authHandler := handlers.NewAuthHandler(sessionService, prometheusMetrics)
	userHandler := handlers.NewUserHandler(st)
	leadHandler := handlers.NewLeadHandler(st, scoringService, prometheusMetrics)
	meetingHandler := handlers.NewMeetingHandler(st)
	callHandler := handlers.NewCallHandler(st, vapiClient, prometheusMetrics)
	scriptHandler := handlers.NewScriptHandler(st, n8nClient, prometheusMetrics)
	pointsHandler := handlers.NewPointsHandler(st, scoringService, prometheusMetrics)
	dayplanHandler := handlers.NewDayPlanHandler(dayplanService)
	configHandler := handlers.NewConfigurationHandler(configService, prometheusMetrics)
	integrationHandler := handlers.NewIntegrationHandler(checkers, evolutionClient, prometheusMetrics)
	exportHandler := handlers.NewExportHandler(exportService, prometheusMetrics)
	webhookHandler := handlers.NewWebhookHandler(st, cfg.InboundWebhookSecret, appLogger)

	api := e.Group("/api")

	// Public auth routes
	authRoutes := api.Group("/auth")
	authRoutes.POST("/login", authHandler.Login, authRateLimiter.Middleware())
	authRoutes.POST("/register", authHandler.Register, registerRateLimiter.Middleware())

	// Inbound vendor webhooks (secret-verified, not JWT)
	webhooks := api.Group("/webhooks", webhookRateLimiter.Middleware())
	webhooks.POST("/ghl/leads", webhookHandler.GHLLeads)
	webhooks.POST("/ghl/appointments", webhookHandler.GHLAppointments)
	webhooks.POST("/vapi/calls", webhookHandler.VAPICalls)
	webhooks.POST("/whatsapp/messages", webhookHandler.WhatsAppMessages)

	// Protected routes
	protected := api.Group("", custommw.JWT(tokenManager))
	protected.GET("/auth/me", authHandler.Me)
	protected.POST("/auth/logout", authHandler.Logout)

	users := protected.Group("/users", custommiddleware.RequireAdmin(st))
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	leads := protected.Group("/leads")
	leads.GET("", leadHandler.List)
	leads.POST("", leadHandler.Create)
	leads.GET("/:id", leadHandler.Get)
	leads.PUT("/:id", leadHandler.Update)
	leads.DELETE("/:id", leadHandler.Delete)
	leads.POST("/generate", leadHandler.Generate, custommiddleware.RequireAdmin(st))

	meetings := protected.Group("/meetings")
	meetings.GET("", meetingHandler.List)
	meetings.POST("", meetingHandler.Create)
	meetings.GET("/:id", meetingHandler.Get)
	meetings.PUT("/:id", meetingHandler.Update)
	meetings.DELETE("/:id", meetingHandler.Delete)

	calls := protected.Group("/calls")
	calls.GET("", callHandler.List)
	calls.POST("", callHandler.Create)
	calls.POST("/start/:leadId", callHandler.StartAICall)
	calls.GET("/:id", callHandler.Get)
	calls.PUT("/:id", callHandler.Update)
	calls.DELETE("/:id", callHandler.Delete)

	scripts := protected.Group("/scripts")
	scripts.GET("", scriptHandler.List)
	scripts.POST("", scriptHandler.Create)
	scripts.POST("/generate", scriptHandler.Generate)
	scripts.GET("/:id", scriptHandler.Get)
	scripts.PUT("/:id", scriptHandler.Update)
	scripts.DELETE("/:id", scriptHandler.Delete)

	points := protected.Group("/points")
	points.GET("/leaderboard", pointsHandler.Leaderboard)
	points.GET("/users/:id", pointsHandler.UserSummary)
	points.POST("/award", pointsHandler.Award)
	points.GET("/activities", pointsHandler.RecentActivities)
	points.GET("/performance", pointsHandler.Performance)

	protected.GET("/dayplan/:userId", dayplanHandler.Plan)

	configurations := protected.Group("/configurations")
	configurations.GET("/apis", configHandler.ListAPIs)
	configurations.POST("/apis", configHandler.SaveAPI)
	configurations.PUT("/apis/:id", configHandler.UpdateAPI)
	configurations.DELETE("/apis/:id", configHandler.DeleteAPI)
	configurations.POST("/apis/:id/test", configHandler.TestAPI)
	configurations.GET("/webhooks", configHandler.ListWebhooks)
	configurations.POST("/webhooks", configHandler.SaveWebhook)
	configurations.PUT("/webhooks/:id", configHandler.UpdateWebhook)
	configurations.DELETE("/webhooks/:id", configHandler.DeleteWebhook)
	configurations.POST("/webhooks/:id/test", configHandler.TestWebhook)
	configurations.GET("/export", configHandler.Export)
	configurations.POST("/import", configHandler.Import)
	configurations.POST("/reset", configHandler.Reset)

	integrationRoutes := protected.Group("/integrations")
	integrationRoutes.GET("/status", integrationHandler.Status)
	integrationRoutes.POST("/whatsapp/send", integrationHandler.SendWhatsApp)
	integrationRoutes.GET("/whatsapp/qr", integrationHandler.WhatsAppQR)

	// Downloads accept the token in a query param for browser links
	exports := api.Group("/exports", custommw.JWTFromQueryOrHeader(tokenManager))
	exports.GET("/leads/csv", exportHandler.LeadsCSV)
	exports.GET("/leads/xlsx", exportHandler.LeadsExcel)

	// Cron jobs
	cronManager := jobs.NewCronManager(st, configService, scoringService, log.Default())
	if cfg.HealthSweepEnabled {
		if err := cronManager.SetupJobs(); err != nil {
			log.Fatalf("❌ Failed to setup cron jobs: %v", err)
		}
		cronManager.Start()
	} else {
		log.Printf("ℹ️  Cron jobs disabled")
	}

	address := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	log.Printf("🚀 Starting server on %s", address)
	log.Printf("🛡️  Rate limiting: %d req/min (burst: %d)", cfg.RateLimitRequestsPerMinute, cfg.RateLimitBurst)
	log.Printf("🔒 Auth endpoints: login (5/min), register (3/min), webhooks (100/min)")

	// Graceful shutdown
	go func() {
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	cronManager.Stop()
	log.Println("✅ Cron jobs stopped")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server gracefully stopped")
}
