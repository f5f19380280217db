package main

import (
	"landing_relay_app_go/config"
	"landing_relay_app_go/handlers"
	"landing_relay_app_go/middleware"
	"landing_relay_app_go/services"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// A misconfigured relay still serves the page; submissions answer 500
	if err := cfg.Validate(); err != nil {
		log.Printf("[WARN] %v", err)
	}

	// Outbound calls are bounded per request by cfg.OutboundTimeout
	httpClient := &http.Client{}

	verifier, err := services.NewVerifier(cfg, httpClient)
	if err != nil {
		log.Printf("[WARN] Verification disabled: %v", err)
	}

	var forwarder services.Forwarder
	if cfg.WebhookURL != "" {
		forwarder = services.NewWebhookClient(cfg.WebhookURL, httpClient)
	}

	monitor := services.NewSecurityMonitor()
	relay := services.NewRelay(cfg, verifier, forwarder, &services.EmailLeadNotifier{Config: cfg}).WithMonitor(monitor)

	// Create Echo instance
	e := echo.New()
	e.HTTPErrorHandler = handlers.JSONErrorHandler

	// Middleware
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType},
	}))

	// Public routes
	e.GET("/", handlers.LandingHandler(cfg), middleware.CSPNonce())
	e.GET("/health", handlers.HealthCheck)

	// Submission endpoint. Any method is routed so that non-POST gets a JSON 405.
	submitLimiter := middleware.NewSubmitRateLimiter()
	defer submitLimiter.Stop()
	e.Any(cfg.SubmitPath, handlers.SubmitHandler(cfg, relay), submitLimiter.Middleware())

	// Start background cleanup (runs every hour)
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			monitor.Prune()
		}
	}()

	// Start server
	log.Printf("Server starting on port %s (verification: %s, submit path: %s)", cfg.ServerPort, modeLabel(cfg), cfg.SubmitPath)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func modeLabel(cfg *config.Config) string {
	if mode := cfg.VerificationMode(); mode != "" {
		return mode
	}
	return "none"
}
