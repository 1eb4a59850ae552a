package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	handlers "github.com/uxauditpro/backend/internal/adapter/handler/http"
	"github.com/uxauditpro/backend/internal/config"
	"github.com/uxauditpro/backend/internal/infrastructure/database"
	"github.com/uxauditpro/backend/internal/middleware/auth"
	"github.com/uxauditpro/backend/internal/reporting"
	"github.com/uxauditpro/backend/internal/usecase"
	"github.com/uxauditpro/backend/pkg/logger"
)

// Services bundles the usecases the HTTP surface exposes.
type Services struct {
	Account     *usecase.AccountService
	Checkout    *usecase.CheckoutService
	Entitlement *usecase.EntitlementService
	Webhook     *usecase.WebhookService
	Audit       *usecase.AuditService
	Suggestion  *usecase.SuggestionService
}

type Server struct {
	config   *config.Config
	logger   *zap.Logger
	echo     *echo.Echo
	repos    *database.Repositories
	services *Services
}

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func NewServer(cfg *config.Config, log *zap.Logger, repos *database.Repositories, services *Services) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &requestValidator{validate: validator.New()}

	e.Use(logger.NewEchoRequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.Service.ClientURL},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE},
	}))

	return &Server{
		config:   cfg,
		logger:   log,
		echo:     e,
		repos:    repos,
		services: services,
	}
}

func (s *Server) Start() error {
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	accountHandler := handlers.NewAccountHandler(s.services.Account, s.services.Entitlement, s.logger)
	plansHandler := handlers.NewPlansHandler(s.repos.PlanPrice, s.logger)
	orderHandler := handlers.NewOrderHandler(s.services.Checkout, s.logger)
	entitlementHandler := handlers.NewEntitlementHandler(s.services.Entitlement, s.logger)
	webhookHandler := handlers.NewWebhookHandler(s.services.Webhook, s.logger)
	reportHandler := handlers.NewReportHandler(
		s.services.Audit,
		s.services.Suggestion,
		s.services.Entitlement,
		reporting.NewPDFGenerator(),
		s.logger,
	)

	jwtConfig := auth.JWTConfig{
		Secret: s.config.JWT.Secret,
		Logger: s.logger,
		SkipPaths: []string{
			"/health",
			"/webhooks",
			"/api/v1/plans",
		},
	}

	v1 := s.echo.Group("/api/v1")

	// Public routes
	v1.GET("/plans", plansHandler.List)
	v1.POST("/accounts", accountHandler.Signup)

	// Protected routes
	protected := v1.Group("", auth.JWTMiddleware(jwtConfig))

	protected.DELETE("/accounts/:id", accountHandler.Delete)

	protected.POST("/orders", orderHandler.Create)
	protected.GET("/orders", orderHandler.List)
	protected.GET("/orders/:id", orderHandler.Get)

	protected.GET("/entitlements", entitlementHandler.List)
	protected.GET("/entitlements/:accountId", entitlementHandler.Get)

	protected.POST("/audits", reportHandler.RunAudit)
	protected.GET("/reports", reportHandler.List)
	protected.GET("/reports/:id", reportHandler.Get)
	protected.GET("/reports/:id/pdf", reportHandler.ExportPDF)
	protected.POST("/reports/:id/suggestions", reportHandler.Suggestions)

	// Provider confirmations are authenticated by signature, not JWT.
	s.echo.POST("/webhooks/:provider", webhookHandler.Handle)
}
