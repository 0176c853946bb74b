package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/snimarbadr-source/health-interviews/docs"
	"github.com/snimarbadr-source/health-interviews/internal/api/handler"
	"github.com/snimarbadr-source/health-interviews/internal/api/middleware"
	"github.com/snimarbadr-source/health-interviews/internal/core/domain"
	"github.com/snimarbadr-source/health-interviews/internal/core/ports"
)

// Dependencies are the services and settings the router wires into handlers.
type Dependencies struct {
	Auth       ports.AuthService
	Candidates ports.CandidateService
	Users      ports.UserService
	Audit      ports.AuditService
	Fields     ports.FieldService
	Views      ports.ViewService

	KV        ports.KVStore
	Backend   string
	JWTSecret string
	Log       zerolog.Logger

	// Registry receives the HTTP request metrics and backs /metrics.
	// Defaults to the global Prometheus registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "health_interviews",
		Registerer: registerer(deps.Registry),
	}))

	authHandler := handler.NewAuthHandler(deps.Auth)
	candidateHandler := handler.NewCandidateHandler(deps.Candidates)
	userHandler := handler.NewUserHandler(deps.Users)
	auditHandler := handler.NewAuditHandler(deps.Audit)
	fieldHandler := handler.NewFieldHandler(deps.Fields)
	viewHandler := handler.NewViewHandler(deps.Views)

	authMiddleware := middleware.Auth(deps.JWTSecret, deps.Auth)
	optionalAuth := middleware.OptionalAuth(deps.JWTSecret, deps.Auth)
	editors := middleware.RBAC(domain.RoleAdmin, domain.RoleReviewer)
	admins := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/session", authHandler.Session, optionalAuth)
	e.POST("/auth/logout", authHandler.Logout, authMiddleware)

	// --- Views (anonymous callers land on login) ---
	e.GET("/v1/views", viewHandler.Open, optionalAuth)

	v1 := e.Group("/v1", authMiddleware)

	v1.GET("/schema", candidateHandler.Schema)
	v1.GET("/candidates", candidateHandler.List)
	v1.GET("/candidates/recent", candidateHandler.Recent)
	v1.GET("/candidates/:id", candidateHandler.Get)
	v1.GET("/candidates/:id/summary", candidateHandler.Summary)
	v1.POST("/candidates/:id/copy", candidateHandler.Copy)
	v1.POST("/candidates", candidateHandler.Create, editors)
	v1.PUT("/candidates/:id", candidateHandler.Save, editors)
	v1.DELETE("/candidates/:id", candidateHandler.Delete, admins)

	v1.GET("/users", userHandler.List, admins)
	v1.POST("/users", userHandler.Add, admins)
	v1.PATCH("/users/:username/role", userHandler.ChangeRole, admins)
	v1.DELETE("/users/:username", userHandler.Delete, admins)

	v1.GET("/audit", auditHandler.List, admins)
	v1.DELETE("/audit", auditHandler.Clear, admins)

	v1.GET("/fields", fieldHandler.List)
	v1.POST("/fields", fieldHandler.Create, admins)
	v1.PUT("/fields/:key", fieldHandler.Update, admins)
	v1.DELETE("/fields/:key", fieldHandler.Delete, admins)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Backend, deps.KV)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – is the store reachable?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: gatherer(deps.Registry),
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger feeds echo's request log into zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

func registerer(r *prometheus.Registry) prometheus.Registerer {
	if r == nil {
		return prometheus.DefaultRegisterer
	}
	return r
}

func gatherer(r *prometheus.Registry) prometheus.Gatherer {
	if r == nil {
		return prometheus.DefaultGatherer
	}
	return r
}
