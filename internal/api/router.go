package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/taskexchange/taskx/docs"
	"github.com/taskexchange/taskx/internal/api/handler"
	"github.com/taskexchange/taskx/internal/api/middleware"
	"github.com/taskexchange/taskx/internal/api/session"
	"github.com/taskexchange/taskx/internal/core/domain"
)

// Deps wires the web front.
type Deps struct {
	BaseURL      string
	HTTPClient   *http.Client
	WebRoot      string
	LoginPage    string
	HomePage     string
	PublicPages  []string
	CookieSecure bool
	Logger       zerolog.Logger
	// Registry defaults to the prometheus default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "taskx_web",
		Registerer: registerer,
	}))

	public := domain.PublicPaths(d.PublicPages)
	baseURL := strings.TrimRight(d.BaseURL, "/")
	sess := middleware.Session(middleware.SessionConfig{
		BaseURL:    baseURL,
		HTTPClient: d.HTTPClient,
		LoginPath:  d.LoginPage,
		Public:     public,
		Cookie:     session.CookieOptions{Secure: d.CookieSecure},
		Logger:     d.Logger.With().Str("component", "gateway").Logger(),
	})

	// --- Health probes, metrics and docs (no session) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(map[string]handler.Check{
		"backend": handler.BackendCheck(d.HTTPClient, baseURL),
	})
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – is the backend reachable?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Session endpoints ---
	authHandler := handler.NewAuthHandler(d.HomePage)
	sg := e.Group("/session", sess)
	sg.GET("", authHandler.Profile)
	sg.POST("/register", authHandler.Register)
	sg.POST("/login", authHandler.Login)
	sg.POST("/logout", authHandler.Logout)

	// --- Backend passthrough ---
	proxy := handler.NewProxyHandler("/api")
	e.Group("/api", sess).Any("/*", proxy.Forward)

	// --- Pages ---
	pages := handler.NewPageHandler(d.WebRoot)
	e.GET("/*", pages.Serve, sess, middleware.Guard(middleware.GuardConfig{
		Public:    public,
		LoginPath: d.LoginPage,
		Logger:    d.Logger.With().Str("component", "guard").Logger(),
	}))

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
