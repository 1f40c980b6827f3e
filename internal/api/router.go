package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/referral-dashboard/docs"
	"github.com/99minutos/referral-dashboard/internal/api/handler"
	"github.com/99minutos/referral-dashboard/internal/api/middleware"
	"github.com/99minutos/referral-dashboard/internal/core/domain"
	"github.com/99minutos/referral-dashboard/internal/core/ports"
)

// Deps is everything the router needs to mount the dashboard API.
type Deps struct {
	Log         zerolog.Logger
	Cookie      middleware.CookieConfig
	OpenSession middleware.StoreOpener

	Auth  ports.AuthService
	Users ports.UserService
	Staff ports.StaffService

	// Ready lists the dependencies checked by /health/ready.
	Ready []handler.Dependency
	// Registerer receives the HTTP metrics; nil means the default registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "referral_dashboard",
		Subsystem:  "http",
		Skipper:    opsRoute,
		Registerer: d.Registerer,
	}))
	e.Use(middleware.Session(d.Cookie, d.OpenSession))
	e.Use(middleware.Access())
	e.Use(middleware.ExpireOn401(d.Log))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Log)
	userHandler := handler.NewUserHandler(d.Users)
	staffHandler := handler.NewStaffHandler(d.Staff)

	// --- Public routes ---
	e.POST("/login", authHandler.LoginMember)
	e.POST("/signup", authHandler.SignupEndUser)
	e.POST("/logout", authHandler.Logout(domain.RoleEmployee))
	e.POST("/admin/login", authHandler.LoginAdmin)
	e.POST("/admin/logout", authHandler.Logout(domain.RoleAdmin))
	e.POST("/subadmin/login", authHandler.LoginSubAdmin)
	e.POST("/subadmin/signup", authHandler.SignupSubAdmin)
	e.POST("/subadmin/logout", authHandler.Logout(domain.RoleSubAdmin))

	// --- Admin dashboard ---
	admin := e.Group("/admin")
	admin.GET("/me", authHandler.Me)
	mountUserRoutes(admin, userHandler, false)
	admin.GET("/employees", staffHandler.ListEmployees)
	admin.DELETE("/employees/:id", staffHandler.DeleteEmployee)
	admin.GET("/subadmins", staffHandler.ListSubAdmins)
	admin.DELETE("/subadmins/:id", staffHandler.DeleteSubAdmin)

	// --- Sub-admin dashboard ---
	subadmin := e.Group("/subadmin")
	subadmin.GET("/me", authHandler.Me)
	mountUserRoutes(subadmin, userHandler, true)
	subadmin.GET("/employees", staffHandler.ListEmployees)
	subadmin.POST("/employees", staffHandler.RegisterEmployee)
	subadmin.DELETE("/employees/:id", staffHandler.DeleteEmployee)

	// --- Employee dashboard ---
	dashboard := e.Group("/dashboard")
	dashboard.GET("/session", authHandler.DashboardSession)
	mountUserRoutes(dashboard, userHandler, true)

	// --- Ops (no session required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Ready...)

	e.GET("/health", healthHandler.Liveness)           // liveness: is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness: are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// mountUserRoutes registers the user-record routes shared by every
// dashboard. Admins do not onboard users.
func mountUserRoutes(g *echo.Group, h *handler.UserHandler, canCreate bool) {
	g.GET("/users", h.List)
	if canCreate {
		g.POST("/users", h.Create)
	}
	g.POST("/users/:id/proceed", h.Proceed)
	g.POST("/users/:id/complete", h.Complete)
	g.DELETE("/users/:id", h.Delete)
}

func opsRoute(c echo.Context) bool {
	p := c.Request().URL.Path
	return p == "/metrics" || strings.HasPrefix(p, "/health") || strings.HasPrefix(p, "/swagger")
}

// requestLogger emits one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		Skipper:      opsRoute,
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
