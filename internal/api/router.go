package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/shopit/storefront/docs" // registers the swagger document
	"github.com/shopit/storefront/internal/api/handler"
	"github.com/shopit/storefront/internal/api/middleware"
	"github.com/shopit/storefront/internal/core/domain"
	"github.com/shopit/storefront/internal/core/ports"
)

// BasePath prefixes every account route.
const BasePath = "/api/v1"

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Auth     ports.AuthService
	Accounts ports.AccountService
	Sessions ports.SessionVerifier
	Lookup   ports.AccountLookup
	Checks   map[string]handler.Check

	// Registerer receives the HTTP metrics. Nil means the default registry.
	Registerer prometheus.Registerer
	Production bool
	Log        zerolog.Logger
}

// access is the gate a route sits behind.
type access struct {
	authenticated bool
	roles         domain.RoleSet
}

var (
	public        = access{}
	authenticated = access{authenticated: true}
)

func rolesOnly(roles ...domain.Role) access {
	return access{authenticated: true, roles: domain.Roles(roles...)}
}

type route struct {
	Method  string
	Path    string
	Handler echo.HandlerFunc
	Access  access
}

type handlers struct {
	auth    *handler.AuthHandler
	account *handler.AccountHandler
	admin   *handler.AdminHandler
}

func routes(h handlers) []route {
	admin := rolesOnly(domain.RoleAdmin)
	return []route{
		{http.MethodPost, "/register", h.auth.Register, public},
		{http.MethodPost, "/login", h.auth.Login, public},
		{http.MethodGet, "/logout", h.auth.Logout, public},
		{http.MethodPost, "/password/forgot", h.auth.ForgotPassword, public},
		{http.MethodPost, "/password/reset", h.auth.ResetPassword, public},
		{http.MethodPut, "/password/reset", h.auth.ResetPassword, public},
		{http.MethodPost, "/password/reset/:token", h.auth.ResetPassword, public},
		{http.MethodPut, "/password/reset/:token", h.auth.ResetPassword, public},

		{http.MethodGet, "/me", h.account.Me, authenticated},
		{http.MethodPut, "/me/update", h.account.UpdateProfile, authenticated},
		{http.MethodPut, "/password/update", h.account.UpdatePassword, authenticated},
		{http.MethodPut, "/me/upload_avatar", h.account.UploadAvatar, authenticated},

		{http.MethodGet, "/admin/users", h.admin.ListAccounts, admin},
		{http.MethodGet, "/admin/users/:id", h.admin.GetAccount, admin},
		{http.MethodPut, "/admin/users/:id", h.admin.UpdateAccount, admin},
		{http.MethodPut, "/admin/users/:id/role", h.admin.UpdateRole, admin},
		{http.MethodDelete, "/admin/users/:id", h.admin.DeleteAccount, admin},
	}
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, !d.Production)

	reg := d.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.BodyLimit("10M"))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "storefront",
		Subsystem:  "http",
		Registerer: reg,
	}))

	// --- Account routes ---
	authn := middleware.Authenticate(d.Sessions, d.Lookup, d.Log)
	g := e.Group(BasePath)
	for _, r := range routes(handlers{
		auth:    handler.NewAuthHandler(d.Auth, d.Production),
		account: handler.NewAccountHandler(d.Accounts),
		admin:   handler.NewAdminHandler(d.Accounts),
	}) {
		g.Add(r.Method, r.Path, r.Handler, gate(r.Access, authn)...)
	}

	// --- Health probes, metrics and docs (no auth required) ---
	health := handler.NewHealthHandler(d.Checks)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echo.WrapHandler(metricsHandler(reg)))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// gate composes the middleware for a route: authentication always runs
// before authorization.
func gate(a access, authn echo.MiddlewareFunc) []echo.MiddlewareFunc {
	if !a.authenticated {
		return nil
	}
	mws := []echo.MiddlewareFunc{authn}
	if len(a.roles) > 0 {
		mws = append(mws, middleware.Authorize(a.roles))
	}
	return mws
}
