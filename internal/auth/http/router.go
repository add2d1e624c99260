package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gatehouse/gatehouse/internal/auth/service"
	"github.com/gatehouse/gatehouse/internal/auth/store"
	"github.com/gatehouse/gatehouse/pkg/httpx"
	"github.com/gatehouse/gatehouse/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	AuthService *service.AuthService

	// Cookies carries the fixed session-cookie policy; Secure is set from
	// the deployment mode at construction.
	Cookies SessionCookieWriter

	// ExposeErrors surfaces internal error detail in 500 bodies. Only
	// enabled outside production.
	ExposeErrors bool
}

func NewRouter(
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	login := &LoginHandler{
		AuthService:  r.AuthService,
		Cookies:      r.Cookies,
		ExposeErrors: r.ExposeErrors,
	}
	signup := &SignupHandler{
		AuthService:  r.AuthService,
		Cookies:      r.Cookies,
		ExposeErrors: r.ExposeErrors,
	}
	magicLink := &MagicLinkHandler{
		AuthService:  r.AuthService,
		ExposeErrors: r.ExposeErrors,
	}
	verify := &VerifyHandler{
		AuthService:  r.AuthService,
		Cookies:      r.Cookies,
		ExposeErrors: r.ExposeErrors,
	}

	// All credential endpoints get the strict per-IP limit: they are the
	// brute-force and enumeration surface of the service.
	r.Mux.Handle("POST /auth/login",
		httpx.Chain(login, httpx.RateLimitByIP(httpx.StrictLimit)))
	r.Mux.Handle("POST /auth/signup",
		httpx.Chain(signup, httpx.RateLimitByIP(httpx.StrictLimit)))
	r.Mux.Handle("POST /auth/magic-link",
		httpx.Chain(magicLink, httpx.RateLimitByIP(httpx.StrictLimit)))
	r.Mux.Handle("GET /auth/verify",
		httpx.Chain(verify, httpx.RateLimitByIP(httpx.StrictLimit)))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
