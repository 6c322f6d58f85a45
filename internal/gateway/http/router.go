package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/tenantgate/internal/gateway/domain"
	"github.com/aussiebroadwan/tenantgate/internal/gateway/metrics"
	"github.com/aussiebroadwan/tenantgate/internal/gateway/service"
	"github.com/aussiebroadwan/tenantgate/internal/gateway/store"
	"github.com/aussiebroadwan/tenantgate/internal/gateway/tenant"
	"github.com/aussiebroadwan/tenantgate/pkg/httpx"
	"github.com/aussiebroadwan/tenantgate/pkg/jwtx"
	"github.com/aussiebroadwan/tenantgate/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/aussiebroadwan/tenantgate/api/gateway" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	Authenticator *service.Authenticator
	Authorizer    *service.Authorizer
	Resolver      *tenant.Resolver

	pipeline *Pipeline
}

func NewRouter(
	keys *jwtx.KeySet,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	cors httpx.CORSConfig,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Logging wraps CORS so rejected preflights are still logged.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.CORS(cors),
	}

	return r
}

// ApplyRoutes registers every endpoint. Authenticator, Authorizer and
// Resolver must be set first.
func (r *Router) ApplyRoutes() {
	if r.Authorizer == nil {
		r.Authorizer = service.NewAuthorizer()
	}
	r.Authorizer.SetPolicy(service.OpTenantReset, service.RequireRole(domain.RoleAdmin))

	r.pipeline = &Pipeline{
		Authn:   r.Authenticator,
		Authz:   r.Authorizer,
		Tenants: r.Resolver,
	}

	r.registerUsers()
	r.registerTenantData()
	r.registerAdmin()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			TenantGate API
//	@version		0.1.0
//	@description	Authentication and tenant routing gateway. A password login returns a signed token bound to the caller's tenant;
//	@description	every protected request presents that token and is served from the tenant's own data partition.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/tenantgate
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Gateway token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(instrumented(r.Mux), r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerUsers() {
	p := r.pipeline

	// POST /login - strict rate limit by IP (credential endpoint)
	r.Mux.Handle("POST /api/users/login",
		httpx.Chain(p.Public(service.OpLogin, &LoginHandler{Authn: r.Authenticator}),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("GET /api/users/unauthorized",
		p.Public(service.OpUnauthorized, http.HandlerFunc(UnauthorizedHandler)),
	)

	r.Mux.Handle("GET /api/users/me",
		httpx.Chain(p.Handle(service.OpMe, TenantHandlerFunc(MeHandler)),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerTenantData() {
	r.Mux.Handle("GET /api/dashboard",
		httpx.Chain(r.pipeline.Handle(service.OpDashboard, TenantHandlerFunc(DashboardHandler)),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerAdmin() {
	// POST /admin/tenants/reset - admin role only, moderate rate limit per caller
	r.Mux.Handle("POST /api/admin/tenants/reset",
		r.pipeline.Handle(service.OpTenantReset, &TenantResetHandler{Tenants: r.Resolver},
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	p := r.pipeline

	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(p.Public(service.OpJWKS, JWKSHandler(r.keys)),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /livez",
		httpx.Chain(p.Public(service.OpLivez, LivezHandler(r.startTime, r.buildVersion)),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(p.Public(service.OpReadyz, ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys, r.tenantCount)),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /metrics", p.Public(service.OpMetrics, promhttp.Handler()))
	r.Mux.Handle("/swagger/", p.Public(service.OpSwagger, httpSwagger.Handler()))
}

func (r *Router) tenantCount() int {
	if r.Resolver == nil {
		return 0
	}
	return r.Resolver.Targets().Len()
}

// instrumented labels request latency by route pattern.
func instrumented(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		_, pattern := mux.Handler(req)
		if pattern == "" {
			pattern = "unmatched"
		}
		metrics.Instrument(pattern, mux).ServeHTTP(w, req)
	})
}
