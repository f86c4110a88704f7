package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"modelrunner/internal/auth/service"
	"modelrunner/internal/auth/store"
	"modelrunner/internal/inference"
	"modelrunner/pkg/httpx"
	"modelrunner/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store            store.Store
	ClientService    *service.ClientService
	BootstrapService *service.BootstrapService
	Inference        *inference.Service
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
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
		httpx.MetricsMiddleware(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerClients()
	r.registerInference()
	r.registerBootstrap()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerClients() {
	h := &ClientsHandler{ClientService: r.ClientService}
	gate := AuthMiddleware(r.ClientService)

	// The IP limiter wraps the gate so rejected requests count too: a
	// brute-force run of wrong secrets burns an argon2id verification per
	// attempt and must be throttled before it reaches the gate.
	r.Mux.Handle("POST /v1/auth/status",
		httpx.Chain(http.HandlerFunc(h.HandleStatus),
			httpx.RateLimitByIP(httpx.ModerateLimit),
			gate,
		),
	)
	r.Mux.Handle("POST /v1/auth/create",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			httpx.RateLimitByIP(httpx.ModerateLimit),
			gate,
		),
	)
	r.Mux.Handle("POST /v1/auth/update",
		httpx.Chain(http.HandlerFunc(h.HandleUpdate),
			httpx.RateLimitByIP(httpx.ModerateLimit),
			gate,
		),
	)
	r.Mux.Handle("POST /v1/auth/delete",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			httpx.RateLimitByIP(httpx.ModerateLimit),
			gate,
		),
	)
}

func (r *Router) registerInference() {
	h := &InferenceHandler{Inference: r.Inference}
	gate := AuthMiddleware(r.ClientService)

	r.Mux.Handle("POST /v1/text/raw",
		httpx.Chain(http.HandlerFunc(h.HandleRaw),
			httpx.RateLimitByIP(httpx.ModerateLimit),
			gate,
		),
	)
	r.Mux.Handle("POST /v1/text/instruct",
		httpx.Chain(http.HandlerFunc(h.HandleInstruct),
			httpx.RateLimitByIP(httpx.ModerateLimit),
			gate,
		),
	)
	r.Mux.Handle("POST /v1/audio/transcribe",
		httpx.Chain(http.HandlerFunc(h.HandleTranscribe),
			httpx.RateLimitByIP(httpx.ModerateLimit),
			gate,
		),
	)
}

func (r *Router) registerBootstrap() {
	// POST /bootstrap - very strict rate limit by IP (one-time setup endpoint)
	bootstrapHandler := &BootstrapHandler{BootstrapService: r.BootstrapService}
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(bootstrapHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
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
	r.Mux.Handle("GET /metrics", httpx.MetricsHandler())
}
