package router

import (
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"sunsite/internal/config"
	"sunsite/internal/handlers"
	"sunsite/internal/middleware"
	"sunsite/internal/telemetry"
)

// RouterDependencies holds everything needed to register routes.
type RouterDependencies struct {
	Cfg         *config.Config
	Logger      *slog.Logger
	SiteHandler *handlers.SiteHandler
	Limiter     *middleware.IPRateLimiter
	AuthLimiter *middleware.IPRateLimiter
	Tracer      trace.Tracer
	Metrics     *telemetry.Metrics
	Session     *middleware.Sessions
	CSRF        *middleware.CSRF
	Headers     *middleware.SecurityHeaders
}

func NewRouter(deps RouterDependencies) http.Handler {
	// routing
	appMux := http.NewServeMux()

	authDelay := 500 * time.Millisecond
	authStack := func(h http.Handler) http.Handler {
		h = middleware.SecureDelay(authDelay, deps.Metrics)(h)
		h = deps.AuthLimiter.Middleware(deps.Logger)(h)
		return h
	}

	site := deps.SiteHandler

	// auth
	appMux.Handle("POST /api/register", authStack(site.HandleRegister()))
	appMux.Handle("POST /api/login", authStack(site.HandleLogin()))
	appMux.Handle("POST /api/logout", authStack(site.HandleLogout()))

	// public surface
	appMux.Handle("GET /api/posts", site.HandleListPosts())
	appMux.Handle("GET /api/posts/{id}", site.HandleGetPost())
	appMux.Handle("POST /api/contact", site.HandleContact())

	// operator surface, every route behind the session gate
	gate := site.Sessions.RequireSession

	appMux.Handle("GET /admin/api/posts", gate(site.HandleAdminListPosts()))
	appMux.Handle("POST /admin/api/posts", gate(site.HandleAdminSavePost()))
	appMux.Handle("POST /admin/api/posts/{id}/publish", gate(site.HandleAdminTogglePublish()))
	appMux.Handle("POST /admin/api/posts/{id}/delete", gate(site.HandleAdminDeletePost()))
	appMux.Handle("POST /admin/api/images", gate(site.HandleAdminUploadImage()))
	appMux.Handle("GET /admin/api/inquiries", gate(site.HandleAdminListInquiries()))
	appMux.Handle("POST /admin/api/inquiries/{id}/delete", gate(site.HandleAdminDeleteInquiry()))

	appMux.HandleFunc("/", site.NotFound)

	middlewareStack := []middleware.Middleware{
		middleware.Recover(deps.Logger),
	}

	if deps.Cfg.Metrics.EnableTelemetry {
		// order matters so don't append
		middlewareStack = append(middlewareStack, middleware.Observability(deps.Tracer, deps.Metrics, deps.Logger))
	}

	middlewareStack = append(middlewareStack,
		deps.Headers.Middleware(),
		deps.Limiter.Middleware(deps.Logger),
		deps.Session.Middleware(deps.Logger, deps.Tracer),
		deps.CSRF.Middleware(deps.Logger),
		middleware.Logger(deps.Logger), // Inner logger (shows simple text logs)
	)

	appHandler := middleware.Chain(appMux, middlewareStack...)

	rootMux := http.NewServeMux()

	// lightweight for docker keepalive
	rootMux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	rootMux.Handle("/", appHandler)

	return rootMux
}
