package router

import (
	"net/http"

	_ "blogger-api/docs"
	"blogger-api/handler"
	"blogger-api/metrics"
	"blogger-api/token"

	"github.com/prometheus/client_golang/prometheus"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Deps are the handlers and middleware the routes are built from. Limiter,
// Metrics and Gatherer may be nil; an empty PostsClaim turns off the claim
// check on the posts routes.
type Deps struct {
	Identity *handler.IdentityHandler
	Posts    *handler.PostHandler
	Health   *handler.HealthHandler
	Codec    *token.Codec
	Limiter  *handler.RateLimiter
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer

	PostsClaim      string
	PostsClaimValue string
}

func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	limited := func(h http.Handler) http.Handler {
		if d.Limiter == nil {
			return h
		}
		return d.Limiter.Middleware(h)
	}
	authenticate := handler.AuthMiddleware(d.Codec)
	auth := authenticate
	if d.PostsClaim != "" {
		requireClaim := handler.RequireClaim(d.PostsClaim, d.PostsClaimValue)
		auth = func(h http.Handler) http.Handler { return authenticate(requireClaim(h)) }
	}

	mux.Handle("POST /api/v1/identity/register", limited(http.HandlerFunc(d.Identity.Register)))
	mux.Handle("POST /api/v1/identity/login", limited(http.HandlerFunc(d.Identity.Login)))
	mux.Handle("POST /api/v1/identity/refresh", limited(http.HandlerFunc(d.Identity.Refresh)))

	mux.Handle("GET /api/v1/posts", auth(handler.ErrorHandlingMiddleware(d.Posts.GetAll)))
	mux.Handle("POST /api/v1/posts", auth(handler.ErrorHandlingMiddleware(d.Posts.Create)))
	mux.Handle("GET /api/v1/posts/{postId}", auth(handler.ErrorHandlingMiddleware(d.Posts.Get)))
	mux.Handle("PUT /api/v1/posts/{postId}", auth(handler.ErrorHandlingMiddleware(d.Posts.Update)))
	mux.Handle("DELETE /api/v1/posts/{postId}", auth(handler.ErrorHandlingMiddleware(d.Posts.Delete)))

	mux.HandleFunc("GET /health", d.Health.HealthCheck)
	if d.Gatherer != nil {
		mux.Handle("GET /metrics", metrics.Handler(d.Gatherer))
	}
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	return handler.LoggingMiddleware(d.Metrics)(mux)
}
