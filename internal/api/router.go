// internal/api/router.go
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"socialgraph/internal/api/handler"
	apimw "socialgraph/internal/api/middleware"
	"socialgraph/internal/auth"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth            *handler.AuthHandler
	Users           *handler.UserHandler
	Relationships   *handler.RelationshipHandler
	Notifications   *handler.NotificationHandler
	Recommendations *handler.RecommendationHandler
}

// NewRouter sets up and returns a new HTTP router.
func NewRouter(h Handlers, authenticator auth.Authenticator, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(apimw.Metrics)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)
	})

	// Everything below requires a bearer token
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(authenticator))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.Users.List)
			r.Get("/search", h.Users.Search)
			r.Get("/me", h.Users.Me)
			r.Put("/me/interests", h.Users.UpdateInterests)
		})

		r.Route("/friends", func(r chi.Router) {
			r.Get("/", h.Relationships.ListFriends)
			r.Delete("/{userID}", h.Relationships.Unfriend)
			r.Get("/requests", h.Relationships.ListRequests)
			r.Post("/requests/{userID}", h.Relationships.SendRequest)
			r.Post("/requests/{userID}/accept", h.Relationships.AcceptRequest)
			r.Post("/requests/{userID}/reject", h.Relationships.RejectRequest)
		})

		r.Get("/notifications", h.Notifications.List)
		r.Get("/recommendations", h.Recommendations.List)
	})

	return r
}
