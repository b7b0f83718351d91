package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hoanghai1803/readplan/internal/api/handlers"
	"github.com/hoanghai1803/readplan/internal/planner"
)

// NewRouter creates and configures the HTTP router with all API routes, a
// liveness probe and the Prometheus endpoint for gatherer.
func NewRouter(svc *planner.Service, gatherer prometheus.Gatherer) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(RequestLogger)
	r.Use(Recovery)
	r.Use(CORS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// API sub-router.
	r.Route("/api", func(api chi.Router) {
		api.Post("/users", handlers.RegisterUser(svc))

		// Everything else acts on behalf of the X-User-ID caller.
		api.Group(func(authed chi.Router) {
			authed.Use(Identity)

			authed.Get("/users/me", handlers.CurrentUser(svc))
			authed.Get("/users/me/books", handlers.BooksInfo(svc))

			authed.Post("/books", handlers.AddBook(svc))
			authed.Get("/books/{id}", handlers.GetBook(svc))
			authed.Delete("/books/{id}", handlers.DeleteBook(svc))
			authed.Patch("/books/review/{id}", handlers.AddReview(svc))

			authed.Post("/planning", handlers.CreatePlan(svc))
			authed.Patch("/planning", handlers.ApplyProgress(svc))
			authed.Get("/planning", handlers.ReadPlan(svc))
		})
	})

	return r
}
