package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-hclog"

	"github.com/liamwears/vibeflix/internal/handlers"
	"github.com/liamwears/vibeflix/internal/middleware"
)

// Deps are the handlers and middleware the router mounts
type Deps struct {
	State           *handlers.StateHandler
	Recommendations *handlers.RecommendationHandler
	Movies          *handlers.MovieHandler
	Watchlist       *handlers.WatchlistHandler
	Health          *handlers.HealthHandler
	Sessions        *middleware.SessionMiddleware
	// RateLimiter is optional
	RateLimiter *middleware.RateLimiter
	Logger      hclog.Logger
	// RequestTimeout bounds each request; zero uses 30s
	RequestTimeout time.Duration
}

func Setup(d Deps) http.Handler {
	timeout := d.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(d.Logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(timeout))

	r.Get("/health", d.Health.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(d.Sessions.Attach)
		if d.RateLimiter != nil {
			r.Use(d.RateLimiter.Limit)
		}

		r.Get("/vocabulary", d.State.Vocabulary)
		r.Get("/state", d.State.GetState)

		r.Get("/preferences", d.State.GetPreferences)
		r.Put("/preferences", d.State.PutPreferences)
		r.Post("/preferences/genres/{name}/toggle", d.State.ToggleGenre)
		r.Post("/preferences/services/{name}/toggle", d.State.ToggleService)

		r.Get("/mood", d.State.GetMood)
		r.Put("/mood", d.State.PutMood)
		r.Delete("/mood", d.State.DeleteMood)

		r.Get("/recommendations", d.Recommendations.Get)
		r.Post("/recommendations/shuffle", d.Recommendations.Shuffle)
		r.Get("/recommendations/current", d.Recommendations.Current)

		r.Get("/movies/{id}/details", d.Movies.Details)

		r.Get("/watchlist", d.Watchlist.List)
		r.Post("/watchlist", d.Watchlist.Add)
		r.Delete("/watchlist", d.Watchlist.Clear)
		r.Post("/watchlist/{id}", d.Watchlist.AddByID)
		r.Delete("/watchlist/{id}", d.Watchlist.Remove)

		r.Get("/ratings", d.Watchlist.Ratings)
		r.Put("/ratings/{id}", d.Watchlist.SetRating)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Not found"}`))
	})

	return r
}
