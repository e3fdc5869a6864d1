package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/text/language"

	"travelshot/internal/http/handlers"
	"travelshot/internal/middleware"
)

// Options tunes the cross-cutting middleware.
type Options struct {
	AllowedOrigins      []string
	SubmitRatePerMinute int
	// EventVerifier guards the event endpoint when set.
	EventVerifier middleware.TokenVerifier
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.Logger(app.Logger),
		chimw.Recoverer,
		middleware.CORS(opts.AllowedOrigins),
	)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", app.Health)
		r.With(middleware.Locale(language.English, language.Indonesian, language.Dutch)).
			Get("/options", app.Options)

		r.Route("/users/{ownerID}/photos", func(r chi.Router) {
			r.With(middleware.RateLimit(opts.SubmitRatePerMinute, 10*time.Minute, ownerKey)).
				Post("/", app.CreatePhoto)
			r.Get("/{jobID}", app.GetPhoto)
			r.Get("/{jobID}/archive", app.PhotoArchive)
		})

		r.With(middleware.RequireIdentity(opts.EventVerifier, app.Logger)).
			Post("/events/photo-created", app.PhotoCreated)
	})

	return r
}

func ownerKey(r *http.Request) string {
	if owner := chi.URLParam(r, "ownerID"); owner != "" {
		return owner
	}
	return middleware.ClientIP(r)
}
