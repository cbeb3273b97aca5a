package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/lodgeguard/lodgeguard/internal/http/contribution"
	"github.com/lodgeguard/lodgeguard/internal/http/coverage"
	"github.com/lodgeguard/lodgeguard/internal/http/cycle"
	"github.com/lodgeguard/lodgeguard/internal/http/forecast"
	"github.com/lodgeguard/lodgeguard/internal/http/importcsv"
	"github.com/lodgeguard/lodgeguard/internal/http/securing"
)

func New(
	contributionsV1 *contribution.Handler,
	importV1 *importcsv.Handler,
	securingV1 *securing.Handler,
	coverageV1 *coverage.Handler,
	cyclesV1 *cycle.Handler,
	forecastV1 *forecast.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1/orgs/{orgID}", func(r chi.Router) {
		r.Route("/contributions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			contributionsV1.Routes(r)
		})

		r.Route("/imports", importV1.Routes)

		r.Route("/securing", securingV1.Routes)

		r.Route("/accounts", coverageV1.Routes)

		r.Route("/cycles", cyclesV1.Routes)

		r.Route("/forecast", forecastV1.Routes)
	})

	return router
}
