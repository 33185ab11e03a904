package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/askyazi/campaign-gateway/internal/application"
)

// Handler is the HTTP adapter entrypoint. It only knows the application
// service and cookie policy; business rules stay below the adapter boundary.
type Handler struct {
	service *application.Service
	cookies CookieConfig
}

func NewHandler(service *application.Service, cookies CookieConfig) *Handler {
	return &Handler{service: service, cookies: cookies}
}

// NewRouter registers the gateway routes and middleware stack. Every business
// endpoint sits behind the session gate; only login and refresh are public.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)

	r.Route("/api", func(r chi.Router) {
		r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
			writeError(w, http.StatusNotFound, "API route not found")
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", handler.login)
			r.Post("/refresh", handler.refresh)

			r.Group(func(r chi.Router) {
				r.Use(handler.sessionMiddleware)
				r.Post("/logout", handler.logout)
			})
		})

		r.Route("/user", func(r chi.Router) {
			r.Use(handler.sessionMiddleware)
			r.Get("/campaigns/{campaignId}", handler.campaignByID)
			r.Get("/campaigns/{campaignId}/survey-results", handler.surveyResults)
			r.Post("/reports", handler.submitReport)
			r.Get("/report-status", handler.reportStatus)
		})
	})

	return r
}
