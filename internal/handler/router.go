package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	documenthandler "github.com/joonhok/docuguide/backend/internal/handler/document"
	eligibilityhandler "github.com/joonhok/docuguide/backend/internal/handler/eligibility"
	livehandler "github.com/joonhok/docuguide/backend/internal/handler/live"
	sessionhandler "github.com/joonhok/docuguide/backend/internal/handler/session"
	middlewarePkg "github.com/joonhok/docuguide/backend/internal/middleware"
	citationservice "github.com/joonhok/docuguide/backend/internal/service/citation"
	sessionservice "github.com/joonhok/docuguide/backend/internal/service/session"
)

// NewRouter wires the HTTP surface to the core services.
func NewRouter(analyzer documenthandler.Analyzer, sessions *sessionservice.Registry, resolver *citationservice.Resolver, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	documentHandler := documenthandler.New(analyzer, sessions, resolver, log)
	sessionHandler := sessionhandler.New(sessions, resolver, log)
	eligibilityHandler := eligibilityhandler.New(sessions, log)
	liveHandler := livehandler.New(sessions, resolver, log)

	r.Route("/api", func(api chi.Router) {
		documentHandler.RegisterRoutes(api)
		sessionHandler.RegisterRoutes(api)
		eligibilityHandler.RegisterRoutes(api)
		liveHandler.RegisterRoutes(api)
	})

	return r
}
