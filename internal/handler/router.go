package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chathandler "github.com/lkoster/screenlens/internal/handler/chat"
	notifyhandler "github.com/lkoster/screenlens/internal/handler/notify"
	screenshothandler "github.com/lkoster/screenlens/internal/handler/screenshot"
	sessionhandler "github.com/lkoster/screenlens/internal/handler/session"
	middlewarePkg "github.com/lkoster/screenlens/internal/middleware"
	analyzerservice "github.com/lkoster/screenlens/internal/service/analyzer"
	notifyservice "github.com/lkoster/screenlens/internal/service/notify"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(analyzerSvc *analyzerservice.Service, bus *notifyservice.Bus) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	screenshotHandler := screenshothandler.New(analyzerSvc)
	chatHandler := chathandler.New(analyzerSvc)
	sessionHandler := sessionhandler.New(analyzerSvc)
	notifyHandler := notifyhandler.New(bus)

	r.Route("/api", func(api chi.Router) {
		screenshotHandler.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)
		sessionHandler.RegisterRoutes(api)
		notifyHandler.RegisterRoutes(api)
	})

	return r
}
