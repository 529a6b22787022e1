package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nightroster/werewolf-backend/internal/hub"
	"github.com/nightroster/werewolf-backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, deps Deps) http.Handler {
	r := chi.NewRouter()

	// Public routes
	r.Post("/sessions", CreateSession(h, deps))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h))
	return r
}
