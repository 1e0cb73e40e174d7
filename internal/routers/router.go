package routers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/MasoodZaf/Seek-sub004/internal/api"
	"github.com/MasoodZaf/Seek-sub004/internal/metrics"
)

func New(h *api.Handlers, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(metrics.Middleware("realtime"))

	r.Get("/api/v1/healthz", h.Health)

	r.Get("/ws/collab", h.CollabWS)

	r.Get("/api/v1/admin/connections", h.ListConnections)
	r.Get("/api/v1/admin/rooms", h.ListRooms)
	r.Post("/api/v1/admin/announce", h.Announce)
	r.Post("/api/v1/admin/kick", h.Kick)

	return r
}
