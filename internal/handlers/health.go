package handlers

import (
	"context"
	"net/http"

	"github.com/akarpov/portfolio-api/internal/handlers/render"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func handleHealth(db pinger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			render.ServiceError(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}

		render.JSON(w, map[string]string{"status": "ok"})
	})
}
