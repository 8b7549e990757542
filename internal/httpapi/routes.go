package httpapi

import (
	"net/http"

	"github.com/DoyleJ11/grid-duel/internal/ws"
	"github.com/go-chi/chi/v5"
)

const SessionPath = "/ws"

func SetupRoutes(a *ws.Acceptor) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get(SessionPath, a.Handler())
	return r
}
