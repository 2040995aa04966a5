package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"creditdesk/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Post("/score", handler(s.postV1Score))

			r.Route("/requests", func(r chi.Router) {
				r.Get("/", handler(s.getV1Requests))
				r.Post("/", handler(s.postV1Requests))
				r.Get("/stats/summary", handler(s.getV1RequestsStats))
				r.Get("/{requestId}", handler(s.getV1Request))
				r.Patch("/{requestId}/status", handler(s.patchV1RequestStatus))
				r.Delete("/{requestId}", handler(s.deleteV1Request))
			})

			r.Post("/anchors", handler(s.postV1Anchors))
			r.Get("/chain", handler(s.getV1Chain))
			r.Get("/chain/verify", handler(s.getV1ChainVerify))
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
