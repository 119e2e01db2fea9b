package http

import "github.com/citypulse/citypulse-backend/internal/session"

type Handler struct {
	sessions *session.Store
}

func New(sessions *session.Store) *Handler {
	return &Handler{
		sessions: sessions,
	}
}
