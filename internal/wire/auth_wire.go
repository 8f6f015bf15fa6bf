package wire

import (
	"movie-catalog/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler) {
	// Public routes
	r.Post("/api/auth/login", authHandler.Login)
	r.Post("/api/auth/users/login", authHandler.Login)
	r.Post("/api/auth/token/refresh", authHandler.Refresh)
}
