package wire

import (
	"net/http"

	"movie-catalog/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireUser(r chi.Router, userHandler *adaptor.UserHandler, authenticate func(http.Handler) http.Handler) {
	r.Route("/api/auth/users", func(r chi.Router) {
		// Registration is open
		r.Post("/", userHandler.Register)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Get("/", userHandler.GetAllUsers)
			r.Get("/{id}", userHandler.GetUser)
			r.Put("/{id}", userHandler.ReplaceUser)
			r.Patch("/{id}", userHandler.UpdateUser)
			r.Delete("/{id}", userHandler.DeleteUser)
		})
	})
}
