package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	// Public routes
	r.Post("/auth/register", apiHandler.RegisterHandler)
	r.Post("/auth/login", apiHandler.LoginHandler)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Bearer-authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(apiHandler.AuthMiddleware)

		// Chat routes
		r.Post("/chat", apiHandler.ChatHandler)
		r.Get("/chat/sessions", apiHandler.ListSessionsHandler)
		r.Get("/chat/{sessionID}", apiHandler.GetSessionHandler)
		r.Delete("/chat/{sessionID}", apiHandler.DeleteSessionHandler)

		// Profile routes
		r.Put("/user/update-medical-data", apiHandler.UpdateMedicalDataHandler)
		r.Put("/user/update-profile-picture", apiHandler.UpdateProfilePictureHandler)
		r.Put("/user/update-profile", apiHandler.UpdateProfileHandler)
	})

	return r
}
