package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"serenity-backend/internal/handlers"
	"serenity-backend/internal/middleware"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	chatHandler *handlers.ChatHandler,
	pageHandler *handlers.PageHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// ──── Public routes ────
	r.Get("/", authHandler.Home)
	r.Get("/signup", pageHandler.Signup)
	r.Post("/signup", authHandler.Signup)
	r.Get("/login", pageHandler.Login)
	r.Post("/login", authHandler.Login)
	r.Get("/logout", authHandler.Logout)
	r.Post("/refresh", authHandler.Refresh)

	// ──── Rendered chat page (redirects to login without a session) ────
	r.Group(func(r chi.Router) {
		r.Use(jwtAuth.PageMiddleware)
		r.Get("/chat", pageHandler.Chat)
	})

	// ──── Session-scoped JSON endpoints ────
	r.Group(func(r chi.Router) {
		r.Use(jwtAuth.Middleware)
		r.Post("/chat", chatHandler.SendMessage)
		r.Get("/history", chatHandler.History)
		r.Delete("/delete_chat/{id}", chatHandler.DeleteChat)
		r.Delete("/clear_history", chatHandler.ClearHistory)
	})

	return r
}
