package handler

import (
	"net/http"

	"github.com/Dan9191/tweet-service/internal/middleware"
	"github.com/gorilla/mux"
)

// NewRouter registers the public and token-protected routes
func NewRouter(h *Handler, verifier middleware.TokenVerifier) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Logging(h.log))

	// Public routes
	r.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(verifier, h.log))
	authRouter.HandleFunc("/posts", h.ListPosts).Methods(http.MethodGet)
	authRouter.HandleFunc("/posts", h.CreatePost).Methods(http.MethodPost)
	authRouter.HandleFunc("/posts/{id}", h.UpdatePost).Methods(http.MethodPut)
	authRouter.HandleFunc("/posts/{id}", h.DeletePost).Methods(http.MethodDelete)
	authRouter.HandleFunc("/posts/{postId}/comments", h.CreateComment).Methods(http.MethodPost)
	authRouter.HandleFunc("/posts/{postId}/comments", h.ListComments).Methods(http.MethodGet)
	authRouter.HandleFunc("/posts/{postId}/comments/{id}", h.UpdateComment).Methods(http.MethodPut)
	authRouter.HandleFunc("/posts/{postId}/comments/{id}", h.DeleteComment).Methods(http.MethodDelete)
	authRouter.HandleFunc("/feed", h.Feed).Methods(http.MethodGet)

	return r
}
