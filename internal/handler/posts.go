package handler

import (
	"net/http"

	"github.com/Dan9191/tweet-service/internal/utils"
	"github.com/gorilla/mux"
)

var postMessages = messages{
	invalid:  "Invalid content",
	notFound: "Post not found or unauthorized",
}

// ListPosts returns all posts, newest first
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.ListPosts(r.Context())
	if err != nil {
		respondError(w, err, messages{internal: "Error fetching posts"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, posts)
}

// CreatePost stores a post for the caller
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}
	fields, err := utils.StringFields(w, r, "content")
	if err != nil {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid content")
		return
	}

	id, err := h.svc.CreatePost(r.Context(), caller, fields["content"])
	if err != nil {
		m := postMessages
		m.internal = "Error creating post"
		respondError(w, err, m)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, map[string]any{"message": "Post created", "postId": id})
}

// UpdatePost edits a post owned by the caller
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}
	id, err := utils.ParseID(mux.Vars(r)["id"])
	if err != nil {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid ID")
		return
	}
	fields, err := utils.StringFields(w, r, "content")
	if err != nil {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid content")
		return
	}

	if err := h.svc.UpdatePost(r.Context(), caller, id, fields["content"]); err != nil {
		m := postMessages
		m.internal = "Error updating post"
		respondError(w, err, m)
		return
	}
	utils.WriteMessage(w, http.StatusOK, "Post updated")
}

// DeletePost removes a post owned by the caller
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}
	id, err := utils.ParseID(mux.Vars(r)["id"])
	if err != nil {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	if err := h.svc.DeletePost(r.Context(), caller, id); err != nil {
		m := postMessages
		m.invalid = "Invalid ID"
		m.internal = "Error deleting post"
		respondError(w, err, m)
		return
	}
	utils.WriteMessage(w, http.StatusOK, "Post deleted")
}
