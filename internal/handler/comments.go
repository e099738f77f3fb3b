package handler

import (
	"net/http"

	"github.com/Dan9191/tweet-service/internal/utils"
	"github.com/gorilla/mux"
)

var commentMessages = messages{
	invalid:  "Invalid content",
	notFound: "Comment not found or unauthorized",
}

// CreateComment stores a comment on the post named in the path
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}
	postID, err := utils.ParseID(mux.Vars(r)["postId"])
	if err != nil {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid post ID")
		return
	}
	fields, err := utils.StringFields(w, r, "content")
	if err != nil {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid content")
		return
	}

	id, err := h.svc.CreateComment(r.Context(), caller, postID, fields["content"])
	if err != nil {
		respondError(w, err, messages{
			invalid:  "Invalid content",
			notFound: "Post not found",
			internal: "Error creating comment",
		})
		return
	}
	utils.WriteJSON(w, http.StatusCreated, map[string]any{"message": "Comment created", "commentId": id})
}

// ListComments returns the comments of a post, oldest first
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	postID, err := utils.ParseID(mux.Vars(r)["postId"])
	if err != nil {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	comments, err := h.svc.ListComments(r.Context(), postID)
	if err != nil {
		respondError(w, err, messages{invalid: "Invalid post ID", internal: "Error fetching comments"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, comments)
}

// UpdateComment edits a comment owned by the caller. Only the comment id is used,
// the post id in the path is not checked against it.
func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}
	id, err := utils.ParseID(mux.Vars(r)["id"])
	if err != nil {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid comment ID")
		return
	}
	fields, err := utils.StringFields(w, r, "content")
	if err != nil {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid content")
		return
	}

	if err := h.svc.UpdateComment(r.Context(), caller, id, fields["content"]); err != nil {
		m := commentMessages
		m.internal = "Error updating comment"
		respondError(w, err, m)
		return
	}
	utils.WriteMessage(w, http.StatusOK, "Comment updated")
}

// DeleteComment removes a comment owned by the caller
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}
	id, err := utils.ParseID(mux.Vars(r)["id"])
	if err != nil {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid comment ID")
		return
	}

	if err := h.svc.DeleteComment(r.Context(), caller, id); err != nil {
		m := commentMessages
		m.invalid = "Invalid comment ID"
		m.internal = "Error deleting comment"
		respondError(w, err, m)
		return
	}
	utils.WriteMessage(w, http.StatusOK, "Comment deleted")
}
