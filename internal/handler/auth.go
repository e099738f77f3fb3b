package handler

import (
	"net/http"

	"github.com/Dan9191/tweet-service/internal/utils"
)

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	fields, err := utils.StringFields(w, r, "username", "password")
	if err != nil {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid username or password")
		return
	}

	if _, err := h.svc.Register(r.Context(), fields["username"], fields["password"]); err != nil {
		respondError(w, err, messages{
			invalid:  "Invalid username or password",
			internal: "Error registering user",
		})
		return
	}
	utils.WriteMessage(w, http.StatusCreated, "User registered")
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	fields, err := utils.StringFields(w, r, "username", "password")
	if err != nil {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid username or password")
		return
	}

	token, err := h.svc.Login(r.Context(), fields["username"], fields["password"])
	if err != nil {
		respondError(w, err, messages{
			invalid:  "Invalid username or password",
			notFound: "User not found",
			internal: "Error logging in",
		})
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}
