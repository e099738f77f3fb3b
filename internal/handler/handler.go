package handler

import (
	"errors"
	"net/http"

	"github.com/Dan9191/tweet-service/internal/feed"
	"github.com/Dan9191/tweet-service/internal/middleware"
	"github.com/Dan9191/tweet-service/internal/models"
	"github.com/Dan9191/tweet-service/internal/service"
	"github.com/Dan9191/tweet-service/internal/utils"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	svc     *service.Service
	log     *logrus.Logger
	channel feed.Channel
}

func NewHandler(svc *service.Service, log *logrus.Logger, channel feed.Channel) *Handler {
	return &Handler{svc: svc, log: log, channel: channel}
}

// messages used when a service error is turned into a response
type messages struct {
	invalid  string
	notFound string
	internal string
}

// respondError maps service errors to status codes. Storage failures are already logged by
// the service and only the generic message reaches the client.
func respondError(w http.ResponseWriter, err error, m messages) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		utils.WriteMessage(w, http.StatusBadRequest, m.invalid)
	case errors.Is(err, service.ErrUnauthorized):
		utils.WriteMessage(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrNotFoundOrUnauthorized):
		utils.WriteMessage(w, http.StatusNotFound, m.notFound)
	default:
		utils.WriteMessage(w, http.StatusInternalServerError, m.internal)
	}
}

// identity returns the caller verified by the auth middleware
func identity(w http.ResponseWriter, r *http.Request) (models.Identity, bool) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		utils.WriteMessage(w, http.StatusUnauthorized, "Missing token")
	}
	return id, ok
}
