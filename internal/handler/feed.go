package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Dan9191/tweet-service/internal/feed"
	"github.com/Dan9191/tweet-service/internal/utils"
)

// Feed renders all posts as RSS, newest first
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.ListPosts(r.Context())
	if err != nil {
		respondError(w, err, messages{internal: "Error fetching posts"})
		return
	}

	out, err := feed.RenderRSS(h.channel, posts)
	if err != nil {
		h.log.Errorf("Error rendering feed: %v", err)
		utils.WriteMessage(w, http.StatusInternalServerError, "Error rendering feed")
		return
	}
	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// Health reports whether the store answers
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.svc.Ping(ctx); err != nil {
		h.log.Warnf("Health check failed: %v", err)
		utils.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
