package api

import (
	"net/http"

	"go.uber.org/zap"
)

// ServeWS upgrades the connection and registers it with the notification
// hub. Browsers cannot set headers on websocket dials, so the token rides
// in the query string.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		errorResponse(w, "notifications are not enabled", http.StatusServiceUnavailable)
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		errorResponse(w, "missing token", http.StatusUnauthorized)
		return
	}
	id, err := h.tokens.Verify(token)
	if err != nil {
		errorResponse(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	h.hub.HandleConn(id, conn)
}
