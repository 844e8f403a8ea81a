package httpapi

import (
	"net/http"

	"github.com/gorilla/websocket"
)

// Cross-origin browsers are expected; origin policy is enforced by the
// CORS middleware for the rest of the API, and the socket carries only
// public match data.
var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

func (h *Handler) ServeWebsocket(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ServeWebsocket")
	defer span.End()

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the failure response.
		h.logger.WarnContext(ctx, "websocket upgrade failed", "remote_addr", r.RemoteAddr, "error", err)
		return
	}

	h.hub.Serve(conn)
}
