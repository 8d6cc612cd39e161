package session

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/inamate/vecedit/backend-go/internal/typeid"
)

// Handler upgrades HTTP requests to interaction sessions.
type Handler struct {
	hub            *Hub
	originPatterns []string
}

// NewHandler accepts websocket connections from the given origins. Origins
// may be full URLs; only the host part is matched.
func NewHandler(hub *Hub, origins []string) *Handler {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
			continue
		}
		patterns = append(patterns, o)
	}
	return &Handler{hub: hub, originPatterns: patterns}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	client := NewClient(h.hub, conn, typeid.NewSessionID(), uuid.New().String())
	h.hub.Register(client)
	client.welcome()

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
