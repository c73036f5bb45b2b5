package ws

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/taggamecreator/tag-echobound-servers/internal/services/connection"
)

// Handler upgrades HTTP requests to websocket connections and wires
// each one into the registry and dispatcher.
type Handler struct {
	registry   *connection.Registry
	dispatcher *Dispatcher
	upgrader   websocket.Upgrader
	logger     *slog.Logger
}

// NewHandler creates the websocket endpoint handler
func NewHandler(registry *connection.Registry, dispatcher *Dispatcher, logger *slog.Logger) *Handler {
	return &Handler{
		registry:   registry,
		dispatcher: dispatcher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Game clients connect from arbitrary origins; identity is
			// established by the auth message, not the origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger.With(slog.String("component", "ws")),
	}
}

// ServeHTTP implements the /ws endpoint
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	handle := h.registry.Register()
	c := &client{
		ws:         wsConn,
		handle:     handle,
		dispatcher: h.dispatcher,
		logger:     h.logger,
	}

	go c.writePump()
	c.readPump(r.Context())
}
