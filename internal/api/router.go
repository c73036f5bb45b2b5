package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/taggamecreator/tag-echobound-servers/internal/middleware"
	"github.com/taggamecreator/tag-echobound-servers/internal/ws"
)

// RouterConfig holds dependencies for the HTTP router
type RouterConfig struct {
	Logger    *slog.Logger
	WSHandler *ws.Handler
}

// NewRouter builds the server's HTTP surface: the websocket endpoint
// and a health probe.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	r.Handle("/ws", cfg.WSHandler)
	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
