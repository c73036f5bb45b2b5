package gateway

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/taggamecreator/tag-echobound-servers/internal/model"
	"github.com/taggamecreator/tag-echobound-servers/internal/services/connection"
	"github.com/taggamecreator/tag-echobound-servers/internal/storage"
)

// Gateway fans a message out to one party's members or to every
// registered connection. Delivery is best-effort and non-blocking:
// closed or absent recipients are skipped silently, and a failure to
// deliver to one connection never affects the others or the caller.
type Gateway struct {
	registry *connection.Registry
	store    storage.PartyStore
	logger   *slog.Logger
}

// New creates a broadcast gateway
func New(registry *connection.Registry, store storage.PartyStore, logger *slog.Logger) *Gateway {
	return &Gateway{
		registry: registry,
		store:    store,
		logger:   logger.With(slog.String("component", "gateway")),
	}
}

// SendToParty delivers msg to every member of the party whose bound
// connection is currently open
func (g *Gateway) SendToParty(ctx context.Context, partyID model.PartyID, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		g.logger.Error("failed to marshal party broadcast", slog.String("error", err.Error()))
		return
	}

	party, err := g.store.GetParty(ctx, partyID)
	if err != nil {
		// Party already disbanded; nothing to deliver
		return
	}

	sent, dropped := 0, 0
	for _, member := range party.Members {
		conn, ok := g.registry.Lookup(member.ConnectionID)
		if !ok {
			dropped++
			continue
		}
		if conn.TrySend(data) {
			sent++
		} else {
			dropped++
		}
	}
	if dropped > 0 {
		g.logger.Warn("party broadcast partial delivery",
			slog.String("party_id", string(partyID)),
			slog.Int("sent", sent),
			slog.Int("dropped", dropped))
	}
}

// SendToAll delivers msg to every registered connection
func (g *Gateway) SendToAll(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		g.logger.Error("failed to marshal broadcast", slog.String("error", err.Error()))
		return
	}

	dropped := 0
	for _, conn := range g.registry.All() {
		if !conn.TrySend(data) {
			dropped++
		}
	}
	if dropped > 0 {
		g.logger.Warn("global broadcast partial delivery", slog.Int("dropped", dropped))
	}
}

// SendTo delivers msg to a single connection; used for direct replies
func (g *Gateway) SendTo(connID model.ConnectionID, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		g.logger.Error("failed to marshal reply", slog.String("error", err.Error()))
		return
	}
	conn, ok := g.registry.Lookup(connID)
	if !ok {
		return
	}
	if !conn.TrySend(data) {
		g.logger.Warn("reply dropped - connection buffer full",
			slog.String("connection_id", string(connID)))
	}
}
