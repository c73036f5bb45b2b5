package ws

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/taggamecreator/tag-echobound-servers/internal/gateway"
	"github.com/taggamecreator/tag-echobound-servers/internal/model"
	"github.com/taggamecreator/tag-echobound-servers/internal/protocol"
	"github.com/taggamecreator/tag-echobound-servers/internal/services/connection"
	"github.com/taggamecreator/tag-echobound-servers/internal/services/control"
	"github.com/taggamecreator/tag-echobound-servers/internal/services/match"
	"github.com/taggamecreator/tag-echobound-servers/internal/services/party"
)

// Dispatcher routes parsed client messages to the owning component and
// sends typed error envelopes back to the originating connection.
// Recoverable errors never terminate the connection.
type Dispatcher struct {
	registry *connection.Registry
	party    *party.Controller
	engine   *match.Engine
	control  *control.Service
	gateway  *gateway.Gateway
	logger   *slog.Logger
}

// NewDispatcher creates a message dispatcher
func NewDispatcher(
	registry *connection.Registry,
	partyController *party.Controller,
	engine *match.Engine,
	controlService *control.Service,
	gw *gateway.Gateway,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		party:    partyController,
		engine:   engine,
		control:  controlService,
		gateway:  gw,
		logger:   logger.With(slog.String("component", "dispatch")),
	}
}

// Dispatch handles one raw message from a connection. Malformed
// payloads are dropped silently without closing the connection;
// unknown types get an error envelope back.
func (d *Dispatcher) Dispatch(ctx context.Context, conn *connection.Conn, raw []byte) {
	msg, err := protocol.Parse(raw)
	if err != nil {
		if errors.Is(err, model.ErrUnknownMessageType) {
			d.gateway.SendTo(conn.ID(), protocol.NewError(err.Error()))
			return
		}
		d.logger.Debug("dropping malformed message",
			slog.String("connection_id", string(conn.ID())),
			slog.String("error", err.Error()))
		return
	}

	switch m := msg.(type) {
	case protocol.Auth:
		d.handleAuth(conn, m)
	case protocol.CreateParty:
		d.handleCreateParty(ctx, conn, m)
	case protocol.JoinParty:
		if _, err := d.party.JoinParty(ctx, m.PartyID, conn.ID(), m.Name); err != nil {
			d.gateway.SendTo(conn.ID(), protocol.NewPartyError(err.Error()))
		}
	case protocol.LeaveParty:
		if err := d.party.LeaveParty(ctx, conn.ID()); err != nil {
			d.gateway.SendTo(conn.ID(), protocol.NewPartyError(err.Error()))
		}
	case protocol.Ready:
		if err := d.party.SetReady(ctx, conn.ID(), m.Ready); err != nil {
			d.gateway.SendTo(conn.ID(), protocol.NewPartyError(err.Error()))
		}
	case protocol.StartParty:
		if _, err := d.party.StartParty(ctx, m.PartyID, conn.ID()); err != nil {
			d.gateway.SendTo(conn.ID(), protocol.NewPartyError(err.Error()))
		}
	case protocol.Input:
		playerID := conn.PlayerID()
		if playerID == "" {
			return // input from an unauthenticated connection is dropped
		}
		d.engine.SubmitInput(playerID, m.InputState())
	case protocol.Controller:
		if err := d.control.Command(ctx, m); err != nil {
			d.gateway.SendTo(conn.ID(), protocol.NewControllerError(err.Error()))
		}
	}
}

// handleAuth binds an identity to the connection. Clients may supply
// their own stable player id (reconnect into a party); otherwise one
// is assigned. Identity uniqueness is not validated.
func (d *Dispatcher) handleAuth(conn *connection.Conn, m protocol.Auth) {
	playerID := m.PlayerID
	if playerID == "" {
		playerID = model.PlayerID(uuid.NewString())
	}
	name := m.Name
	if name == "" {
		suffix := string(playerID)
		if len(suffix) > 8 {
			suffix = suffix[:8]
		}
		name = "player-" + suffix
	}

	if err := d.registry.BindIdentity(conn.ID(), playerID, name); err != nil {
		d.gateway.SendTo(conn.ID(), protocol.NewError(err.Error()))
		return
	}
	d.gateway.SendTo(conn.ID(), protocol.NewAuthOK(playerID, name))
}

func (d *Dispatcher) handleCreateParty(ctx context.Context, conn *connection.Conn, m protocol.CreateParty) {
	p, err := d.party.CreateParty(ctx, conn.ID(), m.MaxPlayers)
	if err != nil {
		d.gateway.SendTo(conn.ID(), protocol.NewPartyError(err.Error()))
		return
	}
	d.gateway.SendTo(conn.ID(), protocol.NewPartyCreated(p))
}

// HandleDisconnect is the connection-close hook: membership is removed
// (with host migration or disband) and the connection unregistered. A
// running match is deliberately untouched; it continues with a ghost
// player until explicitly stopped.
func (d *Dispatcher) HandleDisconnect(ctx context.Context, connID model.ConnectionID) {
	if err := d.party.LeaveParty(ctx, connID); err != nil {
		d.logger.Error("leave on disconnect failed",
			slog.String("connection_id", string(connID)),
			slog.String("error", err.Error()))
	}
	d.registry.Unregister(connID)
}
