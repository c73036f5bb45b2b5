package control

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"

	"github.com/taggamecreator/tag-echobound-servers/internal/dependencies/clock"
	"github.com/taggamecreator/tag-echobound-servers/internal/gateway"
	"github.com/taggamecreator/tag-echobound-servers/internal/model"
	"github.com/taggamecreator/tag-echobound-servers/internal/protocol"
)

// Broadcast targets accepted by the controller command
const (
	TargetAll   = "all"
	TargetParty = "party"
)

// Service is the privileged, secret-gated broadcast path for
// operational announcements. It never accepts or relays gameplay
// messages: the only thing it can emit is the announcement envelope.
type Service struct {
	secret  []byte
	gateway *gateway.Gateway
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates the control surface with the process-wide secret
func New(secret string, gw *gateway.Gateway, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		secret:  []byte(secret),
		gateway: gw,
		clock:   clk,
		logger:  logger.With(slog.String("component", "control")),
	}
}

// Command authorizes and executes one controller command. A secret
// mismatch fails with ErrUnauthorized, reported back only to the
// requesting connection and never broadcast.
func (s *Service) Command(ctx context.Context, cmd protocol.Controller) error {
	if subtle.ConstantTimeCompare([]byte(cmd.Secret), s.secret) != 1 {
		s.logger.Warn("controller command rejected", slog.String("action", cmd.Action))
		return model.ErrUnauthorized
	}

	announcement := protocol.ControllerBroadcast{
		Type:   protocol.TypeControllerBroadcast,
		Action: cmd.Action,
		TS:     s.clock.Now().UnixMilli(),
		Meta:   cmd.Meta,
	}

	switch cmd.Target {
	case TargetAll:
		s.gateway.SendToAll(announcement)
	case TargetParty:
		if cmd.PartyID == "" {
			return fmt.Errorf("%w: party target requires partyId", model.ErrMalformedMessage)
		}
		s.gateway.SendToParty(ctx, cmd.PartyID, announcement)
	default:
		return fmt.Errorf("%w: unknown target %q", model.ErrMalformedMessage, cmd.Target)
	}

	s.logger.Info("controller broadcast sent",
		slog.String("action", cmd.Action),
		slog.String("target", cmd.Target))
	return nil
}
