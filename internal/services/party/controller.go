package party

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/taggamecreator/tag-echobound-servers/internal/dependencies/random"
	"github.com/taggamecreator/tag-echobound-servers/internal/gateway"
	"github.com/taggamecreator/tag-echobound-servers/internal/model"
	"github.com/taggamecreator/tag-echobound-servers/internal/protocol"
	"github.com/taggamecreator/tag-echobound-servers/internal/services/connection"
	"github.com/taggamecreator/tag-echobound-servers/internal/services/match"
	"github.com/taggamecreator/tag-echobound-servers/internal/storage"
)

const (
	// PartyIDLength is the length of generated party codes
	PartyIDLength = 6
	// PartyIDAlphabet is the characters used in party codes (avoids confusing chars)
	PartyIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	// DefaultMaxPlayers applies when create_party carries no limit
	DefaultMaxPlayers = 4
	// DefaultCountdown is the delay between match_starting and the first tick
	DefaultCountdown = 3 * time.Second
)

// Config holds tunables for the party controller
type Config struct {
	// Countdown is the fixed match start delay announced to clients
	Countdown time.Duration
	// DefaultMaxPlayers is used when a create request omits the limit
	DefaultMaxPlayers int
}

// DefaultConfig returns the default party configuration
func DefaultConfig() Config {
	return Config{
		Countdown:         DefaultCountdown,
		DefaultMaxPlayers: DefaultMaxPlayers,
	}
}

// Controller owns party creation, membership, ready state, the host
// role, and the transition into a match. All mutations are serialized
// by a controller mutex so concurrent joins observe a consistent
// roster; broadcasts happen outside the critical section.
type Controller struct {
	mu       sync.Mutex
	store    storage.PartyStore
	registry *connection.Registry
	engine   *match.Engine
	gateway  *gateway.Gateway
	random   random.Random
	logger   *slog.Logger
	config   Config
}

// NewController creates a party controller
func NewController(
	store storage.PartyStore,
	registry *connection.Registry,
	engine *match.Engine,
	gw *gateway.Gateway,
	rnd random.Random,
	config Config,
	logger *slog.Logger,
) *Controller {
	if config.Countdown <= 0 {
		config.Countdown = DefaultCountdown
	}
	if config.DefaultMaxPlayers <= 0 {
		config.DefaultMaxPlayers = DefaultMaxPlayers
	}
	return &Controller{
		store:    store,
		registry: registry,
		engine:   engine,
		gateway:  gw,
		random:   rnd,
		config:   config,
		logger:   logger.With(slog.String("component", "party")),
	}
}

// identityFor resolves the bound identity of a connection, failing with
// ErrNotAuthenticated when none is bound
func (c *Controller) identityFor(connID model.ConnectionID) (*connection.Conn, model.PlayerID, error) {
	conn, ok := c.registry.Lookup(connID)
	if !ok {
		return nil, "", model.ErrConnectionNotFound
	}
	playerID := conn.PlayerID()
	if playerID == "" {
		return nil, "", model.ErrNotAuthenticated
	}
	return conn, playerID, nil
}

// CreateParty creates a new party with the connection's player as sole
// member and host
func (c *Controller) CreateParty(ctx context.Context, connID model.ConnectionID, maxPlayers int) (*model.Party, error) {
	conn, playerID, err := c.identityFor(connID)
	if err != nil {
		return nil, err
	}
	if maxPlayers <= 0 {
		maxPlayers = c.config.DefaultMaxPlayers
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Generate a unique party code
	var id model.PartyID
	for {
		id = model.PartyID(c.random.String(PartyIDLength, PartyIDAlphabet))
		exists, err := c.store.PartyExists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
	}

	party := &model.Party{
		ID:         id,
		HostID:     playerID,
		MaxPlayers: maxPlayers,
		State:      model.PartyStateLobby,
		Members: []model.PartyMember{
			{
				PlayerID:     playerID,
				DisplayName:  conn.DisplayName(),
				ConnectionID: connID,
			},
		},
	}

	if err := c.store.SaveParty(ctx, party); err != nil {
		return nil, err
	}

	c.logger.Info("party created",
		slog.String("party_id", string(id)),
		slog.String("host_id", string(playerID)))
	return party, nil
}

// JoinParty appends a new member with ready=false and broadcasts the
// updated roster to all members
func (c *Controller) JoinParty(ctx context.Context, partyID model.PartyID, connID model.ConnectionID, nameOverride string) (*model.Party, error) {
	conn, playerID, err := c.identityFor(connID)
	if err != nil {
		return nil, err
	}
	name := nameOverride
	if name == "" {
		name = conn.DisplayName()
	}

	c.mu.Lock()
	party, err := c.store.GetParty(ctx, partyID)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if party.IsFull() {
		c.mu.Unlock()
		return nil, model.ErrPartyFull
	}

	party.Members = append(party.Members, model.PartyMember{
		PlayerID:     playerID,
		DisplayName:  name,
		ConnectionID: connID,
	})
	if err := c.store.SaveParty(ctx, party); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	update := protocol.NewPartyUpdate(party)
	c.mu.Unlock()

	c.gateway.SendToParty(ctx, partyID, update)
	return party, nil
}

// LeaveParty removes the member bound to this connection from every
// party it belongs to. A connection should belong to at most one party,
// but the removal scans all parties to guarantee consistency even if
// that invariant were violated. Host role migrates to the first
// remaining member; an emptied party is deleted. Survivors get the
// updated roster.
func (c *Controller) LeaveParty(ctx context.Context, connID model.ConnectionID) error {
	c.mu.Lock()
	parties, err := c.store.ListParties(ctx)
	if err != nil {
		c.mu.Unlock()
		return err
	}

	var updates []protocol.PartyUpdate
	for _, party := range parties {
		member := party.Member(connID)
		if member == nil {
			continue
		}
		removedPlayer := member.PlayerID

		for i := range party.Members {
			if party.Members[i].ConnectionID == connID {
				party.Members = append(party.Members[:i], party.Members[i+1:]...)
				break
			}
		}

		if len(party.Members) == 0 {
			if err := c.store.DeleteParty(ctx, party.ID); err != nil {
				c.mu.Unlock()
				return err
			}
			c.logger.Info("party deleted", slog.String("party_id", string(party.ID)))
			continue
		}

		if party.HostID == removedPlayer {
			party.HostID = party.Members[0].PlayerID
			c.logger.Info("host migrated",
				slog.String("party_id", string(party.ID)),
				slog.String("host_id", string(party.HostID)))
		}
		if err := c.store.SaveParty(ctx, party); err != nil {
			c.mu.Unlock()
			return err
		}
		updates = append(updates, protocol.NewPartyUpdate(party))
	}
	c.mu.Unlock()

	for _, update := range updates {
		c.gateway.SendToParty(ctx, update.PartyID, update)
	}
	return nil
}

// SetReady sets the ready flag on the member bound to this connection
// and broadcasts the roster. Ready flags are advisory lobby bookkeeping
// only; StartParty does not enforce a ready gate.
func (c *Controller) SetReady(ctx context.Context, connID model.ConnectionID, ready bool) error {
	c.mu.Lock()
	parties, err := c.store.ListParties(ctx)
	if err != nil {
		c.mu.Unlock()
		return err
	}

	var updates []protocol.PartyUpdate
	for _, party := range parties {
		member := party.Member(connID)
		if member == nil {
			continue
		}
		member.Ready = ready
		if err := c.store.SaveParty(ctx, party); err != nil {
			c.mu.Unlock()
			return err
		}
		updates = append(updates, protocol.NewPartyUpdate(party))
	}
	c.mu.Unlock()

	if len(updates) == 0 {
		return model.ErrNotInParty
	}
	for _, update := range updates {
		c.gateway.SendToParty(ctx, update.PartyID, update)
	}
	return nil
}

// StartParty hands the current member snapshot to the match engine,
// marks the party starting, announces the countdown, and schedules the
// first tick. Only the current host may start, and only from the lobby
// state: a repeated start is rejected rather than creating a second
// match. Readiness is not checked (the host can force-start). The party
// is not deleted: later membership changes no longer affect the match.
func (c *Controller) StartParty(ctx context.Context, partyID model.PartyID, connID model.ConnectionID) (model.MatchID, error) {
	_, playerID, err := c.identityFor(connID)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	party, err := c.store.GetParty(ctx, partyID)
	if err != nil {
		c.mu.Unlock()
		return "", err
	}
	if party.HostID != playerID {
		c.mu.Unlock()
		return "", model.ErrNotHost
	}
	if party.State != model.PartyStateLobby {
		c.mu.Unlock()
		return "", model.ErrPartyAlreadyStarted
	}

	snapshot := party.MemberSnapshot()
	m := c.engine.CreateMatch(party.ID, snapshot)

	party.State = model.PartyStateStarting
	if err := c.store.SaveParty(ctx, party); err != nil {
		c.mu.Unlock()
		return "", err
	}
	c.mu.Unlock()

	countdown := c.config.Countdown
	c.gateway.SendToParty(ctx, partyID, protocol.NewMatchStarting(m.ID, countdown.Seconds()))

	// Timer-driven start, independent of further party state
	matchID := m.ID
	time.AfterFunc(countdown, func() {
		c.engine.BeginTick(matchID)
	})

	c.logger.Info("party starting",
		slog.String("party_id", string(partyID)),
		slog.String("match_id", string(matchID)),
		slog.Duration("countdown", countdown))
	return matchID, nil
}
