package connection

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/taggamecreator/tag-echobound-servers/internal/model"
)

// sendBufferSize bounds the per-connection outbound queue; a full queue
// drops messages rather than blocking the sender.
const sendBufferSize = 256

// Conn is the registry's handle for one live connection. The transport
// layer drains Outgoing; everything else enqueues through TrySend.
type Conn struct {
	id model.ConnectionID

	mu     sync.RWMutex
	player model.PlayerID // empty until an identity is bound
	name   string

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// ID returns the connection identity token
func (c *Conn) ID() model.ConnectionID {
	return c.id
}

// PlayerID returns the bound player identity, or empty if unauthenticated
func (c *Conn) PlayerID() model.PlayerID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.player
}

// DisplayName returns the bound display name
func (c *Conn) DisplayName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

func (c *Conn) bind(playerID model.PlayerID, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.player = playerID
	c.name = name
}

// TrySend enqueues data for delivery without blocking. Returns false if
// the connection is closed or its queue is full; the caller treats both
// as a skipped recipient.
func (c *Conn) TrySend(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// Outgoing is the channel the write pump drains
func (c *Conn) Outgoing() <-chan []byte {
	return c.send
}

// Done is closed when the connection is shut down
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Close marks the connection closed; idempotent
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// Registry tracks every live connection and the identity bound to it
type Registry struct {
	mu     sync.RWMutex
	conns  map[model.ConnectionID]*Conn
	logger *slog.Logger
}

// NewRegistry creates a connection registry
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		conns:  make(map[model.ConnectionID]*Conn),
		logger: logger.With(slog.String("component", "connection")),
	}
}

// Register creates and tracks a new connection handle
func (r *Registry) Register() *Conn {
	conn := &Conn{
		id:   model.ConnectionID(uuid.NewString()),
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}

	r.mu.Lock()
	r.conns[conn.id] = conn
	total := len(r.conns)
	r.mu.Unlock()

	r.logger.Info("connection registered",
		slog.String("connection_id", string(conn.id)),
		slog.Int("total_connections", total))
	return conn
}

// BindIdentity attaches a player identity and display name to a
// connection. No uniqueness validation is performed: a caller may bind
// an identity already in use elsewhere.
func (r *Registry) BindIdentity(connID model.ConnectionID, playerID model.PlayerID, name string) error {
	r.mu.RLock()
	conn, ok := r.conns[connID]
	r.mu.RUnlock()
	if !ok {
		return model.ErrConnectionNotFound
	}

	conn.bind(playerID, name)
	r.logger.Info("identity bound",
		slog.String("connection_id", string(connID)),
		slog.String("player_id", string(playerID)))
	return nil
}

// Lookup returns the connection with the given id
func (r *Registry) Lookup(connID model.ConnectionID) (*Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[connID]
	return conn, ok
}

// Unregister removes and closes a connection
func (r *Registry) Unregister(connID model.ConnectionID) {
	r.mu.Lock()
	conn, ok := r.conns[connID]
	if ok {
		delete(r.conns, connID)
	}
	total := len(r.conns)
	r.mu.Unlock()

	if !ok {
		return
	}
	conn.Close()
	r.logger.Info("connection unregistered",
		slog.String("connection_id", string(connID)),
		slog.Int("total_connections", total))
}

// All returns every registered connection
func (r *Registry) All() []*Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conns := make([]*Conn, 0, len(r.conns))
	for _, c := range r.conns {
		conns = append(conns, c)
	}
	return conns
}

// Count returns the number of live connections
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
