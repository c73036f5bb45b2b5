package match

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taggamecreator/tag-echobound-servers/internal/model"
	"github.com/taggamecreator/tag-echobound-servers/internal/protocol"
)

// inputBufferSize bounds the per-match input mailbox. Inputs arriving
// faster than the loop can drain are dropped, matching the protocol's
// latest-wins semantics.
const inputBufferSize = 128

// Broadcaster delivers snapshots to the match's originating party
type Broadcaster interface {
	SendToParty(ctx context.Context, partyID model.PartyID, msg any)
}

type playerInput struct {
	player model.PlayerID
	input  model.InputState
}

// runningMatch pairs match state with the channels its tick loop owns.
// Once the loop starts, state is mutated exclusively by that goroutine;
// the rest of the system communicates through the input mailbox and the
// stop channel.
type runningMatch struct {
	state    *model.Match
	inputs   chan playerInput
	stop     chan struct{}
	stopOnce sync.Once
	begun    bool // guarded by Engine.mu
}

func (rm *runningMatch) requestStop() {
	rm.stopOnce.Do(func() {
		close(rm.stop)
	})
}

// Engine owns every match: it creates match state from party member
// snapshots, runs one fixed-rate tick loop per running match, applies
// buffered input, and hands snapshots to the broadcaster at the
// configured cadence.
type Engine struct {
	mu       sync.RWMutex
	matches  map[model.MatchID]*runningMatch
	byPlayer map[model.PlayerID]model.MatchID

	broadcaster Broadcaster
	logger      *slog.Logger
}

// NewEngine creates a match engine
func NewEngine(broadcaster Broadcaster, logger *slog.Logger) *Engine {
	return &Engine{
		matches:     make(map[model.MatchID]*runningMatch),
		byPlayer:    make(map[model.PlayerID]model.MatchID),
		broadcaster: broadcaster,
		logger:      logger.With(slog.String("component", "match")),
	}
}

// CreateMatch builds pending match state from a party member snapshot.
// Slot indices follow snapshot order and spawn positions are a pure
// function of slot. The snapshot is taken by value, so later party
// mutations never affect the roster.
func (e *Engine) CreateMatch(partyID model.PartyID, members []model.PartyMember) *model.Match {
	m := &model.Match{
		ID:      model.MatchID(uuid.NewString()),
		PartyID: partyID,
		State:   model.MatchStatePending,
		Players: make([]model.MatchPlayer, len(members)),
	}
	for i, member := range members {
		x, y := spawnFor(i)
		m.Players[i] = model.MatchPlayer{
			PlayerID:    member.PlayerID,
			DisplayName: member.DisplayName,
			Slot:        i,
			X:           x,
			Y:           y,
			Size:        defaultPlayerSize,
		}
	}

	rm := &runningMatch{
		state:  m,
		inputs: make(chan playerInput, inputBufferSize),
		stop:   make(chan struct{}),
	}

	e.mu.Lock()
	e.matches[m.ID] = rm
	for _, p := range m.Players {
		e.byPlayer[p.PlayerID] = m.ID
	}
	e.mu.Unlock()

	e.logger.Info("match created",
		slog.String("match_id", string(m.ID)),
		slog.String("party_id", string(partyID)),
		slog.Int("players", len(m.Players)))
	return m
}

// BeginTick transitions a pending match to running and starts its tick
// loop. Idempotent: start scheduling is timer-driven and independent of
// party state, so a second call for the same id is a no-op, as is a
// call for a match that was already stopped.
func (e *Engine) BeginTick(matchID model.MatchID) {
	e.mu.Lock()
	rm, ok := e.matches[matchID]
	if !ok || rm.begun {
		e.mu.Unlock()
		return
	}
	rm.begun = true
	rm.state.State = model.MatchStateRunning
	e.mu.Unlock()

	e.logger.Info("match running", slog.String("match_id", string(matchID)))
	go e.run(rm)
}

// SubmitInput stores an input record for whichever match currently
// contains the player, overwriting any unconsumed record. Input for a
// player in no match is dropped silently.
func (e *Engine) SubmitInput(playerID model.PlayerID, input model.InputState) {
	e.mu.RLock()
	matchID, ok := e.byPlayer[playerID]
	var rm *runningMatch
	if ok {
		rm = e.matches[matchID]
	}
	e.mu.RUnlock()
	if rm == nil {
		return
	}

	select {
	case rm.inputs <- playerInput{player: playerID, input: input}:
	default:
		// Mailbox full; the next input message supersedes this one anyway
	}
}

// StopMatch cancels the match's future ticks and releases its state.
// State already applied is never rolled back.
func (e *Engine) StopMatch(matchID model.MatchID) error {
	e.mu.Lock()
	rm, ok := e.matches[matchID]
	if !ok {
		e.mu.Unlock()
		return model.ErrMatchNotFound
	}
	delete(e.matches, matchID)
	for _, p := range rm.state.Players {
		if e.byPlayer[p.PlayerID] == matchID {
			delete(e.byPlayer, p.PlayerID)
		}
	}
	begun := rm.begun
	if !begun {
		rm.state.State = model.MatchStateStopped
	}
	e.mu.Unlock()

	rm.requestStop()
	e.logger.Info("match stopped", slog.String("match_id", string(matchID)))
	return nil
}

// Shutdown stops every match; part of process teardown
func (e *Engine) Shutdown() {
	e.mu.Lock()
	running := make([]*runningMatch, 0, len(e.matches))
	for id, rm := range e.matches {
		running = append(running, rm)
		delete(e.matches, id)
	}
	e.byPlayer = make(map[model.PlayerID]model.MatchID)
	e.mu.Unlock()

	for _, rm := range running {
		rm.requestStop()
	}
	if len(running) > 0 {
		e.logger.Info("all matches stopped", slog.Int("count", len(running)))
	}
}

// MatchCount returns the number of live matches
func (e *Engine) MatchCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.matches)
}

// run is the owned tick loop: it holds exclusive mutable access to its
// match state and talks to the rest of the system only through the
// input mailbox and the broadcaster.
func (e *Engine) run(rm *runningMatch) {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rm.stop:
			rm.state.State = model.MatchStateStopped
			return
		case <-ticker.C:
			e.tick(rm)
		}
	}
}

// tick advances the whole roster by one step atomically with respect to
// the loop: the next tick cannot begin before this one's mutations are
// complete.
func (e *Engine) tick(rm *runningMatch) {
	m := rm.state

	// Drain buffered input; later records overwrite earlier ones
drain:
	for {
		select {
		case in := <-rm.inputs:
			if p := m.PlayerByID(in.player); p != nil {
				record := in.input
				p.Input = &record
			}
		default:
			break drain
		}
	}

	for i := range m.Players {
		stepPlayer(&m.Players[i])
	}

	m.Tick++
	m.Elapsed += TickInterval

	if m.Tick%snapshotEveryTicks() == 0 {
		e.broadcaster.SendToParty(context.Background(), m.PartyID, protocol.NewSnapshot(m))
	}
}
