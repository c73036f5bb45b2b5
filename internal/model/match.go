package model

import "time"

// MatchID uniquely identifies a running simulation
type MatchID string

// MatchState represents the lifecycle state of a match
type MatchState string

const (
	MatchStatePending MatchState = "pending" // Created, countdown not elapsed
	MatchStateRunning MatchState = "running" // Tick loop active
	MatchStateStopped MatchState = "stopped" // Explicitly ended
)

// MatchPlayer is one roster slot in a match. Position and velocity are
// mutated once per tick by the simulation step; Input is replaced
// asynchronously when an input message arrives and read only by the
// tick step.
type MatchPlayer struct {
	PlayerID    PlayerID
	DisplayName string
	Slot        int // stable spawn ordering, assigned at creation
	X           float64
	Y           float64
	VX          float64
	VY          float64
	Size        float64
	Dead        bool
	Downed      bool
	Input       *InputState
}

// Match represents one running authoritative simulation. The roster is
// fixed at creation time: the match never re-reads live party
// membership, so a member leaving the party leaves a "ghost" player in
// the match until the match is explicitly stopped.
type Match struct {
	ID         MatchID
	PartyID    PartyID // snapshot routing only
	State      MatchState
	Players    []MatchPlayer
	Tick       uint64
	Elapsed    time.Duration
	TaggerSlot int
}

// PlayerBySlot returns the roster entry at the given slot, or nil
func (m *Match) PlayerBySlot(slot int) *MatchPlayer {
	for i := range m.Players {
		if m.Players[i].Slot == slot {
			return &m.Players[i]
		}
	}
	return nil
}

// PlayerByID returns the roster entry for the given player id, or nil
func (m *Match) PlayerByID(id PlayerID) *MatchPlayer {
	for i := range m.Players {
		if m.Players[i].PlayerID == id {
			return &m.Players[i]
		}
	}
	return nil
}
