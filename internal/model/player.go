package model

// PlayerID is a stable token identifying a human across reconnects
// within a single party.
type PlayerID string

// ConnectionID identifies one live connection to the server.
type ConnectionID string

// Player carries the identity bound to a connection.
type Player struct {
	ID          PlayerID
	DisplayName string
}

// InputState is the most recently received held-key state for a player.
// It persists across ticks until overwritten by a newer input message;
// clients send input changes, not per-tick repeats.
type InputState struct {
	Left   bool
	Right  bool
	Jump   bool
	Attack bool
}
