package model

// PartyID is a short, externally shareable code for joining parties
type PartyID string

// PartyState represents the lifecycle state of a party
type PartyState string

const (
	PartyStateLobby    PartyState = "lobby"    // Gathering members
	PartyStateStarting PartyState = "starting" // Match start scheduled
	PartyStateInMatch  PartyState = "in_match" // Match running
)

// PartyMember represents a player's membership in a party
type PartyMember struct {
	PlayerID     PlayerID
	DisplayName  string
	ConnectionID ConnectionID
	Ready        bool
}

// Party represents a lobby: a group of connections gathered before a match.
// Invariants: HostID is always the id of a current member (the party is
// deleted when membership becomes empty), and len(Members) never exceeds
// MaxPlayers.
type Party struct {
	ID         PartyID
	HostID     PlayerID
	Members    []PartyMember // ordered; first member inherits host on migration
	MaxPlayers int
	State      PartyState
}

// Member returns the member bound to the given connection, or nil
func (p *Party) Member(connID ConnectionID) *PartyMember {
	for i := range p.Members {
		if p.Members[i].ConnectionID == connID {
			return &p.Members[i]
		}
	}
	return nil
}

// MemberByPlayer returns the member with the given player id, or nil
func (p *Party) MemberByPlayer(playerID PlayerID) *PartyMember {
	for i := range p.Members {
		if p.Members[i].PlayerID == playerID {
			return &p.Members[i]
		}
	}
	return nil
}

// IsFull reports whether the party has reached its member limit
func (p *Party) IsFull() bool {
	return len(p.Members) >= p.MaxPlayers
}

// MemberSnapshot returns a by-value copy of the current member list.
// Handing a copy to the match engine decouples match state from later
// party mutations.
func (p *Party) MemberSnapshot() []PartyMember {
	snapshot := make([]PartyMember, len(p.Members))
	copy(snapshot, p.Members)
	return snapshot
}
