package protocol

import (
	"encoding/json"

	"github.com/taggamecreator/tag-echobound-servers/internal/model"
)

// Outbound message type tags
const (
	TypeAuthOK              = "auth_ok"
	TypePartyCreated        = "party_created"
	TypePartyUpdate         = "party_update"
	TypePartyError          = "party_error"
	TypeMatchStarting       = "match_starting"
	TypeSnapshot            = "snapshot"
	TypeControllerBroadcast = "controller_broadcast"
	TypeControllerError     = "controller_error"
	TypeError               = "error"
)

// AuthOK acknowledges identity binding
type AuthOK struct {
	Type     string         `json:"type"`
	PlayerID model.PlayerID `json:"playerId"`
	Name     string         `json:"name"`
}

// NewAuthOK builds an auth_ok envelope
func NewAuthOK(playerID model.PlayerID, name string) AuthOK {
	return AuthOK{Type: TypeAuthOK, PlayerID: playerID, Name: name}
}

// MemberInfo is the roster entry shape shared by party messages
type MemberInfo struct {
	PlayerID model.PlayerID `json:"playerId"`
	Name     string         `json:"name"`
	Ready    bool           `json:"ready"`
}

// PartyCreated is sent to the creator of a new party
type PartyCreated struct {
	Type    string         `json:"type"`
	PartyID model.PartyID  `json:"partyId"`
	HostID  model.PlayerID `json:"hostId"`
	Members []MemberInfo   `json:"members"`
}

// PartyUpdate broadcasts the current roster to all members
type PartyUpdate struct {
	Type    string         `json:"type"`
	PartyID model.PartyID  `json:"partyId"`
	Members []MemberInfo   `json:"members"`
	HostID  model.PlayerID `json:"hostId"`
}

// PartyError reports a failed party operation to the sender only
type PartyError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewPartyError builds a party_error envelope
func NewPartyError(message string) PartyError {
	return PartyError{Type: TypePartyError, Message: message}
}

// MatchStarting announces a scheduled match start with its countdown
type MatchStarting struct {
	Type      string        `json:"type"`
	MatchID   model.MatchID `json:"matchId"`
	Countdown float64       `json:"countdown"` // seconds
}

// PlayerSnapshot is the per-player slice of a world snapshot
type PlayerSnapshot struct {
	PlayerID model.PlayerID `json:"id"`
	X        float64        `json:"x"`
	Y        float64        `json:"y"`
	VX       float64        `json:"vx"`
	VY       float64        `json:"vy"`
	Dead     bool           `json:"dead"`
	Downed   bool           `json:"downed"`
}

// SnapshotState is the reduced world state sent for rendering
type SnapshotState struct {
	Players []PlayerSnapshot `json:"players"`
	Tagger  int              `json:"tagger"`
}

// Snapshot is the periodic authoritative state broadcast
type Snapshot struct {
	Type  string        `json:"type"`
	Tick  uint64        `json:"tick"`
	State SnapshotState `json:"state"`
}

// NewSnapshot reduces a match to its broadcast form
func NewSnapshot(m *model.Match) Snapshot {
	players := make([]PlayerSnapshot, len(m.Players))
	for i := range m.Players {
		p := &m.Players[i]
		players[i] = PlayerSnapshot{
			PlayerID: p.PlayerID,
			X:        p.X,
			Y:        p.Y,
			VX:       p.VX,
			VY:       p.VY,
			Dead:     p.Dead,
			Downed:   p.Downed,
		}
	}
	return Snapshot{
		Type: TypeSnapshot,
		Tick: m.Tick,
		State: SnapshotState{
			Players: players,
			Tagger:  m.TaggerSlot,
		},
	}
}

// ControllerBroadcast is the operational announcement envelope
type ControllerBroadcast struct {
	Type   string          `json:"type"`
	Action string          `json:"action"`
	TS     int64           `json:"ts"` // unix milliseconds
	Meta   json.RawMessage `json:"meta,omitempty"`
}

// ControllerError reports a failed controller command to the sender only
type ControllerError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewControllerError builds a controller_error envelope
func NewControllerError(message string) ControllerError {
	return ControllerError{Type: TypeControllerError, Message: message}
}

// ErrorMessage is the generic typed error envelope
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewError builds an error envelope
func NewError(message string) ErrorMessage {
	return ErrorMessage{Type: TypeError, Message: message}
}

// RosterOf converts party members into wire roster entries
func RosterOf(members []model.PartyMember) []MemberInfo {
	roster := make([]MemberInfo, len(members))
	for i, m := range members {
		roster[i] = MemberInfo{PlayerID: m.PlayerID, Name: m.DisplayName, Ready: m.Ready}
	}
	return roster
}

// NewPartyCreated builds a party_created envelope
func NewPartyCreated(p *model.Party) PartyCreated {
	return PartyCreated{
		Type:    TypePartyCreated,
		PartyID: p.ID,
		HostID:  p.HostID,
		Members: RosterOf(p.Members),
	}
}

// NewPartyUpdate builds a party_update envelope
func NewPartyUpdate(p *model.Party) PartyUpdate {
	return PartyUpdate{
		Type:    TypePartyUpdate,
		PartyID: p.ID,
		Members: RosterOf(p.Members),
		HostID:  p.HostID,
	}
}

// NewMatchStarting builds a match_starting envelope
func NewMatchStarting(matchID model.MatchID, countdownSeconds float64) MatchStarting {
	return MatchStarting{Type: TypeMatchStarting, MatchID: matchID, Countdown: countdownSeconds}
}
