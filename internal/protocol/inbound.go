package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/taggamecreator/tag-echobound-servers/internal/model"
)

// Inbound is the closed set of messages a client may send. Every
// message on the wire is a JSON object with a "type" discriminator;
// Parse maps it onto exactly one of the variants below so that a new
// message kind is a compile-time-checked addition.
type Inbound interface {
	inbound()
}

// Auth binds a player identity to the connection
type Auth struct {
	PlayerID model.PlayerID `json:"playerId,omitempty"`
	Name     string         `json:"name,omitempty"`
}

// CreateParty opens a new party with the sender as host
type CreateParty struct {
	MaxPlayers int `json:"maxPlayers,omitempty"`
}

// JoinParty adds the sender to an existing party
type JoinParty struct {
	PartyID model.PartyID `json:"partyId"`
	Name    string        `json:"name,omitempty"`
}

// LeaveParty removes the sender from its party
type LeaveParty struct{}

// Ready toggles the sender's lobby ready flag
type Ready struct {
	Ready bool `json:"ready"`
}

// StartParty asks to promote a party into a match; host only
type StartParty struct {
	PartyID model.PartyID `json:"partyId"`
}

// Input carries the sender's currently held keys
type Input struct {
	Keys Keys `json:"keys"`
}

// Keys mirrors the client's held-direction flags
type Keys struct {
	Left   bool `json:"left"`
	Right  bool `json:"right"`
	Jump   bool `json:"jump"`
	Attack bool `json:"attack"`
}

// Controller is the privileged operational broadcast command
type Controller struct {
	Secret  string          `json:"secret"`
	Action  string          `json:"action"`
	Target  string          `json:"target"` // "all" or "party"
	PartyID model.PartyID   `json:"partyId,omitempty"`
	Meta    json.RawMessage `json:"meta,omitempty"`
}

func (Auth) inbound()        {}
func (CreateParty) inbound() {}
func (JoinParty) inbound()   {}
func (LeaveParty) inbound()  {}
func (Ready) inbound()       {}
func (StartParty) inbound()  {}
func (Input) inbound()       {}
func (Controller) inbound()  {}

// Inbound message type tags
const (
	TypeAuth        = "auth"
	TypeCreateParty = "create_party"
	TypeJoinParty   = "join_party"
	TypeLeaveParty  = "leave_party"
	TypeReady       = "ready"
	TypeStartParty  = "start_party"
	TypeInput       = "input"
	TypeController  = "controller"
)

type envelope struct {
	Type string `json:"type"`
}

// Parse decodes a raw client payload into its Inbound variant.
// Returns model.ErrMalformedMessage for unparseable payloads and
// model.ErrUnknownMessageType for unrecognized discriminators.
func Parse(data []byte) (Inbound, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedMessage, err)
	}

	var (
		msg Inbound
		err error
	)
	switch env.Type {
	case TypeAuth:
		var m Auth
		err = json.Unmarshal(data, &m)
		msg = m
	case TypeCreateParty:
		var m CreateParty
		err = json.Unmarshal(data, &m)
		msg = m
	case TypeJoinParty:
		var m JoinParty
		err = json.Unmarshal(data, &m)
		msg = m
	case TypeLeaveParty:
		msg = LeaveParty{}
	case TypeReady:
		var m Ready
		err = json.Unmarshal(data, &m)
		msg = m
	case TypeStartParty:
		var m StartParty
		err = json.Unmarshal(data, &m)
		msg = m
	case TypeInput:
		var m Input
		err = json.Unmarshal(data, &m)
		msg = m
	case TypeController:
		var m Controller
		err = json.Unmarshal(data, &m)
		msg = m
	default:
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownMessageType, env.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedMessage, err)
	}
	return msg, nil
}

// InputState converts wire keys into the domain input record
func (i Input) InputState() model.InputState {
	return model.InputState{
		Left:   i.Keys.Left,
		Right:  i.Keys.Right,
		Jump:   i.Keys.Jump,
		Attack: i.Keys.Attack,
	}
}
