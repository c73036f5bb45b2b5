package model

import "errors"

// Common errors used across the application. All are recoverable and
// reported only to the originating connection; none terminate the
// connection or the process.
var (
	// Connection errors
	ErrConnectionNotFound = errors.New("connection not found")
	ErrNotAuthenticated   = errors.New("connection has no bound identity")

	// Party errors
	ErrPartyNotFound       = errors.New("party not found")
	ErrPartyFull           = errors.New("party is full")
	ErrNotInParty          = errors.New("connection is not in a party")
	ErrNotHost             = errors.New("player is not the party host")
	ErrPartyAlreadyStarted = errors.New("party has already started a match")

	// Match errors
	ErrMatchNotFound = errors.New("match not found")

	// Control surface errors
	ErrUnauthorized = errors.New("controller secret mismatch")

	// Protocol errors
	ErrMalformedMessage   = errors.New("malformed message payload")
	ErrUnknownMessageType = errors.New("unknown message type")
)
