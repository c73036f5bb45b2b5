package storage

import (
	"context"

	"github.com/taggamecreator/tag-echobound-servers/internal/model"
)

// PartyStore defines party persistence. Party state is process-local by
// design: a restart loses all parties and matches, so the only
// implementation is in-memory. The interface keeps the party manager
// and the broadcast gateway decoupled from the concrete map.
//
// Reads return copies owned by the caller: mutating a party obtained
// from GetParty or ListParties affects nobody until it is saved back.
type PartyStore interface {
	SaveParty(ctx context.Context, party *model.Party) error
	GetParty(ctx context.Context, id model.PartyID) (*model.Party, error)
	DeleteParty(ctx context.Context, id model.PartyID) error
	PartyExists(ctx context.Context, id model.PartyID) (bool, error)

	// ListParties returns all live parties; used for the defensive
	// all-party scans on leave/ready and for shutdown accounting.
	ListParties(ctx context.Context) ([]*model.Party, error)
}
