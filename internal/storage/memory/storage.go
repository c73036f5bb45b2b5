package memory

import (
	"context"
	"sync"

	"github.com/taggamecreator/tag-echobound-servers/internal/model"
	"github.com/taggamecreator/tag-echobound-servers/internal/storage"
)

// Storage is an in-memory implementation of the party store. Reads
// return copies with their own member slice, so a reader never observes
// another goroutine's mutations; writers mutate their copy and save it
// back.
type Storage struct {
	mu      sync.RWMutex
	parties map[model.PartyID]*model.Party
}

// clone returns a party copy whose member slice is independent of the
// stored one
func clone(p *model.Party) *model.Party {
	c := *p
	c.Members = make([]model.PartyMember, len(p.Members))
	copy(c.Members, p.Members)
	return &c
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		parties: make(map[model.PartyID]*model.Party),
	}
}

var _ storage.PartyStore = (*Storage)(nil)

func (s *Storage) SaveParty(ctx context.Context, party *model.Party) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parties[party.ID] = party
	return nil
}

func (s *Storage) GetParty(ctx context.Context, id model.PartyID) (*model.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	party, ok := s.parties[id]
	if !ok {
		return nil, model.ErrPartyNotFound
	}
	return clone(party), nil
}

func (s *Storage) DeleteParty(ctx context.Context, id model.PartyID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.parties, id)
	return nil
}

func (s *Storage) PartyExists(ctx context.Context, id model.PartyID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.parties[id]
	return ok, nil
}

func (s *Storage) ListParties(ctx context.Context) ([]*model.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	parties := make([]*model.Party, 0, len(s.parties))
	for _, p := range s.parties {
		parties = append(parties, clone(p))
	}
	return parties, nil
}
