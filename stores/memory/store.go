package memory

import (
	"context"
	"encoding/json"
	"sync"

	"cardcraft/core"

	"github.com/sirupsen/logrus"
)

// memStore keeps the collection in memory. Used for tests and dev runs.
type memStore struct {
	mu    sync.RWMutex
	cards []core.SavedCard
}

// NewStore creates a new in-memory collection store.
func NewStore() *memStore {
	return &memStore{cards: []core.SavedCard{}}
}

func (s *memStore) Read(ctx context.Context) ([]core.SavedCard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.SavedCard, len(s.cards))
	for i, c := range s.cards {
		out[i] = c.Clone()
	}
	return out, nil
}

func (s *memStore) Write(ctx context.Context, cards []core.SavedCard) (core.WriteResult, error) {
	data, err := json.Marshal(cards)
	if err != nil {
		return core.WriteResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cards = make([]core.SavedCard, len(cards))
	for i, c := range cards {
		s.cards[i] = c.Clone()
	}
	logrus.WithFields(logrus.Fields{
		"cards":       len(cards),
		"data_length": len(data),
	}).Debug("Collection stored in memory")
	return core.WriteResult{Size: len(data)}, nil
}
