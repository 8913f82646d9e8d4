package cookie

import (
	"context"
	"encoding/json"
	"time"

	"cardcraft/core"
	"cardcraft/kv"

	"github.com/sirupsen/logrus"
)

const (
	// CollectionKey is the single well-known key the whole saved-card
	// collection is stored under.
	CollectionKey = "cardcraft_saved_cards"

	// MaxValueSize is the cookie size ceiling in bytes. Writes past it
	// still go through; the result carries a capacity signal instead.
	MaxValueSize = 4096

	// DefaultTTL matches the 30-day cookie retention of the original
	// client-side tool.
	DefaultTTL = 30 * 24 * time.Hour
)

// cookieStore persists the collection as one JSON blob under a fixed
// key in a size-bounded key-value medium.
type cookieStore struct {
	conn kv.Conn
	key  string
	ttl  time.Duration
}

// NewStore creates a cookie-style collection store over the given
// key-value connection.
func NewStore(conn kv.Conn) *cookieStore {
	return &cookieStore{
		conn: conn,
		key:  CollectionKey,
		ttl:  DefaultTTL,
	}
}

func (s *cookieStore) Read(ctx context.Context) ([]core.SavedCard, error) {
	raw, ok := s.conn.Get(s.key)
	if !ok {
		logrus.WithField("key", s.key).Debug("No saved cards blob, returning empty collection")
		return []core.SavedCard{}, nil
	}

	var cards []core.SavedCard
	if err := json.Unmarshal([]byte(raw), &cards); err != nil {
		// Corrupt blob degrades to an empty collection, never an error.
		logrus.WithError(err).WithField("key", s.key).Warn("Failed to decode saved cards blob")
		return []core.SavedCard{}, nil
	}
	if cards == nil {
		cards = []core.SavedCard{}
	}
	return cards, nil
}

func (s *cookieStore) Write(ctx context.Context, cards []core.SavedCard) (core.WriteResult, error) {
	data, err := json.Marshal(cards)
	if err != nil {
		return core.WriteResult{}, err
	}

	res := core.WriteResult{Size: len(data)}
	if len(data) > MaxValueSize {
		res.CapacityExceeded = true
	}

	if err := s.conn.Set(s.key, string(data), s.ttl); err != nil {
		return res, err
	}
	logrus.WithFields(logrus.Fields{
		"key":         s.key,
		"data_length": len(data),
		"cards":       len(cards),
	}).Debug("Saved cards blob written")
	return res, nil
}
