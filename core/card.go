package core

import (
	"context"
	"time"
)

// Editor defaults for a freshly created card.
const (
	DefaultTitle           = "Untitled Card"
	DefaultBackgroundColor = "#FFB6C1" // light pink
)

type (
	// Card is the in-progress document being edited. ID stays empty
	// until the first save (an empty ID makes save mint a fresh one).
	Card struct {
		ID              string    `json:"id"`
		Title           string    `json:"title"`
		BackgroundColor string    `json:"backgroundColor"`
		Elements        []Element `json:"elements"`
	}

	// SavedCard is a persisted card record. CreatedAt is written once
	// on first save and never changes; UpdatedAt advances on every
	// save; Views only moves through an explicit view increment.
	SavedCard struct {
		ID              string    `json:"id"`
		Title           string    `json:"title"`
		BackgroundColor string    `json:"backgroundColor"`
		Elements        []Element `json:"elements"`
		CreatedAt       time.Time `json:"createdAt"`
		UpdatedAt       time.Time `json:"updatedAt"`
		Views           int       `json:"views"`
	}

	// WriteResult reports the outcome of persisting the collection.
	// CapacityExceeded is a soft signal: the write still went through,
	// but the serialized collection no longer fits the backing medium
	// and the caller should decide whether to warn or migrate.
	WriteResult struct {
		Size             int
		CapacityExceeded bool
	}

	// CollectionStore persists the whole saved-card collection as one
	// unit. Read returns an empty collection when nothing has been
	// persisted yet or the stored blob cannot be decoded; neither case
	// is an error.
	CollectionStore interface {
		Read(ctx context.Context) ([]SavedCard, error)
		Write(ctx context.Context, cards []SavedCard) (WriteResult, error)
	}
)

// NewCard returns a fresh empty document with editor defaults.
func NewCard() Card {
	return Card{
		Title:           DefaultTitle,
		BackgroundColor: DefaultBackgroundColor,
		Elements:        []Element{},
	}
}

// CloneElements deep-copies an element slice.
func CloneElements(els []Element) []Element {
	out := make([]Element, len(els))
	for i, el := range els {
		out[i] = el.Clone()
	}
	return out
}

// Clone returns a deep copy of the card.
func (c Card) Clone() Card {
	out := c
	out.Elements = CloneElements(c.Elements)
	return out
}

// Clone returns a deep copy of the record.
func (s SavedCard) Clone() SavedCard {
	out := s
	out.Elements = CloneElements(s.Elements)
	return out
}
