package editor

import (
	"context"
	"sort"
	"sync"
	"time"

	"cardcraft/core"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

// Session is the single source of truth for the card being edited and
// the hydrated saved-card collection. All mutations run to completion
// under one lock, so no caller ever observes a partial update.
// Operations addressing a missing element or record degrade to no-ops:
// the editing surface may race ahead of state (element deleted while a
// drag is still in flight) and that must not fail.
type Session struct {
	mu    sync.Mutex
	store core.CollectionStore

	// Overridable for tests.
	now   func() time.Time
	newID func() string

	card       core.Card
	selectedID string
	cards      map[string]core.SavedCard
}

// NewSession creates an editing session backed by the given collection
// store, starting from a fresh empty card.
func NewSession(store core.CollectionStore) *Session {
	return &Session{
		store: store,
		now:   time.Now,
		newID: func() string { return ulid.Make().String() },
		card:  core.NewCard(),
		cards: make(map[string]core.SavedCard),
	}
}

// Card returns a deep copy of the active document.
func (s *Session) Card() core.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.card.Clone()
}

// SelectedID returns the selected element id, or "" when nothing is
// selected. The referent is validated on read to guard against races
// with removal.
func (s *Session) SelectedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedID != "" && s.findElement(s.selectedID) == nil {
		return ""
	}
	return s.selectedID
}

// Element returns a copy of the element with the given id.
func (s *Session) Element(id string) (core.Element, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	el := s.findElement(id)
	if el == nil {
		return core.Element{}, false
	}
	return el.Clone(), true
}

// SetTitle replaces the card title. Any string is accepted.
func (s *Session) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.card.Title = title
}

// SetBackgroundColor replaces the card background color.
func (s *Session) SetBackgroundColor(color string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.card.BackgroundColor = color
}

// AddElement assigns a fresh id and a z-index above every existing
// element, appends the element, selects it, and returns the new id.
func (s *Session) AddElement(el core.Element) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	el = el.Clone()
	el.ID = s.newID()
	el.ZIndex = s.maxZIndex() + 1
	s.card.Elements = append(s.card.Elements, el)
	s.selectedID = el.ID

	logrus.WithFields(logrus.Fields{
		"element_id":   el.ID,
		"element_type": el.Type,
	}).Debug("Element added")
	return el.ID
}

// UpdateElement merges a partial update into the element. Identity and
// variant tag are immutable; fields of a foreign variant are ignored.
// No-op when the id does not exist.
func (s *Session) UpdateElement(id string, u core.ElementUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el := s.findElement(id); el != nil {
		el.Apply(u)
	}
}

// RemoveElement deletes the element and clears a selection pointing at
// it. No-op when the id does not exist.
func (s *Session) RemoveElement(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, el := range s.card.Elements {
		if el.ID == id {
			s.card.Elements = append(s.card.Elements[:i], s.card.Elements[i+1:]...)
			if s.selectedID == id {
				s.selectedID = ""
			}
			return
		}
	}
}

// SelectElement sets the selection; "" clears it. Existence is not
// checked here, the surface only selects elements it rendered and
// reads validate against removal races.
func (s *Session) SelectElement(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = id
}

// MoveElement updates the element position.
func (s *Session) MoveElement(id string, x, y float64) {
	s.UpdateElement(id, core.ElementUpdate{X: &x, Y: &y})
}

// ResizeElement updates the element size.
func (s *Session) ResizeElement(id string, width, height float64) {
	s.UpdateElement(id, core.ElementUpdate{Width: &width, Height: &height})
}

// RotateElement updates the element rotation in degrees.
func (s *Session) RotateElement(id string, rotation float64) {
	s.UpdateElement(id, core.ElementUpdate{Rotation: &rotation})
}

// BringElementToFront moves the element strictly above every other
// element: max existing z-index (floor 0) plus one. The scheme is
// relative, repeated calls keep pushing further out.
func (s *Session) BringElementToFront(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el := s.findElement(id); el != nil {
		el.ZIndex = s.maxZIndex() + 1
	}
}

// SendElementToBack moves the element strictly below every other
// element: min existing z-index (ceiling 0) minus one.
func (s *Session) SendElementToBack(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el := s.findElement(id); el != nil {
		el.ZIndex = s.minZIndex() - 1
	}
}

// CreateNewCard discards the active document and starts a fresh empty
// one. Confirmation of unsaved changes is the surface's concern.
func (s *Session) CreateNewCard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.card = core.NewCard()
	s.selectedID = ""
}

// ClearDocumentID forgets the active document's identity so the next
// save mints a fresh record. This is the first half of the duplicate
// workflow: load, clear the id, retitle, save.
func (s *Session) ClearDocumentID() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.card.ID = ""
}

// SaveCard merges the active document into the collection and persists
// it. An existing record keeps its CreatedAt and Views; a new record
// starts with CreatedAt=UpdatedAt=now and zero views. A failed persist
// rolls the merge back so the hydrated collection never diverges from
// the store; the document keeps its id, so the next save retries the
// same record. Returns the card id and the adapter's write result so
// the caller can decide how to surface a capacity overrun.
func (s *Session) SaveCard(ctx context.Context) (string, core.WriteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.card.ID == "" {
		s.card.ID = s.newID()
	}

	now := s.now()
	rec := core.SavedCard{
		ID:              s.card.ID,
		Title:           s.card.Title,
		BackgroundColor: s.card.BackgroundColor,
		Elements:        core.CloneElements(s.card.Elements),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	prev, existed := s.cards[s.card.ID]
	if existed {
		rec.CreatedAt = prev.CreatedAt
		rec.Views = prev.Views
	}
	s.cards[rec.ID] = rec

	res, err := s.persist(ctx)
	if err != nil {
		if existed {
			s.cards[rec.ID] = prev
		} else {
			delete(s.cards, rec.ID)
		}
		logrus.WithError(err).WithField("card_id", rec.ID).Error("Failed to persist saved cards")
		return rec.ID, res, err
	}
	if res.CapacityExceeded {
		logrus.WithFields(logrus.Fields{
			"card_id":     rec.ID,
			"data_length": res.Size,
		}).Warn("Saved cards exceed the storage size ceiling, write was best-effort")
	}
	logrus.WithField("card_id", rec.ID).Info("Card saved")
	return rec.ID, res, nil
}

// LoadCard replaces the active document with the record from the
// hydrated collection. The document is left unchanged when the id is
// unknown; the return value reports whether the load happened.
func (s *Session) LoadCard(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.cards[id]
	if !ok {
		logrus.WithField("card_id", id).Warn("Card not found in collection")
		return false
	}
	s.card = core.Card{
		ID:              rec.ID,
		Title:           rec.Title,
		BackgroundColor: rec.BackgroundColor,
		Elements:        core.CloneElements(rec.Elements),
	}
	s.selectedID = ""
	logrus.WithField("card_id", id).Info("Card loaded")
	return true
}

// LoadAllCards hydrates the in-memory collection from the adapter,
// replacing it wholesale. Missing persisted data yields an empty
// collection, not an error.
func (s *Session) LoadAllCards(ctx context.Context) error {
	cards, err := s.store.Read(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards = make(map[string]core.SavedCard, len(cards))
	for _, c := range cards {
		s.cards[c.ID] = c
	}
	logrus.WithField("cards", len(cards)).Debug("Collection hydrated")
	return nil
}

// DeleteCard removes the record and persists the collection. Deleting
// the card that is open in the editor also resets the editor to a
// fresh empty document.
func (s *Session) DeleteCard(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.cards, id)
	if s.card.ID == id {
		s.card = core.NewCard()
		s.selectedID = ""
	}

	if _, err := s.persist(ctx); err != nil {
		logrus.WithError(err).WithField("card_id", id).Error("Failed to persist after delete")
		return err
	}
	logrus.WithField("card_id", id).Info("Card deleted")
	return nil
}

// IncrementViews bumps the record's view counter and persists the
// collection. No-op when the id is unknown.
func (s *Session) IncrementViews(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.cards[id]
	if !ok {
		return nil
	}
	rec.Views++
	s.cards[id] = rec

	_, err := s.persist(ctx)
	return err
}

// SavedCard returns a copy of one record from the hydrated collection.
func (s *Session) SavedCard(id string) (core.SavedCard, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.cards[id]
	if !ok {
		return core.SavedCard{}, false
	}
	return rec.Clone(), true
}

// SavedCards returns the hydrated collection, newest first.
func (s *Session) SavedCards() []core.SavedCard {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.SavedCard, 0, len(s.cards))
	for _, rec := range s.cards {
		out = append(out, rec.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// persist writes the collection through the adapter. Callers hold the
// lock.
func (s *Session) persist(ctx context.Context) (core.WriteResult, error) {
	cards := make([]core.SavedCard, 0, len(s.cards))
	for _, rec := range s.cards {
		cards = append(cards, rec)
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].ID < cards[j].ID })
	return s.store.Write(ctx, cards)
}

func (s *Session) findElement(id string) *core.Element {
	for i := range s.card.Elements {
		if s.card.Elements[i].ID == id {
			return &s.card.Elements[i]
		}
	}
	return nil
}

// maxZIndex is the highest z-index in the document, floored at 0 so
// the first element lands at 1.
func (s *Session) maxZIndex() int {
	max := 0
	for _, el := range s.card.Elements {
		if el.ZIndex > max {
			max = el.ZIndex
		}
	}
	return max
}

func (s *Session) minZIndex() int {
	min := 0
	for _, el := range s.card.Elements {
		if el.ZIndex < min {
			min = el.ZIndex
		}
	}
	return min
}
