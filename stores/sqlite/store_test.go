package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"cardcraft/core"
)

func newTestStore(t *testing.T) *sqliteStore {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "cards.db"))
}

func TestReadEmpty(t *testing.T) {
	store := newTestStore(t)

	cards, err := store.Read(context.Background())
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if len(cards) != 0 {
		t.Errorf("Expected empty collection, got %d cards", len(cards))
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)
	el := core.NewTextElement("Hi")
	el.ID = "el-1"
	in := []core.SavedCard{{
		ID:              "card-1",
		Title:           "Birthday",
		BackgroundColor: "#FFB6C1",
		Elements:        []core.Element{el},
		CreatedAt:       created,
		UpdatedAt:       updated,
		Views:           4,
	}}

	if _, err := store.Write(ctx, in); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	out, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("Card count: got %d, want 1", len(out))
	}
	got := out[0]
	if got.ID != "card-1" || got.Title != "Birthday" || got.BackgroundColor != "#FFB6C1" || got.Views != 4 {
		t.Errorf("Record mismatch: %+v", got)
	}
	if got.CreatedAt.Unix() != created.Unix() || got.UpdatedAt.Unix() != updated.Unix() {
		t.Errorf("Timestamps mismatch: created %v, updated %v", got.CreatedAt, got.UpdatedAt)
	}
	if len(got.Elements) != 1 || got.Elements[0].Text == nil || got.Elements[0].Text.Text != "Hi" {
		t.Errorf("Elements did not round-trip: %+v", got.Elements)
	}
}

func TestWrite_ReplacesWholesale(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Now()
	if _, err := store.Write(ctx, []core.SavedCard{
		{ID: "a", Elements: []core.Element{}, CreatedAt: now, UpdatedAt: now},
		{ID: "b", Elements: []core.Element{}, CreatedAt: now, UpdatedAt: now},
	}); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	if _, err := store.Write(ctx, []core.SavedCard{
		{ID: "c", Elements: []core.Element{}, CreatedAt: now, UpdatedAt: now},
	}); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	out, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if len(out) != 1 || out[0].ID != "c" {
		t.Errorf("Write did not replace the collection: %+v", out)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	dsn := filepath.Join(dir, "cards.db")
	ctx := context.Background()

	now := time.Now()
	first := NewStore(dsn)
	if _, err := first.Write(ctx, []core.SavedCard{
		{ID: "keep", Title: "Kept", Elements: []core.Element{}, CreatedAt: now, UpdatedAt: now},
	}); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	first.db.Close()

	second := NewStore(dsn)
	out, err := second.Read(ctx)
	if err != nil {
		t.Fatalf("Read() after reopen failed: %v", err)
	}
	if len(out) != 1 || out[0].Title != "Kept" {
		t.Errorf("Collection did not survive reopen: %+v", out)
	}
}
