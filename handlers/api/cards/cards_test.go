package cards

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cardcraft/core"
	"cardcraft/editor"
	"cardcraft/stores/memory"

	"github.com/go-chi/chi/v5"
)

func newTestRouter() (*chi.Mux, *editor.Session) {
	session := editor.NewSession(memory.NewStore())

	r := chi.NewRouter()
	r.Get("/api/v1/cards/", HandleList(session))
	r.Get("/api/v1/cards/{id}", HandleGet(session))
	r.Delete("/api/v1/cards/{id}", HandleDelete(session))
	r.Post("/api/v1/cards/{id}/views", HandleIncrementViews(session))
	r.Post("/api/v1/cards/{id}/duplicate", HandleDuplicate(session))
	return r, session
}

func saveCard(t *testing.T, session *editor.Session, title string) string {
	t.Helper()
	session.CreateNewCard()
	session.SetTitle(title)
	session.AddElement(core.NewTextElement("Hi"))
	id, _, err := session.SaveCard(context.Background())
	if err != nil {
		t.Fatalf("SaveCard() failed: %v", err)
	}
	return id
}

func TestHandleList_Empty(t *testing.T) {
	r, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cards/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status: got %d, want %d", rec.Code, http.StatusOK)
	}
	var cards []core.SavedCard
	if err := json.NewDecoder(rec.Body).Decode(&cards); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if cards == nil {
		t.Error("List should return an empty array, not null")
	}
	if len(cards) != 0 {
		t.Errorf("Expected no cards, got %d", len(cards))
	}
}

func TestHandleList_ReturnsSavedCards(t *testing.T) {
	r, session := newTestRouter()
	id := saveCard(t, session, "Birthday")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cards/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var cards []core.SavedCard
	if err := json.NewDecoder(rec.Body).Decode(&cards); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("Card count: got %d, want 1", len(cards))
	}
	if cards[0].ID != id || cards[0].Title != "Birthday" {
		t.Errorf("Record mismatch: %+v", cards[0])
	}
}

func TestHandleGet_RoundTrip(t *testing.T) {
	r, session := newTestRouter()
	id := saveCard(t, session, "Birthday")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cards/"+id, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status: got %d, want %d", rec.Code, http.StatusOK)
	}
	var card core.SavedCard
	if err := json.NewDecoder(rec.Body).Decode(&card); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if card.ID != id {
		t.Errorf("ID: got %q, want %q", card.ID, id)
	}
	if len(card.Elements) != 1 || card.Elements[0].Text == nil || card.Elements[0].Text.Text != "Hi" {
		t.Errorf("Elements did not round-trip: %+v", card.Elements)
	}
}

func TestHandleGet_NotFound(t *testing.T) {
	r, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cards/missing", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleDelete(t *testing.T) {
	r, session := newTestRouter()
	id := saveCard(t, session, "Doomed")

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cards/"+id, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("Status: got %d, want %d", rec.Code, http.StatusNoContent)
	}
	if _, ok := session.SavedCard(id); ok {
		t.Error("Card still present after delete")
	}
}

func TestHandleIncrementViews(t *testing.T) {
	r, session := newTestRouter()
	id := saveCard(t, session, "Popular")

	for want := 1; want <= 2; want++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cards/"+id+"/views", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Status: got %d, want %d", rec.Code, http.StatusOK)
		}
		var resp ViewsResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if resp.Views != want {
			t.Errorf("Views: got %d, want %d", resp.Views, want)
		}
	}
}

func TestHandleIncrementViews_NotFound(t *testing.T) {
	r, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cards/missing/views", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleDuplicate(t *testing.T) {
	r, session := newTestRouter()
	id := saveCard(t, session, "Original")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cards/"+id+"/duplicate", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("Status: got %d, want %d", rec.Code, http.StatusCreated)
	}
	var resp SaveCardResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.ID == "" || resp.ID == id {
		t.Fatalf("Duplicate id invalid: %q", resp.ID)
	}

	copyRec, ok := session.SavedCard(resp.ID)
	if !ok {
		t.Fatal("Duplicate record not in collection")
	}
	if copyRec.Title != "Copy of Original" {
		t.Errorf("Duplicate title: got %q, want %q", copyRec.Title, "Copy of Original")
	}
	if _, ok := session.SavedCard(id); !ok {
		t.Error("Source record disappeared during duplicate")
	}
	if session.Card().ID != resp.ID {
		t.Errorf("Duplicate should leave the copy open in the editor, active id %q", session.Card().ID)
	}
}

func TestHandleDuplicate_NotFound(t *testing.T) {
	r, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cards/missing/duplicate", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}
