package cards

import (
	"net/http"

	"cardcraft/core"
	"cardcraft/editor"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

type (
	SaveCardResponse struct {
		ID               string `json:"id"`
		CapacityExceeded bool   `json:"capacityExceeded,omitempty"`
	}

	ViewsResponse struct {
		Views int `json:"views"`
	}
)

// HandleList returns the saved-card collection, newest first. The
// collection is hydrated from storage on every list, the way the
// my-cards page reloads cookies on mount.
func HandleList(session *editor.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := session.LoadAllCards(r.Context()); err != nil {
			logrus.WithError(err).Error("Failed to load saved cards")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to load saved cards"})
			return
		}

		cards := session.SavedCards()
		if cards == nil {
			cards = []core.SavedCard{}
		}
		render.JSON(w, r, cards)
	}
}

// HandleGet returns a single saved card by id.
func HandleGet(session *editor.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		card, ok := session.SavedCard(id)
		if !ok {
			logrus.WithField("card_id", id).Warn("Card not found")
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]string{"error": "Card not found"})
			return
		}
		render.JSON(w, r, card)
	}
}

// HandleDelete removes a saved card. Deleting the card open in the
// editor also resets the editor to a fresh document.
func HandleDelete(session *editor.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := session.DeleteCard(r.Context(), id); err != nil {
			logrus.WithError(err).WithField("card_id", id).Error("Failed to delete card")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to delete card"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleIncrementViews records one view of a saved card and returns
// the new count.
func HandleIncrementViews(session *editor.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := session.IncrementViews(r.Context(), id); err != nil {
			logrus.WithError(err).WithField("card_id", id).Error("Failed to record view")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to record view"})
			return
		}

		card, ok := session.SavedCard(id)
		if !ok {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]string{"error": "Card not found"})
			return
		}
		render.JSON(w, r, ViewsResponse{Views: card.Views})
	}
}

// HandleDuplicate copies a saved card into a new record. Duplication
// is composed from session primitives rather than being a store
// primitive: load the record, forget its identity, retitle, save. The
// copy is left open as the active editor document.
func HandleDuplicate(session *editor.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		src, ok := session.SavedCard(id)
		if !ok {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]string{"error": "Card not found"})
			return
		}

		session.LoadCard(id)
		session.ClearDocumentID()
		session.SetTitle("Copy of " + src.Title)

		newID, res, err := session.SaveCard(r.Context())
		if err != nil {
			logrus.WithError(err).WithField("card_id", id).Error("Failed to duplicate card")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to duplicate card"})
			return
		}

		logrus.WithFields(logrus.Fields{
			"card_id": id,
			"copy_id": newID,
		}).Info("Card duplicated")
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, SaveCardResponse{ID: newID, CapacityExceeded: res.CapacityExceeded})
	}
}
