package editorapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"cardcraft/core"
	"cardcraft/editor"
	"cardcraft/handlers/api/cards"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

type (
	// OpenRequest addresses the editing surface: both fields absent
	// means a fresh untitled card, an id means load that record, a
	// template title alone means a fresh card with that title.
	OpenRequest struct {
		ID       string `json:"id,omitempty"`
		Template string `json:"template,omitempty"`
	}

	AddElementRequest struct {
		Type core.ElementType `json:"type"`
		core.ElementUpdate
	}

	AddElementResponse struct {
		ID string `json:"id"`
	}

	SelectRequest struct {
		ID string `json:"id"`
	}

	TitleRequest struct {
		Title string `json:"title"`
	}

	BackgroundRequest struct {
		Color string `json:"color"`
	}

	// CanvasEventRequest is one pointer/keyboard gesture from the
	// editing surface.
	CanvasEventRequest struct {
		Event     string  `json:"event"` // click | dblclick | canvas-click | drag-move | drag-stop | input | key | blur
		ElementID string  `json:"elementId,omitempty"`
		X         float64 `json:"x,omitempty"`
		Y         float64 `json:"y,omitempty"`
		Text      string  `json:"text,omitempty"`
		Key       string  `json:"key,omitempty"`
		Shift     bool    `json:"shift,omitempty"`
	}

	// DocumentResponse is the editor state the surface renders from.
	DocumentResponse struct {
		core.Card
		SelectedElementID string `json:"selectedElementId,omitempty"`
	}
)

func document(session *editor.Session) DocumentResponse {
	return DocumentResponse{
		Card:              session.Card(),
		SelectedElementID: session.SelectedID(),
	}
}

// HandleOpen prepares the editor: hydrates the collection, then loads
// the addressed record, starts a template-titled card, or starts
// fresh.
func HandleOpen(session *editor.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req OpenRequest
		if r.Body != nil {
			// An empty or absent body means a fresh card.
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		if err := session.LoadAllCards(r.Context()); err != nil {
			logrus.WithError(err).Error("Failed to load saved cards")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to load saved cards"})
			return
		}

		switch {
		case req.ID != "":
			if !session.LoadCard(req.ID) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, map[string]string{"error": "Card not found"})
				return
			}
		case req.Template != "":
			session.CreateNewCard()
			session.SetTitle(strings.ReplaceAll(req.Template, "_", " "))
		default:
			session.CreateNewCard()
		}

		render.JSON(w, r, document(session))
	}
}

// HandleState returns the current editor document.
func HandleState(session *editor.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, document(session))
	}
}

// HandleAddElement creates an element of the requested variant with
// editor defaults, applies any overrides, and returns the new id.
func HandleAddElement(session *editor.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddElementRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.WithError(err).Error("Failed to decode request")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid request body"})
			return
		}

		var el core.Element
		switch req.Type {
		case core.ElementText:
			el = core.NewTextElement("Click to edit text")
		case core.ElementImage:
			el = core.NewImageElement("")
		case core.ElementShape:
			el = core.NewShapeElement(core.ShapeRectangle)
		default:
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Unknown element type"})
			return
		}
		el.Apply(req.ElementUpdate)

		id := session.AddElement(el)
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, AddElementResponse{ID: id})
	}
}

// HandleUpdateElement applies a partial update to an element. Unknown
// ids are a no-op by contract, so the response is 204 either way.
func HandleUpdateElement(session *editor.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var upd core.ElementUpdate
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			logrus.WithError(err).Error("Failed to decode request")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid request body"})
			return
		}

		session.UpdateElement(id, upd)
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleRemoveElement removes an element.
func HandleRemoveElement(session *editor.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session.RemoveElement(chi.URLParam(r, "id"))
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleSelect sets or clears the selection.
func HandleSelect(session *editor.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SelectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid request body"})
			return
		}
		session.SelectElement(req.ID)
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleBringToFront raises an element above all others.
func HandleBringToFront(session *editor.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session.BringElementToFront(chi.URLParam(r, "id"))
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleSendToBack lowers an element below all others.
func HandleSendToBack(session *editor.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session.SendElementToBack(chi.URLParam(r, "id"))
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleSetTitle replaces the card title.
func HandleSetTitle(session *editor.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TitleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid request body"})
			return
		}
		session.SetTitle(req.Title)
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleSetBackground replaces the card background color.
func HandleSetBackground(session *editor.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BackgroundRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid request body"})
			return
		}
		session.SetBackgroundColor(req.Color)
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleSave persists the active document and returns its id, plus the
// capacity signal when the collection outgrew the storage ceiling.
func HandleSave(session *editor.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, res, err := session.SaveCard(r.Context())
		if err != nil {
			logrus.WithError(err).WithField("card_id", id).Error("Failed to save card")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to save card"})
			return
		}
		render.JSON(w, r, cards.SaveCardResponse{ID: id, CapacityExceeded: res.CapacityExceeded})
	}
}

// HandleReset discards the active document (the Discard button).
func HandleReset(session *editor.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session.CreateNewCard()
		render.JSON(w, r, document(session))
	}
}

// HandleCanvasEvent routes one gesture through the canvas state
// machine and returns the resulting document.
func HandleCanvasEvent(session *editor.Session, canvas *editor.Canvas) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CanvasEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.WithError(err).Error("Failed to decode request")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid request body"})
			return
		}

		switch req.Event {
		case "click":
			canvas.Click(req.ElementID)
		case "dblclick":
			canvas.DoubleClick(req.ElementID)
		case "canvas-click":
			canvas.ClickCanvas()
		case "drag-move":
			canvas.DragMove(req.ElementID, req.X, req.Y)
		case "drag-stop":
			canvas.DragStop(req.ElementID, req.X, req.Y)
		case "input":
			canvas.TextInput(req.Text)
		case "key":
			canvas.KeyDown(req.Key, req.Shift)
		case "blur":
			canvas.Blur()
		default:
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Unknown canvas event"})
			return
		}

		render.JSON(w, r, document(session))
	}
}
