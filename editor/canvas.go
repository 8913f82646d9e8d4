package editor

import (
	"sort"
	"sync"

	"cardcraft/core"

	"github.com/sirupsen/logrus"
)

// ElementState is the interaction state of one element on the canvas.
type ElementState int

const (
	// StateIdle: not selected.
	StateIdle ElementState = iota
	// StateSelected: selected, shows the property editor.
	StateSelected
	// StateEditing: inline text editing, text variant only.
	StateEditing
)

func (s ElementState) String() string {
	switch s {
	case StateSelected:
		return "selected"
	case StateEditing:
		return "editing"
	default:
		return "idle"
	}
}

// Canvas routes pointer and keyboard gestures from the editing surface
// to session mutations, and owns the text-editing buffer. While an
// element is being edited, keystrokes accumulate in the buffer and are
// committed to the session in one update when editing ends; drags on
// the edited element are ignored.
type Canvas struct {
	mu      sync.Mutex
	session *Session

	editingID string
	pending   string
}

// NewCanvas creates an editing surface bound to the session.
func NewCanvas(session *Session) *Canvas {
	return &Canvas{session: session}
}

// State reports the interaction state of the element.
func (c *Canvas) State(id string) ElementState {
	c.mu.Lock()
	editing := c.editingID
	c.mu.Unlock()

	if editing == id {
		return StateEditing
	}
	if c.session.SelectedID() == id {
		return StateSelected
	}
	return StateIdle
}

// Click selects the element and brings it to the front. A click on a
// different element while another is being edited commits that edit
// first.
func (c *Canvas) Click(id string) {
	c.commitIfEditing(id)
	if _, ok := c.session.Element(id); !ok {
		return
	}
	c.session.SelectElement(id)
	c.session.BringElementToFront(id)
}

// DoubleClick puts a text element into inline editing, seeding the
// buffer with its current text. Other variants only get selected.
func (c *Canvas) DoubleClick(id string) {
	if c.isEditing(id) {
		return
	}
	c.Click(id)

	el, ok := c.session.Element(id)
	if !ok || el.Type != core.ElementText {
		return
	}

	c.mu.Lock()
	c.editingID = id
	c.pending = el.Text.Text
	c.mu.Unlock()
	logrus.WithField("element_id", id).Debug("Text editing started")
}

// ClickCanvas is a click on empty canvas: any in-flight edit is
// committed, then the selection is cleared.
func (c *Canvas) ClickCanvas() {
	c.commitIfEditing("")
	c.session.SelectElement("")
}

// TextInput records a keystroke into the editing buffer. Ignored when
// nothing is being edited. The buffer is display state; the session
// only sees it when editing ends.
func (c *Canvas) TextInput(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editingID == "" {
		return
	}
	c.pending = text
}

// KeyDown handles keyboard input while editing. Enter without shift
// commits and returns to selected; shift-Enter stays in the buffer as
// a newline, which TextInput already carries.
func (c *Canvas) KeyDown(key string, shift bool) {
	if key != "Enter" || shift {
		return
	}
	c.commitIfEditing("")
}

// Blur ends inline editing, committing the buffer.
func (c *Canvas) Blur() {
	c.commitIfEditing("")
}

// DragMove is a continuous position update during a drag. The gesture
// is ignored for the element currently being edited.
func (c *Canvas) DragMove(id string, x, y float64) {
	if c.isEditing(id) {
		return
	}
	c.session.MoveElement(id, x, y)
}

// DragStop finalizes a drag at the given position.
func (c *Canvas) DragStop(id string, x, y float64) {
	if c.isEditing(id) {
		return
	}
	c.session.MoveElement(id, x, y)
}

// RenderOrder returns the document's elements sorted for display:
// ascending z-index, insertion order breaking ties.
func (c *Canvas) RenderOrder() []core.Element {
	els := c.session.Card().Elements
	sort.SliceStable(els, func(i, j int) bool { return els[i].ZIndex < els[j].ZIndex })
	return els
}

func (c *Canvas) isEditing(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editingID == id
}

// commitIfEditing ends any in-flight edit, writing the buffer through
// the session when it changed. next is the element about to take focus
// ("" for none); an edit on that same element is left alone.
func (c *Canvas) commitIfEditing(next string) {
	c.mu.Lock()
	id := c.editingID
	pending := c.pending
	if id == "" || id == next {
		c.mu.Unlock()
		return
	}
	c.editingID = ""
	c.pending = ""
	c.mu.Unlock()

	el, ok := c.session.Element(id)
	if !ok {
		// Element removed mid-edit; the buffer has nowhere to go.
		return
	}
	if el.Type == core.ElementText && el.Text.Text != pending {
		c.session.UpdateElement(id, core.ElementUpdate{Text: &pending})
	}
	logrus.WithField("element_id", id).Debug("Text editing committed")
}
