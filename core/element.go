package core

import (
	"encoding/json"
	"fmt"
)

type (
	// ElementType tags the variant of a card element.
	ElementType string

	// Alignment is the horizontal text alignment of a text element.
	Alignment string

	// ShapeKind selects the geometry of a shape element.
	ShapeKind string
)

const (
	ElementText  ElementType = "text"
	ElementImage ElementType = "image"
	ElementShape ElementType = "shape"

	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"

	ShapeRectangle ShapeKind = "rectangle"
	ShapeCircle    ShapeKind = "circle"
	ShapeTriangle  ShapeKind = "triangle"
)

type (
	// TextProps holds the fields that only exist on text elements.
	TextProps struct {
		Text       string    `json:"text"`
		FontSize   float64   `json:"fontSize"`
		FontFamily string    `json:"fontFamily"`
		Color      string    `json:"color"`
		Bold       bool      `json:"bold"`
		Italic     bool      `json:"italic"`
		Underline  bool      `json:"underline"`
		Alignment  Alignment `json:"alignment"`
	}

	// ImageProps holds the fields that only exist on image elements.
	ImageProps struct {
		Src string `json:"src"`
		Alt string `json:"alt"`
	}

	// ShapeProps holds the fields that only exist on shape elements.
	ShapeProps struct {
		Shape           ShapeKind `json:"shape"`
		BackgroundColor string    `json:"backgroundColor"`
		BorderColor     string    `json:"borderColor"`
		BorderWidth     float64   `json:"borderWidth"`
	}

	// Element is a single item placed on a card. ID and Type are
	// assigned at creation and never change afterwards. Exactly one of
	// the variant prop pointers is set, matching Type.
	Element struct {
		ID       string
		Type     ElementType
		X        float64
		Y        float64
		Width    float64
		Height   float64
		Rotation float64
		ZIndex   int

		Text  *TextProps
		Image *ImageProps
		Shape *ShapeProps
	}
)

// elementWire is the flat JSON form of an element: common fields plus
// the variant fields inlined at the top level. This layout is the
// persisted format and must stay stable for round-trip correctness.
type elementWire struct {
	ID       string      `json:"id"`
	Type     ElementType `json:"type"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	Rotation float64     `json:"rotation"`
	ZIndex   int         `json:"zIndex"`

	*TextProps
	*ImageProps
	*ShapeProps
}

func (e Element) MarshalJSON() ([]byte, error) {
	w := elementWire{
		ID:       e.ID,
		Type:     e.Type,
		X:        e.X,
		Y:        e.Y,
		Width:    e.Width,
		Height:   e.Height,
		Rotation: e.Rotation,
		ZIndex:   e.ZIndex,
	}
	switch e.Type {
	case ElementText:
		w.TextProps = e.Text
	case ElementImage:
		w.ImageProps = e.Image
	case ElementShape:
		w.ShapeProps = e.Shape
	}
	return json.Marshal(w)
}

func (e *Element) UnmarshalJSON(data []byte) error {
	var w elementWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*e = Element{
		ID:       w.ID,
		Type:     w.Type,
		X:        w.X,
		Y:        w.Y,
		Width:    w.Width,
		Height:   w.Height,
		Rotation: w.Rotation,
		ZIndex:   w.ZIndex,
	}
	// Keep only the props belonging to the tagged variant; stray keys
	// from other variants are dropped rather than attached.
	switch w.Type {
	case ElementText:
		if w.TextProps == nil {
			w.TextProps = &TextProps{}
		}
		e.Text = w.TextProps
	case ElementImage:
		if w.ImageProps == nil {
			w.ImageProps = &ImageProps{}
		}
		e.Image = w.ImageProps
	case ElementShape:
		if w.ShapeProps == nil {
			w.ShapeProps = &ShapeProps{}
		}
		e.Shape = w.ShapeProps
	default:
		return fmt.Errorf("unknown element type %q", w.Type)
	}
	return nil
}

// Clone returns a deep copy so callers can hand elements across the
// store boundary without aliasing variant props.
func (e Element) Clone() Element {
	c := e
	if e.Text != nil {
		t := *e.Text
		c.Text = &t
	}
	if e.Image != nil {
		i := *e.Image
		c.Image = &i
	}
	if e.Shape != nil {
		s := *e.Shape
		c.Shape = &s
	}
	return c
}

// NewTextElement returns an unsaved text element with the editor's
// default styling at the default spawn position.
func NewTextElement(text string) Element {
	return Element{
		Type:     ElementText,
		X:        100,
		Y:        100,
		Width:    200,
		Height:   50,
		Rotation: 0,
		ZIndex:   1,
		Text: &TextProps{
			Text:       text,
			FontSize:   16,
			FontFamily: "Arial",
			Color:      "#000000",
			Alignment:  AlignCenter,
		},
	}
}

// NewImageElement returns an unsaved image element for the given source.
func NewImageElement(src string) Element {
	return Element{
		Type:   ElementImage,
		X:      100,
		Y:      100,
		Width:  200,
		Height: 200,
		ZIndex: 1,
		Image: &ImageProps{
			Src: src,
			Alt: "Image",
		},
	}
}

// NewShapeElement returns an unsaved shape element of the given kind.
func NewShapeElement(kind ShapeKind) Element {
	return Element{
		Type:   ElementShape,
		X:      100,
		Y:      100,
		Width:  100,
		Height: 100,
		ZIndex: 1,
		Shape: &ShapeProps{
			Shape:           kind,
			BackgroundColor: "#FFFFFF",
			BorderColor:     "#000000",
			BorderWidth:     1,
		},
	}
}

// ElementUpdate is a partial field merge for an element. Nil fields are
// left untouched. Identity (ID) and the variant tag (Type) are not
// updatable. Variant fields are applied only when they belong to the
// addressed element's variant; foreign fields are ignored so a stray
// fontSize can never attach to a shape.
type ElementUpdate struct {
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Width    *float64 `json:"width,omitempty"`
	Height   *float64 `json:"height,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`
	ZIndex   *int     `json:"zIndex,omitempty"`

	Text       *string    `json:"text,omitempty"`
	FontSize   *float64   `json:"fontSize,omitempty"`
	FontFamily *string    `json:"fontFamily,omitempty"`
	Color      *string    `json:"color,omitempty"`
	Bold       *bool      `json:"bold,omitempty"`
	Italic     *bool      `json:"italic,omitempty"`
	Underline  *bool      `json:"underline,omitempty"`
	Alignment  *Alignment `json:"alignment,omitempty"`

	Src *string `json:"src,omitempty"`
	Alt *string `json:"alt,omitempty"`

	Shape           *ShapeKind `json:"shape,omitempty"`
	BackgroundColor *string    `json:"backgroundColor,omitempty"`
	BorderColor     *string    `json:"borderColor,omitempty"`
	BorderWidth     *float64   `json:"borderWidth,omitempty"`
}

// Apply merges the update into the element.
func (e *Element) Apply(u ElementUpdate) {
	if u.X != nil {
		e.X = *u.X
	}
	if u.Y != nil {
		e.Y = *u.Y
	}
	if u.Width != nil {
		e.Width = *u.Width
	}
	if u.Height != nil {
		e.Height = *u.Height
	}
	if u.Rotation != nil {
		e.Rotation = *u.Rotation
	}
	if u.ZIndex != nil {
		e.ZIndex = *u.ZIndex
	}

	switch e.Type {
	case ElementText:
		if e.Text == nil {
			e.Text = &TextProps{}
		}
		if u.Text != nil {
			e.Text.Text = *u.Text
		}
		if u.FontSize != nil {
			e.Text.FontSize = *u.FontSize
		}
		if u.FontFamily != nil {
			e.Text.FontFamily = *u.FontFamily
		}
		if u.Color != nil {
			e.Text.Color = *u.Color
		}
		if u.Bold != nil {
			e.Text.Bold = *u.Bold
		}
		if u.Italic != nil {
			e.Text.Italic = *u.Italic
		}
		if u.Underline != nil {
			e.Text.Underline = *u.Underline
		}
		if u.Alignment != nil {
			e.Text.Alignment = *u.Alignment
		}
	case ElementImage:
		if e.Image == nil {
			e.Image = &ImageProps{}
		}
		if u.Src != nil {
			e.Image.Src = *u.Src
		}
		if u.Alt != nil {
			e.Image.Alt = *u.Alt
		}
	case ElementShape:
		if e.Shape == nil {
			e.Shape = &ShapeProps{}
		}
		if u.Shape != nil {
			e.Shape.Shape = *u.Shape
		}
		if u.BackgroundColor != nil {
			e.Shape.BackgroundColor = *u.BackgroundColor
		}
		if u.BorderColor != nil {
			e.Shape.BorderColor = *u.BorderColor
		}
		if u.BorderWidth != nil {
			e.Shape.BorderWidth = *u.BorderWidth
		}
	}
}
