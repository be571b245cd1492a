package document

import (
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/engine/kernel"
)

// ViewObject holds the visual style of an object.
type ViewObject struct {
	LineColor    uint32 // 0xRRGGBBAA
	LineWidth    float64
	PointColor   uint32
	PointSize    float64
	ShapeColor   uint32
	Transparency int
	DrawStyle    string
	DisplayMode  string
	FontName     string
	FontSize     float64
	TextColor    uint32
	ArrowSize    float64
	Visibility   bool
}

// NewViewObject returns the default style.
func NewViewObject() *ViewObject {
	return &ViewObject{
		LineColor:   0x000000ff,
		LineWidth:   2,
		PointColor:  0x000000ff,
		PointSize:   2,
		ShapeColor:  0xccccccff,
		DrawStyle:   "Solid",
		DisplayMode: "Flat Lines",
		FontSize:    0.2,
		TextColor:   0x000000ff,
		ArrowSize:   0.1,
		Visibility:  true,
	}
}

// Properties returns the descriptor table of the style.
func (v *ViewObject) Properties() []Property {
	return []Property{
		P(PropInteger, "LineColor", "Draft", "Line colour as 0xRRGGBBAA", &v.LineColor),
		P(PropFloat, "LineWidth", "Draft", "Line width", &v.LineWidth),
		P(PropInteger, "PointColor", "Draft", "Point colour", &v.PointColor),
		P(PropFloat, "PointSize", "Draft", "Point size", &v.PointSize),
		P(PropInteger, "ShapeColor", "Draft", "Face colour", &v.ShapeColor),
		P(PropPercent, "Transparency", "Draft", "Face transparency", &v.Transparency),
		P(PropString, "DrawStyle", "Draft", "Line style", &v.DrawStyle),
		P(PropString, "DisplayMode", "Display", "Display mode", &v.DisplayMode),
		P(PropFont, "FontName", "Text", "Font name", &v.FontName),
		P(PropLength, "FontSize", "Text", "Font size", &v.FontSize),
		P(PropInteger, "TextColor", "Text", "Text colour", &v.TextColor),
		P(PropLength, "ArrowSize", "Draft", "Arrow size", &v.ArrowSize),
		P(PropBool, "Visibility", "Display", "Visibility", &v.Visibility),
	}
}

// Copy returns an independent copy of a style.
func (v *ViewObject) Copy() *ViewObject {
	c := *v
	return &c
}

// RenderSink receives the published geometry of recomputed objects.
type RenderSink interface {
	Render(obj *Object, pl geom.Placement, shape *kernel.Shape, style ViewObject)
}

// SinkFunc adapts a function to a RenderSink.
type SinkFunc func(obj *Object, pl geom.Placement, shape *kernel.Shape, style ViewObject)

// Render calls f.
func (f SinkFunc) Render(obj *Object, pl geom.Placement, shape *kernel.Shape, style ViewObject) {
	f(obj, pl, shape, style)
}

// SetRenderSink installs a sink; nil removes it.
func (doc *Document) SetRenderSink(sink RenderSink) {
	doc.sink = sink
}
