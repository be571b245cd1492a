package draft

import (
	"github.com/npillmayer/draft/core/parameters"
	"github.com/npillmayer/draft/engine/document"
)

// Layer is a container whose style may override the style of its members.
type Layer struct {
	Group            []document.Handle
	OverrideChildren bool
	LineColor        uint32
	ShapeColor       uint32
	LineWidth        float64
	DrawStyle        document.Enum
	Transparency     int
}

// Type is "Layer".
func (l *Layer) Type() string { return "Layer" }

// Properties returns the property table.
func (l *Layer) Properties() []document.Property {
	return []document.Property{
		document.P(document.PropLinkList, "Group", "Layer", "The objects that are part of this layer", &l.Group),
		document.P(document.PropBool, "OverrideChildren", "Layer", "If on, the members of this layer take its style", &l.OverrideChildren),
		document.P(document.PropInteger, "LineColor", "Layer", "The line color of the members", &l.LineColor),
		document.P(document.PropInteger, "ShapeColor", "Layer", "The shape color of the members", &l.ShapeColor),
		document.P(document.PropFloat, "LineWidth", "Layer", "The line width of the members", &l.LineWidth),
		document.P(document.PropEnum, "DrawStyle", "Layer", "The draw style of the members", &l.DrawStyle),
		document.P(document.PropPercent, "Transparency", "Layer", "The transparency of the members", &l.Transparency),
	}
}

// Contents returns the member list.
func (l *Layer) Contents() *[]document.Handle { return &l.Group }

// Execute pushes the layer style to its members.
func (l *Layer) Execute(obj *document.Object) error {
	if !l.OverrideChildren {
		return nil
	}
	for _, m := range obj.Document().GroupContents(obj.Handle(), true) {
		if m.View == nil {
			continue
		}
		m.View.LineColor = l.LineColor
		m.View.ShapeColor = l.ShapeColor
		m.View.LineWidth = l.LineWidth
		m.View.DrawStyle = l.DrawStyle.Value
		m.View.Transparency = l.Transparency
	}
	return nil
}

// MakeLayer creates a layer styled after the current preferences. If no
// name is given, "Layer" is used.
func MakeLayer(doc *document.Document, name string) (*document.Object, error) {
	doc, err := activeDocument(doc)
	if err != nil {
		return nil, err
	}
	regs := parameters.Global()
	l := &Layer{
		OverrideChildren: true,
		LineColor:        regs.Uint(parameters.Color),
		ShapeColor:       regs.Uint(parameters.Color),
		LineWidth:        float64(regs.Int(parameters.LineWidth)),
		DrawStyle:        document.NewEnum("Solid", "Dashed", "Dotted", "Dashdot"),
	}
	if name == "" {
		name = "Layer"
	}
	return create(doc, document.GroupObject, l, settings([]Option{WithName(name), Unstyled(), Ungrouped()}))
}
