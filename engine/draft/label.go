package draft

import (
	"strings"

	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/core/parameters"
	"github.com/npillmayer/draft/core/units"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/kernel"
)

// Label types
const (
	LabelCustom   = "Custom"
	LabelName     = "Name"
	LabelLabel    = "Label"
	LabelPosition = "Position"
	LabelLength   = "Length"
	LabelArea     = "Area"
	LabelVolume   = "Volume"
	LabelTag      = "Tag"
	LabelMaterial = "Material"
)

// Label is a text with a leader pointing to a target. The text anchor is
// the base of the placement.
type Label struct {
	TargetPoint       geom.Vector
	StraightDirection document.Enum
	StraightDistance  float64
	Points            []geom.Vector
	LabelType         document.Enum
	Target            document.LinkSub
	CustomText        []string
	Text              []string
}

// Type is "Label".
func (l *Label) Type() string { return "Label" }

// Properties returns the property table.
func (l *Label) Properties() []document.Property {
	return []document.Property{
		document.P(document.PropVector, "TargetPoint", "Label", "The point indicated by this label", &l.TargetPoint),
		document.P(document.PropEnum, "StraightDirection", "Label", "The direction of the straight segment", &l.StraightDirection),
		document.P(document.PropDistance, "StraightDistance", "Label", "The length of the straight segment", &l.StraightDistance),
		document.P(document.PropVectorList, "Points", "Label", "The points defining the label polyline", &l.Points),
		document.P(document.PropEnum, "LabelType", "Label", "The type of information shown by this label", &l.LabelType),
		document.P(document.PropLinkSub, "Target", "Label", "The object this label is linked to", &l.Target),
		document.P(document.PropStringList, "CustomText", "Label", "The text to display when type is set to custom", &l.CustomText),
		document.P(document.PropStringList, "Text", "Label", "The text displayed by this label", &l.Text),
	}
}

// Execute computes the leader points and the text.
func (l *Label) Execute(obj *document.Object) error {
	anchor := obj.Placement.Base
	switch l.StraightDirection.Value {
	case "Horizontal":
		elbow := geom.Add(anchor, geom.Scale(l.StraightDistance, obj.Placement.ApplyDir(geom.XAxis)))
		l.Points = []geom.Vector{l.TargetPoint, elbow, anchor}
	case "Vertical":
		elbow := geom.Add(anchor, geom.Scale(l.StraightDistance, obj.Placement.ApplyDir(geom.YAxis)))
		l.Points = []geom.Vector{l.TargetPoint, elbow, anchor}
	default:
		if len(l.Points) != 3 {
			l.Points = []geom.Vector{l.TargetPoint, anchor, anchor}
		}
		l.Points[0], l.Points[2] = l.TargetPoint, anchor
	}
	text, err := l.text(obj.Document())
	if err != nil {
		return core.WrapError(err, core.Code(err), "%s: %s", obj.Name, core.UserMessage(err))
	}
	l.Text = text
	return nil
}

// text derives the label text from the label type and the target.
func (l *Label) text(doc *document.Document) ([]string, error) {
	if l.LabelType.Is(LabelCustom) {
		return append([]string{}, l.CustomText...), nil
	}
	target := doc.Get(l.Target.Object)
	if target == nil {
		return nil, nil
	}
	f := units.FromPreferences(parameters.Global())
	var sub *kernel.Shape
	if len(l.Target.Subs) > 0 && target.HasShape() {
		s, err := SubElement(target.Shape, l.Target.Subs[0])
		if err != nil {
			return nil, err
		}
		sub = s
	}
	measured := func() *kernel.Shape {
		if sub != nil {
			return sub
		}
		return target.Shape
	}
	switch l.LabelType.Value {
	case LabelName:
		return []string{target.Name}, nil
	case LabelLabel:
		return []string{target.Label}, nil
	case LabelPosition:
		p := target.Placement.Base
		if sub != nil && sub.Type() == kernel.VertexShape {
			p = sub.Point()
		}
		return []string{strings.Join([]string{f.Length(p.X), f.Length(p.Y), f.Length(p.Z)}, " ; ")}, nil
	case LabelLength:
		if s := measured(); !s.IsNull() {
			return []string{f.Length(s.Length())}, nil
		}
	case LabelArea:
		if s := measured(); !s.IsNull() {
			return []string{f.Area(s.Area())}, nil
		}
	case LabelVolume:
		if s := measured(); !s.IsNull() {
			return []string{f.Volume(s.Volume())}, nil
		}
	case LabelTag:
		return []string{target.Tag}, nil
	case LabelMaterial:
		return []string{target.Material}, nil
	}
	return nil, nil
}

// MakeLabel creates a label at position pointing to target point tp. The
// target link is optional.
func MakeLabel(doc *document.Document, tp, position geom.Vector, target document.LinkSub, labelType string, custom []string, opts ...Option) (*document.Object, error) {
	doc, err := activeDocument(doc)
	if err != nil {
		return nil, err
	}
	l := &Label{
		TargetPoint:       tp,
		StraightDirection: document.NewEnum("Horizontal", "Vertical", "Custom"),
		StraightDistance:  1,
		LabelType: document.NewEnum(LabelCustom, LabelName, LabelLabel, LabelPosition,
			LabelLength, LabelArea, LabelVolume, LabelTag, LabelMaterial),
		Target:     target,
		CustomText: custom,
	}
	if labelType != "" {
		found := false
		for _, c := range l.LabelType.Choices {
			found = found || c == labelType
		}
		if !found {
			return nil, core.Error(core.EINVALID, "unknown label type %q", labelType)
		}
		l.LabelType.Value = labelType
	}
	c := settings(opts)
	if c.placement == nil {
		pl := geom.Translation(position)
		c.placement = &pl
	}
	obj, err := create(doc, document.Annotation, l, c)
	if err != nil {
		return nil, err
	}
	obj.SetEditorMode("Text", document.ReadOnly)
	return obj, nil
}
