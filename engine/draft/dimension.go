package draft

import (
	"math"
	"strings"

	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/core/parameters"
	"github.com/npillmayer/draft/core/units"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/kernel"
)

// Dimension measures the distance between two points. The dimension line
// passes through Dimline.
type Dimension struct {
	Start          geom.Vector
	End            geom.Vector
	Dimline        geom.Vector
	Normal         geom.Vector
	Direction      geom.Vector
	LinkedGeometry []document.LinkSub
	Distance       float64
	Diameter       bool
	ShowUnit       bool
	Override       string
	Text           string
	radial         bool
}

// Type is "LinearDimension".
func (d *Dimension) Type() string { return "LinearDimension" }

// Properties returns the property table.
func (d *Dimension) Properties() []document.Property {
	return []document.Property{
		document.P(document.PropVector, "Start", "Dimension", "Startpoint of dimension", &d.Start),
		document.P(document.PropVector, "End", "Dimension", "Endpoint of dimension", &d.End),
		document.P(document.PropVector, "Dimline", "Dimension", "Point through which the dimension line passes", &d.Dimline),
		document.P(document.PropVector, "Normal", "Dimension", "The normal direction of this dimension", &d.Normal),
		document.P(document.PropVector, "Direction", "Dimension", "The direction the dimension line is forced to, if not null", &d.Direction),
		document.P(document.PropLinkSubList, "LinkedGeometry", "Dimension", "The geometry this dimension is linked to", &d.LinkedGeometry),
		document.P(document.PropLength, "Distance", "Dimension", "The measurement of this dimension", &d.Distance),
		document.P(document.PropBool, "Diameter", "Dimension", "For arc or circle dimensions, measure the diameter instead of the radius", &d.Diameter),
		document.P(document.PropBool, "ShowUnit", "Dimension", "Append the unit to the measurement", &d.ShowUnit),
		document.P(document.PropString, "Override", "Dimension", "A text replacing the measurement, $dim stands for the measurement", &d.Override),
		document.P(document.PropString, "Text", "Dimension", "The displayed text of the dimension", &d.Text),
	}
}

// resolve updates Start and End from the linked geometry.
func (d *Dimension) resolve(doc *document.Document) error {
	d.radial = false
	links := d.LinkedGeometry
	switch {
	case len(links) == 1 && len(links[0].Subs) == 2:
		p1, err := vertexOf(doc, links[0].Object, links[0].Subs[0])
		if err != nil {
			return err
		}
		p2, err := vertexOf(doc, links[0].Object, links[0].Subs[1])
		if err != nil {
			return err
		}
		d.Start, d.End = p1, p2
	case len(links) == 1:
		shapes, err := SubShapes(doc, links[0])
		if err != nil {
			return err
		}
		if len(shapes) != 1 || len(shapes[0].Edges()) != 1 {
			return core.Error(core.EPRECONDITION, "dimension link must be a single edge")
		}
		d.measureEdge(shapes[0].Edges()[0])
	case len(links) == 2:
		var pts [2]geom.Vector
		for i, l := range links {
			sub := ""
			if len(l.Subs) == 1 {
				sub = l.Subs[0]
			}
			p, err := vertexOf(doc, l.Object, sub)
			if err != nil {
				return err
			}
			pts[i] = p
		}
		d.Start, d.End = pts[0], pts[1]
	default:
		return core.Error(core.EPRECONDITION, "cannot resolve dimension with %d links", len(links))
	}
	return nil
}

// measureEdge takes the end points of a line, or points on a circle along
// the ray from its center towards Dimline.
func (d *Dimension) measureEdge(e *kernel.Edge) {
	c, ok := e.Circle()
	if !ok {
		d.Start, d.End = e.Start(), e.End()
		return
	}
	d.radial = true
	ray := geom.Sub(geom.ProjectOnPlane(d.Dimline, c.Center, c.Axis), c.Center)
	if geom.IsNull(ray) {
		ray = c.XDir
	}
	ray = geom.Scale(c.Radius, geom.Normalize(ray))
	d.End = geom.Add(c.Center, ray)
	if d.Diameter {
		d.Start = geom.Sub(c.Center, ray)
	} else {
		d.Start = c.Center
	}
}

// Execute updates the measurement and builds the dimension lines.
func (d *Dimension) Execute(obj *document.Object) error {
	if len(d.LinkedGeometry) > 0 {
		if err := d.resolve(obj.Document()); err != nil {
			return core.WrapError(err, core.Code(err), "%s: %s", obj.Name, core.UserMessage(err))
		}
	}
	p1, p2 := d.Start, d.End
	base := geom.Sub(d.End, d.Start)
	if !geom.IsNull(d.Direction) {
		dir := geom.Normalize(d.Direction)
		base = geom.Scale(geom.Dot(base, dir), dir)
	}
	d.Distance = geom.Length(base)
	d.Text = d.format(d.Distance)
	if d.Distance < geom.Epsilon() {
		publish(obj, nil)
		return nil
	}
	// the dimension line is offset from Start perpendicular to base
	off := geom.Sub(d.Dimline, p1)
	off = geom.Sub(off, geom.Project(off, base))
	q1 := geom.Add(p1, off)
	q2 := geom.Add(q1, base)
	var parts []*kernel.Shape
	if l, err := kernel.MakeLine(q1, q2); err == nil {
		parts = append(parts, l.Shape())
	}
	for _, ext := range [][2]geom.Vector{{p1, q1}, {p2, q2}} {
		if geom.Dist(ext[0], ext[1]) < geom.Epsilon() {
			continue
		}
		if l, err := kernel.MakeLine(ext[0], ext[1]); err == nil {
			parts = append(parts, l.Shape())
		}
	}
	obj.Placement = geom.IdentityPlacement()
	publish(obj, kernel.MakeCompound(parts...))
	return nil
}

// format returns the dimension text for a measurement.
func (d *Dimension) format(v float64) string {
	f := units.NewFormatter(parameters.Global().Int(parameters.DimPrecision), d.ShowUnit)
	s := f.Length(v)
	if d.radial {
		if d.Diameter {
			s = "Ø" + s
		} else {
			s = "R" + s
		}
	}
	if d.Override != "" {
		return strings.ReplaceAll(d.Override, "$dim", s)
	}
	return s
}

func newDimension(p1, p2, dimline geom.Vector) *Dimension {
	return &Dimension{Start: p1, End: p2, Dimline: dimline, Normal: geom.ZAxis}
}

// MakeDimension creates a dimension between two points.
func MakeDimension(doc *document.Document, p1, p2, dimline geom.Vector, opts ...Option) (*document.Object, error) {
	return makeDimension(doc, newDimension(p1, p2, dimline), opts)
}

// MakeLinkedDimension creates a dimension measuring linked geometry: one
// edge, two vertexes of one object, or one vertex of each of two objects.
func MakeLinkedDimension(doc *document.Document, links []document.LinkSub, dimline geom.Vector, diameter bool, opts ...Option) (*document.Object, error) {
	if len(links) == 0 || len(links) > 2 {
		return nil, core.Error(core.EPRECONDITION, "dimension needs one or two links, have %d", len(links))
	}
	d := newDimension(geom.Origin, geom.Origin, dimline)
	d.LinkedGeometry = append([]document.LinkSub{}, links...)
	d.Diameter = diameter
	return makeDimension(doc, d, opts)
}

func makeDimension(doc *document.Document, d *Dimension, opts []Option) (*document.Object, error) {
	doc, err := activeDocument(doc)
	if err != nil {
		return nil, err
	}
	obj, err := create(doc, document.Annotation, d, settings(opts))
	if err != nil {
		return nil, err
	}
	obj.SetEditorMode("Distance", document.ReadOnly)
	obj.SetEditorMode("Text", document.ReadOnly)
	return obj, nil
}

// AngularDimension measures the angle between two directions around a
// center. Angles are given in degrees.
type AngularDimension struct {
	Center         geom.Vector
	FirstAngle     float64
	LastAngle      float64
	Dimline        geom.Vector
	Normal         geom.Vector
	LinkedGeometry []document.LinkSub
	Angle          float64
	Text           string
}

// Type is "AngularDimension".
func (ad *AngularDimension) Type() string { return "AngularDimension" }

// Properties returns the property table.
func (ad *AngularDimension) Properties() []document.Property {
	return []document.Property{
		document.P(document.PropVector, "Center", "Dimension", "The center point of this dimension", &ad.Center),
		document.P(document.PropAngle, "FirstAngle", "Dimension", "Start angle of the dimension", &ad.FirstAngle),
		document.P(document.PropAngle, "LastAngle", "Dimension", "End angle of the dimension", &ad.LastAngle),
		document.P(document.PropVector, "Dimline", "Dimension", "Point through which the dimension arc passes", &ad.Dimline),
		document.P(document.PropVector, "Normal", "Dimension", "The normal direction of this dimension", &ad.Normal),
		document.P(document.PropLinkSubList, "LinkedGeometry", "Dimension", "The two edges this dimension measures", &ad.LinkedGeometry),
		document.P(document.PropAngle, "Angle", "Dimension", "The measurement of this dimension", &ad.Angle),
		document.P(document.PropString, "Text", "Dimension", "The displayed text of the dimension", &ad.Text),
	}
}

// resolve sets the center and the angles from two linked line edges.
func (ad *AngularDimension) resolve(doc *document.Document) error {
	var lines []*kernel.Line
	for _, l := range ad.LinkedGeometry {
		shapes, err := SubShapes(doc, l)
		if err != nil {
			return err
		}
		for _, s := range shapes {
			for _, e := range s.Edges() {
				if ln, ok := e.Line(); ok {
					lines = append(lines, ln)
				}
			}
		}
	}
	if len(lines) != 2 {
		return core.Error(core.EPRECONDITION, "angular dimension needs two straight edges, have %d", len(lines))
	}
	e1, _ := kernel.MakeLine(lines[0].P1, lines[0].P2)
	e2, _ := kernel.MakeLine(lines[1].P1, lines[1].P2)
	xs := kernel.Intersect(e1, e2, true, true)
	if len(xs) == 0 {
		return core.Error(core.EGEOMETRY, "edges of angular dimension do not intersect")
	}
	ad.Center = xs[0]
	u, _ := geom.PlaneBasis(ad.Normal)
	dirAway := func(l *kernel.Line) geom.Vector {
		if geom.Dist(l.P1, ad.Center) > geom.Dist(l.P2, ad.Center) {
			return geom.Sub(l.P1, ad.Center)
		}
		return geom.Sub(l.P2, ad.Center)
	}
	ad.FirstAngle = units.Degrees(geom.SignedAngle(u, dirAway(lines[0]), ad.Normal))
	ad.LastAngle = units.Degrees(geom.SignedAngle(u, dirAway(lines[1]), ad.Normal))
	return nil
}

// Execute normalizes the angles and builds the dimension arc.
func (ad *AngularDimension) Execute(obj *document.Object) error {
	if geom.IsNull(ad.Normal) {
		ad.Normal = geom.ZAxis
	}
	if len(ad.LinkedGeometry) > 0 {
		if err := ad.resolve(obj.Document()); err != nil {
			return core.WrapError(err, core.Code(err), "%s: %s", obj.Name, core.UserMessage(err))
		}
	}
	ad.FirstAngle = units.NormalizeDeg(ad.FirstAngle)
	ad.LastAngle = units.NormalizeDeg(ad.LastAngle)
	ad.Angle = units.NormalizeDeg(ad.LastAngle - ad.FirstAngle)
	ad.Text = units.FromPreferences(parameters.Global()).Angle(ad.Angle)
	r := geom.Dist(geom.ProjectOnPlane(ad.Dimline, ad.Center, ad.Normal), ad.Center)
	if r < geom.Epsilon() || ad.Angle < geom.Epsilon() {
		publish(obj, nil)
		return nil
	}
	u, _ := geom.PlaneBasis(ad.Normal)
	arc, err := kernel.MakeArc(ad.Center, ad.Normal, u, r,
		units.Radians(ad.FirstAngle), units.Radians(ad.FirstAngle)+units.Radians(ad.Angle))
	if err != nil {
		return core.WrapError(err, core.EGEOMETRY, "%s: cannot build dimension arc", obj.Name)
	}
	obj.Placement = geom.IdentityPlacement()
	publish(obj, arc.Shape())
	return nil
}

// MakeAngularDimension creates an angular dimension around center. Angles
// are in degrees.
func MakeAngularDimension(doc *document.Document, center geom.Vector, first, last float64, dimline geom.Vector, opts ...Option) (*document.Object, error) {
	doc, err := activeDocument(doc)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(first) || math.IsNaN(last) {
		return nil, core.Error(core.EPRECONDITION, "angles of dimension are not numbers")
	}
	ad := &AngularDimension{
		Center: center, FirstAngle: first, LastAngle: last,
		Dimline: dimline, Normal: geom.ZAxis,
	}
	obj, err := create(doc, document.Annotation, ad, settings(opts))
	if err != nil {
		return nil, err
	}
	obj.SetEditorMode("Angle", document.ReadOnly)
	return obj, nil
}
