package modifiers

import (
	"math"

	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/core/units"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/draft"
	"github.com/npillmayer/draft/engine/kernel"
)

// pointMap transforms world points.
type pointMap func(geom.Vector) geom.Vector

// annotationPoints lists the properties of annotations holding world
// points, which are transformed instead of the placement.
var annotationPoints = map[string][]string{
	"LinearDimension":  {"Start", "End", "Dimline"},
	"AngularDimension": {"Center", "Dimline"},
	"Label":            {"TargetPoint"},
}

// mapPoints transforms vector properties of an object.
func mapPoints(obj *document.Object, f pointMap, props ...string) error {
	for _, name := range props {
		v, err := obj.GetProperty(name)
		if err != nil {
			return err
		}
		if err := obj.SetProperty(name, f(v.(geom.Vector))); err != nil {
			return err
		}
	}
	return nil
}

// selection expands groups to their members and drops objects which must
// not be modified.
func selection(objs []*document.Object) []*document.Object {
	var flat []*document.Object
	seen := make(map[document.Handle]bool)
	for _, obj := range FilterObjectsForModifiers(objs) {
		members := []*document.Object{obj}
		if document.IsGroup(obj) {
			members = obj.Document().GroupContents(obj.Handle(), true)
		}
		for _, m := range members {
			if !seen[m.Handle()] && !document.IsGroup(m) {
				seen[m.Handle()] = true
				flat = append(flat, m)
			}
		}
	}
	return flat
}

// --- Move ------------------------------------------------------------------

// Move translates objects by v. With copy set, the objects are duplicated
// first and the copies are moved. Groups move with all of their members.
func Move(objs []*document.Object, v geom.Vector, copy bool) (*Result, error) {
	doc, err := documentOf(objs)
	if err != nil {
		return nil, err
	}
	return run(doc, "Move", false, func(r *Result) error {
		for _, obj := range selection(objs) {
			if copy {
				obj = copyObject(obj)
				r.add(obj)
			}
			if err := moveObject(obj, v); err != nil {
				return err
			}
		}
		return nil
	})
}

func moveObject(obj *document.Object, v geom.Vector) error {
	shift := func(p geom.Vector) geom.Vector { return geom.Add(p, v) }
	if props, ok := annotationPoints[obj.ProxyType()]; ok {
		if err := mapPoints(obj, shift, props...); err != nil {
			return err
		}
		if !obj.IsA("Label") {
			return nil
		}
	}
	pl := obj.Placement
	pl.Base = shift(pl.Base)
	return obj.SetProperty("Placement", pl)
}

// --- Rotate ----------------------------------------------------------------

// Rotate turns objects by angle (degrees) around the axis through center.
func Rotate(objs []*document.Object, angle float64, center, axis geom.Vector, copy bool) (*Result, error) {
	doc, err := documentOf(objs)
	if err != nil {
		return nil, err
	}
	if geom.IsNull(axis) {
		return nil, core.Error(core.EPRECONDITION, "rotation axis is null")
	}
	rad := units.Radians(angle)
	rot := geom.NewRotation(axis, rad)
	about := geom.NewPlacement(geom.Sub(center, rot.Apply(center)), rot)
	return run(doc, "Rotate", false, func(r *Result) error {
		for _, obj := range selection(objs) {
			if copy {
				obj = copyObject(obj)
				r.add(obj)
			}
			if err := rotateObject(obj, about); err != nil {
				return err
			}
		}
		return nil
	})
}

func rotateObject(obj *document.Object, about geom.Placement) error {
	if props, ok := annotationPoints[obj.ProxyType()]; ok {
		if err := mapPoints(obj, about.Apply, props...); err != nil {
			return err
		}
		if n, err := obj.GetProperty("Normal"); err == nil && !geom.IsNull(n.(geom.Vector)) {
			if err := obj.SetProperty("Normal", about.ApplyDir(n.(geom.Vector))); err != nil {
				return err
			}
		}
		if !obj.IsA("Label") {
			return nil
		}
	}
	return obj.SetProperty("Placement", about.Multiply(obj.Placement))
}

// --- Scale -----------------------------------------------------------------

// Scale resizes objects by factor around center. Rectangles, circles,
// polygons and point based entities keep their type and have their
// parameters changed; other objects are replaced by plain features with
// a scaled shape. Replaced originals are deleted unless copy is set.
func Scale(objs []*document.Object, factor, center geom.Vector, copy bool) (*Result, error) {
	doc, err := documentOf(objs)
	if err != nil {
		return nil, err
	}
	if math.Abs(factor.X*factor.Y*factor.Z) < geom.Epsilon() {
		return nil, core.Error(core.EPRECONDITION, "scale factor %s has a null component", geom.VString(factor))
	}
	m := geom.ScaleMatrix(factor, center)
	return run(doc, "Scale", !copy, func(r *Result) error {
		for _, obj := range selection(objs) {
			target := obj
			if copy {
				target = copyObject(obj)
			}
			done, err := scaleParametric(target, m, factor)
			if err != nil {
				return err
			}
			if done {
				if copy {
					r.add(target)
				}
				continue
			}
			if copy {
				if err := doc.RemoveObject(target.Handle(), false); err != nil {
					return err
				}
			}
			if !obj.HasShape() {
				continue
			}
			r.add(newFeature(doc, obj.Name, obj.Shape.TransformGeometry(m), obj))
			if !copy {
				r.remove(obj)
			}
		}
		return nil
	})
}

// scaleParametric scales an entity by changing its parameters. It returns
// false if the entity cannot be scaled this way.
func scaleParametric(obj *document.Object, m geom.Matrix, factor geom.Vector) (bool, error) {
	uniform := math.Abs(factor.X-factor.Y) < geom.Epsilon() && math.Abs(factor.Y-factor.Z) < geom.Epsilon()
	if props, ok := annotationPoints[obj.ProxyType()]; ok {
		if err := mapPoints(obj, m.Apply, props...); err != nil {
			return false, err
		}
		if obj.IsA("Label") {
			pl := obj.Placement
			pl.Base = m.Apply(pl.Base)
			return true, obj.SetProperty("Placement", pl)
		}
		return true, nil
	}
	switch p := obj.Proxy.(type) {
	case *draft.Rectangle:
		corners := globalPoints(obj, p.Corners())
		for i := range corners {
			corners[i] = m.Apply(corners[i])
		}
		u, v := geom.Sub(corners[1], corners[0]), geom.Sub(corners[3], corners[0])
		if math.Abs(geom.Dot(geom.Normalize(u), geom.Normalize(v))) > geom.Epsilon() {
			return false, nil // sheared
		}
		pl := obj.Placement
		pl.Base = corners[0]
		if err := obj.SetProperty("Placement", pl); err != nil {
			return false, err
		}
		if err := obj.SetProperty("Length", math.Copysign(geom.Length(u), p.Length)); err != nil {
			return false, err
		}
		return true, obj.SetProperty("Height", math.Copysign(geom.Length(v), p.Height))
	case *draft.Circle, *draft.Polygon:
		if !uniform {
			return false, nil
		}
		r, _ := obj.GetProperty("Radius")
		pl := obj.Placement
		pl.Base = m.Apply(pl.Base)
		if err := obj.SetProperty("Placement", pl); err != nil {
			return false, err
		}
		return true, obj.SetProperty("Radius", r.(float64)*math.Abs(factor.X))
	case *draft.Point:
		pl := obj.Placement
		pl.Base = m.Apply(p.Position())
		return true, obj.SetProperty("Placement", pl)
	case draft.PointList:
		pts := *p.PointsRef()
		scaled := make([]geom.Vector, len(pts))
		for i, q := range pts {
			scaled[i] = obj.Placement.ApplyInverse(m.Apply(obj.Placement.Apply(q)))
		}
		return true, obj.SetProperty("Points", scaled)
	}
	if obj.Proxy == nil && obj.HasShape() {
		obj.Shape = obj.Shape.TransformGeometry(m)
		return true, nil
	}
	return false, nil
}

func globalPoints(obj *document.Object, pts []geom.Vector) []geom.Vector {
	g := make([]geom.Vector, len(pts))
	for i, p := range pts {
		g[i] = obj.Placement.Apply(p)
	}
	return g
}

// --- Mirror ----------------------------------------------------------------

// Mirroring is a mirrored image of a source object. The mirror plane runs
// through Base with normal Normal.
type Mirroring struct {
	Source document.Handle
	Base   geom.Vector
	Normal geom.Vector
}

// Type is "Mirroring".
func (mi *Mirroring) Type() string { return "Mirroring" }

// Properties returns the property table.
func (mi *Mirroring) Properties() []document.Property {
	return []document.Property{
		document.P(document.PropLink, "Source", "Mirroring", "The object to mirror", &mi.Source),
		document.P(document.PropVector, "Base", "Mirroring", "A point on the mirror plane", &mi.Base),
		document.P(document.PropVector, "Normal", "Mirroring", "The normal of the mirror plane", &mi.Normal),
	}
}

// Execute reflects the shape of the source.
func (mi *Mirroring) Execute(obj *document.Object) error {
	src := obj.Document().Get(mi.Source)
	if src == nil || !src.HasShape() {
		return core.Error(core.EMISSING, "%s: source has no shape", obj.Name)
	}
	if geom.IsNull(mi.Normal) {
		return core.Error(core.EINVARIANT, "%s: mirror plane has no normal", obj.Name)
	}
	obj.Shape = src.Shape.TransformGeometry(geom.MirrorMatrix(mi.Base, mi.Normal))
	return nil
}

// Mirror creates mirrored images of objects. The mirror plane contains the
// line from p1 to p2 and the direction normal, usually the axis of the
// working plane.
func Mirror(objs []*document.Object, p1, p2, normal geom.Vector) (*Result, error) {
	doc, err := documentOf(objs)
	if err != nil {
		return nil, err
	}
	if geom.Coincident(p1, p2) {
		return nil, core.Error(core.EINVARIANT, "mirror points coincide")
	}
	n := geom.Cross(geom.Sub(p2, p1), normal)
	if geom.IsNull(n) {
		return nil, core.Error(core.EINVARIANT, "mirror line is parallel to the normal")
	}
	n = geom.Normalize(n)
	return run(doc, "Mirror", false, func(r *Result) error {
		for _, obj := range selection(objs) {
			if !obj.HasShape() {
				continue
			}
			mo := doc.AddObject(document.PartFeature, "Mirror", &Mirroring{Source: obj.Handle(), Base: p1, Normal: n})
			mo.Label = obj.Label + " (Mirror)"
			inherit(mo, obj)
			r.add(mo)
		}
		return nil
	})
}

// kernelShapes collects the shapes of objects.
func kernelShapes(objs []*document.Object) []*kernel.Shape {
	var shapes []*kernel.Shape
	for _, obj := range objs {
		if obj.HasShape() {
			shapes = append(shapes, obj.Shape)
		}
	}
	return shapes
}
