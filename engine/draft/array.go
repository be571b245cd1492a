package draft

import (
	"math"

	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/core/units"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/kernel"
)

// Array replicates a base object on an orthogonal grid, around an axis or
// on concentric rings.
type Array struct {
	Base               document.Handle
	ArrayType          document.Enum
	IntervalX          geom.Vector
	IntervalY          geom.Vector
	IntervalZ          geom.Vector
	NumberX            int
	NumberY            int
	NumberZ            int
	Axis               geom.Vector
	Center             geom.Vector
	Angle              float64
	NumberPolar        int
	IntervalAxis       geom.Vector
	RadialDistance     float64
	TangentialDistance float64
	NumberCircles      int
	Symmetry           int
	Fuse               bool
	ExpandArray        bool
	PlacementList      []geom.Placement
	Count              int
	Elements           []document.Handle // children published by ExpandArray
}

// Type is "Array".
func (a *Array) Type() string { return "Array" }

// Properties returns the property table.
func (a *Array) Properties() []document.Property {
	return []document.Property{
		document.P(document.PropLink, "Base", "Objects", "The base object that will be duplicated", &a.Base),
		document.P(document.PropEnum, "ArrayType", "Objects", "The type of array to create", &a.ArrayType),
		document.P(document.PropVector, "IntervalX", "Orthogonal array", "Distance and orientation of intervals in X direction", &a.IntervalX),
		document.P(document.PropVector, "IntervalY", "Orthogonal array", "Distance and orientation of intervals in Y direction", &a.IntervalY),
		document.P(document.PropVector, "IntervalZ", "Orthogonal array", "Distance and orientation of intervals in Z direction", &a.IntervalZ),
		document.P(document.PropInteger, "NumberX", "Orthogonal array", "Number of copies in X direction", &a.NumberX),
		document.P(document.PropInteger, "NumberY", "Orthogonal array", "Number of copies in Y direction", &a.NumberY),
		document.P(document.PropInteger, "NumberZ", "Orthogonal array", "Number of copies in Z direction", &a.NumberZ),
		document.P(document.PropVector, "Axis", "Objects", "The axis direction around which the elements will be created", &a.Axis),
		document.P(document.PropVector, "Center", "Objects", "The center point of the polar or circular array", &a.Center),
		document.P(document.PropAngle, "Angle", "Polar array", "The angle to cover with copies", &a.Angle),
		document.P(document.PropInteger, "NumberPolar", "Polar array", "Number of copies in the polar direction", &a.NumberPolar),
		document.P(document.PropVector, "IntervalAxis", "Polar array", "Distance and orientation of intervals in Axis direction", &a.IntervalAxis),
		document.P(document.PropDistance, "RadialDistance", "Circular array", "Distance between circular layers", &a.RadialDistance),
		document.P(document.PropDistance, "TangentialDistance", "Circular array", "Distance between copies in the same circular layer", &a.TangentialDistance),
		document.P(document.PropInteger, "NumberCircles", "Circular array", "Number of circular layers, including the base object", &a.NumberCircles),
		document.P(document.PropInteger, "Symmetry", "Circular array", "Number of copies in a layer is a multiple of this", &a.Symmetry),
		document.P(document.PropBool, "Fuse", "Objects", "Fuse copies which touch or overlap", &a.Fuse),
		document.P(document.PropBool, "ExpandArray", "Objects", "Publish the elements of the array as children", &a.ExpandArray),
		document.P(document.PropPlaceList, "PlacementList", "Objects", "The placement of each element", &a.PlacementList),
		document.P(document.PropInteger, "Count", "Objects", "Total number of elements in the array", &a.Count),
	}
}

// Placements computes the element placements relative to the base.
func (a *Array) Placements() ([]geom.Placement, error) {
	switch a.ArrayType.Value {
	case "ortho":
		return a.ortho()
	case "polar":
		return a.polar()
	case "circular":
		return a.circular()
	}
	return nil, core.Error(core.EINVALID, "unknown array type %q", a.ArrayType.Value)
}

func (a *Array) ortho() ([]geom.Placement, error) {
	if a.NumberX < 1 || a.NumberY < 1 || a.NumberZ < 1 {
		return nil, core.Error(core.EINVARIANT, "ortho array needs at least 1 element per direction, has %dx%dx%d",
			a.NumberX, a.NumberY, a.NumberZ)
	}
	var pls []geom.Placement
	for ix := 0; ix < a.NumberX; ix++ {
		for iy := 0; iy < a.NumberY; iy++ {
			for iz := 0; iz < a.NumberZ; iz++ {
				d := geom.Add(geom.Scale(float64(ix), a.IntervalX),
					geom.Add(geom.Scale(float64(iy), a.IntervalY), geom.Scale(float64(iz), a.IntervalZ)))
				pls = append(pls, geom.Translation(d))
			}
		}
	}
	return pls, nil
}

// rotationAbout returns the placement rotating by angle around the axis
// through the center.
func rotationAbout(center, axis geom.Vector, angle float64) geom.Placement {
	rot := geom.NewRotation(axis, angle)
	return geom.NewPlacement(geom.Sub(center, rot.Apply(center)), rot)
}

func (a *Array) polar() ([]geom.Placement, error) {
	n := a.NumberPolar
	if n < 1 {
		return nil, core.Error(core.EINVARIANT, "polar array needs at least 1 element, has %d", n)
	}
	if geom.IsNull(a.Axis) {
		return nil, core.Error(core.EINVARIANT, "polar array axis is null")
	}
	var step float64
	switch {
	case math.Abs(math.Abs(a.Angle)-360) < geom.Epsilon():
		step = a.Angle / float64(n)
	case n > 1:
		step = a.Angle / float64(n-1)
	}
	pls := make([]geom.Placement, n)
	for i := range pls {
		pl := rotationAbout(a.Center, a.Axis, units.Radians(step*float64(i)))
		pl.Base = geom.Add(pl.Base, geom.Scale(float64(i), a.IntervalAxis))
		pls[i] = pl
	}
	return pls, nil
}

func (a *Array) circular() ([]geom.Placement, error) {
	if geom.IsNull(a.Axis) {
		return nil, core.Error(core.EINVARIANT, "circular array axis is null")
	}
	if a.TangentialDistance <= 0 {
		return nil, core.Error(core.EINVARIANT, "tangential distance must be positive")
	}
	sym := max(a.Symmetry, 1)
	u, _ := geom.PlaneBasis(a.Axis)
	pls := []geom.Placement{geom.IdentityPlacement()}
	for k := 1; k < a.NumberCircles; k++ {
		r := float64(k) * a.RadialDistance
		n := int(math.Floor(2 * math.Pi * r / a.TangentialDistance))
		n -= n % sym
		if n == 0 {
			continue
		}
		for j := 0; j < n; j++ {
			rot := geom.NewRotation(a.Axis, 2*math.Pi*float64(j)/float64(n))
			// p' = c + R(p - c + u·r)
			base := geom.Add(geom.Sub(a.Center, rot.Apply(a.Center)), rot.Apply(geom.Scale(r, u)))
			pls = append(pls, geom.NewPlacement(base, rot))
		}
	}
	return pls, nil
}

// Execute places copies of the base shape. In expand mode the copies are
// published as child objects and the array has no shape of its own.
func (a *Array) Execute(obj *document.Object) error {
	base, err := linkedShape(obj, a.Base, "base")
	if err != nil {
		return err
	}
	pls, err := a.Placements()
	if err != nil {
		return core.WrapError(err, core.Code(err), "%s: %s", obj.Name, core.UserMessage(err))
	}
	a.PlacementList, a.Count = pls, len(pls)
	if a.ExpandArray {
		obj.SetEditorMode("PlacementList", document.ReadOnly)
		obj.Shape = nil
	} else {
		obj.SetEditorMode("PlacementList", 0)
		publish(obj, replicate(base, pls, a.Fuse))
	}
	return a.syncElements(obj)
}

// syncElements keeps one child object per placement while ExpandArray is
// set. Surplus children are removed, missing ones are created.
func (a *Array) syncElements(obj *document.Object) error {
	doc := obj.Document()
	n := 0
	if a.ExpandArray {
		n = len(a.PlacementList)
	}
	var keep []document.Handle
	for _, h := range a.Elements {
		if doc.Get(h) != nil {
			keep = append(keep, h)
		}
	}
	for len(keep) > n {
		h := keep[len(keep)-1]
		if err := doc.RemoveObject(h, false); err != nil {
			return core.WrapError(err, core.EDEPENDENCY, "%s: cannot remove array element", obj.Name)
		}
		keep = keep[:len(keep)-1]
	}
	for i := len(keep); i < n; i++ {
		el := doc.AddObject(obj.TypeID, obj.Name+"Element", &ArrayElement{Array: obj.Handle(), Index: i})
		FormatObject(el, obj)
		keep = append(keep, el.Handle())
	}
	a.Elements = keep
	for _, h := range keep {
		el := doc.Get(h)
		if err := el.Proxy.Execute(el); err != nil {
			return err
		}
	}
	tracer().Debugf("%s publishes %d elements", obj.Name, len(keep))
	return nil
}

// ArrayElement is a single element of an expanded array. It follows the
// placement list of its array.
type ArrayElement struct {
	Array document.Handle
	Index int
}

// Type is "ArrayElement".
func (e *ArrayElement) Type() string { return "ArrayElement" }

// Properties returns the property table.
func (e *ArrayElement) Properties() []document.Property {
	return []document.Property{
		document.P(document.PropLink, "Array", "Objects", "The array this element belongs to", &e.Array),
		document.P(document.PropInteger, "Index", "Objects", "Position of this element in the placement list", &e.Index),
	}
}

// Execute places a copy of the array's base at the element's placement.
// An element beyond the placement list has no shape.
func (e *ArrayElement) Execute(obj *document.Object) error {
	arr := obj.Document().Get(e.Array)
	if arr == nil {
		return core.Error(core.EMISSING, "array of %s is missing", obj.Name)
	}
	a, ok := arr.Proxy.(*Array)
	if !ok {
		return core.Error(core.EINVALID, "%s is not an array", arr.Name)
	}
	if e.Index < 0 || e.Index >= len(a.PlacementList) {
		obj.Shape = nil
		return nil
	}
	base, err := linkedShape(arr, a.Base, "base")
	if err != nil {
		return err
	}
	obj.Placement = arr.Placement.Multiply(a.PlacementList[e.Index])
	publish(obj, base)
	return nil
}

// replicate copies a shape to each placement and joins the copies.
func replicate(base *kernel.Shape, pls []geom.Placement, fuse bool) *kernel.Shape {
	copies := make([]*kernel.Shape, len(pls))
	for i, pl := range pls {
		copies[i] = base.Transformed(pl)
	}
	if len(copies) == 1 {
		return copies[0]
	}
	return joinShapes(copies, fuse)
}

func newArray(base document.Handle, typ string) *Array {
	a := &Array{
		Base:          base,
		ArrayType:     document.NewEnum("ortho", "polar", "circular"),
		IntervalX:     geom.V(1, 0, 0),
		IntervalY:     geom.V(0, 1, 0),
		IntervalZ:     geom.V(0, 0, 1),
		NumberX:       1,
		NumberY:       1,
		NumberZ:       1,
		Axis:          geom.ZAxis,
		Angle:         360,
		NumberPolar:   1,
		NumberCircles: 1,
		Symmetry:      1,
	}
	a.ArrayType.Value = typ
	return a
}

func makeArray(doc *document.Document, a *Array, opts []Option) (*document.Object, error) {
	doc, err := activeDocument(doc)
	if err != nil {
		return nil, err
	}
	base := doc.Get(a.Base)
	if base == nil {
		return nil, core.Error(core.EPRECONDITION, "array base does not exist")
	}
	typeID := document.PartFeature
	if base.HasShape() && isFlat(base.Shape) && a.ArrayType.Is("ortho") && geom.IsNull(a.IntervalZ) {
		typeID = document.Part2DObject
	}
	obj, err := create(doc, typeID, a, settings(opts))
	if err != nil {
		return nil, err
	}
	FormatObject(obj, base)
	return obj, nil
}

// MakeOrthoArray creates an orthogonal array with nx·ny·nz elements.
func MakeOrthoArray(doc *document.Document, base document.Handle, ix, iy, iz geom.Vector, nx, ny, nz int, opts ...Option) (*document.Object, error) {
	a := newArray(base, "ortho")
	a.IntervalX, a.IntervalY, a.IntervalZ = ix, iy, iz
	a.NumberX, a.NumberY, a.NumberZ = nx, ny, nz
	return makeArray(doc, a, opts)
}

// MakePolarArray creates n elements rotated around an axis through center,
// covering angle degrees.
func MakePolarArray(doc *document.Document, base document.Handle, n int, angle float64, center, axis geom.Vector, opts ...Option) (*document.Object, error) {
	a := newArray(base, "polar")
	a.NumberPolar, a.Angle, a.Center = n, angle, center
	if !geom.IsNull(axis) {
		a.Axis = axis
	}
	return makeArray(doc, a, opts)
}

// MakeCircularArray creates concentric rings of elements around an axis
// through center.
func MakeCircularArray(doc *document.Document, base document.Handle, radial, tangential float64, circles, symmetry int, center, axis geom.Vector, opts ...Option) (*document.Object, error) {
	a := newArray(base, "circular")
	a.RadialDistance, a.TangentialDistance = radial, tangential
	a.NumberCircles, a.Symmetry, a.Center = circles, symmetry, center
	if !geom.IsNull(axis) {
		a.Axis = axis
	}
	return makeArray(doc, a, opts)
}
