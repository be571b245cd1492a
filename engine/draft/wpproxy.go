package draft

import (
	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/kernel"
	"github.com/npillmayer/draft/engine/workingplane"
)

// WorkingPlaneProxy stores a working plane in its placement, optionally
// together with the visibility of the document's objects.
type WorkingPlaneProxy struct {
	RestoreState  bool
	VisibilityMap map[string]bool
	DisplaySize   float64
}

// Type is "WorkingPlaneProxy".
func (wp *WorkingPlaneProxy) Type() string { return "WorkingPlaneProxy" }

// Properties returns the property table.
func (wp *WorkingPlaneProxy) Properties() []document.Property {
	return []document.Property{
		document.P(document.PropBool, "RestoreState", "Draft", "If set, the visibility of objects is restored with the plane", &wp.RestoreState),
		document.P(document.PropMap, "VisibilityMap", "Draft", "The visibility of objects when the plane was stored", &wp.VisibilityMap),
		document.P(document.PropLength, "DisplaySize", "Draft", "The size of the displayed plane", &wp.DisplaySize),
	}
}

// Execute shows the plane as a square face centered at the placement.
func (wp *WorkingPlaneProxy) Execute(obj *document.Object) error {
	size := wp.DisplaySize
	if size <= 0 {
		size = 1
	}
	f, err := kernel.MakePlane(size, size, geom.V(-size/2, -size/2, 0), geom.ZAxis)
	if err != nil {
		return core.WrapError(err, core.EGEOMETRY, "%s: cannot build plane face", obj.Name)
	}
	publish(obj, f.Shape())
	return nil
}

// Store copies the plane into the proxy's object and records the
// visibility of all other objects.
func (wp *WorkingPlaneProxy) Store(obj *document.Object, plane *workingplane.Plane) {
	obj.Placement = plane.GetPlacement()
	wp.VisibilityMap = make(map[string]bool)
	for _, o := range obj.Document().Objects() {
		if o.Handle() != obj.Handle() && o.View != nil {
			wp.VisibilityMap[o.Name] = o.View.Visibility
		}
	}
	obj.Touch()
}

// Apply sets a plane from the stored placement. The plane becomes
// explicit. With RestoreState set the stored visibility is restored.
func (wp *WorkingPlaneProxy) Apply(obj *document.Object, plane *workingplane.Plane) {
	plane.AlignToPlacementOf(obj.Placement)
	if !wp.RestoreState {
		return
	}
	for name, vis := range wp.VisibilityMap {
		if o := obj.Document().GetByName(name); o != nil && o.View != nil {
			o.View.Visibility = vis
		}
	}
}

// MakeWorkingPlaneProxy stores a plane as a document object.
func MakeWorkingPlaneProxy(doc *document.Document, plane *workingplane.Plane, opts ...Option) (*document.Object, error) {
	doc, err := activeDocument(doc)
	if err != nil {
		return nil, err
	}
	if plane == nil {
		plane = workingplane.Active()
	}
	wp := &WorkingPlaneProxy{DisplaySize: 1}
	c := settings(opts)
	pl := plane.GetPlacement()
	c.placement = &pl
	obj, err := create(doc, document.FeaturePython, wp, c)
	if err != nil {
		return nil, err
	}
	wp.Store(obj, plane)
	return obj, nil
}
