package document

import (
	"testing"

	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/engine/kernel"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

// testProxy is a line of given length, optionally continuing from another
// object's end point.
type testProxy struct {
	Length float64
	Mode   Enum
	Base   Handle
	Count  int
	log    *[]string
	fail   bool
}

func newTestProxy(log *[]string) *testProxy {
	return &testProxy{Length: 1, Mode: NewEnum("Short", "Long"), log: log}
}

func (p *testProxy) Type() string { return "TestLine" }

func (p *testProxy) Properties() []Property {
	return []Property{
		P(PropLength, "Length", "Line", "Length of the line", &p.Length),
		P(PropEnum, "Mode", "Line", "A mode", &p.Mode),
		P(PropLink, "Base", "Line", "Predecessor", &p.Base),
		P(PropInteger, "Count", "Line", "A count", &p.Count),
	}
}

func (p *testProxy) Execute(obj *Object) error {
	if p.log != nil {
		*p.log = append(*p.log, obj.Name)
	}
	if p.fail {
		return core.Error(core.EGEOMETRY, "cannot build %s", obj.Name)
	}
	start := geom.Origin
	if b := obj.Document().Get(p.Base); b != nil && b.HasShape() {
		start = b.Shape.Edges()[0].End()
	}
	e, err := kernel.MakeLine(start, geom.Add(start, geom.V(p.Length, 0, 0)))
	if err != nil {
		return err
	}
	obj.Shape = e.Shape()
	return nil
}

func TestAddObjectUniqueNames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.doc")
	defer teardown()
	//
	doc := New("test")
	a := doc.AddObject(Part2DObject, "Line", newTestProxy(nil))
	b := doc.AddObject(Part2DObject, "Line", newTestProxy(nil))
	c := doc.AddObject(Part2DObject, "", newTestProxy(nil))
	assert.Equal(t, "Line", a.Name)
	assert.Equal(t, "Line001", b.Name)
	assert.Equal(t, "TestLine", c.Name)
	assert.Equal(t, "Line001", b.Label)
	assert.True(t, a.IsTouched())
	assert.Equal(t, 3, doc.Len())
	assert.Equal(t, b, doc.GetByName("Line001"))
	assert.Len(t, doc.GetByLabel("Line"), 1)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Nil(t, doc.Get(NoObject))
}

func TestProperties(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.doc")
	defer teardown()
	//
	doc := New("test")
	obj := doc.AddObject(Part2DObject, "Line", newTestProxy(nil))
	assert.True(t, obj.HasProperty("Length"))
	assert.True(t, obj.HasProperty("Label"))
	assert.False(t, obj.HasProperty("Radius"))
	assert.Equal(t, []string{"Base", "Line"}, obj.GroupNames())
	//
	assert.NoError(t, obj.SetProperty("Length", 5)) // int converts
	v, err := obj.GetProperty("Length")
	assert.NoError(t, err)
	assert.Equal(t, 5.0, v)
	assert.NoError(t, obj.SetProperty("Count", 2.0))
	v, _ = obj.GetProperty("Count")
	assert.Equal(t, 2, v)
	err = obj.SetProperty("Length", "long")
	assert.Equal(t, core.EINVALID, core.Code(err))
	err = obj.SetProperty("Radius", 1.0)
	assert.Equal(t, core.EMISSING, core.Code(err))
	//
	assert.NoError(t, obj.SetProperty("Mode", "Long"))
	v, _ = obj.GetProperty("Mode")
	assert.Equal(t, "Long", v)
	assert.NoError(t, obj.SetProperty("Mode", 0))
	v, _ = obj.GetProperty("Mode")
	assert.Equal(t, "Short", v)
	assert.Error(t, obj.SetProperty("Mode", "Medium"))
	assert.Error(t, obj.SetProperty("Mode", 7))
	//
	obj.SetEditorMode("Count", ReadOnly|Hidden)
	assert.Equal(t, ReadOnly|Hidden, obj.GetEditorMode("Count"))
	assert.Equal(t, EditorMode(0), obj.GetEditorMode("Length"))
}

func TestCopyProperties(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.doc")
	defer teardown()
	//
	doc := New("test")
	a := doc.AddObject(Part2DObject, "A", newTestProxy(nil))
	b := doc.AddObject(Part2DObject, "B", newTestProxy(nil))
	assert.NoError(t, a.SetProperty("Length", 7.0))
	assert.NoError(t, a.SetProperty("Count", 3))
	CopyProperties(a, b, "Count", "Label")
	assert.Equal(t, 7.0, b.Proxy.(*testProxy).Length)
	assert.Equal(t, 0, b.Proxy.(*testProxy).Count)
	assert.Equal(t, "B", b.Label)
}

func TestLinksAndRemoval(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.doc")
	defer teardown()
	//
	doc := New("test")
	a := doc.AddObject(Part2DObject, "A", newTestProxy(nil))
	b := doc.AddObject(Part2DObject, "B", newTestProxy(nil))
	c := doc.AddObject(Part2DObject, "C", newTestProxy(nil))
	assert.NoError(t, b.SetProperty("Base", a.Handle()))
	assert.NoError(t, c.SetProperty("Base", b.Handle()))
	assert.Equal(t, []Handle{a.Handle()}, b.OutList())
	assert.Equal(t, []Handle{b.Handle()}, a.InList())
	//
	err := doc.RemoveObject(a.Handle(), false)
	assert.Equal(t, core.EDEPENDENCY, core.Code(err))
	assert.Equal(t, 3, doc.Len())
	// removing a set with internal links only succeeds
	assert.NoError(t, doc.RemoveObjects([]Handle{b.Handle(), c.Handle()}))
	assert.Equal(t, 1, doc.Len())
	assert.NoError(t, doc.RemoveObject(a.Handle(), false))
	assert.Equal(t, 0, doc.Len())
	err = doc.RemoveObject(a.Handle(), false)
	assert.Equal(t, core.EMISSING, core.Code(err))
}

func TestCascadeRemoval(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.doc")
	defer teardown()
	//
	doc := New("test")
	a := doc.AddObject(Part2DObject, "A", newTestProxy(nil))
	b := doc.AddObject(Part2DObject, "B", newTestProxy(nil))
	c := doc.AddObject(Part2DObject, "C", newTestProxy(nil))
	b.Proxy.(*testProxy).Base = a.Handle()
	c.Proxy.(*testProxy).Base = b.Handle()
	err := doc.RemoveObjects([]Handle{a.Handle(), b.Handle()})
	assert.Equal(t, core.EDEPENDENCY, core.Code(err))
	assert.Equal(t, 3, doc.Len())
	assert.NoError(t, doc.RemoveObject(a.Handle(), true))
	assert.Equal(t, 0, doc.Len())
}

func TestGroups(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.doc")
	defer teardown()
	//
	doc := New("test")
	g := doc.AddGroup("Group")
	inner := doc.AddGroup("Inner")
	a := doc.AddObject(Part2DObject, "A", newTestProxy(nil))
	b := doc.AddObject(Part2DObject, "B", newTestProxy(nil))
	assert.NoError(t, doc.AddToGroup(g.Handle(), a.Handle()))
	assert.NoError(t, doc.AddToGroup(g.Handle(), inner.Handle()))
	assert.NoError(t, doc.AddToGroup(inner.Handle(), b.Handle()))
	assert.Error(t, doc.AddToGroup(a.Handle(), b.Handle()))
	assert.Equal(t, g, doc.GroupOf(a.Handle()))
	assert.Len(t, doc.GroupContents(g.Handle(), false), 2)
	assert.Equal(t, []*Object{a, b}, doc.GroupContents(g.Handle(), true))
	// groups do not block removal of members
	assert.NoError(t, doc.RemoveObject(a.Handle(), false))
	assert.Nil(t, doc.GroupOf(a.Handle()))
	assert.Len(t, g.Proxy.(*GroupProxy).Group, 1)
}

func TestTransactionAbort(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.doc")
	defer teardown()
	//
	doc := New("test")
	g := doc.AddGroup("Group")
	a := doc.AddObject(Part2DObject, "A", newTestProxy(nil))
	assert.NoError(t, doc.AddToGroup(g.Handle(), a.Handle()))
	doc.OpenTransaction("edit")
	assert.True(t, doc.InTransaction())
	assert.NoError(t, a.SetProperty("Length", 9.0))
	doc.AddObject(Part2DObject, "B", newTestProxy(nil))
	assert.NoError(t, doc.RemoveObject(a.Handle(), false))
	assert.Equal(t, 2, doc.Len())
	doc.AbortTransaction()
	assert.False(t, doc.InTransaction())
	assert.Equal(t, 2, doc.Len())
	assert.Nil(t, doc.GetByName("B"))
	assert.Equal(t, a, doc.GetByName("A"))
	assert.Equal(t, 1.0, a.Proxy.(*testProxy).Length)
	assert.Equal(t, g, doc.GroupOf(a.Handle()))
	//
	err := doc.Transact("failing", func() error {
		doc.AddObject(Part2DObject, "C", newTestProxy(nil))
		return core.Error(core.EGEOMETRY, "nope")
	})
	assert.Error(t, err)
	assert.Nil(t, doc.GetByName("C"))
}

func TestRecomputeOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.doc")
	defer teardown()
	//
	var log []string
	doc := New("test")
	c := doc.AddObject(Part2DObject, "C", newTestProxy(&log))
	b := doc.AddObject(Part2DObject, "B", newTestProxy(&log))
	a := doc.AddObject(Part2DObject, "A", newTestProxy(&log))
	c.Proxy.(*testProxy).Base = b.Handle()
	b.Proxy.(*testProxy).Base = a.Handle()
	var rendered int
	doc.SetRenderSink(SinkFunc(func(obj *Object, pl geom.Placement, shape *kernel.Shape, style ViewObject) {
		rendered++
	}))
	assert.NoError(t, doc.Recompute())
	assert.Equal(t, []string{"A", "B", "C"}, log)
	assert.Equal(t, 3, rendered)
	assert.False(t, c.IsTouched())
	assert.True(t, geom.Equal(c.Shape.Edges()[0].End(), geom.V(3, 0, 0)))
	// touching the root recomputes all dependents
	log = nil
	assert.NoError(t, a.SetProperty("Length", 2.0))
	assert.NoError(t, doc.Recompute())
	assert.Equal(t, []string{"A", "B", "C"}, log)
	assert.True(t, geom.Equal(c.Shape.Edges()[0].End(), geom.V(4, 0, 0)))
	// touching a leaf recomputes the leaf only
	log = nil
	c.Touch()
	assert.NoError(t, doc.Recompute())
	assert.Equal(t, []string{"C"}, log)
}

func TestRecomputeErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.doc")
	defer teardown()
	//
	doc := New("test")
	a := doc.AddObject(Part2DObject, "A", newTestProxy(nil))
	b := doc.AddObject(Part2DObject, "B", newTestProxy(nil))
	b.Proxy.(*testProxy).fail = true
	err := doc.Recompute()
	assert.Equal(t, core.EGEOMETRY, core.Code(err))
	assert.True(t, a.IsValid())
	assert.False(t, b.IsValid())
	// cycles are rejected
	a.Proxy.(*testProxy).Base = b.Handle()
	b.Proxy.(*testProxy).Base = a.Handle()
	b.Proxy.(*testProxy).fail = false
	a.Touch()
	err = doc.Recompute()
	assert.Equal(t, core.EINVARIANT, core.Code(err))
}

func TestCommit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.doc")
	defer teardown()
	//
	var log []string
	doc := New("test")
	old := doc.AddObject(Part2DObject, "Old", newTestProxy(&log))
	assert.NoError(t, doc.Recompute())
	log = nil
	added := doc.AddObject(Part2DObject, "New", newTestProxy(&log))
	assert.NoError(t, doc.Commit("replace", []Handle{added.Handle()}, []Handle{old.Handle()}, true))
	assert.Equal(t, []string{"New"}, log)
	assert.Nil(t, doc.GetByName("Old"))
	assert.True(t, added.HasShape())
	//
	keep := doc.AddObject(Part2DObject, "Keep", newTestProxy(nil))
	assert.NoError(t, doc.Commit("keep", nil, []Handle{keep.Handle()}, false))
	assert.NotNil(t, doc.GetByName("Keep"))
}

func TestSelection(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.doc")
	defer teardown()
	//
	doc := New("test")
	a := doc.AddObject(Part2DObject, "A", newTestProxy(nil))
	b := doc.AddObject(Part2DObject, "B", newTestProxy(nil))
	doc.Select(b.Handle(), a.Handle(), b.Handle())
	assert.Equal(t, []*Object{b, a}, doc.Selection())
	assert.NoError(t, doc.RemoveObject(b.Handle(), false))
	assert.Equal(t, []*Object{a}, doc.Selection())
	doc.ClearSelection()
	assert.Empty(t, doc.Selection())
}

func TestNestedAbort(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.doc")
	defer teardown()
	//
	doc := New("test")
	doc.OpenTransaction("outer")
	doc.AddObject(Part2DObject, "A", newTestProxy(nil))
	err := doc.Transact("inner", func() error {
		doc.AddObject(Part2DObject, "B", newTestProxy(nil))
		return core.Error(core.EINVALID, "inner fails")
	})
	assert.Error(t, err)
	assert.True(t, doc.InTransaction())
	assert.NotNil(t, doc.GetByName("A"))
	assert.Nil(t, doc.GetByName("B"))
	doc.CommitTransaction()
	assert.False(t, doc.InTransaction())
	assert.Equal(t, 1, doc.Len())
}
