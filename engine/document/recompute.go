package document

import (
	"github.com/npillmayer/draft/core"
)

// Recompute re-executes all touched objects and everything depending on
// them. Objects are executed after the objects they link to. An object
// whose execution fails keeps its previous shape and records the error;
// the first such error is returned after all objects have been processed.
func (doc *Document) Recompute() error {
	dirty := doc.touchedClosure()
	if len(dirty) == 0 {
		return nil
	}
	order, err := doc.dependencyOrder(dirty)
	if err != nil {
		return err
	}
	var first error
	for _, obj := range order {
		obj.err = nil
		if obj.Proxy != nil {
			if err := obj.Proxy.Execute(obj); err != nil {
				tracer().Errorf("recompute of %s failed: %v", obj.Name, err)
				obj.err = err
				if first == nil {
					first = err
				}
			}
		}
		obj.touched = false
		doc.publish(obj)
	}
	tracer().Debugf("recomputed %d objects", len(order))
	return first
}

// RecomputeObject touches and recomputes a single object and its
// dependents.
func (doc *Document) RecomputeObject(h Handle) error {
	obj := doc.Get(h)
	if obj == nil {
		return core.Error(core.EMISSING, "no object with handle %d", h)
	}
	obj.Touch()
	if err := doc.Recompute(); err != nil && obj.touched {
		return err // obj not reached
	}
	return obj.err
}

func (doc *Document) publish(obj *Object) {
	if doc.sink == nil || obj.View == nil || !obj.View.Visibility {
		return
	}
	doc.sink.Render(obj, obj.Placement, obj.Shape, *obj.View)
}

// touchedClosure returns the touched objects plus all objects depending on
// them, directly or indirectly.
func (doc *Document) touchedClosure() map[Handle]bool {
	dirty := make(map[Handle]bool)
	var queue []Handle
	for _, obj := range doc.Objects() {
		if obj.touched {
			dirty[obj.handle] = true
			queue = append(queue, obj.handle)
		}
	}
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		for _, in := range doc.InList(h) {
			if !dirty[in] {
				dirty[in] = true
				queue = append(queue, in)
			}
		}
	}
	return dirty
}

// dependencyOrder sorts a set of objects such that every object follows
// the objects it links to. Ties are broken by handle, i.e. creation order.
func (doc *Document) dependencyOrder(set map[Handle]bool) ([]*Object, error) {
	pending := make(map[Handle]int) // number of unprocessed links
	for h := range set {
		for _, out := range doc.Get(h).OutList() {
			if set[out] {
				pending[h]++
			}
		}
	}
	var order []*Object
	done := make(map[Handle]bool)
	for len(done) < len(set) {
		progress := false
		for _, h := range sortedHandles(set) {
			if done[h] || pending[h] > 0 {
				continue
			}
			done[h] = true
			progress = true
			order = append(order, doc.Get(h))
			for _, in := range doc.InList(h) {
				if set[in] {
					pending[in]--
				}
			}
		}
		if !progress {
			var cyclic []string
			for _, h := range sortedHandles(set) {
				if !done[h] {
					cyclic = append(cyclic, doc.Get(h).Name)
				}
			}
			return nil, core.Error(core.EINVARIANT, "cyclic dependency between %v", cyclic)
		}
	}
	return order, nil
}
