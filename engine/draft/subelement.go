package draft

import (
	"strconv"
	"strings"

	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/kernel"
)

// SubElement returns the vertex, edge or face of a shape named like
// "Vertex3", "Edge1" or "Face2". Indices count from 1.
func SubElement(s *kernel.Shape, name string) (*kernel.Shape, error) {
	kind, i, err := parseSubName(name)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "Vertex":
		vs := s.Vertexes()
		if i <= len(vs) {
			return kernel.MakeVertex(vs[i-1]), nil
		}
	case "Edge":
		es := s.Edges()
		if i <= len(es) {
			return es[i-1].Shape(), nil
		}
	case "Face":
		fs := s.Faces()
		if i <= len(fs) {
			return fs[i-1].Shape(), nil
		}
	}
	return nil, core.Error(core.EMISSING, "shape has no %s", name)
}

func parseSubName(name string) (string, int, error) {
	for _, kind := range []string{"Vertex", "Edge", "Face"} {
		if strings.HasPrefix(name, kind) {
			i, err := strconv.Atoi(name[len(kind):])
			if err != nil || i < 1 {
				break
			}
			return kind, i, nil
		}
	}
	return "", 0, core.Error(core.EINVALID, "invalid sub-element name %q", name)
}

// SubShapes resolves the sub-elements of a link. A link without sub-element
// names resolves to the whole shape of the linked object.
func SubShapes(doc *document.Document, link document.LinkSub) ([]*kernel.Shape, error) {
	obj := doc.Get(link.Object)
	if obj == nil {
		return nil, core.Error(core.EMISSING, "linked object %d does not exist", link.Object)
	}
	if !obj.HasShape() {
		return nil, core.Error(core.EPRECONDITION, "linked object %s has no shape", obj.Name)
	}
	if len(link.Subs) == 0 {
		return []*kernel.Shape{obj.Shape}, nil
	}
	var subs []*kernel.Shape
	for _, name := range link.Subs {
		s, err := SubElement(obj.Shape, name)
		if err != nil {
			return nil, core.WrapError(err, core.EMISSING, "%s has no %s", obj.Name, name)
		}
		subs = append(subs, s)
	}
	return subs, nil
}

// vertexOf returns the point of a vertex sub-element. An empty sub-element
// name takes the object's shape, which must be a vertex.
func vertexOf(doc *document.Document, h document.Handle, sub string) (geom.Vector, error) {
	link := document.LinkSub{Object: h}
	if sub != "" {
		link.Subs = []string{sub}
	}
	subs, err := SubShapes(doc, link)
	if err != nil {
		return geom.Vector{}, err
	}
	if subs[0].Type() != kernel.VertexShape {
		return geom.Vector{}, core.Error(core.EINVALID, "%q is not a vertex", sub)
	}
	return subs[0].Point(), nil
}
