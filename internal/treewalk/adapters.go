package treewalk

import (
	"github.com/agentic-research/schemawalk/api"
)

type value struct {
	g Grammar
	n api.Node
}

func (v *value) Node() api.Node { return v.n }

func (v *value) Shape() api.Shape { return v.g.Shape(v.n) }

func (v *value) Scalar() api.ScalarKind {
	if v.Shape() != api.ShapeScalar {
		return api.ScalarNone
	}
	return v.g.Scalar(v.n)
}

func (v *value) Properties() []api.PropertyAdapter {
	if v.Shape() != api.ShapeObject {
		return nil
	}
	props := v.g.Properties(v.n)
	out := make([]api.PropertyAdapter, 0, len(props))
	for _, p := range props {
		out = append(out, &property{g: v.g, n: p})
	}
	return out
}

func (v *value) Elements() []api.ValueAdapter {
	if v.Shape() != api.ShapeArray {
		return nil
	}
	elems := v.g.Elements(v.n)
	out := make([]api.ValueAdapter, 0, len(elems))
	for _, e := range elems {
		out = append(out, &value{g: v.g, n: e})
	}
	return out
}

func (v *value) Literal() (any, bool) {
	if v.Shape() != api.ShapeScalar {
		return nil, false
	}
	return v.g.Literal(v.n)
}

type property struct {
	g Grammar
	n api.Node
}

func (p *property) Node() api.Node { return p.n }

func (p *property) Name() string { return p.g.Name(p.n) }

func (p *property) Value() (api.ValueAdapter, bool) {
	v := p.g.Value(p.n)
	if v == nil || !p.g.Role(v).IsValue() {
		return nil, false
	}
	return &value{g: p.g, n: v}, true
}

func (p *property) Parent() (api.ValueAdapter, bool) {
	parent := p.n.Parent()
	if parent == nil {
		return nil, false
	}
	switch p.g.Role(parent) {
	case RoleObject:
		return &value{g: p.g, n: parent}, true
	case RoleArray:
		// a pair standing alone as an array element is its own mapping
		return &value{g: p.g, n: p.n}, true
	default:
		return nil, false
	}
}
