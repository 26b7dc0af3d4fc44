package hclwalk

import (
	"github.com/agentic-research/schemawalk/api"
	"github.com/agentic-research/schemawalk/internal/treewalk"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Walker walks HCL syntax trees.
type Walker struct {
	treewalk.Base
}

var _ api.Walker = (*Walker)(nil)

func New() *Walker {
	return &Walker{Base: treewalk.Base{Grammar: grammar{}}}
}

// Handles implements api.Walker.
func (w *Walker) Handles(n api.Node) bool {
	hn, ok := n.(*Node)
	return ok && hn != nil
}

// IsNameQuoted implements api.Walker. Attribute names are bare identifiers.
func (w *Walker) IsNameQuoted() bool { return false }

// OnlyDoubleQuotesForStringLiterals implements api.Walker.
func (w *Walker) OnlyDoubleQuotesForStringLiterals() bool { return true }

// HasPropertiesBehindAndNoComma implements api.Walker. Bodies separate
// entries by newlines, and the tree keeps no commas for object
// expressions.
func (w *Walker) HasPropertiesBehindAndNoComma(api.Node) bool { return false }

// Factory registers the HCL walker.
var Factory api.Factory = api.FactoryFunc(func(*jsonschema.Schema) api.Walker {
	return New()
})

type grammar struct{}

var _ treewalk.Grammar = grammar{}

func asNode(n api.Node) *Node {
	hn, _ := n.(*Node)
	return hn
}

func orNil(n *Node) api.Node {
	if n == nil {
		return nil
	}
	return n
}

func (grammar) Role(n api.Node) treewalk.Role {
	hn := asNode(n)
	if hn == nil {
		return treewalk.RoleOther
	}
	switch hn.kind {
	case KindFile:
		return treewalk.RoleDocument
	case KindBody, KindLabelObject, KindObject:
		return treewalk.RoleObject
	case KindAttribute, KindBlock, KindLabel, KindItem:
		return treewalk.RoleProperty
	case KindTuple:
		return treewalk.RoleArray
	case KindScalar, KindKey:
		return treewalk.RoleScalar
	default:
		return treewalk.RoleOther
	}
}

func (grammar) Key(prop api.Node) api.Node {
	if hn := asNode(prop); hn != nil {
		return orNil(hn.key)
	}
	return nil
}

func (grammar) Value(prop api.Node) api.Node {
	if hn := asNode(prop); hn != nil {
		return orNil(hn.value)
	}
	return nil
}

func (grammar) Name(prop api.Node) string {
	if hn := asNode(prop); hn != nil {
		return hn.name
	}
	return ""
}

func (grammar) Properties(obj api.Node) []api.Node {
	hn := asNode(obj)
	if hn == nil {
		return nil
	}
	var out []api.Node
	for _, c := range hn.children {
		if c.isProperty() {
			out = append(out, c)
		}
	}
	return out
}

func (grammar) Elements(arr api.Node) []api.Node {
	hn := asNode(arr)
	if hn == nil || hn.kind != KindTuple {
		return nil
	}
	out := make([]api.Node, len(hn.children))
	for i, c := range hn.children {
		out[i] = c
	}
	return out
}

func (grammar) Shape(v api.Node) api.Shape {
	switch hn := asNode(v); {
	case hn == nil:
		return api.ShapeScalar
	case hn.kind == KindBody || hn.kind == KindLabelObject || hn.kind == KindObject:
		return api.ShapeObject
	case hn.kind == KindTuple:
		return api.ShapeArray
	default:
		return api.ShapeScalar
	}
}

func (grammar) Scalar(v api.Node) api.ScalarKind {
	if hn := asNode(v); hn != nil {
		return hn.scalar()
	}
	return api.ScalarNone
}

func (grammar) Literal(v api.Node) (any, bool) {
	if hn := asNode(v); hn != nil {
		return hn.Literal()
	}
	return nil, false
}
