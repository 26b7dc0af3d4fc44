package jsonwalk

import (
	"github.com/agentic-research/schemawalk/api"
	"github.com/agentic-research/schemawalk/internal/jsonc"
	"github.com/agentic-research/schemawalk/internal/treewalk"
)

// grammar describes jsonc trees to treewalk.
type grammar struct{}

var _ treewalk.Grammar = grammar{}

func asNode(n api.Node) *jsonc.Node {
	jn, _ := n.(*jsonc.Node)
	return jn
}

// orNil converts a possibly nil *jsonc.Node into an untyped nil api.Node.
func orNil(n *jsonc.Node) api.Node {
	if n == nil {
		return nil
	}
	return n
}

func (grammar) Role(n api.Node) treewalk.Role {
	jn := asNode(n)
	if jn == nil {
		return treewalk.RoleOther
	}
	switch jn.Kind() {
	case jsonc.KindDocument:
		return treewalk.RoleDocument
	case jsonc.KindObject:
		return treewalk.RoleObject
	case jsonc.KindArray:
		return treewalk.RoleArray
	case jsonc.KindProperty:
		return treewalk.RoleProperty
	case jsonc.KindString, jsonc.KindNumber, jsonc.KindBoolean, jsonc.KindNull, jsonc.KindIdentifier:
		return treewalk.RoleScalar
	case jsonc.KindComma:
		return treewalk.RoleComma
	case jsonc.KindError:
		return treewalk.RoleError
	default:
		return treewalk.RoleOther
	}
}

func (grammar) Key(prop api.Node) api.Node {
	if jn := asNode(prop); jn != nil {
		return orNil(jn.Key())
	}
	return nil
}

func (grammar) Value(prop api.Node) api.Node {
	if jn := asNode(prop); jn != nil {
		return orNil(jn.Value())
	}
	return nil
}

func (grammar) Name(prop api.Node) string {
	if jn := asNode(prop); jn != nil {
		return jn.Name()
	}
	return ""
}

func (grammar) Properties(obj api.Node) []api.Node {
	jn := asNode(obj)
	if jn == nil || jn.Kind() != jsonc.KindObject {
		return nil
	}
	var out []api.Node
	for _, c := range jn.Nodes() {
		if c.Kind() == jsonc.KindProperty {
			out = append(out, c)
		}
	}
	return out
}

func (grammar) Elements(arr api.Node) []api.Node {
	jn := asNode(arr)
	if jn == nil || jn.Kind() != jsonc.KindArray {
		return nil
	}
	var out []api.Node
	for _, c := range jn.Nodes() {
		if c.IsValue() {
			out = append(out, c)
		}
	}
	return out
}

func (grammar) Shape(v api.Node) api.Shape {
	switch jn := asNode(v); {
	case jn == nil:
		return api.ShapeScalar
	case jn.Kind() == jsonc.KindObject:
		return api.ShapeObject
	case jn.Kind() == jsonc.KindArray:
		return api.ShapeArray
	default:
		return api.ShapeScalar
	}
}

func (grammar) Scalar(v api.Node) api.ScalarKind {
	jn := asNode(v)
	if jn == nil {
		return api.ScalarNone
	}
	switch jn.Kind() {
	case jsonc.KindString:
		return api.ScalarString
	case jsonc.KindNumber:
		return api.ScalarNumber
	case jsonc.KindBoolean:
		return api.ScalarBoolean
	case jsonc.KindNull:
		return api.ScalarNull
	case jsonc.KindIdentifier:
		return api.ScalarOther
	default:
		return api.ScalarNone
	}
}

func (grammar) Literal(v api.Node) (any, bool) {
	if jn := asNode(v); jn != nil {
		return jn.Literal()
	}
	return nil, false
}
