package yamlwalk

import (
	"github.com/agentic-research/schemawalk/api"
	"github.com/agentic-research/schemawalk/internal/treewalk"
)

// tree-sitter-yaml node types
const (
	kindStream        = "stream"
	kindDocument      = "document"
	kindBlockNode     = "block_node"
	kindFlowNode      = "flow_node"
	kindBlockMapping  = "block_mapping"
	kindBlockPair     = "block_mapping_pair"
	kindFlowMapping   = "flow_mapping"
	kindFlowPair      = "flow_pair"
	kindBlockSequence = "block_sequence"
	kindSequenceItem  = "block_sequence_item"
	kindFlowSequence  = "flow_sequence"
	kindPlainScalar   = "plain_scalar"
	kindString        = "string_scalar"
	kindInteger       = "integer_scalar"
	kindFloat         = "float_scalar"
	kindBoolean       = "boolean_scalar"
	kindNull          = "null_scalar"
	kindDoubleQuote   = "double_quote_scalar"
	kindSingleQuote   = "single_quote_scalar"
	kindBlockScalar   = "block_scalar"
	kindAlias         = "alias"
	kindAnchor        = "anchor"
	kindTag           = "tag"
	kindComment       = "comment"
	kindError         = "ERROR"
)

type grammar struct{}

var _ treewalk.Grammar = grammar{}

func asNode(n api.Node) *Node {
	yn, _ := n.(*Node)
	return yn
}

func orNil(n *Node) api.Node {
	if n == nil {
		return nil
	}
	return n
}

func role(n *Node) treewalk.Role {
	if n == nil {
		return treewalk.RoleOther
	}
	switch n.kind {
	case kindDocument:
		return treewalk.RoleDocument
	case kindBlockMapping, kindFlowMapping:
		return treewalk.RoleObject
	case kindBlockSequence, kindFlowSequence:
		return treewalk.RoleArray
	case kindBlockPair, kindFlowPair:
		return treewalk.RoleProperty
	case kindBlockNode, kindFlowNode, kindPlainScalar, kindSequenceItem:
		return treewalk.RoleWrapper
	case kindString, kindInteger, kindFloat, kindBoolean, kindNull,
		kindDoubleQuote, kindSingleQuote, kindBlockScalar, kindAlias:
		return treewalk.RoleScalar
	case kindError:
		return treewalk.RoleError
	case ",":
		return treewalk.RoleComma
	default:
		return treewalk.RoleOther
	}
}

// content unwraps n down to the node that carries its value: a mapping,
// sequence, scalar or error. It returns nil for an empty node, which YAML
// reads as null.
func content(n *Node) *Node {
	for n != nil && role(n) == treewalk.RoleWrapper {
		var inner *Node
		for _, c := range n.children {
			if !c.named {
				continue
			}
			switch c.kind {
			case kindAnchor, kindTag, kindComment:
				continue
			}
			inner = c
		}
		n = inner
	}
	return n
}

func (grammar) Role(n api.Node) treewalk.Role {
	return role(asNode(n))
}

func (grammar) Key(prop api.Node) api.Node {
	if yn := asNode(prop); yn != nil {
		return orNil(yn.key)
	}
	return nil
}

func (grammar) Value(prop api.Node) api.Node {
	if yn := asNode(prop); yn != nil {
		return orNil(yn.value)
	}
	return nil
}

// Name returns the key of a pair as a string. Non-string keys use their
// source text.
func (grammar) Name(prop api.Node) string {
	yn := asNode(prop)
	if yn == nil {
		return ""
	}
	k := content(yn.key)
	if k == nil {
		return ""
	}
	if lit, ok := literal(k); ok {
		if s, ok := lit.(string); ok {
			return s
		}
	}
	return k.Text()
}

func (grammar) Properties(obj api.Node) []api.Node {
	yn := content(asNode(obj))
	if yn == nil {
		return nil
	}
	switch yn.kind {
	case kindBlockMapping, kindFlowMapping:
		var out []api.Node
		for _, c := range yn.children {
			if c.kind == kindBlockPair || c.kind == kindFlowPair {
				out = append(out, c)
			}
		}
		return out
	case kindFlowPair:
		// a pair inside a flow sequence is a single-entry mapping
		return []api.Node{yn}
	default:
		return nil
	}
}

func (grammar) Elements(arr api.Node) []api.Node {
	yn := content(asNode(arr))
	if yn == nil {
		return nil
	}
	var out []api.Node
	switch yn.kind {
	case kindBlockSequence:
		for _, c := range yn.children {
			if c.kind == kindSequenceItem {
				out = append(out, c)
			}
		}
	case kindFlowSequence:
		for _, c := range yn.children {
			if c.kind == kindFlowNode || c.kind == kindFlowPair {
				out = append(out, c)
			}
		}
	}
	return out
}

func (grammar) Shape(v api.Node) api.Shape {
	c := content(asNode(v))
	if c == nil {
		return api.ShapeScalar
	}
	switch c.kind {
	case kindBlockMapping, kindFlowMapping, kindFlowPair:
		return api.ShapeObject
	case kindBlockSequence, kindFlowSequence:
		return api.ShapeArray
	default:
		return api.ShapeScalar
	}
}

func (grammar) Scalar(v api.Node) api.ScalarKind {
	yn := asNode(v)
	if yn == nil {
		return api.ScalarNone
	}
	c := content(yn)
	if c == nil {
		return api.ScalarNull
	}
	switch c.kind {
	case kindString, kindDoubleQuote, kindSingleQuote, kindBlockScalar:
		return api.ScalarString
	case kindInteger, kindFloat:
		return api.ScalarNumber
	case kindBoolean:
		return api.ScalarBoolean
	case kindNull:
		return api.ScalarNull
	case kindAlias:
		return api.ScalarOther
	default:
		return api.ScalarNone
	}
}

func (grammar) Literal(v api.Node) (any, bool) {
	yn := asNode(v)
	if yn == nil {
		return nil, false
	}
	c := content(yn)
	if c == nil {
		return nil, true
	}
	return literal(c)
}
