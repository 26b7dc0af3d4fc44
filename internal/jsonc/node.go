// Package jsonc parses JSON and JSON5 into a lossless concrete syntax tree.
//
// The parser never gives up: malformed input produces a tree plus syntax
// errors, with unparseable tokens collected under KindError nodes. Every
// token (punctuation, commas and comments included) appears as a leaf, and
// every node links back to its parent, which is what position resolution
// over documents that are being edited needs.
package jsonc

import (
	"github.com/agentic-research/schemawalk/api"
)

// Kind is the grammatical kind of a node.
type Kind uint8

const (
	KindDocument Kind = iota
	KindObject
	KindArray
	KindProperty
	KindString
	KindNumber
	KindBoolean
	KindNull
	// KindIdentifier is a bare word: a JSON5 key, or an unknown literal.
	KindIdentifier
	// KindPunct is one of { } [ ] :
	KindPunct
	KindComma
	KindComment
	KindError
)

var kindNames = [...]string{
	KindDocument:   "document",
	KindObject:     "object",
	KindArray:      "array",
	KindProperty:   "property",
	KindString:     "string",
	KindNumber:     "number",
	KindBoolean:    "boolean",
	KindNull:       "null",
	KindIdentifier: "identifier",
	KindPunct:      "punct",
	KindComma:      "comma",
	KindComment:    "comment",
	KindError:      "error",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Node is a node of the concrete syntax tree. It implements api.Node.
type Node struct {
	kind     Kind
	span     api.Span
	doc      *Document
	parent   *Node
	children []*Node
}

var _ api.Node = (*Node)(nil)

func (n *Node) Kind() Kind { return n.kind }

// Parent implements api.Node.
func (n *Node) Parent() api.Node {
	if n == nil || n.parent == nil {
		return nil
	}
	return n.parent
}

// ParentNode is Parent with the concrete type.
func (n *Node) ParentNode() *Node {
	if n == nil {
		return nil
	}
	return n.parent
}

// Children implements api.Node.
func (n *Node) Children() []api.Node {
	out := make([]api.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// Nodes returns the children with the concrete type.
func (n *Node) Nodes() []*Node { return n.children }

// Language implements api.Node.
func (n *Node) Language() api.Language { return n.doc.lang }

// Span implements api.Node.
func (n *Node) Span() api.Span { return n.span }

// Text returns the source text covered by the node.
func (n *Node) Text() string {
	return string(n.doc.src[n.span.Start:n.span.End])
}

// IsValue reports whether the node can stand in value position.
func (n *Node) IsValue() bool {
	switch n.kind {
	case KindObject, KindArray, KindString, KindNumber, KindBoolean, KindNull, KindIdentifier:
		return true
	default:
		return false
	}
}

// Key returns the key of a property, or nil.
func (n *Node) Key() *Node {
	if n.kind != KindProperty || len(n.children) == 0 {
		return nil
	}
	if k := n.children[0]; k.kind == KindString || k.kind == KindIdentifier {
		return k
	}
	return nil
}

// Value returns the value of a property, or nil while it is missing.
func (n *Node) Value() *Node {
	if n.kind != KindProperty {
		return nil
	}
	colon := false
	for _, c := range n.children {
		switch {
		case c.kind == KindPunct:
			colon = true
		case colon && c.IsValue():
			return c
		}
	}
	return nil
}

// Name returns the unquoted key of a property.
func (n *Node) Name() string {
	k := n.Key()
	if k == nil {
		return ""
	}
	if k.kind == KindIdentifier {
		return k.Text()
	}
	s, _ := Unquote(k.Text())
	return s
}

// Document is a parsed JSON or JSON5 source. It implements api.Document.
type Document struct {
	src  []byte
	lang api.Language
	root *Node
	errs []api.SyntaxError
}

var _ api.Document = (*Document)(nil)

// Root implements api.Document.
func (d *Document) Root() api.Node { return d.root }

// RootNode is Root with the concrete type.
func (d *Document) RootNode() *Node { return d.root }

// Source implements api.Document.
func (d *Document) Source() []byte { return d.src }

// Language implements api.Document.
func (d *Document) Language() api.Language { return d.lang }

// Errors implements api.Document.
func (d *Document) Errors() []api.SyntaxError { return d.errs }

// NodeAt implements api.Document.
func (d *Document) NodeAt(offset int) api.Node {
	n := d.Find(offset)
	if n == nil {
		return nil
	}
	return n
}

// Find is NodeAt with the concrete type.
func (d *Document) Find(offset int) *Node {
	if offset < 0 || offset > len(d.src) {
		return nil
	}
	n := d.root
	for {
		var next *Node
		for _, c := range n.children {
			if c.span.Contains(offset) {
				next = c
				break
			}
		}
		if next == nil {
			return n
		}
		n = next
	}
}
