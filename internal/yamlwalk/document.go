// Package yamlwalk walks YAML documents parsed with tree-sitter.
//
// Tree-sitter hands out fresh *sitter.Node values on every accessor call,
// so Parse copies the tree once into Node values with stable identity and
// parent links. The copy is immutable and safe for concurrent readers.
package yamlwalk

import (
	"context"
	"fmt"

	"github.com/agentic-research/schemawalk/api"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/yaml"
)

// Node is a YAML syntax node. It implements api.Node.
type Node struct {
	kind     string
	named    bool
	span     api.Span
	doc      *Document
	parent   *Node
	children []*Node

	// set on block_mapping_pair and flow_pair
	key, value *Node
}

var _ api.Node = (*Node)(nil)

// Kind returns the tree-sitter node type, e.g. "block_mapping_pair".
func (n *Node) Kind() string { return n.kind }

// IsNamed reports whether the node is a named grammar node rather than
// anonymous punctuation.
func (n *Node) IsNamed() bool { return n.named }

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

func (n *Node) Language() api.Language { return api.LanguageYAML }

func (n *Node) Span() api.Span { return n.span }

// Text returns the source covered by the node.
func (n *Node) Text() string {
	return string(n.doc.src[n.span.Start:n.span.End])
}

// Key returns the key of a mapping pair, or nil.
func (n *Node) Key() *Node { return n.key }

// Value returns the value of a mapping pair, or nil while it is missing.
func (n *Node) Value() *Node { return n.value }

// Document is a parsed YAML stream. It implements api.Document.
type Document struct {
	src  []byte
	root *Node
	errs []api.SyntaxError
}

var _ api.Document = (*Document)(nil)

// Parse parses src. Syntax errors do not fail the parse; they are recorded
// on the document and the offending region becomes an ERROR node.
func Parse(ctx context.Context, src []byte) (*Document, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(yaml.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("tree-sitter returned nil root")
	}

	doc := &Document{src: src}
	doc.root = doc.convert(root, nil)
	if root.HasError() {
		doc.collectErrors(root)
	}
	return doc, nil
}

// convert copies ts and its subtree.
func (d *Document) convert(ts *sitter.Node, parent *Node) *Node {
	n := &Node{
		kind:   ts.Type(),
		named:  ts.IsNamed(),
		span:   api.Span{Start: int(ts.StartByte()), End: int(ts.EndByte())},
		doc:    d,
		parent: parent,
	}
	if ts.IsError() {
		n.kind = kindError
	}

	var key, value *sitter.Node
	if n.kind == kindBlockPair || n.kind == kindFlowPair {
		key = ts.ChildByFieldName("key")
		value = ts.ChildByFieldName("value")
	}

	count := int(ts.ChildCount())
	n.children = make([]*Node, 0, count)
	for i := 0; i < count; i++ {
		child := ts.Child(i)
		if child == nil {
			continue
		}
		c := d.convert(child, n)
		n.children = append(n.children, c)
		switch {
		case sameNode(child, key):
			n.key = c
		case sameNode(child, value):
			n.value = c
		}
	}
	return n
}

func sameNode(a, b *sitter.Node) bool {
	return a != nil && b != nil &&
		a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Symbol() == b.Symbol()
}

// collectErrors records every ERROR and MISSING node below node.
func (d *Document) collectErrors(node *sitter.Node) {
	if node.IsError() || node.IsMissing() {
		span := api.Span{Start: int(node.StartByte()), End: int(node.EndByte())}
		msg := "syntax error"
		if node.IsMissing() {
			msg = fmt.Sprintf("missing %s", node.Type())
		}
		d.errs = append(d.errs, api.NewSyntaxError(d.src, span, msg))
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.HasError() || child.IsError() || child.IsMissing() {
			d.collectErrors(child)
		}
	}
}

// Root implements api.Document. It is the stream node.
func (d *Document) Root() api.Node { return d.root }

// RootNode is Root with the concrete type.
func (d *Document) RootNode() *Node { return d.root }

func (d *Document) Source() []byte { return d.src }

func (d *Document) Language() api.Language { return api.LanguageYAML }

func (d *Document) Errors() []api.SyntaxError { return d.errs }

// NodeAt implements api.Document.
func (d *Document) NodeAt(offset int) api.Node {
	n := d.Find(offset)
	if n == nil {
		return nil
	}
	return n
}

// Find returns the innermost node whose span contains offset. Offsets
// between tokens resolve to the enclosing node; offsets outside the source
// return nil.
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
