// Package hclwalk walks HCL configuration files as JSON-shaped trees.
//
// Bodies map to objects, attributes to properties and blocks to properties
// named by the block type. Each block label adds one nested object level,
// which is how the JSON form of HCL spells labels:
//
//	resource "aws_s3_bucket" "logs" { acl = "private" }
//
// reads as {"resource": {"aws_s3_bucket": {"logs": {"acl": "private"}}}}.
package hclwalk

import (
	"bytes"
	"cmp"
	"encoding/json"
	"slices"

	"github.com/agentic-research/schemawalk/api"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// Kind is the structural kind of a node.
type Kind uint8

const (
	KindFile Kind = iota
	// KindBody is a block or file body.
	KindBody
	KindAttribute
	KindBlock
	// KindLabel is the property a block label introduces.
	KindLabel
	// KindLabelObject holds the single label property below a block.
	KindLabelObject
	// KindKey is the name token of any property.
	KindKey
	KindObject
	// KindItem is one key/value pair of an object expression.
	KindItem
	KindTuple
	KindScalar
)

var kindNames = [...]string{
	KindFile:        "file",
	KindBody:        "body",
	KindAttribute:   "attribute",
	KindBlock:       "block",
	KindLabel:       "label",
	KindLabelObject: "label-object",
	KindKey:         "key",
	KindObject:      "object",
	KindItem:        "item",
	KindTuple:       "tuple",
	KindScalar:      "scalar",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Node is an HCL syntax node. It implements api.Node.
type Node struct {
	kind     Kind
	span     api.Span
	doc      *Document
	parent   *Node
	children []*Node

	// properties
	name       string
	key, value *Node

	// scalars and keys
	val   cty.Value
	known bool
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

func (n *Node) Language() api.Language { return api.LanguageHCL }

func (n *Node) Span() api.Span { return n.span }

// Text returns the source covered by the node.
func (n *Node) Text() string {
	return string(n.doc.src[n.span.Start:n.span.End])
}

// Name returns the name of a property node.
func (n *Node) Name() string { return n.name }

// Key returns the name token of a property node.
func (n *Node) Key() *Node { return n.key }

// Value returns the value of a property node, or nil.
func (n *Node) Value() *Node { return n.value }

func (n *Node) isProperty() bool {
	switch n.kind {
	case KindAttribute, KindBlock, KindLabel, KindItem:
		return true
	default:
		return false
	}
}

// Literal decodes a scalar or key. Expressions that need variables or
// functions decode to their source text.
func (n *Node) Literal() (any, bool) {
	switch {
	case n.kind != KindScalar && n.kind != KindKey:
		return nil, false
	case !n.known:
		return n.Text(), true
	case n.val.IsNull():
		return nil, true
	}
	switch n.val.Type() {
	case cty.String:
		return n.val.AsString(), true
	case cty.Number:
		return json.Number(n.val.AsBigFloat().Text('g', -1)), true
	case cty.Bool:
		return n.val.True(), true
	default:
		return n.Text(), true
	}
}

// scalar classifies a scalar or key.
func (n *Node) scalar() api.ScalarKind {
	switch {
	case n.kind != KindScalar && n.kind != KindKey:
		return api.ScalarNone
	case !n.known:
		return api.ScalarOther
	case n.val.IsNull():
		return api.ScalarNull
	}
	switch n.val.Type() {
	case cty.String:
		return api.ScalarString
	case cty.Number:
		return api.ScalarNumber
	case cty.Bool:
		return api.ScalarBoolean
	default:
		return api.ScalarOther
	}
}

// Document is a parsed HCL file. It implements api.Document.
type Document struct {
	src  []byte
	root *Node
	errs []api.SyntaxError
}

var _ api.Document = (*Document)(nil)

// Parse parses src as native HCL syntax. filename only labels diagnostics.
// Parse always returns a document; diagnostics become syntax errors and the
// tree holds whatever hclsyntax recovered.
func Parse(src []byte, filename string) *Document {
	doc := &Document{src: src}
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.Pos{Line: 1, Column: 1})
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		span := api.Span{}
		if d.Subject != nil {
			span = rangeSpan(*d.Subject)
		}
		doc.errs = append(doc.errs, api.NewSyntaxError(src, span, d.Summary))
	}

	doc.root = &Node{kind: KindFile, span: api.Span{Start: 0, End: len(src)}, doc: doc}
	var body *hclsyntax.Body
	if file != nil {
		body, _ = file.Body.(*hclsyntax.Body)
	}
	if body == nil {
		doc.root.children = []*Node{{kind: KindBody, span: doc.root.span, doc: doc, parent: doc.root}}
		return doc
	}
	top := doc.body(body, doc.root, doc.root.span)
	doc.root.children = []*Node{top}
	return doc
}

func rangeSpan(r hcl.Range) api.Span {
	return api.Span{Start: r.Start.Byte, End: r.End.Byte}
}

func (d *Document) node(kind Kind, span api.Span, parent *Node) *Node {
	n := &Node{kind: kind, span: span, doc: d, parent: parent}
	if parent != nil {
		parent.children = append(parent.children, n)
	}
	return n
}

// key adds the name token of prop.
func (d *Document) key(prop *Node, r hcl.Range) {
	prop.key = d.node(KindKey, rangeSpan(r), prop)
	prop.key.val, prop.key.known = cty.StringVal(prop.name), true
}

// body converts a body into an object whose properties are its attributes
// and blocks in source order.
func (d *Document) body(b *hclsyntax.Body, parent *Node, span api.Span) *Node {
	obj := &Node{kind: KindBody, span: span, doc: d, parent: parent}

	type entry struct {
		start int
		attr  *hclsyntax.Attribute
		block *hclsyntax.Block
	}
	var entries []entry
	for _, a := range b.Attributes {
		entries = append(entries, entry{start: a.SrcRange.Start.Byte, attr: a})
	}
	for _, blk := range b.Blocks {
		entries = append(entries, entry{start: blk.TypeRange.Start.Byte, block: blk})
	}
	slices.SortFunc(entries, func(a, b entry) int { return cmp.Compare(a.start, b.start) })

	for _, e := range entries {
		if e.attr != nil {
			d.attribute(e.attr, obj)
		} else {
			d.block(e.block, obj)
		}
	}
	return obj
}

func (d *Document) attribute(a *hclsyntax.Attribute, obj *Node) {
	prop := d.node(KindAttribute, rangeSpan(a.SrcRange), obj)
	prop.name = a.Name
	d.key(prop, a.NameRange)
	if !d.missing(a.Expr) {
		prop.value = d.expr(a.Expr, prop)
	}
}

// missing reports whether e is the parser's stand-in for a value that has
// not been written yet: nothing but blanks, or a scalar covering an error.
func (d *Document) missing(e hclsyntax.Expression) bool {
	if e == nil {
		return true
	}
	r := e.Range()
	if r.Start.Byte >= r.End.Byte || len(bytes.TrimSpace(r.SliceBytes(d.src))) == 0 {
		return true
	}
	switch e.(type) {
	case *hclsyntax.ObjectConsExpr, *hclsyntax.TupleConsExpr:
		return false
	}
	span := rangeSpan(r)
	for _, se := range d.errs {
		if span.Contains(se.Span.Start) {
			return true
		}
	}
	return false
}

func (d *Document) block(b *hclsyntax.Block, obj *Node) {
	// recovered blocks may lack a closing brace
	end := max(b.CloseBraceRange.End.Byte, b.OpenBraceRange.End.Byte, b.TypeRange.End.Byte)
	prop := d.node(KindBlock, api.Span{Start: b.TypeRange.Start.Byte, End: end}, obj)
	prop.name = b.Type
	d.key(prop, b.TypeRange)

	bodySpan := api.Span{Start: b.OpenBraceRange.Start.Byte, End: end}
	for i, label := range b.Labels {
		if i >= len(b.LabelRanges) {
			break
		}
		start := b.LabelRanges[i].Start.Byte
		wrapper := d.node(KindLabelObject, api.Span{Start: start, End: end}, prop)
		prop.value = wrapper

		prop = d.node(KindLabel, api.Span{Start: start, End: end}, wrapper)
		prop.name = label
		d.key(prop, b.LabelRanges[i])
	}

	inner := b.Body
	if inner == nil {
		inner = &hclsyntax.Body{}
	}
	body := d.body(inner, prop, bodySpan)
	prop.children = append(prop.children, body)
	prop.value = body
}

// expr converts an expression. Object and tuple constructors keep their
// structure; anything else is a scalar evaluated without variables.
func (d *Document) expr(e hclsyntax.Expression, parent *Node) *Node {
	if e == nil {
		return d.node(KindScalar, api.Span{Start: parent.span.End, End: parent.span.End}, parent)
	}
	span := rangeSpan(e.Range())
	switch x := e.(type) {
	case *hclsyntax.ObjectConsExpr:
		obj := d.node(KindObject, span, parent)
		for _, item := range x.Items {
			d.item(item, obj)
		}
		return obj
	case *hclsyntax.TupleConsExpr:
		tuple := d.node(KindTuple, span, parent)
		for _, el := range x.Exprs {
			d.expr(el, tuple)
		}
		return tuple
	default:
		n := d.node(KindScalar, span, parent)
		val, diags := e.Value(nil)
		n.val = val
		n.known = !diags.HasErrors() && val.IsWhollyKnown()
		return n
	}
}

func (d *Document) item(item hclsyntax.ObjectConsItem, obj *Node) {
	keyRange := item.KeyExpr.Range()
	prop := d.node(KindItem, api.Span{Start: keyRange.Start.Byte, End: item.ValueExpr.Range().End.Byte}, obj)
	prop.name = keyName(item.KeyExpr, d.src)
	d.key(prop, keyRange)
	if !d.missing(item.ValueExpr) {
		prop.value = d.expr(item.ValueExpr, prop)
	}
}

// keyName returns the name an object key evaluates to: the bare word for
// identifiers, the string for literals and the source text otherwise.
func keyName(e hclsyntax.Expression, src []byte) string {
	if kw := hcl.ExprAsKeyword(e); kw != "" {
		return kw
	}
	if v, diags := e.Value(nil); !diags.HasErrors() && v.IsWhollyKnown() && !v.IsNull() && v.Type() == cty.String {
		return v.AsString()
	}
	r := e.Range()
	return string(r.SliceBytes(src))
}

// Root implements api.Document. It is the file node; its only child is the
// top-level body.
func (d *Document) Root() api.Node { return d.root }

// RootNode is Root with the concrete type.
func (d *Document) RootNode() *Node { return d.root }

func (d *Document) Source() []byte { return d.src }

func (d *Document) Language() api.Language { return api.LanguageHCL }

func (d *Document) Errors() []api.SyntaxError { return d.errs }

// NodeAt implements api.Document.
func (d *Document) NodeAt(offset int) api.Node {
	n := d.Find(offset)
	if n == nil {
		return nil
	}
	return n
}

// Find returns the innermost node whose span contains offset.
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
