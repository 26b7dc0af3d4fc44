package treewalk

import (
	"github.com/agentic-research/schemawalk/api"
)

// Base implements every api.Walker method that only depends on the tree
// shape. It does not implement Handles or the quoting facts.
type Base struct {
	Grammar Grammar
}

func parentOf(n api.Node) api.Node {
	if n == nil {
		return nil
	}
	return n.Parent()
}

// outermost climbs from n through enclosing wrappers.
func (b Base) outermost(n api.Node) api.Node {
	for {
		p := parentOf(n)
		if p == nil || b.Grammar.Role(p) != RoleWrapper {
			return n
		}
		n = p
	}
}

// isKey reports whether n, or the wrapper chain around it, is the key of a
// property.
func (b Base) isKey(n api.Node) bool {
	if n == nil {
		return false
	}
	top := b.outermost(n)
	p := parentOf(top)
	return p != nil && b.Grammar.Role(p) == RoleProperty && b.Grammar.Key(p) == top
}

// IsName implements api.Walker.
func (b Base) IsName(n api.Node) bool {
	return b.isKey(n)
}

// IsPropertyWithValue implements api.Walker.
func (b Base) IsPropertyWithValue(n api.Node) bool {
	if n == nil {
		return false
	}
	if b.isKey(n) {
		n = parentOf(b.outermost(n))
	}
	if b.Grammar.Role(n) != RoleProperty {
		return false
	}
	v := b.Grammar.Value(n)
	return v != nil && b.Grammar.Role(v).IsValue()
}

// GoUpToCheckable implements api.Walker.
func (b Base) GoUpToCheckable(n api.Node) api.Node {
	for cur := n; cur != nil; cur = cur.Parent() {
		switch r := b.Grammar.Role(cur); {
		case r == RoleDocument:
			return n
		case r == RoleProperty:
			return cur
		case r.IsValue():
			return b.outermost(cur)
		}
	}
	return n
}

// FindPosition implements api.Walker.
//
// The walk climbs from start to the document node. Entering an array from
// one of its elements emits an index step, entering a property from its key
// or value emits a property step. When the walk starts inside a key and
// isName is set, that innermost property step is dropped unless
// forceLastTransition asks for it. An error node, or a property outside an
// object, discards the steps gathered below it so the result is the
// longest well-formed prefix. A start node that never reaches the document
// yields an empty position.
func (b Base) FindPosition(start api.Node, isName, forceLastTransition bool) api.Position {
	if start == nil {
		return api.Position{}
	}
	g := b.Grammar
	elide := isName && !forceLastTransition

	var steps []api.Step
	crossed := false
	if g.Role(start) == RoleProperty {
		// a pair standing alone in an array is addressed by its index
		if !elide && !b.inArray(start) {
			steps = append(steps, api.PropertyStep(g.Name(start)))
		}
		crossed = true
	}

	position := start
	for {
		current := position.Parent()
		if current == nil {
			return api.Position{}
		}
		switch g.Role(current) {
		case RoleDocument:
			return reversed(steps)
		case RoleArray:
			steps = append(steps, api.IndexStep(indexOf(g.Elements(current), position)))
			crossed = true
		case RoleProperty:
			onKey := position == g.Key(current) && !crossed
			if !onKey || !elide {
				steps = append(steps, api.PropertyStep(g.Name(current)))
			}
			crossed = true
		case RoleObject:
			// properties are named on entry
		case RoleError:
			steps = steps[:0]
		default:
			if g.Role(position) == RoleProperty {
				steps = steps[:0]
			}
		}
		position = current
	}
}

func (b Base) inArray(n api.Node) bool {
	p := parentOf(n)
	return p != nil && b.Grammar.Role(p) == RoleArray
}

func reversed(steps []api.Step) api.Position {
	out := make(api.Position, len(steps))
	for i, s := range steps {
		out[len(steps)-1-i] = s
	}
	return out
}

func indexOf(nodes []api.Node, n api.Node) int {
	for i, c := range nodes {
		if c == n {
			return i
		}
	}
	return -1
}

// HasPropertiesBehindAndNoComma implements api.Walker for syntaxes that
// separate entries with commas.
func (b Base) HasPropertiesBehindAndNoComma(n api.Node) bool {
	g := b.Grammar
	entry := n
	var container api.Node
	for entry != nil && container == nil {
		p := entry.Parent()
		if p == nil {
			return false
		}
		switch g.Role(p) {
		case RoleObject, RoleArray:
			container = p
		case RoleDocument:
			return false
		default:
			entry = p
		}
	}
	if container == nil {
		return false
	}

	children := container.Children()
	i := indexOf(children, entry)
	if i < 0 {
		return false
	}
	inObject := g.Role(container) == RoleObject
	for _, c := range children[i+1:] {
		r := g.Role(c)
		switch {
		case r == RoleComma:
			return false
		case inObject && r == RoleProperty:
			return true
		case !inObject && r.IsValue():
			return true
		}
	}
	return false
}

// PropertyNamesOfParentObject implements api.Walker.
func (b Base) PropertyNamesOfParentObject(n api.Node) map[string]struct{} {
	names := make(map[string]struct{})
	for cur := parentOf(n); cur != nil; cur = cur.Parent() {
		if b.Grammar.Role(cur) != RoleObject {
			continue
		}
		for _, p := range b.Grammar.Properties(cur) {
			names[b.Grammar.Name(p)] = struct{}{}
		}
		break
	}
	return names
}

// ParentPropertyAdapter implements api.Walker.
func (b Base) ParentPropertyAdapter(n api.Node) (api.PropertyAdapter, bool) {
	for cur := n; cur != nil; cur = cur.Parent() {
		if b.Grammar.Role(cur) == RoleProperty {
			return &property{g: b.Grammar, n: cur}, true
		}
	}
	return nil, false
}

// IsTopJSONElement implements api.Walker.
func (b Base) IsTopJSONElement(n api.Node) bool {
	if n == nil || !b.Grammar.Role(n).IsValue() || b.isKey(n) {
		return false
	}
	p := parentOf(b.outermost(n))
	return p != nil && b.Grammar.Role(p) == RoleDocument
}

// CreateValueAdapter implements api.Walker.
func (b Base) CreateValueAdapter(n api.Node) (api.ValueAdapter, bool) {
	if n == nil || !b.Grammar.Role(n).IsValue() || b.isKey(n) {
		return nil, false
	}
	return &value{g: b.Grammar, n: n}, true
}

// ValueOf wraps n as a value without checking its position. Grammars use it
// for nodes that act as values only in context, such as a YAML pair inside
// a flow sequence.
func ValueOf(g Grammar, n api.Node) api.ValueAdapter {
	return &value{g: g, n: n}
}
