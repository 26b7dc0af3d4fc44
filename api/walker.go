package api

import (
	"strconv"
)

// Walker answers shape, position and navigation queries about the nodes of
// one syntax family. Walkers are stateless or hold read-only configuration,
// so a single instance may serve concurrent queries as long as the
// underlying tree is not mutated.
//
// Methods never fail: a node the walker cannot make sense of yields false,
// an empty result or its input back.
type Walker interface {
	// Handles reports whether this walker is the implementation for the
	// syntax family that produced n.
	Handles(n Node) bool

	// IsName reports whether n sits in property-key position.
	IsName(n Node) bool

	// IsPropertyWithValue reports whether n is a key/value pair, or the key
	// of one, with both key and value present.
	IsPropertyWithValue(n Node) bool

	// GoUpToCheckable returns the nearest ancestor of n, n included, that a
	// schema engine validates as a unit: a value or a property. A key is a
	// value of its own and comes back as itself (or its outermost wrapper),
	// not as the owning property; punctuation inside a property climbs to
	// the property. It returns n unchanged when there is none.
	GoUpToCheckable(n Node) Node

	// FindPosition returns the steps leading from the document root to n.
	// isName tells the walker that n is a key token; in that case the step
	// naming n's own property is left out unless forceLastTransition is
	// set. Malformed trees yield the longest well-formed prefix.
	FindPosition(n Node, isName, forceLastTransition bool) Position

	// IsNameQuoted reports whether the syntax requires quoted keys.
	IsNameQuoted() bool

	// OnlyDoubleQuotesForStringLiterals reports whether string literals
	// must use double quotes.
	OnlyDoubleQuotesForStringLiterals() bool

	// HasPropertiesBehindAndNoComma reports whether the object or array
	// entry containing n is followed by another entry with no comma typed
	// in between.
	HasPropertiesBehindAndNoComma(n Node) bool

	// PropertyNamesOfParentObject returns the key set of the nearest object
	// strictly enclosing n.
	PropertyNamesOfParentObject(n Node) map[string]struct{}

	// ParentPropertyAdapter returns the nearest property enclosing n, n
	// included.
	ParentPropertyAdapter(n Node) (PropertyAdapter, bool)

	// IsTopJSONElement reports whether n is the root value of its document.
	IsTopJSONElement(n Node) bool

	// CreateValueAdapter returns a value view over n, or false when n is
	// not in value position (comments, punctuation, keys, error nodes).
	CreateValueAdapter(n Node) (ValueAdapter, bool)
}

// Descend follows p from root through value adapters. Property steps pick
// the last property with a matching name, as JSON decoders do. An index
// step applied to an object is read as the property of the same name,
// which is how numeric keys appear in schema instance locations.
func Descend(root ValueAdapter, p Position) (ValueAdapter, bool) {
	cur := root
	for _, s := range p {
		if cur == nil {
			return nil, false
		}
		switch s.Kind() {
		case StepProperty:
			next, ok := property(cur, s.Name())
			if !ok {
				return nil, false
			}
			cur = next
		case StepIndex:
			if s.IsAnyIndex() {
				return nil, false
			}
			if cur.Shape() == ShapeObject {
				next, ok := property(cur, strconv.Itoa(s.Index()))
				if !ok {
					return nil, false
				}
				cur = next
				continue
			}
			elems := cur.Elements()
			if s.Index() >= len(elems) {
				return nil, false
			}
			cur = elems[s.Index()]
		default:
			return nil, false
		}
	}
	return cur, cur != nil
}

func property(v ValueAdapter, name string) (ValueAdapter, bool) {
	if v.Shape() != ShapeObject {
		return nil, false
	}
	var found ValueAdapter
	for _, p := range v.Properties() {
		if p.Name() != name {
			continue
		}
		if val, ok := p.Value(); ok {
			found = val
		}
	}
	return found, found != nil
}

// Materialize converts a value into plain Go data: map[string]any for
// objects, []any for arrays and Literal for scalars. Properties without a
// value are dropped and duplicate keys keep the last value. Scalars that
// cannot be decoded become nil.
func Materialize(v ValueAdapter) any {
	switch v.Shape() {
	case ShapeObject:
		m := make(map[string]any)
		for _, p := range v.Properties() {
			if val, ok := p.Value(); ok {
				m[p.Name()] = Materialize(val)
			}
		}
		return m
	case ShapeArray:
		elems := v.Elements()
		out := make([]any, 0, len(elems))
		for _, e := range elems {
			out = append(out, Materialize(e))
		}
		return out
	default:
		lit, _ := v.Literal()
		return lit
	}
}
