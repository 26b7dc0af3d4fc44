// Package complete suggests property names for the object around a node,
// using only the walker contract and a compiled schema.
package complete

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/agentic-research/schemawalk/api"
	"github.com/agentic-research/schemawalk/internal/schemanav"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Item is one completion candidate.
type Item struct {
	Name        string
	Key         string // the name as written in the document's syntax
	Insert      string // Key followed by the separator, and a comma when needed
	Description string
	Required    bool
}

// Properties returns the schema properties that may still be added to the
// object enclosing n. n is either a property name being typed or an object
// value. Names the object already holds are left out, except the one under
// the cursor. Required properties sort first.
func Properties(w api.Walker, n api.Node, schema *jsonschema.Schema) []Item {
	if w == nil || n == nil || schema == nil {
		return nil
	}

	var pos api.Position
	var existing map[string]struct{}
	tail := false
	switch {
	case w.IsName(n):
		pos = w.FindPosition(n, true, false)
		existing = w.PropertyNamesOfParentObject(n)
		if p, ok := w.ParentPropertyAdapter(n); ok {
			delete(existing, p.Name())
		}
		tail = w.HasPropertiesBehindAndNoComma(n)
	default:
		v, ok := w.CreateValueAdapter(n)
		if !ok || v.Shape() != api.ShapeObject {
			return nil
		}
		pos = w.FindPosition(n, false, false)
		existing = make(map[string]struct{})
		for _, p := range v.Properties() {
			existing[p.Name()] = struct{}{}
		}
	}

	sub, ok := schemanav.Resolve(schema, pos)
	if !ok {
		return nil
	}

	sep := ": "
	if n.Language() == api.LanguageHCL {
		sep = " = "
	}
	var items []Item
	for _, name := range schemanav.PropertyNames(sub) {
		if _, taken := existing[name]; taken {
			continue
		}
		k := key(name, w.IsNameQuoted(), n.Language())
		it := Item{
			Name:     name,
			Key:      k,
			Insert:   k + sep,
			Required: schemanav.IsRequired(sub, name),
		}
		if ps := sub.Properties[name]; ps != nil {
			it.Description = ps.Description
		}
		if tail {
			it.Insert += ","
		}
		items = append(items, it)
	}
	slices.SortStableFunc(items, func(a, b Item) int {
		if a.Required != b.Required {
			if a.Required {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return items
}

// key renders a property name, quoting it when the syntax requires it or
// when it is not a bare identifier.
func key(name string, quoted bool, lang api.Language) string {
	if quoted || !identifier(name, lang != api.LanguageJSON5) {
		return strconv.Quote(name)
	}
	return name
}

func identifier(s string, dash bool) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || dash && r == '-'):
		default:
			return false
		}
	}
	return true
}
