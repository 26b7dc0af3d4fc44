package schemanav

import (
	"cmp"
	"slices"

	"github.com/agentic-research/schemawalk/api"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// maxRefs bounds $ref chains so a self-referencing schema cannot loop.
const maxRefs = 64

// deref follows $ref until it reaches a schema with its own structural
// keywords. A schema with both $ref and siblings keeps the siblings.
func deref(s *jsonschema.Schema) *jsonschema.Schema {
	for i := 0; s != nil && s.Ref != nil && !structural(s) && i < maxRefs; i++ {
		s = s.Ref
	}
	return s
}

func structural(s *jsonschema.Schema) bool {
	return len(s.Properties) > 0 || len(s.PatternProperties) > 0 || s.AdditionalProperties != nil ||
		s.Items != nil || s.Items2020 != nil || len(s.PrefixItems) > 0
}

// Resolve returns the sub-schema that describes the value at pos. It
// follows properties, patternProperties, additionalProperties, items,
// prefixItems and $ref. Composition keywords (allOf, anyOf, oneOf) are not
// searched. It returns false when no schema constrains the position.
func Resolve(schema *jsonschema.Schema, pos api.Position) (*jsonschema.Schema, bool) {
	cur := deref(schema)
	for _, step := range pos {
		if cur == nil {
			return nil, false
		}
		switch step.Kind() {
		case api.StepProperty:
			cur = property(cur, step.Name())
		case api.StepIndex:
			cur = item(cur, step)
		default:
			return nil, false
		}
		cur = deref(cur)
	}
	return cur, cur != nil
}

func property(s *jsonschema.Schema, name string) *jsonschema.Schema {
	if p, ok := s.Properties[name]; ok {
		return p
	}

	// pattern order is unspecified in the schema; sort for stable results
	patterns := make([]jsonschema.Regexp, 0, len(s.PatternProperties))
	for re := range s.PatternProperties {
		patterns = append(patterns, re)
	}
	slices.SortFunc(patterns, func(a, b jsonschema.Regexp) int {
		return cmp.Compare(a.String(), b.String())
	})
	for _, re := range patterns {
		if re.MatchString(name) {
			return s.PatternProperties[re]
		}
	}

	if a, ok := s.AdditionalProperties.(*jsonschema.Schema); ok {
		return a
	}
	return nil
}

func item(s *jsonschema.Schema, step api.Step) *jsonschema.Schema {
	i := step.Index()
	if !step.IsAnyIndex() && i < len(s.PrefixItems) {
		return s.PrefixItems[i]
	}
	if s.Items2020 != nil {
		return s.Items2020
	}

	switch items := s.Items.(type) {
	case *jsonschema.Schema:
		return items
	case []*jsonschema.Schema:
		if !step.IsAnyIndex() && i < len(items) {
			return items[i]
		}
		if a, ok := s.AdditionalItems.(*jsonschema.Schema); ok {
			return a
		}
	}
	return nil
}

// PropertyNames lists the names a schema declares for an object, sorted.
func PropertyNames(s *jsonschema.Schema) []string {
	s = deref(s)
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRequired reports whether s lists name as required.
func IsRequired(s *jsonschema.Schema, name string) bool {
	s = deref(s)
	return s != nil && slices.Contains(s.Required, name)
}
