package schemanav

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/agentic-research/schemawalk/api"
	"github.com/agentic-research/schemawalk/internal/walkers"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Violation is one schema failure mapped back onto the document.
type Violation struct {
	Pointer  string       // instance location as an RFC 6901 pointer
	Position api.Position // the part of Pointer that exists in the document
	Schema   string       // location of the failing subschema
	Keyword  string       // failing keyword relative to Schema, e.g. /type
	Message  string
	Node     api.Node // innermost node reached by Position; nil for an empty document
	Line     int
	Column   int
}

func (v *Violation) Error() string {
	ptr := v.Pointer
	if ptr == "" {
		ptr = "/"
	}
	return fmt.Sprintf("%d:%d: %s: %s", v.Line, v.Column, ptr, v.Message)
}

// Locate follows a schema instance location from root. When the full
// location does not exist (a missing required property, say) it returns
// the deepest value that does, together with the prefix that reached it,
// and reports false.
func Locate(root api.ValueAdapter, location []string) (api.ValueAdapter, api.Position, bool) {
	pos := make(api.Position, 0, len(location))
	for _, seg := range location {
		pos = append(pos, api.SegmentStep(seg))
	}
	for n := len(pos); n >= 0; n-- {
		if v, ok := api.Descend(root, pos[:n]); ok {
			return v, pos[:n:n], n == len(pos)
		}
	}
	return root, api.Position{}, len(pos) == 0
}

var printer = message.NewPrinter(language.English)

// Check validates doc against schema and maps every failing leaf back to
// the syntax node it concerns. A nil result means the document is valid.
// Documents with syntax errors are still checked over what was recovered.
func Check(r *api.Registry, schema *jsonschema.Schema, doc api.Document) ([]*Violation, error) {
	if schema == nil {
		return nil, ErrNoSchema
	}
	if doc == nil {
		return nil, errors.New("check: nil document")
	}

	root, _, ok := walkers.RootValue(r, doc)
	var instance any
	if ok {
		instance = api.Materialize(root)
	}

	err := schema.Validate(instance)
	if err == nil {
		return nil, nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil, fmt.Errorf("validate: %w", err)
	}

	var out []*Violation
	for _, leaf := range leaves(verr, nil) {
		v := &Violation{
			Pointer: pointer(leaf.InstanceLocation),
			Schema:  leaf.SchemaURL,
			Keyword: "/" + strings.Join(leaf.ErrorKind.KeywordPath(), "/"),
			Message: leaf.ErrorKind.LocalizedString(printer),
			Line:    1,
			Column:  1,
		}
		if root != nil {
			at, pos, _ := Locate(root, leaf.InstanceLocation)
			v.Position = pos
			v.Node = at.Node()
			v.Line, v.Column = api.LineColumn(doc.Source(), v.Node.Span().Start)
		}
		out = append(out, v)
	}
	slices.SortStableFunc(out, func(a, b *Violation) int {
		return cmp.Or(
			cmp.Compare(a.Line, b.Line),
			cmp.Compare(a.Column, b.Column),
			cmp.Compare(a.Pointer, b.Pointer),
		)
	})
	return out, nil
}

func leaves(e *jsonschema.ValidationError, acc []*jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(e.Causes) == 0 {
		return append(acc, e)
	}
	for _, c := range e.Causes {
		acc = leaves(c, acc)
	}
	return acc
}

func pointer(location []string) string {
	var b strings.Builder
	for _, seg := range location {
		b.WriteByte('/')
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(seg, "~", "~0"), "/", "~1"))
	}
	return b.String()
}
