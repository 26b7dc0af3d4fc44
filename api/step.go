package api

import (
	"strconv"
	"strings"

	"github.com/ohler55/ojg/jp"
)

// StepKind distinguishes object-key descent from array-index descent.
type StepKind uint8

const (
	StepProperty StepKind = iota + 1
	StepIndex
)

func (k StepKind) String() string {
	switch k {
	case StepProperty:
		return "object-property"
	case StepIndex:
		return "array-index"
	default:
		return "unknown"
	}
}

// anyIndex marks an array step whose element position is unknown.
const anyIndex = -1

// Step is one navigation instruction from a value to one of its children.
// The zero Step is invalid; build steps with PropertyStep, IndexStep or
// AnyIndexStep.
type Step struct {
	kind  StepKind
	name  string
	index int
}

// PropertyStep descends into the object property named name.
func PropertyStep(name string) Step {
	return Step{kind: StepProperty, name: name}
}

// IndexStep descends into the array element at the zero-based index i.
// A negative index is treated as unknown.
func IndexStep(i int) Step {
	if i < 0 {
		return AnyIndexStep()
	}
	return Step{kind: StepIndex, index: i}
}

// AnyIndexStep descends into an array element whose index is unknown.
func AnyIndexStep() Step {
	return Step{kind: StepIndex, index: anyIndex}
}

func (s Step) Kind() StepKind { return s.kind }

// Name returns the property name of a StepProperty step.
func (s Step) Name() string { return s.name }

// Index returns the element index of a StepIndex step, or -1 when unknown.
func (s Step) Index() int { return s.index }

// IsAnyIndex reports whether the step matches any array element.
func (s Step) IsAnyIndex() bool {
	return s.kind == StepIndex && s.index == anyIndex
}

func (s Step) String() string {
	switch {
	case s.kind == StepProperty:
		return strconv.Quote(s.name)
	case s.IsAnyIndex():
		return "*"
	case s.kind == StepIndex:
		return strconv.Itoa(s.index)
	default:
		return "?"
	}
}

// Position is an ordered step sequence read from the document root down to
// a node. The empty Position addresses the root value itself.
type Position []Step

// Equal reports whether both positions hold the same steps.
func (p Position) Equal(other Position) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Expr renders the position as a JSONPath expression rooted at $.
// Unknown indexes become the [*] wildcard.
func (p Position) Expr() jp.Expr {
	x := jp.R()
	for _, s := range p {
		switch {
		case s.kind == StepProperty:
			x = x.C(s.name)
		case s.IsAnyIndex():
			x = x.W()
		default:
			x = x.N(s.index)
		}
	}
	return x
}

func (p Position) String() string {
	return p.Expr().String()
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// Pointer renders the position as an RFC 6901 JSON pointer. Unknown indexes
// render as "*", which no conforming pointer resolver matches.
func (p Position) Pointer() string {
	var b strings.Builder
	for _, s := range p {
		b.WriteByte('/')
		switch {
		case s.kind == StepProperty:
			b.WriteString(pointerEscaper.Replace(s.name))
		case s.IsAnyIndex():
			b.WriteByte('*')
		default:
			b.WriteString(strconv.Itoa(s.index))
		}
	}
	return b.String()
}

// ParsePointer converts an RFC 6901 pointer into a Position. Segments made
// only of digits are read as array indexes; everything else is a property
// name. The empty string is the root.
func ParsePointer(ptr string) Position {
	if ptr == "" {
		return Position{}
	}
	ptr = strings.TrimPrefix(ptr, "/")
	parts := strings.Split(ptr, "/")
	pos := make(Position, 0, len(parts))
	for _, part := range parts {
		pos = append(pos, SegmentStep(strings.ReplaceAll(strings.ReplaceAll(part, "~1", "/"), "~0", "~")))
	}
	return pos
}

// SegmentStep turns one unescaped location segment into a Step: all-digit
// segments become index steps, anything else a property step.
func SegmentStep(seg string) Step {
	if seg != "" && strings.Trim(seg, "0123456789") == "" && (len(seg) == 1 || seg[0] != '0') {
		if i, err := strconv.Atoi(seg); err == nil {
			return IndexStep(i)
		}
	}
	return PropertyStep(seg)
}
