package api

// Shape is the logical JSON shape of a value, independent of syntax.
type Shape uint8

const (
	ShapeScalar Shape = iota + 1
	ShapeObject
	ShapeArray
)

func (s Shape) String() string {
	switch s {
	case ShapeScalar:
		return "scalar"
	case ShapeObject:
		return "object"
	case ShapeArray:
		return "array"
	default:
		return "unknown"
	}
}

// ScalarKind classifies a scalar value.
type ScalarKind uint8

const (
	ScalarNone ScalarKind = iota // not a scalar
	ScalarString
	ScalarNumber
	ScalarBoolean
	ScalarNull
	ScalarOther // references, aliases and expressions without a JSON value
)

func (k ScalarKind) String() string {
	switch k {
	case ScalarString:
		return "string"
	case ScalarNumber:
		return "number"
	case ScalarBoolean:
		return "boolean"
	case ScalarNull:
		return "null"
	case ScalarOther:
		return "other"
	default:
		return "none"
	}
}

// ValueAdapter is a read-only view over a node in value position.
type ValueAdapter interface {
	Node() Node
	Shape() Shape
	// Scalar returns ScalarNone for objects and arrays.
	Scalar() ScalarKind
	// Properties lists the entries of an object in source order; nil for
	// other shapes.
	Properties() []PropertyAdapter
	// Elements lists the entries of an array in source order; nil for
	// other shapes.
	Elements() []ValueAdapter
	// Literal decodes a scalar. Numbers decode to json.Number when they
	// have a JSON spelling and float64 otherwise; ScalarOther decodes to
	// its source text. It returns false for objects, arrays and scalars
	// that cannot be decoded.
	Literal() (any, bool)
}

// PropertyAdapter is a read-only view over a key/value pair.
type PropertyAdapter interface {
	Node() Node
	// Name is the key with any quoting removed.
	Name() string
	// Value returns false while the pair has no value yet, for example
	// during error recovery on `{"a": }`.
	Value() (ValueAdapter, bool)
	// Parent returns the object owning the pair.
	Parent() (ValueAdapter, bool)
}
