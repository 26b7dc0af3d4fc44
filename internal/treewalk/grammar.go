// Package treewalk implements the syntax-independent part of api.Walker.
//
// Each syntax family describes its tree through a Grammar: which nodes are
// objects, arrays, properties, scalars, commas or transparent wrappers, and
// how to reach a property's key and value. Base turns that description
// into the walker operations, the step builder included. Concrete walkers
// embed Base and add Handles plus their syntax facts.
package treewalk

import (
	"github.com/agentic-research/schemawalk/api"
)

// Role is the grammatical role of a node.
type Role uint8

const (
	// RoleOther covers punctuation, comments, anchors and anything else a
	// walk passes over without emitting steps.
	RoleOther Role = iota
	// RoleDocument is the node that owns the root value. Walks stop there.
	RoleDocument
	RoleObject
	RoleArray
	RoleProperty
	RoleScalar
	// RoleWrapper is a value node that only wraps another value, such as
	// YAML's block_node. Its shape is the shape of its content.
	RoleWrapper
	RoleComma
	// RoleError marks parser error recovery. Steps below it are discarded.
	RoleError
)

// IsValue reports whether nodes with role r sit in value position.
func (r Role) IsValue() bool {
	switch r {
	case RoleObject, RoleArray, RoleScalar, RoleWrapper:
		return true
	default:
		return false
	}
}

// Grammar describes the tree of one syntax family. Implementations must be
// safe for concurrent use and must return an untyped nil for absent nodes.
type Grammar interface {
	Role(n api.Node) Role

	// Key and Value return the parts of a RoleProperty node, nil when
	// missing.
	Key(prop api.Node) api.Node
	Value(prop api.Node) api.Node
	// Name returns the unquoted key of a RoleProperty node.
	Name(prop api.Node) string

	// Properties returns the property nodes of an object value.
	Properties(obj api.Node) []api.Node
	// Elements returns the element nodes of an array value, in the form
	// the step builder sees them as children of the array.
	Elements(arr api.Node) []api.Node

	// Shape and Scalar classify a value node, looking through wrappers.
	Shape(v api.Node) api.Shape
	Scalar(v api.Node) api.ScalarKind
	// Literal decodes a scalar value node.
	Literal(v api.Node) (any, bool)
}
