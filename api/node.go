package api

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// Language names the syntax family that produced a syntax tree.
type Language string

const (
	LanguageJSON  Language = "json"
	LanguageJSON5 Language = "json5"
	LanguageYAML  Language = "yaml"
	LanguageHCL   Language = "hcl"
)

// Span is a half-open byte range into a document's source.
type Span struct {
	Start int
	End   int
}

// Contains reports whether offset falls inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Node is an opaque handle into a concrete syntax tree owned by a parser.
//
// Implementations are pointer types, so two handles are the same node iff
// they compare equal with ==. Parent is a back reference only; the document
// owns every node and outlives any adapter built over it.
type Node interface {
	// Parent returns the enclosing node, or nil at the root.
	Parent() Node
	// Children returns the direct children in source order, punctuation
	// and comments included.
	Children() []Node
	// Language names the syntax family the node was parsed from.
	Language() Language
	// Span returns the bytes covered by the node.
	Span() Span
}

// Document is a parsed source file.
type Document interface {
	Root() Node
	Source() []byte
	Language() Language
	// NodeAt returns the innermost node covering offset, or nil when the
	// offset lies outside the document.
	NodeAt(offset int) Node
	// Errors returns the diagnostics the parser recovered from.
	Errors() []SyntaxError
}

// SyntaxError describes malformed input a parser recovered from.
type SyntaxError struct {
	Span    Span
	Line    int // 1-based
	Column  int // 1-based, in runes
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// NewSyntaxError builds a SyntaxError for span, computing line and column
// from src.
func NewSyntaxError(src []byte, span Span, msg string) SyntaxError {
	line, col := LineColumn(src, span.Start)
	return SyntaxError{Span: span, Line: line, Column: col, Message: msg}
}

// LineColumn converts a byte offset into a 1-based line and rune column.
// Offsets past the end clamp to the end of src.
func LineColumn(src []byte, offset int) (line, column int) {
	if offset > len(src) {
		offset = len(src)
	}
	if offset < 0 {
		offset = 0
	}
	head := src[:offset]
	line = bytes.Count(head, []byte{'\n'}) + 1
	lineStart := bytes.LastIndexByte(head, '\n') + 1
	return line, utf8.RuneCount(head[lineStart:]) + 1
}

// Offset converts a 1-based line and rune column back into a byte offset.
// It returns false when the line does not exist; columns past the end of a
// line clamp to the line end.
func Offset(src []byte, line, column int) (int, bool) {
	if line < 1 || column < 1 {
		return 0, false
	}
	start := 0
	for l := 1; l < line; l++ {
		i := bytes.IndexByte(src[start:], '\n')
		if i < 0 {
			return 0, false
		}
		start += i + 1
	}
	end := len(src)
	if i := bytes.IndexByte(src[start:], '\n'); i >= 0 {
		end = start + i
	}
	off := start
	for c := 1; c < column && off < end; c++ {
		_, size := utf8.DecodeRune(src[off:end])
		off += size
	}
	return off, true
}
