package jsonc

import (
	"bytes"
	"unicode/utf8"

	"github.com/agentic-research/schemawalk/api"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokLBrace
	tokRBrace
	tokLBracket
	tokRBracket
	tokColon
	tokComma
	tokString
	tokNumber
	tokWord
	tokComment
	tokInvalid
)

type token struct {
	kind tokenKind
	span api.Span
	// unterminated strings and block comments
	open bool
}

var bom = []byte{0xEF, 0xBB, 0xBF}

// lex splits src into tokens. Whitespace is dropped; the result always
// ends with tokEOF.
func lex(src []byte) []token {
	var toks []token
	i := 0
	if bytes.HasPrefix(src, bom) {
		i = len(bom)
	}
	emit := func(kind tokenKind, start, end int, open bool) {
		toks = append(toks, token{kind: kind, span: api.Span{Start: start, End: end}, open: open})
		i = end
	}

	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '{':
			emit(tokLBrace, i, i+1, false)
		case c == '}':
			emit(tokRBrace, i, i+1, false)
		case c == '[':
			emit(tokLBracket, i, i+1, false)
		case c == ']':
			emit(tokRBracket, i, i+1, false)
		case c == ':':
			emit(tokColon, i, i+1, false)
		case c == ',':
			emit(tokComma, i, i+1, false)
		case c == '"' || c == '\'':
			end, closed := scanString(src, i)
			emit(tokString, i, end, !closed)
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			end := bytes.IndexByte(src[i:], '\n')
			if end < 0 {
				end = len(src)
			} else {
				end += i
			}
			emit(tokComment, i, end, false)
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			end := bytes.Index(src[i+2:], []byte("*/"))
			if end < 0 {
				emit(tokComment, i, len(src), true)
			} else {
				emit(tokComment, i, i+2+end+2, false)
			}
		case isDigit(c) || c == '-' || c == '+' || c == '.':
			emit(tokNumber, i, scanNumber(src, i), false)
		case isWordStart(c):
			j := i + 1
			for j < len(src) && isWordPart(src[j]) {
				j++
			}
			emit(tokWord, i, j, false)
		default:
			_, size := utf8.DecodeRune(src[i:])
			emit(tokInvalid, i, i+size, false)
		}
	}
	toks = append(toks, token{kind: tokEOF, span: api.Span{Start: len(src), End: len(src)}})
	return toks
}

// scanString returns the end of the string literal starting at i. Strings
// stop at an unescaped newline when unterminated.
func scanString(src []byte, i int) (int, bool) {
	quote := src[i]
	j := i + 1
	for j < len(src) {
		switch src[j] {
		case '\\':
			j += 2
			continue
		case quote:
			return j + 1, true
		case '\n':
			return j, false
		}
		j++
	}
	return len(src), false
}

func scanNumber(src []byte, i int) int {
	j := i
	if src[j] == '-' || src[j] == '+' {
		j++
	}
	hex := j+1 < len(src) && src[j] == '0' && (src[j+1] == 'x' || src[j+1] == 'X')
	for j < len(src) {
		c := src[j]
		switch {
		case isWordPart(c) || c == '.':
			j++
		case (c == '+' || c == '-') && !hex && j > i && (src[j-1] == 'e' || src[j-1] == 'E'):
			j++
		default:
			return j
		}
	}
	return j
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isWordStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= utf8.RuneSelf
}

func isWordPart(c byte) bool {
	return isWordStart(c) || isDigit(c)
}
