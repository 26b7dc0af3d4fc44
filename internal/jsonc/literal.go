package jsonc

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Literal decodes a scalar node. Strings decode with JSON5 escape rules,
// numbers to json.Number (float64 for Infinity and NaN) and identifiers to
// their text. It returns false for containers and structural tokens.
func (n *Node) Literal() (any, bool) {
	switch n.kind {
	case KindString:
		s, ok := Unquote(n.Text())
		return s, ok
	case KindNumber:
		return Number(n.Text())
	case KindBoolean:
		return n.Text() == "true", true
	case KindNull:
		return nil, true
	case KindIdentifier:
		return n.Text(), true
	default:
		return nil, false
	}
}

// Number decodes a JSON or JSON5 number literal.
func Number(text string) (any, bool) {
	if jsonNumber.MatchString(text) {
		return json.Number(text), true
	}
	if !json5Number.MatchString(text) {
		return nil, false
	}
	sign := 1.0
	body := text
	switch body[0] {
	case '-':
		sign, body = -1, body[1:]
	case '+':
		body = body[1:]
	}
	switch {
	case body == "Infinity":
		return math.Inf(int(sign)), true
	case body == "NaN":
		return math.NaN(), true
	case strings.HasPrefix(body, "0x") || strings.HasPrefix(body, "0X"):
		u, err := strconv.ParseUint(body[2:], 16, 64)
		if err != nil {
			return nil, false
		}
		if sign < 0 {
			return json.Number("-" + strconv.FormatUint(u, 10)), true
		}
		return json.Number(strconv.FormatUint(u, 10)), true
	}
	f, err := strconv.ParseFloat(body, 64)
	if err != nil {
		return nil, false
	}
	return json.Number(strconv.FormatFloat(sign*f, 'g', -1, 64)), true
}

// Unquote strips the quotes of a JSON or JSON5 string literal and decodes
// its escapes. It reports false for a literal that is unterminated or holds
// an invalid escape, still returning the best-effort decoding.
func Unquote(s string) (string, bool) {
	if s == "" || (s[0] != '"' && s[0] != '\'') {
		return s, false
	}
	quote := s[0]
	body, ok := s[1:], false
	if len(body) > 0 && body[len(body)-1] == quote && !escapedAt(body, len(body)-1) {
		body, ok = body[:len(body)-1], true
	}
	if !strings.ContainsRune(body, '\\') {
		return body, ok
	}

	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}
		i++
		if i >= len(body) {
			return b.String(), false
		}
		c = body[i]
		i++
		switch c {
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\n':
			// line continuation
		case '\r':
			if i < len(body) && body[i] == '\n' {
				i++
			}
		case 'x':
			r, ok := hexRune(body, i, 2)
			if !ok {
				return b.String(), false
			}
			b.WriteRune(r)
			i += 2
		case 'u':
			r, ok := hexRune(body, i, 4)
			if !ok {
				return b.String(), false
			}
			i += 4
			if utf16.IsSurrogate(r) && i+6 <= len(body) && body[i] == '\\' && body[i+1] == 'u' {
				if lo, ok := hexRune(body, i+2, 4); ok {
					if pair := utf16.DecodeRune(r, lo); pair != utf8.RuneError {
						r = pair
						i += 6
					}
				}
			}
			b.WriteRune(r)
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), ok
}

// escapedAt reports whether the byte at i is preceded by an odd number of
// backslashes.
func escapedAt(s string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

func hexRune(s string, i, width int) (rune, bool) {
	if i+width > len(s) {
		return 0, false
	}
	v, err := strconv.ParseUint(s[i:i+width], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}
