package jsonc

import (
	"fmt"
	"regexp"

	"github.com/agentic-research/schemawalk/api"
)

var (
	jsonNumber  = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)
	json5Number = regexp.MustCompile(`^[+-]?(Infinity|NaN|0[xX][0-9a-fA-F]+|([0-9]+\.?[0-9]*|\.[0-9]+)([eE][+-]?[0-9]+)?)$`)
)

// Parse builds the syntax tree of src. lang selects the dialect:
// api.LanguageJSON5 relaxes quoting, numbers and trailing commas; any other
// value parses strict JSON (comments are tolerated in both). Parse always
// returns a document; malformed input is reported through Errors.
func Parse(src []byte, lang api.Language) *Document {
	if lang != api.LanguageJSON5 {
		lang = api.LanguageJSON
	}
	doc := &Document{src: src, lang: lang}
	p := &parser{doc: doc, toks: lex(src)}
	doc.root = &Node{kind: KindDocument, span: api.Span{Start: 0, End: len(src)}, doc: doc}
	p.parseDocument(doc.root)
	return doc
}

type parser struct {
	doc  *Document
	toks []token
	pos  int
}

func (p *parser) json5() bool { return p.doc.lang == api.LanguageJSON5 }

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(span api.Span, format string, args ...any) {
	p.doc.errs = append(p.doc.errs, api.NewSyntaxError(p.doc.src, span, fmt.Sprintf(format, args...)))
}

func (p *parser) text(t token) string {
	return string(p.doc.src[t.span.Start:t.span.End])
}

func (p *parser) add(parent *Node, kind Kind, span api.Span) *Node {
	n := &Node{kind: kind, span: span, doc: p.doc, parent: parent}
	parent.children = append(parent.children, n)
	return n
}

// leaf consumes the current token as a child of parent.
func (p *parser) leaf(parent *Node, kind Kind) *Node {
	return p.add(parent, kind, p.advance().span)
}

// finish stretches n over its children.
func (p *parser) finish(n *Node) {
	if len(n.children) > 0 {
		n.span.End = n.children[len(n.children)-1].span.End
	}
}

// trivia attaches comments to parent.
func (p *parser) trivia(parent *Node) {
	for p.peek().kind == tokComment {
		if t := p.peek(); t.open {
			p.errorf(t.span, "unterminated comment")
		}
		p.leaf(parent, KindComment)
	}
}

func startsValue(k tokenKind) bool {
	switch k {
	case tokLBrace, tokLBracket, tokString, tokNumber, tokWord:
		return true
	default:
		return false
	}
}

func (p *parser) parseDocument(root *Node) {
	p.trivia(root)
	if startsValue(p.peek().kind) {
		p.parseValue(root)
	}
	for {
		p.trivia(root)
		t := p.peek()
		if t.kind == tokEOF {
			return
		}
		if !hasValue(root) {
			p.parseError(root, "expected a value")
		} else {
			p.parseError(root, "unexpected content after the document value")
		}
	}
}

func hasValue(n *Node) bool {
	for _, c := range n.children {
		if c.IsValue() {
			return true
		}
	}
	return false
}

// parseValue parses the value at the current token into parent and
// returns nil, consuming nothing, when no value starts there.
func (p *parser) parseValue(parent *Node) *Node {
	t := p.peek()
	switch t.kind {
	case tokLBrace:
		return p.parseObject(parent)
	case tokLBracket:
		return p.parseArray(parent)
	case tokString:
		p.checkString(t)
		return p.leaf(parent, KindString)
	case tokNumber:
		p.checkNumber(t)
		return p.leaf(parent, KindNumber)
	case tokWord:
		switch p.text(t) {
		case "true", "false":
			return p.leaf(parent, KindBoolean)
		case "null":
			return p.leaf(parent, KindNull)
		case "Infinity", "NaN":
			if !p.json5() {
				p.errorf(t.span, "%s is not a JSON number", p.text(t))
			}
			return p.leaf(parent, KindNumber)
		default:
			p.errorf(t.span, "unknown literal %q", p.text(t))
			return p.leaf(parent, KindIdentifier)
		}
	}
	return nil
}

func (p *parser) checkString(t token) {
	switch {
	case t.open:
		p.errorf(t.span, "unterminated string")
	case !p.json5() && p.doc.src[t.span.Start] == '\'':
		p.errorf(t.span, "JSON strings must use double quotes")
	}
}

func (p *parser) checkNumber(t token) {
	text := p.text(t)
	switch {
	case jsonNumber.MatchString(text):
	case p.json5() && json5Number.MatchString(text):
	default:
		p.errorf(t.span, "invalid number %q", text)
	}
}

func (p *parser) open(parent *Node, kind Kind) *Node {
	n := p.add(parent, kind, p.peek().span)
	p.leaf(n, KindPunct)
	return n
}

func (p *parser) parseObject(parent *Node) *Node {
	obj := p.open(parent, KindObject)
	entries, needComma, trailing := 0, false, false
	for {
		p.trivia(obj)
		t := p.peek()
		switch t.kind {
		case tokRBrace:
			if trailing && !p.json5() {
				p.errorf(t.span, "trailing comma")
			}
			p.leaf(obj, KindPunct)
			p.finish(obj)
			return obj
		case tokEOF, tokRBracket:
			p.errorf(t.span, "expected '}'")
			p.finish(obj)
			return obj
		case tokComma:
			if !needComma {
				p.errorf(t.span, "unexpected ','")
			}
			p.leaf(obj, KindComma)
			needComma, trailing = false, entries > 0
		case tokString, tokWord:
			if needComma {
				p.errorf(api.Span{Start: t.span.Start, End: t.span.Start}, "missing ','")
			}
			p.parseProperty(obj)
			entries++
			needComma, trailing = true, false
		default:
			p.parseError(obj, "expected a property name")
		}
	}
}

func (p *parser) parseProperty(obj *Node) {
	prop := p.add(obj, KindProperty, p.peek().span)
	t := p.peek()
	if t.kind == tokWord {
		if !p.json5() {
			p.errorf(t.span, "property names must be double-quoted")
		}
		p.leaf(prop, KindIdentifier)
	} else {
		p.checkString(t)
		p.leaf(prop, KindString)
	}
	defer p.finish(prop)

	p.trivia(prop)
	if p.peek().kind != tokColon {
		p.errorf(api.Span{Start: t.span.End, End: t.span.End}, "missing ':'")
		return
	}
	p.leaf(prop, KindPunct)
	p.trivia(prop)
	if p.parseValue(prop) == nil {
		at := p.peek().span
		p.errorf(api.Span{Start: at.Start, End: at.Start}, "missing value")
	}
}

func (p *parser) parseArray(parent *Node) *Node {
	arr := p.open(parent, KindArray)
	entries, needComma, trailing := 0, false, false
	for {
		p.trivia(arr)
		t := p.peek()
		switch {
		case t.kind == tokRBracket:
			if trailing && !p.json5() {
				p.errorf(t.span, "trailing comma")
			}
			p.leaf(arr, KindPunct)
			p.finish(arr)
			return arr
		case t.kind == tokEOF || t.kind == tokRBrace:
			p.errorf(t.span, "expected ']'")
			p.finish(arr)
			return arr
		case t.kind == tokComma:
			if !needComma {
				p.errorf(t.span, "unexpected ','")
			}
			p.leaf(arr, KindComma)
			needComma, trailing = false, entries > 0
		case startsValue(t.kind):
			if needComma {
				p.errorf(api.Span{Start: t.span.Start, End: t.span.Start}, "missing ','")
			}
			p.parseValue(arr)
			entries++
			needComma, trailing = true, false
		default:
			p.parseError(arr, "expected a value")
		}
	}
}

// parseError wraps the current token, or the value starting there, in an
// error node. It always consumes input.
func (p *parser) parseError(parent *Node, msg string) {
	t := p.peek()
	p.errorf(t.span, "%s", msg)
	e := p.add(parent, KindError, t.span)
	switch t.kind {
	case tokLBrace, tokLBracket, tokString, tokNumber, tokWord:
		p.parseValue(e)
	case tokComma:
		p.leaf(e, KindComma)
	default:
		p.leaf(e, KindPunct)
	}
	p.finish(e)
}
