package jsonc

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/agentic-research/schemawalk/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messages(doc *Document) []string {
	var out []string
	for _, e := range doc.Errors() {
		out = append(out, e.Message)
	}
	return out
}

func TestParse_Valid(t *testing.T) {
	doc := Parse([]byte(`{"a": [1, true, null, "s"], "b": {"c": -1.5e3}}`), api.LanguageJSON)
	require.Empty(t, doc.Errors())

	root := doc.RootNode()
	require.Len(t, root.Nodes(), 1)
	obj := root.Nodes()[0]
	assert.Equal(t, KindObject, obj.Kind())
	assert.Equal(t, api.Span{Start: 0, End: len(doc.Source())}, obj.Span())
	assert.Nil(t, root.Parent())
	assert.Same(t, root, obj.ParentNode())

	var names []string
	for _, c := range obj.Nodes() {
		if c.Kind() == KindProperty {
			names = append(names, c.Name())
		}
	}
	assert.Equal(t, []string{"a", "b"}, names)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		lang api.Language
		want string
	}{
		{"trailing comma in object", `{"a": 1,}`, api.LanguageJSON, "trailing comma"},
		{"trailing comma in array", `[1,]`, api.LanguageJSON, "trailing comma"},
		{"single quotes", `{"a": 'x'}`, api.LanguageJSON, "JSON strings must use double quotes"},
		{"bare key", `{a: 1}`, api.LanguageJSON, "property names must be double-quoted"},
		{"missing colon", `{"a" 1}`, api.LanguageJSON, "missing ':'"},
		{"missing value", `{"a": }`, api.LanguageJSON, "missing value"},
		{"missing comma", `[1 2]`, api.LanguageJSON, "missing ','"},
		{"unexpected comma", `[,1]`, api.LanguageJSON, "unexpected ','"},
		{"unterminated object", `{"a": 1`, api.LanguageJSON, "expected '}'"},
		{"unterminated array", `[1`, api.LanguageJSON, "expected ']'"},
		{"unterminated string", `{"a": "b`, api.LanguageJSON, "unterminated string"},
		{"unterminated comment", `{/* x`, api.LanguageJSON, "unterminated comment"},
		{"unknown literal", `[tru]`, api.LanguageJSON, `unknown literal "tru"`},
		{"NaN outside JSON5", `[NaN]`, api.LanguageJSON, "NaN is not a JSON number"},
		{"hex outside JSON5", `[0x1F]`, api.LanguageJSON, `invalid number "0x1F"`},
		{"second value", `{} []`, api.LanguageJSON, "unexpected content after the document value"},
		{"no value", `:`, api.LanguageJSON, "expected a value"},
		{"JSON5 still needs a colon", `{a 1}`, api.LanguageJSON5, "missing ':'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Parse([]byte(tt.src), tt.lang)
			assert.Contains(t, messages(doc), tt.want)
		})
	}
}

func TestParse_JSON5(t *testing.T) {
	src := "// config\n{a: 'x', b: +1, c: .5, d: 0xFF, e: -Infinity, f: [1,],}"
	doc := Parse([]byte(src), api.LanguageJSON5)
	require.Empty(t, doc.Errors(), messages(doc))
	assert.Equal(t, api.LanguageJSON5, doc.Language())

	obj := doc.RootNode().Nodes()[1]
	require.Equal(t, KindObject, obj.Kind())
	for _, c := range obj.Nodes() {
		if c.Kind() == KindProperty {
			assert.Equal(t, KindIdentifier, c.Key().Kind())
		}
	}
}

func TestParse_UnknownLanguageIsJSON(t *testing.T) {
	doc := Parse([]byte(`{}`), api.Language("toml"))
	assert.Equal(t, api.LanguageJSON, doc.Language())
}

func TestParse_ErrorLocation(t *testing.T) {
	doc := Parse([]byte("{\n  \"a\": tru\n}"), api.LanguageJSON)
	require.Len(t, doc.Errors(), 1)
	e := doc.Errors()[0]
	assert.Equal(t, 2, e.Line)
	assert.Equal(t, 8, e.Column)
	assert.Equal(t, `2:8: unknown literal "tru"`, e.Error())
}

func TestParse_ErrorNodes(t *testing.T) {
	src := `{"a": {"b" 1}}`
	doc := Parse([]byte(src), api.LanguageJSON)
	n := doc.Find(strings.Index(src, "1"))
	require.NotNil(t, n)
	assert.Equal(t, KindNumber, n.Kind())
	assert.Equal(t, KindError, n.ParentNode().Kind())

	prop := doc.Find(strings.Index(src, `"b"`)).ParentNode()
	require.Equal(t, KindProperty, prop.Kind())
	assert.Equal(t, "b", prop.Name())
	assert.Nil(t, prop.Value())
}

func TestParse_Tolerant(t *testing.T) {
	// parsing always terminates and covers every byte with a node
	inputs := []string{"", "}", "]]", "{{", `{"a":`, `[{"a": [}`, "\"", "{,,,}", "@#", `{"a": 1 "b"`}
	for _, src := range inputs {
		doc := Parse([]byte(src), api.LanguageJSON)
		require.NotNil(t, doc.RootNode(), src)
		for i := 0; i < len(src); i++ {
			assert.NotNil(t, doc.Find(i), "%q at %d", src, i)
		}
	}
}

func TestParse_BOM(t *testing.T) {
	doc := Parse([]byte("\xEF\xBB\xBF{}"), api.LanguageJSON)
	assert.Empty(t, doc.Errors())
}

func TestFind(t *testing.T) {
	src := `{"a": /* c */ 1}`
	doc := Parse([]byte(src), api.LanguageJSON)

	assert.Nil(t, doc.Find(-1))
	assert.Nil(t, doc.Find(len(src)+1))
	assert.Same(t, doc.RootNode(), doc.Find(len(src)))

	c := doc.Find(strings.Index(src, "/*"))
	assert.Equal(t, KindComment, c.Kind())
	assert.Equal(t, KindProperty, c.ParentNode().Kind())

	assert.Equal(t, KindPunct, doc.Find(0).Kind())
	assert.Nil(t, doc.NodeAt(-1))
	assert.Equal(t, "1", doc.Find(strings.Index(src, "1")).Text())
}

func TestNumber(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"1", json.Number("1")},
		{"-1.5e3", json.Number("-1.5e3")},
		{"0x1F", json.Number("31")},
		{"-0x10", json.Number("-16")},
		{"+1.5", json.Number("1.5")},
		{".5", json.Number("0.5")},
		{"5.", json.Number("5")},
		{"Infinity", math.Inf(1)},
		{"-Infinity", math.Inf(-1)},
	}
	for _, tt := range tests {
		got, ok := Number(tt.in)
		require.True(t, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	nan, ok := Number("NaN")
	require.True(t, ok)
	assert.True(t, math.IsNaN(nan.(float64)))

	_, ok = Number("abc")
	assert.False(t, ok)
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{`"plain"`, "plain", true},
		{`"a\nb"`, "a\nb", true},
		{`'it\'s'`, "it's", true},
		{`"é"`, "é", true},
		{`"😀"`, "😀", true},
		{`"\x41"`, "A", true},
		{`"\/"`, "/", true},
		{`"abc`, "abc", false},
		{`"a\"`, `a"`, false},
		{`"\uZZZZ"`, "", false},
		{`bare`, "bare", false},
	}
	for _, tt := range tests {
		got, ok := Unquote(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestLiteral(t *testing.T) {
	src := `[1, "s", true, false, null, {}]`
	doc := Parse([]byte(src), api.LanguageJSON)
	arr := doc.RootNode().Nodes()[0]

	var got []any
	for _, c := range arr.Nodes() {
		if !c.IsValue() {
			continue
		}
		v, ok := c.Literal()
		if c.Kind() == KindObject {
			assert.False(t, ok)
			continue
		}
		require.True(t, ok, c.Kind().String())
		got = append(got, v)
	}
	assert.Equal(t, []any{json.Number("1"), "s", true, false, nil}, got)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "property", KindProperty.String())
	assert.Equal(t, "unknown", Kind(200).String())
}
