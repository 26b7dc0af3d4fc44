package schemanav

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agentic-research/schemawalk/api"
	"github.com/agentic-research/schemawalk/internal/walkers"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const serviceSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["name", "port"],
  "properties": {
    "name": {"type": "string", "description": "service name"},
    "port": {"type": "integer"},
    "tags": {"type": "array", "items": {"type": "string"}},
    "pair": {"prefixItems": [{"type": "string"}, {"type": "integer", "description": "second"}]},
    "origin": {"$ref": "#/$defs/point"},
    "labels": {
      "type": "object",
      "patternProperties": {"^x-": {"type": "string", "description": "extension"}},
      "additionalProperties": {"type": "integer", "description": "counter"}
    },
    "closed": {"type": "object", "additionalProperties": false}
  },
  "$defs": {
    "point": {
      "type": "object",
      "required": ["x"],
      "properties": {"x": {"type": "number", "description": "x coordinate"}, "y": {"type": "number"}}
    }
  }
}`

func compile(t *testing.T) *jsonschema.Schema {
	t.Helper()
	s, err := NewLoader().Compile("https://schemawalk.test/service.json", []byte(serviceSchema))
	require.NoError(t, err)
	return s
}

func steps(segs ...string) api.Position {
	pos := make(api.Position, 0, len(segs))
	for _, s := range segs {
		pos = append(pos, api.SegmentStep(s))
	}
	return pos
}

func TestLoader_JSONAndYAML(t *testing.T) {
	l := NewLoader()
	s, err := l.Compile("https://schemawalk.test/a.json", []byte(`{"properties": {"a": {"description": "from json"}}}`))
	require.NoError(t, err)
	got, ok := Resolve(s, steps("a"))
	require.True(t, ok)
	assert.Equal(t, "from json", got.Description)

	y, err := l.Compile("https://schemawalk.test/b.yaml", []byte("properties:\n  b:\n    description: from yaml\n"))
	require.NoError(t, err)
	got, ok = Resolve(y, steps("b"))
	require.True(t, ok)
	assert.Equal(t, "from yaml", got.Description)

	_, err = l.Compile("https://schemawalk.test/bad.json", []byte(`{"properties": `))
	assert.Error(t, err)
	_, err = l.Compile("https://schemawalk.test/bad.yaml", []byte("a: [\n"))
	assert.Error(t, err)
}

func TestLoader_LoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte("required: [a]\nproperties:\n  a: {type: string}\n"), 0o644))

	s, err := NewLoader().LoadFile(path)
	require.NoError(t, err)
	assert.True(t, IsRequired(s, "a"))
	assert.Equal(t, []string{"a"}, PropertyNames(s))

	_, err = NewLoader().LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	s := compile(t)
	tests := []struct {
		name string
		pos  api.Position
		desc string
		ok   bool
	}{
		{"root", api.Position{}, "", true},
		{"property", steps("name"), "service name", true},
		{"ref", steps("origin", "x"), "x coordinate", true},
		{"prefix item", steps("pair", "1"), "second", true},
		{"pattern property", steps("labels", "x-owner"), "extension", true},
		{"additional property", steps("labels", "hits"), "counter", true},
		{"closed object", steps("closed", "a"), "", false},
		{"unknown property", steps("nope"), "", false},
		{"past a scalar", steps("name", "a"), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(s, tt.pos)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.desc, got.Description)
			}
		})
	}

	items, ok := Resolve(s, api.Position{api.PropertyStep("tags"), api.AnyIndexStep()})
	require.True(t, ok)
	assert.NotNil(t, items)
}

func TestPropertyNames(t *testing.T) {
	s := compile(t)
	assert.Equal(t, []string{"closed", "labels", "name", "origin", "pair", "port", "tags"}, PropertyNames(s))
	assert.True(t, IsRequired(s, "port"))
	assert.False(t, IsRequired(s, "tags"))

	origin, ok := Resolve(s, steps("origin"))
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, PropertyNames(origin))
	assert.True(t, IsRequired(origin, "x"))

	assert.Nil(t, PropertyNames(nil))
	assert.False(t, IsRequired(nil, "x"))
}

func TestCheck(t *testing.T) {
	s := compile(t)
	r := walkers.Default()

	tests := []struct {
		file string
		src  string
	}{
		{"svc.json", "{\n  \"name\": 7,\n  \"tags\": [\"a\", 2]\n}\n"},
		{"svc.yaml", "name: 7\ntags:\n  - a\n  - 2\n"},
		{"svc.tf", "name = 7\ntags = [\"a\", 2]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			doc, err := walkers.ParseFile(context.Background(), tt.file, []byte(tt.src))
			require.NoError(t, err)

			got, err := Check(r, s, doc)
			require.NoError(t, err)
			require.Len(t, got, 3)

			byPtr := make(map[string]*Violation)
			for _, v := range got {
				byPtr[v.Pointer] = v
			}

			missing := byPtr[""]
			require.NotNil(t, missing, "required violation")
			assert.Equal(t, "/required", missing.Keyword)
			assert.Contains(t, missing.Message, "port")
			assert.Empty(t, missing.Position)

			name := byPtr["/name"]
			require.NotNil(t, name)
			assert.Equal(t, "/type", name.Keyword)
			assert.Equal(t, steps("name"), name.Position)
			assert.True(t, name.Node.Span().Contains(strings.Index(tt.src, "7")))
			line, _ := api.LineColumn([]byte(tt.src), strings.Index(tt.src, "7"))
			assert.Equal(t, line, name.Line)

			tag := byPtr["/tags/1"]
			require.NotNil(t, tag)
			assert.Equal(t, steps("tags", "1"), tag.Position)
			assert.True(t, tag.Node.Span().Contains(strings.Index(tt.src, "2")))
		})
	}
}

func TestCheck_Valid(t *testing.T) {
	doc, err := walkers.ParseFile(context.Background(), "ok.json", []byte(`{"name": "api", "port": 8080, "origin": {"x": 1.5}}`))
	require.NoError(t, err)
	got, err := Check(walkers.Default(), compile(t), doc)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCheck_Sorted(t *testing.T) {
	src := "{\n  \"port\": \"x\",\n  \"name\": 1\n}"
	doc, err := walkers.ParseFile(context.Background(), "s.json", []byte(src))
	require.NoError(t, err)
	got, err := Check(walkers.Default(), compile(t), doc)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "/port", got[0].Pointer)
	assert.Equal(t, "/name", got[1].Pointer)
	assert.Equal(t, 2, got[0].Line)
	assert.Equal(t, 11, got[0].Column)
	assert.Equal(t, `2:11: /port: `+got[0].Message, got[0].Error())
}

func TestCheck_NoSchema(t *testing.T) {
	doc, err := walkers.ParseFile(context.Background(), "a.json", []byte(`{}`))
	require.NoError(t, err)
	_, err = Check(walkers.Default(), nil, doc)
	assert.ErrorIs(t, err, ErrNoSchema)
}

func TestCheck_EmptyDocument(t *testing.T) {
	doc, err := walkers.ParseFile(context.Background(), "a.json", []byte("  "))
	require.NoError(t, err)
	got, err := Check(walkers.Default(), compile(t), doc)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Node)
	assert.Equal(t, "1:1: /: "+got[0].Message, got[0].Error())
}

func TestLocate(t *testing.T) {
	doc, err := walkers.ParseFile(context.Background(), "a.json", []byte(`{"a": {"b": [10, 20]}}`))
	require.NoError(t, err)
	root, _, ok := walkers.RootValue(walkers.Default(), doc)
	require.True(t, ok)

	v, pos, ok := Locate(root, []string{"a", "b", "1"})
	require.True(t, ok)
	assert.Equal(t, "$.a.b[1]", pos.String())
	lit, _ := v.Literal()
	assert.EqualValues(t, "20", lit)

	v, pos, ok = Locate(root, []string{"a", "missing", "deeper"})
	assert.False(t, ok)
	assert.Equal(t, "$.a", pos.String())
	assert.Equal(t, api.ShapeObject, v.Shape())

	_, pos, ok = Locate(root, nil)
	assert.True(t, ok)
	assert.Empty(t, pos)
}
