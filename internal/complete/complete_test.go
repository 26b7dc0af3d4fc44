package complete

import (
	"context"
	"strings"
	"testing"

	"github.com/agentic-research/schemawalk/api"
	"github.com/agentic-research/schemawalk/internal/schemanav"
	"github.com/agentic-research/schemawalk/internal/walkers"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const schemaSrc = `{
  "required": ["name"],
  "properties": {
    "name": {"type": "string", "description": "service name"},
    "port": {"type": "integer"},
    "meta": {
      "type": "object",
      "properties": {"owner": {"type": "string"}, "team-id": {"type": "string"}}
    }
  }
}`

func schema(t *testing.T) *jsonschema.Schema {
	t.Helper()
	s, err := schemanav.NewLoader().Compile("https://schemawalk.test/complete.json", []byte(schemaSrc))
	require.NoError(t, err)
	return s
}

func at(t *testing.T, file, src, needle string) (api.Walker, api.Node, api.Document) {
	t.Helper()
	doc, err := walkers.ParseFile(context.Background(), file, []byte(src))
	require.NoError(t, err)
	i := strings.Index(src, needle)
	require.GreaterOrEqual(t, i, 0)
	n := doc.NodeAt(i)
	require.NotNil(t, n)
	w, ok := walkers.Default().Select(n, nil)
	require.True(t, ok)
	return w, n, doc
}

func names(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

func inserts(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Insert)
	}
	return out
}

func TestProperties_Key(t *testing.T) {
	s := schema(t)
	tests := []struct {
		name    string
		file    string
		src     string
		needle  string
		names   []string
		inserts []string
	}{
		{
			name:    "json top level",
			file:    "a.json",
			src:     `{"port": 1, "n": 2}`,
			needle:  `"n"`,
			names:   []string{"name", "meta"},
			inserts: []string{`"name": `, `"meta": `},
		},
		{
			name:    "json nested",
			file:    "a.json",
			src:     `{"meta": {"o": 1}}`,
			needle:  `"o"`,
			names:   []string{"owner", "team-id"},
			inserts: []string{`"owner": `, `"team-id": `},
		},
		{
			name:    "json5 bare names",
			file:    "a.json5",
			src:     `{meta: {o: 1}}`,
			needle:  "o:",
			names:   []string{"owner", "team-id"},
			inserts: []string{`owner: `, `"team-id": `},
		},
		{
			name:    "yaml",
			file:    "a.yaml",
			src:     "meta:\n  owner: x\n  t: 1\n",
			needle:  "t:",
			names:   []string{"team-id"},
			inserts: []string{"team-id: "},
		},
		{
			name:    "hcl block",
			file:    "a.tf",
			src:     "port = 1\nmeta {\n  x = 1\n}\n",
			needle:  "x",
			names:   []string{"owner", "team-id"},
			inserts: []string{"owner = ", "team-id = "},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, n, _ := at(t, tt.file, tt.src, tt.needle)
			require.True(t, w.IsName(n))
			got := Properties(w, n, s)
			assert.Equal(t, tt.names, names(got))
			assert.Equal(t, tt.inserts, inserts(got))
		})
	}
}

func TestProperties_RequiredAndDescription(t *testing.T) {
	w, n, _ := at(t, "a.json", `{"x": 1}`, `"x"`)
	got := Properties(w, n, schema(t))
	require.Len(t, got, 3)
	assert.Equal(t, Item{Name: "name", Key: `"name"`, Insert: `"name": `, Description: "service name", Required: true}, got[0])
	assert.Equal(t, []string{"name", "meta", "port"}, names(got))
	assert.False(t, got[1].Required)
}

func TestProperties_ObjectValue(t *testing.T) {
	src := `{"meta": {"owner": "a"}}`
	doc, err := walkers.ParseFile(context.Background(), "a.json", []byte(src))
	require.NoError(t, err)
	root, w, ok := walkers.RootValue(walkers.Default(), doc)
	require.True(t, ok)
	meta, ok := api.Descend(root, api.Position{api.PropertyStep("meta")})
	require.True(t, ok)

	got := Properties(w, meta.Node(), schema(t))
	assert.Equal(t, []string{"team-id"}, names(got))
}

type commaless struct{ api.Walker }

func (commaless) HasPropertiesBehindAndNoComma(api.Node) bool { return true }

func TestProperties_TrailingComma(t *testing.T) {
	w, n, _ := at(t, "a.json", `{"port": 1, "x": 2}`, `"x"`)
	got := Properties(commaless{w}, n, schema(t))
	require.NotEmpty(t, got)
	assert.Equal(t, `"name": ,`, got[0].Insert)
}

func TestProperties_NoCandidates(t *testing.T) {
	s := schema(t)

	w, n, _ := at(t, "a.json", `{"port": 1}`, "1")
	assert.Nil(t, Properties(w, n, s), "scalar value")

	w, n, _ = at(t, "a.json", `{"other": {"x": 1}}`, `"x"`)
	assert.Nil(t, Properties(w, n, s), "unknown object")

	assert.Nil(t, Properties(w, n, nil))
	assert.Nil(t, Properties(nil, n, s))
	assert.Nil(t, Properties(w, nil, s))
}

func TestKey(t *testing.T) {
	assert.Equal(t, `"a"`, key("a", true, api.LanguageJSON))
	assert.Equal(t, "a_b", key("a_b", false, api.LanguageYAML))
	assert.Equal(t, "a-b", key("a-b", false, api.LanguageHCL))
	assert.Equal(t, `"a-b"`, key("a-b", false, api.LanguageJSON5))
	assert.Equal(t, `"1a"`, key("1a", false, api.LanguageYAML))
	assert.Equal(t, `"a b"`, key("a b", false, api.LanguageYAML))
	assert.Equal(t, `""`, key("", false, api.LanguageYAML))
}
