package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/agentic-research/schemawalk/api"
	"github.com/agentic-research/schemawalk/internal/index"
	"github.com/agentic-research/schemawalk/internal/walkers"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
  "type": "object",
  "required": ["name", "port"],
  "properties": {
    "name": {"type": "string", "description": "service name"},
    "port": {"type": "integer", "description": "listen port"},
    "meta": {"type": "object", "properties": {"owner": {"type": "string"}}}
  }
}`

func resetFlags() {
	reset := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	reset(rootCmd.PersistentFlags())
	for _, c := range rootCmd.Commands() {
		reset(c.Flags())
	}
}

// run executes the root command with fresh flag values.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(func() {
		resetFlags()
		rootCmd.SetArgs(nil)
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func offsetOf(src, needle string) string {
	return strconv.Itoa(strings.Index(src, needle))
}

func TestPosition(t *testing.T) {
	dir := t.TempDir()
	src := `{"a": {"b": 1}}`
	file := write(t, dir, "a.json", src)

	out, err := run(t, "position", file, "--offset", offsetOf(src, "1"))
	require.NoError(t, err)
	assert.Equal(t, "$.a.b\t/a/b\n", out)

	out, err = run(t, "position", file, "--offset", offsetOf(src, `"b"`))
	require.NoError(t, err)
	assert.Equal(t, "$.a\t/a\n", out, "name detected and elided")

	out, err = run(t, "position", file, "--offset", offsetOf(src, `"b"`), "--force-last")
	require.NoError(t, err)
	assert.Equal(t, "$.a.b\t/a/b\n", out)

	out, err = run(t, "position", file, "--offset", "0")
	require.NoError(t, err)
	assert.Equal(t, "$\t/\n", out)
}

func TestPosition_LineColumn(t *testing.T) {
	dir := t.TempDir()
	file := write(t, dir, "a.yaml", "a:\n  list:\n    - x\n    - y\n")

	out, err := run(t, "position", file, "--line", "4", "--column", "7")
	require.NoError(t, err)
	assert.Equal(t, "$.a.list[1]\t/a/list/1\n", out)
}

func TestPosition_Schema(t *testing.T) {
	dir := t.TempDir()
	schema := write(t, dir, "schema.json", testSchema)
	src := "name = \"api\"\nport = 80\n"
	file := write(t, dir, "svc.tf", src)

	out, err := run(t, "position", file, "--offset", offsetOf(src, "80"), "--schema", schema)
	require.NoError(t, err)
	assert.Contains(t, out, "$.port\t/port\n")
	assert.Contains(t, out, "description: listen port\n")
}

func TestPosition_Errors(t *testing.T) {
	dir := t.TempDir()
	file := write(t, dir, "a.json", `{}`)

	_, err := run(t, "position", file)
	assert.ErrorContains(t, err, "--offset or --line")

	_, err = run(t, "position", file, "--offset", "99")
	assert.ErrorContains(t, err, "past end")

	_, err = run(t, "position", file, "--line", "5")
	assert.ErrorContains(t, err, "line 5")

	other := write(t, dir, "a.toml", "a = 1")
	_, err = run(t, "position", other, "--offset", "0")
	assert.ErrorIs(t, err, walkers.ErrUnsupportedLanguage)
}

func TestPosition_LangOverride(t *testing.T) {
	dir := t.TempDir()
	src := "a:\n  b: 1\n"
	file := write(t, dir, "config.txt", src)

	out, err := run(t, "--lang", "yaml", "position", file, "--offset", offsetOf(src, "1"))
	require.NoError(t, err)
	assert.Equal(t, "$.a.b\t/a/b\n", out)
}

func TestComplete(t *testing.T) {
	dir := t.TempDir()
	schema := write(t, dir, "schema.json", testSchema)
	src := `{"port": 1, "x": 2}`
	file := write(t, dir, "a.json", src)

	out, err := run(t, "complete", file, "--offset", offsetOf(src, `"x"`), "--schema", schema)
	require.NoError(t, err)
	assert.Equal(t, "* \"name\": \tservice name\n  \"meta\": \t\n", out)

	_, err = run(t, "complete", file, "--offset", "0")
	assert.Error(t, err, "schema is required")
}

func TestComplete_Apply(t *testing.T) {
	dir := t.TempDir()
	schema := write(t, dir, "schema.json", testSchema)
	src := "meta:\n  own: x\n"
	file := write(t, dir, "a.yaml", src)

	out, err := run(t, "complete", file, "--offset", offsetOf(src, "own"), "--schema", schema, "--apply", "owner")
	require.NoError(t, err)
	assert.Contains(t, out, "renamed to owner")
	got, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "meta:\n  owner: x\n", string(got))

	_, err = run(t, "complete", file, "--offset", offsetOf(src, "own"), "--schema", schema, "--apply", "port")
	assert.ErrorContains(t, err, "not a candidate")
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	schema := write(t, dir, "schema.json", testSchema)
	good := write(t, dir, "good.yaml", "name: api\nport: 80\n")
	bad := write(t, dir, "bad.json", "{\n  \"name\": \"api\",\n  \"port\": \"eighty\"\n}\n")

	out, err := run(t, "validate", "--schema", schema, good)
	require.NoError(t, err)
	assert.Contains(t, out, "1 file(s) valid")

	out, err = run(t, "validate", "--schema", schema, good, bad)
	assert.ErrorContains(t, err, "1 problem(s)")
	assert.Contains(t, out, "bad.json:3:11: error:")
	assert.Contains(t, out, "/port /type")
	assert.NotContains(t, out, "good.yaml")
}

func TestValidate_SyntaxErrors(t *testing.T) {
	dir := t.TempDir()
	schema := write(t, dir, "schema.json", testSchema)
	bad := write(t, dir, "bad.json", `{"name": "api", "port": 1,}`)

	out, err := run(t, "validate", "--schema", schema, bad)
	assert.Error(t, err)
	assert.Contains(t, out, "(syntax)")
}

func TestIndex(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	write(t, src, "a.json", `{"name": "api"}`)
	write(t, src, "nested/b.yaml", "name: web\n")
	write(t, src, "c.tf", "name = \"db\"\n")
	write(t, src, "README.md", "# ignored\n")
	write(t, src, ".hidden/d.json", `{"name": "hidden"}`)
	dbPath := filepath.Join(dir, "out.db")

	out, err := run(t, "index", dbPath, src, "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Indexing 3 file(s)")

	rd, err := index.Open(dbPath)
	require.NoError(t, err)
	defer func() { _ = rd.Close() }()
	names, err := rd.ByPath(context.Background(), "$.name")
	require.NoError(t, err)
	assert.Len(t, names, 3)
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	a := write(t, dir, "b.json", `{}`)
	write(t, dir, "sub/a.yml", "a: 1\n")
	write(t, dir, "notes.txt", "x")
	explicit := write(t, t.TempDir(), "conf.txt", "a: 1\n")

	files, err := collectFiles([]string{dir, explicit})
	require.NoError(t, err)
	want := []string{a, explicit, filepath.Join(dir, "sub", "a.yml")}
	sort.Strings(want)
	assert.Equal(t, want, files)

	_, err = collectFiles([]string{filepath.Join(dir, "missing")})
	assert.Error(t, err)
}

func TestCursorResolve(t *testing.T) {
	src := []byte("ab\ncd\n")
	tests := []struct {
		c    cursor
		want int
		err  bool
	}{
		{cursor{offset: 4, column: 1}, 4, false},
		{cursor{offset: -1, line: 2, column: 2}, 4, false},
		{cursor{offset: -1, line: 9, column: 1}, 0, true},
		{cursor{offset: -1, column: 1}, 0, true},
		{cursor{offset: 7, column: 1}, 0, true},
	}
	for _, tt := range tests {
		got, err := tt.c.resolve(src)
		if tt.err {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestCommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"position", "complete", "validate", "index"} {
		assert.True(t, names[want], want)
	}

	lang, err := languageFor("x.json")
	require.NoError(t, err)
	assert.Equal(t, api.LanguageJSON, lang)
}
