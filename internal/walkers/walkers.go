// Package walkers wires the syntax walkers together: the default registry,
// language detection by file extension and parse dispatch.
package walkers

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/agentic-research/schemawalk/api"
	"github.com/agentic-research/schemawalk/internal/hclwalk"
	"github.com/agentic-research/schemawalk/internal/jsonc"
	"github.com/agentic-research/schemawalk/internal/jsonwalk"
	"github.com/agentic-research/schemawalk/internal/yamlwalk"
)

// ErrUnsupportedLanguage is returned for files no parser understands.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Default returns a registry with the canonical JSON walker and the JSON5,
// YAML and HCL factories, registered in that order.
func Default() *api.Registry {
	r := api.NewRegistry(jsonwalk.New())
	r.Register(jsonwalk.JSON5Factory)
	r.Register(yamlwalk.Factory)
	r.Register(hclwalk.Factory)
	return r
}

// LanguageForPath maps a file extension to a language. It returns false
// for unsupported extensions.
func LanguageForPath(path string) (api.Language, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return api.LanguageJSON, true
	case ".json5":
		return api.LanguageJSON5, true
	case ".yaml", ".yml":
		return api.LanguageYAML, true
	case ".hcl", ".tf", ".tfvars":
		return api.LanguageHCL, true
	default:
		return "", false
	}
}

// ParseLanguage validates a language name given on the command line.
func ParseLanguage(name string) (api.Language, error) {
	switch lang := api.Language(strings.ToLower(name)); lang {
	case api.LanguageJSON, api.LanguageJSON5, api.LanguageYAML, api.LanguageHCL:
		return lang, nil
	case "yml":
		return api.LanguageYAML, nil
	case "tf", "terraform":
		return api.LanguageHCL, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, name)
	}
}

// Parse parses src as lang. filename only labels diagnostics. Malformed
// input is not an error: it yields a document whose Errors are non-empty.
func Parse(ctx context.Context, lang api.Language, src []byte, filename string) (api.Document, error) {
	switch lang {
	case api.LanguageJSON, api.LanguageJSON5:
		return jsonc.Parse(src, lang), nil
	case api.LanguageYAML:
		doc, err := yamlwalk.Parse(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", filename, err)
		}
		return doc, nil
	case api.LanguageHCL:
		return hclwalk.Parse(src, filename), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
}

// ParseFile parses src, picking the language from the file name.
func ParseFile(ctx context.Context, filename string, src []byte) (api.Document, error) {
	lang, ok := LanguageForPath(filename)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, filename)
	}
	return Parse(ctx, lang, src, filename)
}

// RootValue returns the value at the top of doc: the first value node of
// the first document in the stream. It returns false for empty documents.
func RootValue(r *api.Registry, doc api.Document) (api.ValueAdapter, api.Walker, bool) {
	var found api.ValueAdapter
	var walker api.Walker
	var visit func(n api.Node, depth int) bool
	visit = func(n api.Node, depth int) bool {
		// documents sit at most two levels down (stream, document)
		if depth > 2 {
			return false
		}
		for _, c := range n.Children() {
			w, ok := r.Select(c, nil)
			if !ok {
				continue
			}
			if w.IsTopJSONElement(c) {
				if v, ok := w.CreateValueAdapter(c); ok {
					found, walker = v, w
					return true
				}
			}
			if visit(c, depth+1) {
				return true
			}
		}
		return false
	}
	if doc == nil || doc.Root() == nil {
		return nil, nil, false
	}
	visit(doc.Root(), 0)
	return found, walker, found != nil
}
