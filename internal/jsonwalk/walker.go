// Package jsonwalk provides the canonical walker for JSON documents parsed
// by jsonc, and the JSON5 walker registered as a factory next to it.
package jsonwalk

import (
	"github.com/agentic-research/schemawalk/api"
	"github.com/agentic-research/schemawalk/internal/jsonc"
	"github.com/agentic-research/schemawalk/internal/treewalk"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Walker is the canonical walker. It handles jsonc nodes of one dialect,
// strict JSON unless built by NewJSON5.
type Walker struct {
	treewalk.Base
	lang api.Language
}

var _ api.Walker = (*Walker)(nil)

// New returns the canonical JSON walker.
func New() *Walker {
	return &Walker{Base: treewalk.Base{Grammar: grammar{}}, lang: api.LanguageJSON}
}

// Handles implements api.Walker.
func (w *Walker) Handles(n api.Node) bool {
	jn, ok := n.(*jsonc.Node)
	return ok && jn != nil && jn.Language() == w.lang
}

// IsNameQuoted implements api.Walker.
func (w *Walker) IsNameQuoted() bool { return true }

// OnlyDoubleQuotesForStringLiterals implements api.Walker.
func (w *Walker) OnlyDoubleQuotesForStringLiterals() bool { return true }

// JSON5Walker walks JSON5 documents. The tree is the same as for JSON;
// only the quoting rules differ.
type JSON5Walker struct {
	*Walker
}

var _ api.Walker = (*JSON5Walker)(nil)

// NewJSON5 returns a walker for JSON5 documents.
func NewJSON5() *JSON5Walker {
	return &JSON5Walker{Walker: &Walker{Base: treewalk.Base{Grammar: grammar{}}, lang: api.LanguageJSON5}}
}

// IsNameQuoted implements api.Walker. JSON5 accepts identifier keys.
func (w *JSON5Walker) IsNameQuoted() bool { return false }

// OnlyDoubleQuotesForStringLiterals implements api.Walker.
func (w *JSON5Walker) OnlyDoubleQuotesForStringLiterals() bool { return false }

// JSON5Factory registers the JSON5 walker. The schema plays no part in
// applicability.
var JSON5Factory api.Factory = api.FactoryFunc(func(*jsonschema.Schema) api.Walker {
	return NewJSON5()
})
