package yamlwalk

import (
	"github.com/agentic-research/schemawalk/api"
	"github.com/agentic-research/schemawalk/internal/treewalk"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Walker walks YAML syntax trees.
type Walker struct {
	treewalk.Base
}

var _ api.Walker = (*Walker)(nil)

func New() *Walker {
	return &Walker{Base: treewalk.Base{Grammar: grammar{}}}
}

// Handles implements api.Walker.
func (w *Walker) Handles(n api.Node) bool {
	yn, ok := n.(*Node)
	return ok && yn != nil
}

// IsNameQuoted implements api.Walker.
func (w *Walker) IsNameQuoted() bool { return false }

// OnlyDoubleQuotesForStringLiterals implements api.Walker.
func (w *Walker) OnlyDoubleQuotesForStringLiterals() bool { return false }

// HasPropertiesBehindAndNoComma implements api.Walker. Block mappings have
// no separators, so a missing comma is never an error.
func (w *Walker) HasPropertiesBehindAndNoComma(api.Node) bool { return false }

// Factory registers the YAML walker.
var Factory api.Factory = api.FactoryFunc(func(*jsonschema.Schema) api.Walker {
	return New()
})
