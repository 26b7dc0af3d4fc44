package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/agentic-research/schemawalk/api"
	"github.com/agentic-research/schemawalk/internal/schemanav"
	"github.com/agentic-research/schemawalk/internal/walkers"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/cobra"
)

// languageFor picks the language for path: the --lang override when set,
// otherwise the file extension.
func languageFor(path string) (api.Language, error) {
	if langName != "" {
		return walkers.ParseLanguage(langName)
	}
	lang, ok := walkers.LanguageForPath(path)
	if !ok {
		return "", fmt.Errorf("%w: %s (use --lang)", walkers.ErrUnsupportedLanguage, path)
	}
	return lang, nil
}

func loadDocument(ctx context.Context, path string) (api.Document, error) {
	lang, err := languageFor(path)
	if err != nil {
		return nil, err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := walkers.Parse(ctx, lang, src, path)
	if err != nil {
		return nil, err
	}
	logger.Debug("parsed document", "file", path, "language", lang, "bytes", len(src), "syntax_errors", len(doc.Errors()))
	return doc, nil
}

func loadSchema(path string) (*jsonschema.Schema, error) {
	if path == "" {
		return nil, schemanav.ErrNoSchema
	}
	return schemanav.NewLoader(schemanav.WithLogger(logger)).LoadFile(path)
}

// cursor is a location given either as a byte offset or as a 1-based
// line and column.
type cursor struct {
	offset int
	line   int
	column int
}

func (c *cursor) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&c.offset, "offset", "o", -1, "Byte offset of the cursor")
	cmd.Flags().IntVar(&c.line, "line", 0, "1-based line of the cursor")
	cmd.Flags().IntVar(&c.column, "column", 1, "1-based column of the cursor, in characters")
	cmd.MarkFlagsMutuallyExclusive("offset", "line")
}

func (c *cursor) resolve(src []byte) (int, error) {
	switch {
	case c.offset >= 0:
		if c.offset > len(src) {
			return 0, fmt.Errorf("offset %d past end of input (%d bytes)", c.offset, len(src))
		}
		return c.offset, nil
	case c.line > 0:
		off, ok := api.Offset(src, c.line, c.column)
		if !ok {
			return 0, fmt.Errorf("line %d does not exist", c.line)
		}
		return off, nil
	default:
		return 0, fmt.Errorf("one of --offset or --line is required")
	}
}

// nodeAt finds the node under the cursor and the walker for it.
func nodeAt(doc api.Document, c *cursor, r *api.Registry, schema *jsonschema.Schema) (api.Node, api.Walker, error) {
	off, err := c.resolve(doc.Source())
	if err != nil {
		return nil, nil, err
	}
	n := doc.NodeAt(off)
	if n == nil {
		return nil, nil, fmt.Errorf("no syntax node at offset %d", off)
	}
	w, ok := r.Select(n, schema)
	if !ok {
		return nil, nil, fmt.Errorf("no walker handles %s nodes", n.Language())
	}
	logger.Debug("cursor", "offset", off, "span_start", n.Span().Start, "span_end", n.Span().End)
	return n, w, nil
}
