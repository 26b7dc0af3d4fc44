// Package schemanav consumes walker positions on the schema side: it
// compiles JSON Schemas, resolves the sub-schema a position reaches and maps
// validation failures back to syntax nodes.
package schemanav

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// ErrNoSchema is returned when an operation needs a schema and none was
// given.
var ErrNoSchema = errors.New("no schema")

// Loader compiles schema documents. A Loader is not safe for concurrent
// use; the schemas it returns are.
type Loader struct {
	compiler *jsonschema.Compiler
	logger   *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger for load events.
func WithLogger(l *slog.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// NewLoader returns a loader with a fresh compiler.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		compiler: jsonschema.NewCompiler(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadFile reads and compiles the schema at path. Files ending in .yaml or
// .yml are decoded as YAML, everything else as JSON.
func (l *Loader) LoadFile(path string) (*jsonschema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve schema path %s: %w", path, err)
	}
	return l.Compile("file://"+filepath.ToSlash(abs), data)
}

// Compile decodes data and compiles it under url. YAML is detected by the
// url's extension.
func (l *Loader) Compile(url string, data []byte) (*jsonschema.Schema, error) {
	var doc any
	var err error
	switch strings.ToLower(filepath.Ext(url)) {
	case ".yaml", ".yml":
		doc, err = decodeYAML(data)
	default:
		doc, err = jsonschema.UnmarshalJSON(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("decode schema %s: %w", url, err)
	}

	if err := l.compiler.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema resource %s: %w", url, err)
	}
	schema, err := l.compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", url, err)
	}
	l.logger.Debug("schema compiled", "url", url, "bytes", len(data))
	return schema, nil
}

// decodeYAML decodes a YAML schema and normalizes it to the types a JSON
// decoder produces.
func decodeYAML(data []byte) (any, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	buf, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("convert YAML schema to JSON: %w", err)
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(buf))
}
