// Package writeback applies edits to documents on disk.
package writeback

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentic-research/schemawalk/api"
)

// Replace returns src with the bytes covered by span replaced by content.
func Replace(src []byte, span api.Span, content []byte) ([]byte, error) {
	if span.Start < 0 || span.Start > span.End || span.End > len(src) {
		return nil, fmt.Errorf("invalid byte range [%d:%d] for input of length %d", span.Start, span.End, len(src))
	}
	out := make([]byte, 0, len(src)-span.Len()+len(content))
	out = append(out, src[:span.Start]...)
	out = append(out, content...)
	out = append(out, src[span.End:]...)
	return out, nil
}

// Splice replaces span in the file at path with content. The edit is
// refused with a *ValidationError when the result has more syntax errors
// than the original. The write is atomic.
func Splice(ctx context.Context, path string, span api.Span, content []byte) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read source %s: %w", path, err)
	}
	result, err := Replace(src, span, content)
	if err != nil {
		return err
	}
	if err := checkNoNewErrors(ctx, path, src, result); err != nil {
		return err
	}
	return writeAtomic(path, result)
}

// writeAtomic writes to a temp file in the same directory and renames it
// over path, keeping the original permissions.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".schemawalk-splice-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp: %w", err)
	}
	if info, err := os.Stat(path); err == nil {
		_ = os.Chmod(tmpName, info.Mode())
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename temp to %s: %w", path, err)
	}
	return nil
}
