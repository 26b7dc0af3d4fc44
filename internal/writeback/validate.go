package writeback

import (
	"context"
	"errors"
	"fmt"

	"github.com/agentic-research/schemawalk/internal/walkers"
)

// ValidationError reports the first syntax error in edited content.
type ValidationError struct {
	FilePath string
	Line     int // 1-based
	Column   int // 1-based
	Message  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
}

// Validate parses content as the language of filePath and returns the
// first syntax error as a *ValidationError. Files in unsupported languages
// pass through.
func Validate(ctx context.Context, content []byte, filePath string) error {
	errs, err := syntaxErrors(ctx, content, filePath)
	if err != nil || len(errs) == 0 {
		return err
	}
	return &errs[0]
}

// ASTErrors returns every syntax error in content, or nil for valid input
// and unsupported languages.
func ASTErrors(ctx context.Context, content []byte, filePath string) []ValidationError {
	errs, _ := syntaxErrors(ctx, content, filePath)
	return errs
}

func syntaxErrors(ctx context.Context, content []byte, filePath string) ([]ValidationError, error) {
	doc, err := walkers.ParseFile(ctx, filePath, content)
	if errors.Is(err, walkers.ErrUnsupportedLanguage) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []ValidationError
	for _, se := range doc.Errors() {
		out = append(out, ValidationError{
			FilePath: filePath,
			Line:     se.Line,
			Column:   se.Column,
			Message:  se.Message,
		})
	}
	return out, nil
}

// checkNoNewErrors fails when after has more syntax errors than before, so
// already broken files can still be edited.
func checkNoNewErrors(ctx context.Context, filePath string, before, after []byte) error {
	old, err := syntaxErrors(ctx, before, filePath)
	if err != nil {
		return err
	}
	cur, err := syntaxErrors(ctx, after, filePath)
	if err != nil {
		return err
	}
	if len(cur) > len(old) {
		return &cur[0]
	}
	return nil
}
