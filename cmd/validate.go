package cmd

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"slices"

	"github.com/agentic-research/schemawalk/api"
	"github.com/agentic-research/schemawalk/internal/console"
	"github.com/agentic-research/schemawalk/internal/schemanav"
	"github.com/agentic-research/schemawalk/internal/walkers"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
)

var validateSchema string

func init() {
	validateCmd.Flags().StringVarP(&validateSchema, "schema", "s", "", "Schema to validate against (required)")
	_ = validateCmd.MarkFlagRequired("schema")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate [file...]",
	Short: "Validate documents against a JSON Schema and report errors at their source location",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := loadSchema(validateSchema)
		if err != nil {
			return err
		}
		reports := validateFiles(cmd.Context(), walkers.Default(), schema, args)
		problems, err := printReports(cmd.OutOrStdout(), reports)
		if err != nil {
			return err
		}
		if problems > 0 {
			return fmt.Errorf("%d problem(s) found", problems)
		}
		fmt.Fprintln(cmd.OutOrStdout(), console.FormatSuccessMessage(fmt.Sprintf("%d file(s) valid", len(args))))
		return nil
	},
}

type fileReport struct {
	index       int
	file        string
	doc         api.Document
	diagnostics []console.Diagnostic
	err         error
}

// validateFiles checks files concurrently and returns the reports in
// argument order. A registry is safe for concurrent selection.
func validateFiles(ctx context.Context, r *api.Registry, schema *jsonschema.Schema, files []string) []fileReport {
	p := pool.NewWithResults[fileReport]().WithMaxGoroutines(runtime.GOMAXPROCS(0))
	for i, file := range files {
		p.Go(func() fileReport {
			rep := fileReport{index: i, file: file}
			rep.doc, rep.err = loadDocument(ctx, file)
			if rep.err != nil {
				return rep
			}
			rep.diagnostics, rep.err = diagnose(r, schema, file, rep.doc)
			return rep
		})
	}
	reports := p.Wait()
	slices.SortFunc(reports, func(a, b fileReport) int { return a.index - b.index })
	return reports
}

// diagnose merges syntax errors and schema violations into one list.
func diagnose(r *api.Registry, schema *jsonschema.Schema, file string, doc api.Document) ([]console.Diagnostic, error) {
	var out []console.Diagnostic
	for _, se := range doc.Errors() {
		out = append(out, console.Diagnostic{
			File:     file,
			Line:     se.Line,
			Column:   se.Column,
			Severity: console.SeverityError,
			Message:  se.Message,
			Detail:   "syntax",
			Source:   doc.Source(),
		})
	}
	violations, err := schemanav.Check(r, schema, doc)
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", file, err)
	}
	for _, v := range violations {
		ptr := v.Pointer
		if ptr == "" {
			ptr = "/"
		}
		out = append(out, console.Diagnostic{
			File:     file,
			Line:     v.Line,
			Column:   v.Column,
			Severity: console.SeverityError,
			Message:  v.Message,
			Detail:   ptr + " " + v.Keyword,
			Source:   doc.Source(),
		})
	}
	return out, nil
}

func printReports(out io.Writer, reports []fileReport) (int, error) {
	problems := 0
	for _, rep := range reports {
		if rep.err != nil {
			problems++
			fmt.Fprint(out, console.FormatDiagnostic(console.Diagnostic{Message: rep.err.Error()}))
			continue
		}
		for _, d := range rep.diagnostics {
			problems++
			if _, err := fmt.Fprint(out, console.FormatDiagnostic(d)); err != nil {
				return problems, err
			}
		}
	}
	return problems, nil
}
