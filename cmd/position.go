package cmd

import (
	"fmt"
	"io"

	"github.com/agentic-research/schemawalk/api"
	"github.com/agentic-research/schemawalk/internal/schemanav"
	"github.com/agentic-research/schemawalk/internal/walkers"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/cobra"
)

var (
	positionCursor cursor
	positionName   bool
	positionForce  bool
	positionSchema string
)

func init() {
	positionCursor.register(positionCmd)
	positionCmd.Flags().BoolVar(&positionName, "name", false, "Treat the cursor as sitting on a property name (default: detect)")
	positionCmd.Flags().BoolVar(&positionForce, "force-last", false, "Keep the step for the property whose name is under the cursor")
	positionCmd.Flags().StringVarP(&positionSchema, "schema", "s", "", "Also resolve the position against this schema")
	rootCmd.AddCommand(positionCmd)
}

var positionCmd = &cobra.Command{
	Use:   "position [file]",
	Short: "Print the JSONPath and JSON pointer of the value under the cursor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		var schema *jsonschema.Schema
		if positionSchema != "" {
			if schema, err = loadSchema(positionSchema); err != nil {
				return err
			}
		}

		n, w, err := nodeAt(doc, &positionCursor, walkers.Default(), schema)
		if err != nil {
			return err
		}
		isName := positionName
		if !cmd.Flags().Changed("name") {
			isName = w.IsName(n)
		}
		pos := w.FindPosition(n, isName, positionForce)
		return printPosition(cmd.OutOrStdout(), pos, schema)
	},
}

func printPosition(out io.Writer, pos api.Position, schema *jsonschema.Schema) error {
	ptr := pos.Pointer()
	if ptr == "" {
		ptr = "/"
	}
	if _, err := fmt.Fprintf(out, "%s\t%s\n", pos, ptr); err != nil {
		return err
	}
	if schema == nil {
		return nil
	}
	sub, ok := schemanav.Resolve(schema, pos)
	if !ok {
		_, err := fmt.Fprintln(out, "schema: (unconstrained)")
		return err
	}
	_, err := fmt.Fprintf(out, "schema: %s\n", sub.Location)
	if err == nil && sub.Description != "" {
		_, err = fmt.Fprintf(out, "description: %s\n", sub.Description)
	}
	return err
}
