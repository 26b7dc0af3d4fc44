package cmd

import (
	"fmt"
	"io"
	"slices"

	"github.com/agentic-research/schemawalk/internal/complete"
	"github.com/agentic-research/schemawalk/internal/console"
	"github.com/agentic-research/schemawalk/internal/walkers"
	"github.com/agentic-research/schemawalk/internal/writeback"
	"github.com/spf13/cobra"
)

var (
	completeCursor cursor
	completeSchema string
	completeApply  string
)

func init() {
	completeCursor.register(completeCmd)
	completeCmd.Flags().StringVarP(&completeSchema, "schema", "s", "", "Schema to draw property names from (required)")
	_ = completeCmd.MarkFlagRequired("schema")
	completeCmd.Flags().StringVar(&completeApply, "apply", "", "Rewrite the property name under the cursor to this candidate")
	rootCmd.AddCommand(completeCmd)
}

var completeCmd = &cobra.Command{
	Use:   "complete [file]",
	Short: "List the schema properties that can be added at the cursor",
	Long: `complete prints one candidate per line: the text to insert, then the
property description. Required properties come first and are marked with *.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := loadSchema(completeSchema)
		if err != nil {
			return err
		}
		doc, err := loadDocument(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		n, w, err := nodeAt(doc, &completeCursor, walkers.Default(), schema)
		if err != nil {
			return err
		}
		items := complete.Properties(w, n, schema)
		logger.Debug("completion", "candidates", len(items))
		if completeApply == "" {
			return printItems(cmd.OutOrStdout(), items)
		}

		if !w.IsName(n) {
			return fmt.Errorf("--apply needs the cursor on a property name")
		}
		idx := slices.IndexFunc(items, func(it complete.Item) bool { return it.Name == completeApply })
		if idx < 0 {
			return fmt.Errorf("%q is not a candidate at this position", completeApply)
		}
		if err := writeback.Splice(cmd.Context(), args[0], n.Span(), []byte(items[idx].Key)); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), console.FormatSuccessMessage("renamed to "+items[idx].Key))
		return nil
	},
}

func printItems(out io.Writer, items []complete.Item) error {
	for _, it := range items {
		mark := " "
		if it.Required {
			mark = "*"
		}
		if _, err := fmt.Fprintf(out, "%s %s\t%s\n", mark, it.Insert, it.Description); err != nil {
			return err
		}
	}
	return nil
}
