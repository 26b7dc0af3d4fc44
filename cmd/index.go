package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync/atomic"
	"time"

	"github.com/agentic-research/schemawalk/internal/console"
	"github.com/agentic-research/schemawalk/internal/index"
	"github.com/agentic-research/schemawalk/internal/walkers"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
)

var indexWorkers int

func init() {
	indexCmd.Flags().IntVarP(&indexWorkers, "workers", "w", runtime.GOMAXPROCS(0), "Number of files parsed concurrently")
	rootCmd.AddCommand(indexCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index [output.db] [path...]",
	Short: "Build a SQLite index of every value position in the given files and directories",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		output := args[0]
		files, err := collectFiles(args[1:])
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no supported files under %v", args[1:])
		}

		_ = os.Remove(output) // overwrite
		writer, err := index.Create(output, index.WithLogger(logger))
		if err != nil {
			return err
		}

		start := time.Now()
		fmt.Fprintf(cmd.OutOrStdout(), "Indexing %d file(s) into %s...\n", len(files), output)
		positions, err := indexFiles(cmd.Context(), writer, files, indexWorkers)
		if cerr := writer.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), console.FormatSuccessMessage(
			fmt.Sprintf("%d positions in %v", positions, time.Since(start).Round(time.Millisecond))))
		return nil
	},
}

// collectFiles expands directories into the files a parser understands.
// Files named explicitly are kept even without a known extension so
// --lang can apply to them.
func collectFiles(paths []string) ([]string, error) {
	var files []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}
		if !info.IsDir() {
			files = append(files, root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && d.Name()[0] == '.' {
					return filepath.SkipDir
				}
				return nil
			}
			if _, ok := walkers.LanguageForPath(path); ok {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}
	sort.Strings(files)
	return files, nil
}

// indexFiles parses files on a bounded pool and feeds them to w. Every
// failure is reported; files that parse are indexed regardless.
func indexFiles(ctx context.Context, w *index.Writer, files []string, workers int) (int64, error) {
	if workers < 1 {
		workers = 1
	}
	r := walkers.Default()
	var total atomic.Int64

	p := pool.New().WithErrors().WithMaxGoroutines(workers)
	for _, file := range files {
		p.Go(func() error {
			doc, err := loadDocument(ctx, file)
			if err != nil {
				return err
			}
			n, err := w.AddDocument(ctx, file, doc, r)
			if err != nil {
				return fmt.Errorf("index %s: %w", file, err)
			}
			total.Add(int64(n))
			return nil
		})
	}
	err := p.Wait()
	return total.Load(), err
}
