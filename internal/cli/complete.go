package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mvilhena/depsense/pkg/editor"
)

// completeCommand creates the "complete" command: compute suggestions for a
// cursor position in a file, the same query an editor host would issue.
func (c *CLI) completeCommand() *cobra.Command {
	var showDetail bool

	cmd := &cobra.Command{
		Use:   "complete <file> <row>:<col>",
		Short: "Compute completion suggestions for a cursor position",
		Long: `Compute the suggestion list for a zero-based cursor position in a file.

The project's package.json supplies dependency-name suggestions; lines
before the cursor are scanned for import bindings to select a library's
method catalog.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, col, err := parseCursor(args[1])
			if err != nil {
				return err
			}

			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			buf := editor.NewMemBufferFromText(string(content))
			if row >= buf.LineCount() {
				return fmt.Errorf("row %d out of range (%d lines)", row, buf.LineCount())
			}

			eng, cleanup, err := c.newEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			p := newProgress(c.Logger)
			eng.Start(cmd.Context())
			defer eng.Stop()

			suggestions := eng.Complete(cmd.Context(), buf, editor.Position{Row: row, Column: col})
			p.done(fmt.Sprintf("Computed %d suggestions", len(suggestions)))

			if len(suggestions) == 0 {
				printInfo("No suggestions")
				return nil
			}
			for _, s := range suggestions {
				printSuggestion(s.DisplayText, s.CategoryLabel, s.RankScore)
				if showDetail && s.DetailHTML != "" {
					printDetail("%s", s.DetailHTML)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showDetail, "detail", false, "print the HTML detail panel for each suggestion")
	return cmd
}

// parseCursor parses "row:col" into zero-based coordinates.
func parseCursor(s string) (row, col int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("cursor %q: want <row>:<col>", s)
	}
	row, err = strconv.Atoi(parts[0])
	if err != nil || row < 0 {
		return 0, 0, fmt.Errorf("cursor row %q: want a non-negative integer", parts[0])
	}
	col, err = strconv.Atoi(parts[1])
	if err != nil || col < 0 {
		return 0, 0, fmt.Errorf("cursor column %q: want a non-negative integer", parts[1])
	}
	return row, col, nil
}
