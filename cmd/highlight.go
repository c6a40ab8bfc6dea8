package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/zjrosen/impexls/internal/impex"
	"github.com/zjrosen/impexls/internal/lsp"
	"github.com/zjrosen/impexls/internal/ui/docview"
	"github.com/zjrosen/impexls/internal/ui/styles"
)

var (
	highlightLine    int
	highlightChar    int
	highlightOutput  string
	highlightNoColor bool
)

var highlightCmd = &cobra.Command{
	Use:   "highlight FILE",
	Short: "Show the fields highlighted for a cursor position",
	Long: `Index FILE and print the fields an editor would highlight with the cursor
at --line/--char (both zero-based, --char in UTF-16 code units).

Example:
  impexls highlight products.impex --line 1 --char 25
  impexls highlight products.impex --line 2 --char 6 -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runHighlight,
}

func init() {
	rootCmd.AddCommand(highlightCmd)

	highlightCmd.Flags().IntVarP(&highlightLine, "line", "l", 0, "zero-based line of the cursor")
	highlightCmd.Flags().IntVarP(&highlightChar, "char", "C", 0, "zero-based UTF-16 character of the cursor")
	highlightCmd.Flags().StringVarP(&highlightOutput, "output", "o", FormatText, "output format: text, json or yaml")
	highlightCmd.Flags().BoolVar(&highlightNoColor, "no-color", false, "disable colors in text output")
}

func runHighlight(cmd *cobra.Command, args []string) error {
	svc, uri, err := openFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	defer svc.Close()

	spans := svc.RequestHighlights(cmd.Context(), uri, highlightLine, highlightChar)

	if highlightOutput != FormatText {
		highlights := lsp.HighlightsFromSpans(spans)
		return writeStructured(cmd.OutOrStdout(), highlightOutput, highlights)
	}

	if highlightNoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	doc, _ := svc.Document(cmd.Context(), uri)
	if len(spans) == 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "no fields to highlight at %s\n", styles.FormatPosition(highlightLine, highlightChar))
		return nil
	}
	return writeHighlightText(cmd.OutOrStdout(), doc, spans, svc.Options().Delimiter)
}

// writeHighlightText prints every highlighted line once, with its matches
// styled and underlined by carets.
func writeHighlightText(w io.Writer, doc *impex.Document, spans []impex.Span, delim rune) error {
	lines := impex.SplitLines(doc.Text)
	gw := len(fmt.Sprint(len(lines)))
	gutter := styles.LineNumberStyle.Render(strings.Repeat(" ", gw) + " │")

	for i := 0; i < len(spans); {
		line := spans[i].Line
		var ranges []docview.Range
		for ; i < len(spans) && spans[i].Line == line; i++ {
			ranges = append(ranges, docview.Range{Start: spans[i].Start, End: spans[i].End})
		}
		if line >= len(lines) {
			continue
		}
		text := lines[line]

		rec, indexed := doc.Index.Line(line)
		rendered := docview.RenderLine(text, docview.LineOptions{
			Delimiter:  delim,
			Header:     indexed && rec.IsHeader(),
			Highlights: ranges,
			Cursor:     -1,
		})
		num := styles.LineNumberLineStyle.Render(fmt.Sprintf("%*d │", gw, line+1))
		if _, err := fmt.Fprintf(w, "%s %s\n", num, rendered); err != nil {
			return err
		}
		for _, rg := range ranges {
			if _, err := fmt.Fprintf(w, "%s %s\n", gutter, styles.SelectionMarkerStyle.Render(docview.Underline(text, rg.Start, rg.End))); err != nil {
				return err
			}
		}
	}
	return nil
}
