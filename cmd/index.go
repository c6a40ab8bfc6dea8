package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/impexls/internal/impex"
)

var indexOutput string

var indexCmd = &cobra.Command{
	Use:   "index FILE",
	Short: "Print the line index of a file",
	Long: `Index FILE and print one entry per indexed line: its number, the header
that owns it, its content with the closing delimiter and the UTF-16 offsets of
its delimiters. Comment lines, lines without a delimiter and lines before the
first header are not listed.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)

	indexCmd.Flags().StringVarP(&indexOutput, "output", "o", FormatYAML, "output format: yaml or json")
}

// indexDump is the printed form of an index.
type indexDump struct {
	URI     string        `json:"uri" yaml:"uri"`
	Lines   int           `json:"lines" yaml:"lines"`
	Headers int           `json:"headers" yaml:"headers"`
	Records []indexRecord `json:"records" yaml:"records"`
}

type indexRecord struct {
	Line       int    `json:"line" yaml:"line"`
	Header     int    `json:"header" yaml:"header"`
	IsHeader   bool   `json:"is_header" yaml:"is_header"`
	Fields     int    `json:"fields" yaml:"fields"`
	Content    string `json:"content" yaml:"content"`
	Delimiters []int  `json:"delimiters" yaml:"delimiters,flow"`
}

func newIndexDump(doc *impex.Document) indexDump {
	records := doc.Index.Records()
	out := indexDump{
		URI:     doc.URI,
		Lines:   doc.Index.LineCount(),
		Headers: doc.Index.Headers(),
		Records: make([]indexRecord, 0, len(records)),
	}
	for _, rec := range records {
		out.Records = append(out.Records, indexRecord{
			Line:       rec.Line,
			Header:     rec.Header,
			IsHeader:   rec.IsHeader(),
			Fields:     rec.Fields(),
			Content:    rec.Content,
			Delimiters: rec.Delimiters(),
		})
	}
	return out
}

func runIndex(cmd *cobra.Command, args []string) error {
	svc, uri, err := openFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	defer svc.Close()

	doc, _ := svc.Document(cmd.Context(), uri)
	return writeStructured(cmd.OutOrStdout(), indexOutput, newIndexDump(doc))
}
