// Package format renders statements and graph summaries for people.
package format

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/wbrown/janus-aggregate/rdf"
)

// GraphSummary is one row of a graph listing
type GraphSummary struct {
	Name  rdf.Term
	Kind  string // e.g. "default", "named"
	Count int
}

// TableFormatter renders statements and graph listings as markdown tables
type TableFormatter struct {
	// MaxWidth is the maximum width for a column
	MaxWidth int
	// TruncateString is the string to append when truncating
	TruncateString string
}

// NewTableFormatter creates a new table formatter with default settings
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		MaxWidth:       60,
		TruncateString: "...",
	}
}

// FormatStatements renders statements, one row each
func (tf *TableFormatter) FormatStatements(statements []rdf.Statement) string {
	if len(statements) == 0 {
		return "_No statements_"
	}

	rows := make([][]string, len(statements))
	for i, st := range statements {
		rows[i] = []string{
			tf.cell(st.Subject.String()),
			tf.cell(st.Predicate.String()),
			tf.cell(st.Object.String()),
			tf.cell(graphCell(st.Graph)),
		}
	}
	return tf.render([]string{"subject", "predicate", "object", "graph"}, rows, "statements")
}

// FormatGraphs renders a graph listing with a total row
func (tf *TableFormatter) FormatGraphs(graphs []GraphSummary) string {
	if len(graphs) == 0 {
		return "_No graphs_"
	}

	total := 0
	rows := make([][]string, 0, len(graphs))
	for _, g := range graphs {
		rows = append(rows, []string{tf.cell(graphCell(g.Name)), g.Kind, fmt.Sprintf("%d", g.Count)})
		total += g.Count
	}
	out := tf.render([]string{"graph", "kind", "statements"}, rows, "graphs")
	return out + fmt.Sprintf("_%d statements total_\n", total)
}

// render formats headers and rows as a markdown table followed by a count
func (tf *TableFormatter) render(headers []string, rows [][]string, noun string) string {
	tableString := &strings.Builder{}

	// Create alignment array with all columns using AlignNone for simple separators
	alignment := make([]tw.Align, len(headers))
	for i := range alignment {
		alignment[i] = tw.AlignNone
	}

	table := tablewriter.NewTable(tableString,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithAlignment(alignment),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header(headers)
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()

	tableString.WriteString(fmt.Sprintf("\n_%d %s_\n", len(rows), noun))
	return tableString.String()
}

// cell truncates a value to MaxWidth runes
func (tf *TableFormatter) cell(s string) string {
	if tf.MaxWidth <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= tf.MaxWidth {
		return s
	}
	keep := tf.MaxWidth - len([]rune(tf.TruncateString))
	if keep < 0 {
		keep = 0
	}
	return string(runes[:keep]) + tf.TruncateString
}

func graphCell(g rdf.Term) string {
	if g.IsZero() {
		return "(default)"
	}
	return g.String()
}
