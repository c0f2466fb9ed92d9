package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/darklink/internal/model"
)

// maxCellLen bounds long cells such as hidden link lists.
const maxCellLen = 80

// MarkdownWriter outputs the run as GitHub-flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the run in Markdown format.
func (w *MarkdownWriter) Write(summary *model.RunSummary) error {
	if summary == nil {
		return ErrNilSummary
	}

	md := markdown.NewMarkdown(w.output)
	w.writeHeader(md, summary)
	w.writeSummary(md, summary)
	w.writeDarkLinks(md, summary)
	w.writeResults(md, summary)
	w.writeFooter(md)

	return md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, s *model.RunSummary) {
	md.H1("Darklink Report")
	md.PlainText("")

	rows := [][]string{}
	if !s.StartedAt.IsZero() {
		rows = append(rows,
			[]string{"Started", s.StartedAt.Format("2006-01-02 15:04:05 MST")},
			[]string{"Finished", s.FinishedAt.Format("2006-01-02 15:04:05 MST")},
		)
	}
	rows = append(rows, []string{"URLs", strconv.Itoa(s.Total)})

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, s *model.RunSummary) {
	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows: [][]string{
			{"Reachable", strconv.Itoa(s.Succeeded)},
			{"Failed", strconv.Itoa(s.Failed)},
			{"Dark links", strconv.Itoa(s.DarkLinks)},
		},
	})
	md.PlainText("")

	if s.Total > 0 {
		w.writePieChart(md, s)
	}

	switch {
	case s.DarkLinks > 0:
		md.Cautionf("%d of %d page(s) contain dark links.", s.DarkLinks, s.Total)
	case s.Failed > 0:
		md.Warningf("No dark links found, but %d page(s) could not be fetched.", s.Failed)
	default:
		md.Tip("No dark links found.")
	}
	md.PlainText("")
}

// writePieChart shows clean, dark and unreachable pages.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, s *model.RunSummary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Scan Outcome"),
		piechart.WithShowData(true),
	)

	clean := 0
	for _, r := range s.Results {
		if r != nil && r.OK() && !r.DarkLink {
			clean++
		}
	}
	if clean > 0 {
		chart.LabelAndIntValue("Clean", uint64(clean))
	}
	if s.DarkLinks > 0 {
		chart.LabelAndIntValue("Dark link", uint64(s.DarkLinks))
	}
	if s.Failed > 0 {
		chart.LabelAndIntValue("Unreachable", uint64(s.Failed))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeDarkLinks(md *markdown.Markdown, s *model.RunSummary) {
	dark := s.DarkLinkResults()
	if len(dark) == 0 {
		return
	}

	md.H2("Dark Links")
	md.PlainText("")
	items := make([]string, 0, len(dark))
	for _, r := range dark {
		items = append(items, "`"+r.URL+"`: "+strings.Join(r.MatchedRules, ", "))
	}
	md.BulletList(items...)
	md.PlainText("")
}

func (w *MarkdownWriter) writeResults(md *markdown.Markdown, s *model.RunSummary) {
	md.H2("Results")
	md.PlainText("")

	if len(s.Results) == 0 {
		md.PlainText("No URLs were checked.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(s.Results))
	for _, r := range s.Results {
		if r == nil {
			continue
		}
		row := Row(r)
		for i, v := range row {
			if v == "" {
				row[i] = "-"
				continue
			}
			row[i] = escapeCell(truncateString(v, maxCellLen))
		}
		rows = append(rows, row)
	}

	md.Table(markdown.TableSet{
		Header: Columns,
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by [darklink](https://github.com/nao1215/darklink)*")
}

// escapeCell keeps pipes inside a table cell.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// truncateString shortens s to maxLen runes with an ellipsis.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
