package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/nao1215/darklink/internal/model"
)

// SimpleWriter outputs a plain text report for terminal display.
type SimpleWriter struct {
	baseWriter

	// darkOnly limits the table to URLs with a dark link.
	darkOnly bool

	// verbose adds one line per fetch attempt.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithDarkLinksOnly hides URLs without matched rules from the table.
func WithDarkLinksOnly(only bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.darkOnly = only
	}
}

// WithVerbose lists every profile attempt under its URL.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the run in human-readable format.
func (w *SimpleWriter) Write(summary *model.RunSummary) error {
	if summary == nil {
		return ErrNilSummary
	}

	var sb strings.Builder
	w.writeHeader(&sb, summary)
	if err := w.writeTable(&sb, summary); err != nil {
		return err
	}

	_, err := io.WriteString(w.output, sb.String())
	return err
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, s *model.RunSummary) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("DARKLINK REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	if !s.StartedAt.IsZero() {
		fmt.Fprintf(sb, "Started:    %s\n", s.StartedAt.Format("2006-01-02 15:04:05 MST"))
		fmt.Fprintf(sb, "Elapsed:    %s\n", s.Elapsed().Round(time.Millisecond))
	}
	fmt.Fprintf(sb, "URLs:       %d\n", s.Total)
	fmt.Fprintf(sb, "Reachable:  %d\n", s.Succeeded)
	fmt.Fprintf(sb, "Failed:     %d\n", s.Failed)
	fmt.Fprintf(sb, "Dark links: %d\n\n", s.DarkLinks)
}

func (w *SimpleWriter) writeTable(sb *strings.Builder, s *model.RunSummary) error {
	tw := tabwriter.NewWriter(sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(Columns, "\t"))

	for _, r := range s.Results {
		if r == nil || (w.darkOnly && !r.DarkLink) {
			continue
		}
		row := Row(r)
		for i, v := range row {
			if v == "" {
				row[i] = "-"
			}
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))

		if w.verbose {
			for _, a := range r.Attempts {
				fmt.Fprintf(tw, "  %s\t%s\t\t\t\t\t\n", a.Profile, attemptText(a))
			}
		}
	}
	return tw.Flush()
}

func attemptText(a model.Attempt) string {
	switch {
	case a.Error != "":
		return "error: " + a.Error
	case a.StatusCode != 0:
		return fmt.Sprintf("HTTP %d in %s", a.StatusCode, a.Duration.Round(time.Millisecond))
	default:
		return "no response"
	}
}
