package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/darklink/internal/config"
	"github.com/nao1215/darklink/internal/model"
)

// ErrNilSummary is returned when a writer is given no run summary.
var ErrNilSummary = errors.New("report: nil run summary")

// Writer outputs the results of one run.
type Writer interface {
	Write(summary *model.RunSummary) error
}

// Columns are the per-URL fields every format renders, in order.
var Columns = []string{
	"URL",
	"Status",
	"Device coverage",
	"Dark link",
	"Matched rules",
	"Hidden links",
	"Error",
}

// Row renders one result as values for Columns.
func Row(r *model.URLResult) []string {
	if r == nil {
		return make([]string, len(Columns))
	}
	dark := "no"
	if r.DarkLink {
		dark = "yes"
	}
	return []string{
		r.URL,
		string(r.Status),
		string(r.Coverage),
		dark,
		strings.Join(r.MatchedRules, ", "),
		strings.Join(r.HiddenLinks, ", "),
		r.Error,
	}
}

// New returns the writer for format. opts apply to the text format only.
func New(format string, output io.Writer, opts ...SimpleWriterOption) (Writer, error) {
	switch format {
	case config.FormatXLSX:
		return NewXLSXWriter(output), nil
	case config.FormatText:
		return NewSimpleWriter(output, opts...), nil
	case config.FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case config.FormatMarkdown:
		return NewMarkdownWriter(output), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownFormat, format)
	}
}

// MultiWriter writes a run to several Writers in order and stops at the
// first error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the run to all configured Writers.
func (m *MultiWriter) Write(summary *model.RunSummary) error {
	for _, w := range m.writers {
		if err := w.Write(summary); err != nil {
			return err
		}
	}
	return nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
