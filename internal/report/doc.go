// Package report writes the outcome of a scan run.
//
// Every format renders the same per-URL columns (see Columns):
//   - XLSXWriter: spreadsheet, the default result.xlsx
//   - SimpleWriter: plain text summary and table for the terminal
//   - JSONWriter: the full run summary as JSON, attempts included
//   - MarkdownWriter: GitHub-flavored Markdown with a mermaid pie chart
//
// New picks a writer by format name. Writers share the Writer interface,
// so MultiWriter can send one run to several destinations.
package report
