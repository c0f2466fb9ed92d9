package config

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// maxLineSize is the longest line accepted in a rule or URL list.
const maxLineSize = 1024 * 1024

// LoadRules reads a rule list: one rule per line, trimmed, empty lines
// skipped.
func LoadRules(path string) ([]string, error) {
	rules, err := readLines(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRulesNotFound, path)
		}
		return nil, fmt.Errorf("failed to read rules: %w", err)
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoRules, path)
	}
	return rules, nil
}

// LoadURLs reads a URL list. Files ending in .csv are read by their "url"
// column, files ending in .ndjson or .jsonl hold one JSON object with a
// "url" field or one JSON string per line, and everything else holds one URL
// per line. Order and duplicates are kept.
func LoadURLs(path string) ([]string, error) {
	var (
		urls []string
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		urls, err = readCSVURLs(path)
	case ".ndjson", ".jsonl":
		urls, err = readNDJSONURLs(path)
	default:
		urls, err = readLines(path)
	}

	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrURLsNotFound, path)
		}
		return nil, fmt.Errorf("failed to read URL list: %w", err)
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoURLs, path)
	}
	return urls, nil
}

// readLines returns the trimmed, non-empty lines of a file.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided input path is intentional
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return scanLines(f)
}

func scanLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []string
	first := true
	for sc.Scan() {
		line := sc.Text()
		if first {
			line = strings.TrimPrefix(line, "\uFEFF")
			first = false
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func readCSVURLs(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided input path is intentional
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	col := -1
	for i, h := range rows[0] {
		h = strings.TrimPrefix(h, "\uFEFF")
		if strings.EqualFold(strings.TrimSpace(h), "url") {
			col = i
			break
		}
	}
	if col == -1 {
		return nil, ErrNoURLColumn
	}

	var urls []string
	for _, row := range rows[1:] {
		if col >= len(row) {
			continue
		}
		if u := strings.TrimSpace(row[col]); u != "" {
			urls = append(urls, u)
		}
	}
	return urls, nil
}

func readNDJSONURLs(path string) ([]string, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(lines))
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "{"):
			var obj struct {
				URL string `json:"url"`
			}
			if err := json.Unmarshal([]byte(line), &obj); err != nil {
				return nil, fmt.Errorf("entry %d: %w", i+1, err)
			}
			if u := strings.TrimSpace(obj.URL); u != "" {
				urls = append(urls, u)
			}
		case strings.HasPrefix(line, `"`):
			var s string
			if err := json.Unmarshal([]byte(line), &s); err != nil {
				return nil, fmt.Errorf("entry %d: %w", i+1, err)
			}
			if u := strings.TrimSpace(s); u != "" {
				urls = append(urls, u)
			}
		default:
			urls = append(urls, line)
		}
	}
	return urls, nil
}
