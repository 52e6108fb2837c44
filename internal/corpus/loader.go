// Package corpus loads newline-delimited JSON document records.
package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	rerrors "github.com/tinge-ai/retrieval/internal/errors"
)

// Document is one corpus record, immutable once loaded.
type Document struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	Language    string `json:"language"`
	PublishedAt string `json:"published_at,omitempty"`
	Content     string `json:"content"`
}

// maxLineBytes bounds one corpus line; whole articles fit comfortably.
const maxLineBytes = 8 << 20

// Load reads documents from a newline-delimited JSON file. Each non-blank
// line is one independently parsed record. A malformed or incomplete line
// is a hard stop naming the offending line, not a skip: silently dropping
// records would corrupt evaluation comparisons downstream.
func Load(path string) ([]Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, rerrors.New(rerrors.ErrCodeCorpusNotFound,
				fmt.Sprintf("corpus file not found: %s", path), err)
		}
		return nil, rerrors.Wrap(rerrors.ErrCodeCorpusNotFound, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var docs []Document
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var doc Document
		if err := json.Unmarshal([]byte(line), &doc); err != nil {
			return nil, rerrors.New(rerrors.ErrCodeCorpusParse,
				fmt.Sprintf("invalid corpus record at %s:%d: %v", path, lineNo, err), err).
				WithDetail("line", strconv.Itoa(lineNo))
		}
		if err := validate(&doc); err != nil {
			return nil, rerrors.New(rerrors.ErrCodeCorpusParse,
				fmt.Sprintf("invalid corpus record at %s:%d: %v", path, lineNo, err), err).
				WithDetail("line", strconv.Itoa(lineNo))
		}
		docs = append(docs, doc)
	}
	if err := scanner.Err(); err != nil {
		return nil, rerrors.Wrap(rerrors.ErrCodeCorpusParse, err)
	}

	return docs, nil
}

// validate enforces required fields and fills record defaults.
func validate(doc *Document) error {
	if doc.ID == "" {
		return fmt.Errorf("missing required field %q", "id")
	}
	if doc.Content == "" {
		return fmt.Errorf("missing required field %q", "content")
	}
	if doc.Language == "" {
		doc.Language = "en"
	}
	return nil
}
