// Package chunk splits normalized document text into overlapping
// fixed-size windows, the unit of retrieval.
package chunk

import "strings"

// Default window parameters, tuned for paragraph-sized prose chunks.
const (
	DefaultSize    = 900
	DefaultOverlap = 100
)

// Normalize collapses all whitespace runs to single spaces and trims.
// Chunk boundaries are defined as character offsets into this form.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Split walks the normalized text in windows of size characters advancing
// by size-overlap, including the final partial window. Empty normalized
// text yields nil. The function is pure and deterministic.
//
// Preconditions (enforced by config validation upstream): size > 0,
// 0 <= overlap < size. Out-of-range values are clamped defensively so a
// bad caller cannot loop forever.
func Split(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultSize
	}
	if overlap < 0 {
		overlap = 0
	}

	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}

	step := size - overlap
	if step <= 0 {
		step = 1
	}

	runes := []rune(normalized)
	total := len(runes)

	chunks := make([]string, 0, total/step+1)
	for start := 0; start < total; start += step {
		end := start + size
		if end > total {
			end = total
		}
		chunks = append(chunks, string(runes[start:end]))
		if end >= total {
			break
		}
	}
	return chunks
}
