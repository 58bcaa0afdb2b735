package chunker

import "strings"

// Strategy selects how corpus documents are split before embedding.
type Strategy string

const (
	Fixed    Strategy = "fixed"
	Semantic Strategy = "semantic"
)

// Chunk splits text with the chosen strategy. Both strategies are
// deterministic and side-effect free; whitespace-only input yields nothing.
func Chunk(strategy Strategy, text string, maxLen int) []string {
	if strategy == Semantic {
		return SemanticChunks(text, maxLen)
	}
	return FixedWidth(text, maxLen)
}

// FixedWidth slices text into consecutive non-overlapping windows of
// exactly maxLen runes; the final window may be shorter. Windows never cut
// through a multi-byte rune, so every chunk is valid UTF-8.
// Concatenating the result reproduces the input.
func FixedWidth(text string, maxLen int) []string {
	if maxLen <= 0 || strings.TrimSpace(text) == "" {
		return nil
	}
	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+maxLen-1)/maxLen)
	for i := 0; i < len(runes); i += maxLen {
		end := i + maxLen
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}

// SemanticChunks splits text into paragraphs on blank lines, then into
// sentences on ". " boundaries, and greedily packs sentences into chunks of
// at most maxLen. A trailing partial chunk is flushed at the end of each
// paragraph. A single sentence longer than maxLen is not split further; it
// is emitted whole.
func SemanticChunks(text string, maxLen int) []string {
	if maxLen <= 0 || strings.TrimSpace(text) == "" {
		return nil
	}

	var chunks []string
	for _, paragraph := range strings.Split(text, "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}

		var current strings.Builder
		for _, sentence := range strings.Split(paragraph, ". ") {
			sentence = strings.TrimSpace(sentence)
			if sentence == "" {
				continue
			}

			if current.Len() == 0 {
				current.WriteString(sentence)
				continue
			}

			//the ". " separator is re-inserted when sentences share a chunk
			if current.Len()+2+len(sentence) > maxLen {
				chunks = append(chunks, current.String())
				current.Reset()
				current.WriteString(sentence)
				continue
			}
			current.WriteString(". ")
			current.WriteString(sentence)
		}
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
		}
	}
	return chunks
}
