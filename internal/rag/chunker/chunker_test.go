package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestFixedWidth_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		maxLen int
	}{
		{"short text", "blight is fungal", 500},
		{"exact multiple", strings.Repeat("x", 40), 10},
		{"uneven tail", strings.Repeat("y", 45), 10},
		{"single char windows", "abcdef", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := FixedWidth(tt.text, tt.maxLen)

			if got := strings.Join(chunks, ""); got != tt.text {
				t.Errorf("reassembled text mismatch: got %q want %q", got, tt.text)
			}
			for i, c := range chunks {
				if i < len(chunks)-1 && len(c) != tt.maxLen {
					t.Errorf("chunk %d has length %d, want exactly %d", i, len(c), tt.maxLen)
				}
				if len(c) > tt.maxLen {
					t.Errorf("chunk %d exceeds bound: %d > %d", i, len(c), tt.maxLen)
				}
			}
		})
	}
}

func TestFixedWidth_MultiByteRunesStayIntact(t *testing.T) {
	text := strings.Repeat("ブドウのべと病は葉に黄色い斑点を残す。", 7)
	maxLen := 10

	chunks := FixedWidth(text, maxLen)

	if got := strings.Join(chunks, ""); got != text {
		t.Errorf("reassembled text mismatch: got %q want %q", got, text)
	}
	for i, c := range chunks {
		if !utf8.ValidString(c) {
			t.Errorf("chunk %d is not valid UTF-8: %q", i, c)
		}
		n := utf8.RuneCountInString(c)
		if i < len(chunks)-1 && n != maxLen {
			t.Errorf("chunk %d has %d runes, want exactly %d", i, n, maxLen)
		}
		if n > maxLen {
			t.Errorf("chunk %d exceeds bound: %d > %d runes", i, n, maxLen)
		}
	}
}

func TestFixedWidth_EmptyInput(t *testing.T) {
	if got := FixedWidth("", 500); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
	if got := FixedWidth("   \n\t ", 500); got != nil {
		t.Errorf("expected nil for whitespace input, got %v", got)
	}
}

func TestSemanticChunks_Bound(t *testing.T) {
	text := "Blight spreads fast. Leaves turn brown. Stems collapse. Remove infected plants. Rotate crops yearly."
	maxLen := 45

	chunks := SemanticChunks(text, maxLen)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > maxLen {
			t.Errorf("chunk %d exceeds bound: %q (%d > %d)", i, c, len(c), maxLen)
		}
	}
}

func TestSemanticChunks_PreservesSentenceOrder(t *testing.T) {
	sentences := []string{"Alpha one", "Beta two", "Gamma three", "Delta four"}
	text := strings.Join(sentences, ". ")

	chunks := SemanticChunks(text, 25)
	joined := strings.Join(chunks, ". ")
	for _, s := range sentences {
		if !strings.Contains(joined, s) {
			t.Errorf("sentence %q missing from output", s)
		}
	}

	//order check: each sentence appears after the previous one
	last := -1
	for _, s := range sentences {
		idx := strings.Index(joined, s)
		if idx < last {
			t.Errorf("sentence %q out of order", s)
		}
		last = idx
	}
}

func TestSemanticChunks_OversizeSentenceEmittedWhole(t *testing.T) {
	long := strings.Repeat("a", 120)
	text := "Short one. " + long + ". Short two."

	chunks := SemanticChunks(text, 50)

	found := false
	for _, c := range chunks {
		if strings.Contains(c, long) {
			found = true
		}
	}
	if !found {
		t.Errorf("oversize sentence was split; chunks: %v", chunks)
	}
}

func TestSemanticChunks_ParagraphFlush(t *testing.T) {
	text := "First paragraph sentence.\n\nSecond paragraph sentence."

	chunks := SemanticChunks(text, 500)
	if len(chunks) != 2 {
		t.Fatalf("expected one chunk per paragraph, got %d: %v", len(chunks), chunks)
	}
}

func TestSemanticChunks_EmptyInput(t *testing.T) {
	if got := SemanticChunks("  \n\n  ", 100); got != nil {
		t.Errorf("expected nil for whitespace input, got %v", got)
	}
}
