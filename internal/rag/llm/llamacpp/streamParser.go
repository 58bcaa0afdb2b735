package llamacpp

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

// chatCompletionChunk mirrors the documented streaming frame of the
// OpenAI-compatible chat completions endpoint. Only the delta content is
// needed here.
type chatCompletionChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

const (
	dataPrefix = "data: "
	doneMarker = "[DONE]"
)

// scanStream reads event lines from an open completion stream and forwards
// each delta's text to emit. Lines that are not data frames, or that fail to
// decode, are skipped; they never abort the stream. Reading stops at the
// [DONE] marker, at EOF, or when emit reports the consumer is gone.
func scanStream(body io.Reader, emit func(string) error) error {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		fragment, done := parseStreamLine(scanner.Text())
		if done {
			return nil
		}
		if fragment == "" {
			continue
		}
		if err := emit(fragment); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// parseStreamLine extracts the incremental text from one raw event line.
// done reports the end-of-stream marker.
func parseStreamLine(line string) (fragment string, done bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, dataPrefix) {
		return "", false
	}
	payload := strings.TrimPrefix(line, dataPrefix)
	if payload == doneMarker {
		return "", true
	}

	var chunk chatCompletionChunk
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		return "", false
	}
	if len(chunk.Choices) == 0 {
		return "", false
	}
	return chunk.Choices[0].Delta.Content, false
}
