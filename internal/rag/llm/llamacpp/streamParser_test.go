package llamacpp

import (
	"errors"
	"strings"
	"testing"
)

func TestScanStream_ExtractsDeltasInOrder(t *testing.T) {
	raw := strings.Join([]string{
		"noise",
		`data: {"choices":[{"delta":{"content":"Hi"}}]}`,
		"noise",
		`data: {"choices":[{"delta":{"content":" there"}}]}`,
		"data: [DONE]",
	}, "\n")

	var fragments []string
	err := scanStream(strings.NewReader(raw), func(f string) error {
		fragments = append(fragments, f)
		return nil
	})
	if err != nil {
		t.Fatalf("scanStream returned error: %v", err)
	}

	want := []string{"Hi", " there"}
	if len(fragments) != len(want) {
		t.Fatalf("got %d fragments %v, want %d", len(fragments), fragments, len(want))
	}
	for i := range want {
		if fragments[i] != want[i] {
			t.Errorf("fragment %d = %q, want %q", i, fragments[i], want[i])
		}
	}
}

func TestScanStream_MalformedLinesSkipped(t *testing.T) {
	raw := strings.Join([]string{
		`data: {bad json`,
		`data: {"choices":[]}`,
		`{"choices":[{"delta":{"content":"no prefix"}}]}`,
		`data: {"unexpected":"shape"}`,
	}, "\n")

	count := 0
	err := scanStream(strings.NewReader(raw), func(string) error {
		count++
		return nil
	})
	if err != nil {
		t.Fatalf("malformed lines must not fail the stream: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 fragments from malformed input, got %d", count)
	}
}

func TestScanStream_StopsAtDone(t *testing.T) {
	raw := strings.Join([]string{
		`data: {"choices":[{"delta":{"content":"before"}}]}`,
		"data: [DONE]",
		`data: {"choices":[{"delta":{"content":"after"}}]}`,
	}, "\n")

	var fragments []string
	if err := scanStream(strings.NewReader(raw), func(f string) error {
		fragments = append(fragments, f)
		return nil
	}); err != nil {
		t.Fatalf("scanStream returned error: %v", err)
	}
	if len(fragments) != 1 || fragments[0] != "before" {
		t.Errorf("expected only fragments before [DONE], got %v", fragments)
	}
}

func TestScanStream_StopsWhenConsumerGone(t *testing.T) {
	raw := strings.Join([]string{
		`data: {"choices":[{"delta":{"content":"one"}}]}`,
		`data: {"choices":[{"delta":{"content":"two"}}]}`,
	}, "\n")

	gone := errors.New("consumer disconnected")
	calls := 0
	err := scanStream(strings.NewReader(raw), func(string) error {
		calls++
		return gone
	})
	if !errors.Is(err, gone) {
		t.Errorf("expected consumer error to propagate, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected pulling to stop after first emit failure, got %d calls", calls)
	}
}

func TestParseStreamLine_EmptyDelta(t *testing.T) {
	fragment, done := parseStreamLine(`data: {"choices":[{"delta":{}}]}`)
	if done || fragment != "" {
		t.Errorf("empty delta should yield nothing, got %q done=%v", fragment, done)
	}
}
