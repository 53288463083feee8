package render

import (
	"errors"
	"testing"
	"time"

	"github.com/ko10ok/doq/internal/stream"
)

func TestShouldUsePlainTextForPlainFormat(t *testing.T) {
	if !ShouldUsePlainText("plain") {
		t.Error("format plain must disable markdown rendering")
	}
}

func TestShouldUsePlainTextWhenRedirected(t *testing.T) {
	// Test binaries never run with a terminal on stdout.
	if !ShouldUsePlainText("markdown") {
		t.Error("redirected output must disable markdown rendering")
	}
}

func TestRenderDrainsChannelAfterStreamError(t *testing.T) {
	chunks := make(chan stream.Chunk)
	done := make(chan struct{})
	go func() {
		defer close(done)
		chunks <- stream.Chunk{Content: "hello "}
		chunks <- stream.Chunk{Error: errors.New("connection reset")}
		// The producer keeps sending after the failure, like a body reader
		// that surfaces the error mid-stream.
		chunks <- stream.Chunk{Content: "trailing"}
		chunks <- stream.Chunk{Done: true}
		close(chunks)
	}()

	r := NewTerminalRenderer(true)
	if err := r.Render(chunks); err == nil {
		t.Fatal("Render returned nil, want stream error")
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("producer still blocked after Render returned")
	}
}

func TestFindMarkdownBreakPoint(t *testing.T) {
	tests := []struct {
		content string
		want    int
	}{
		{"no break here", -1},
		{"para one\n\npara two", 10},
		{"a\n\nb\n\nc", 6},
	}
	for _, tt := range tests {
		if got := findMarkdownBreakPoint(tt.content); got != tt.want {
			t.Errorf("findMarkdownBreakPoint(%q) = %d, want %d", tt.content, got, tt.want)
		}
	}
}
