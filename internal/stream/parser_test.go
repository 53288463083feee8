package stream

import (
	"context"
	"io"
	"strings"
	"testing"
)

func collect(t *testing.T, chunks <-chan Chunk) []Chunk {
	t.Helper()
	var got []Chunk
	for c := range chunks {
		if c.Error != nil {
			t.Fatalf("unexpected stream error: %v", c.Error)
		}
		got = append(got, c)
	}
	return got
}

func TestProcessOpenAI(t *testing.T) {
	body := strings.Join([]string{
		`data: {"choices":[{"delta":{"content":"Hello"}}]}`,
		``,
		`data: {"choices":[{"delta":{"content":" world"}}]}`,
		``,
		`data: {"choices":[{"delta":{"content":""}}]}`,
		`data: [DONE]`,
		``,
	}, "\n")

	p := NewParser(context.Background())
	go p.ProcessOpenAI(io.NopCloser(strings.NewReader(body)))

	got := collect(t, p.Chunks())
	if len(got) != 2 || got[0].Content != "Hello" || got[1].Content != " world" {
		t.Errorf("chunks = %+v", got)
	}
}

func TestProcessOpenAIMessageFallback(t *testing.T) {
	body := `data: {"choices":[{"message":{"content":"full answer"}}]}` + "\n"

	p := NewParser(context.Background())
	go p.ProcessOpenAI(io.NopCloser(strings.NewReader(body)))

	got := collect(t, p.Chunks())
	if len(got) != 1 || got[0].Content != "full answer" {
		t.Errorf("chunks = %+v", got)
	}
}

func TestProcessAnthropic(t *testing.T) {
	body := strings.Join([]string{
		`event: message_start`,
		`data: {"type":"message_start"}`,
		``,
		`event: content_block_delta`,
		`data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Hi"}}`,
		``,
		`event: content_block_delta`,
		`data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":" there"}}`,
		``,
		`event: message_stop`,
		`data: {"type":"message_stop"}`,
		``,
	}, "\n")

	p := NewParser(context.Background())
	go p.ProcessAnthropic(io.NopCloser(strings.NewReader(body)))

	got := collect(t, p.Chunks())
	if len(got) != 3 {
		t.Fatalf("chunks = %+v", got)
	}
	if got[0].Content != "Hi" || got[1].Content != " there" {
		t.Errorf("content chunks = %+v", got[:2])
	}
	if !got[2].Done {
		t.Error("final chunk not marked done")
	}
}

func TestProcessCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewParser(ctx)
	go p.ProcessOpenAI(io.NopCloser(strings.NewReader("data: {}\n")))

	var sawErr bool
	for c := range p.Chunks() {
		if c.Error != nil {
			sawErr = true
		}
	}
	if !sawErr {
		t.Error("cancelled context produced no error chunk")
	}
}
