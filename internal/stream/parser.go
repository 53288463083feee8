package stream

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

// chatResponse is the delta shape of OpenAI-compatible chat completions.
type chatResponse struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// anthropicEvent is the data shape of Anthropic Messages API stream events.
type anthropicEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
}

// ProcessOpenAI consumes an OpenAI-compatible SSE body, emitting one chunk
// per content delta. It closes the chunk channel when the stream ends.
func (p *Parser) ProcessOpenAI(body io.ReadCloser) {
	defer close(p.chunks)
	defer body.Close()
	done := p.ctx.Done()

	scanner := newLineScanner(body)

	for {
		select {
		case <-done:
			p.chunks <- Chunk{Error: p.ctx.Err()}
			return
		default:
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					p.chunks <- Chunk{Error: err}
				}
				return
			}

			line := scanner.Text()
			if line == "" || line == "data: [DONE]" || strings.HasPrefix(line, "event:") {
				continue
			}

			data := strings.TrimPrefix(line, "data: ")
			var chunk chatResponse
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				p.chunks <- Chunk{Error: err}
				continue
			}

			if len(chunk.Choices) > 0 {
				content := chunk.Choices[0].Delta.Content
				if content == "" {
					content = chunk.Choices[0].Message.Content
				}
				if content != "" {
					p.chunks <- Chunk{Content: content}
				}
			}
		}
	}
}

// ProcessAnthropic consumes an Anthropic Messages SSE body, emitting one
// chunk per content_block_delta event and finishing on message_stop.
func (p *Parser) ProcessAnthropic(body io.ReadCloser) {
	defer close(p.chunks)
	defer body.Close()
	done := p.ctx.Done()

	scanner := newLineScanner(body)

	for {
		select {
		case <-done:
			p.chunks <- Chunk{Error: p.ctx.Err()}
			return
		default:
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					p.chunks <- Chunk{Error: err}
				}
				return
			}

			line := scanner.Text()
			if !strings.HasPrefix(line, "data: ") {
				continue
			}

			var event anthropicEvent
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event); err != nil {
				p.chunks <- Chunk{Error: err}
				continue
			}

			switch event.Type {
			case "content_block_delta":
				if event.Delta.Text != "" {
					p.chunks <- Chunk{Content: event.Delta.Text}
				}
			case "message_stop":
				p.chunks <- Chunk{Done: true}
				return
			}
		}
	}
}

func newLineScanner(body io.Reader) *bufio.Scanner {
	reader := bufio.NewReaderSize(body, 4096)
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	scanner.Split(bufio.ScanLines)
	return scanner
}
