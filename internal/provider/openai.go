package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/ko10ok/doq/internal/config"
	"github.com/ko10ok/doq/internal/parser"
	"github.com/ko10ok/doq/internal/stream"
)

// openAI talks to any OpenAI-compatible chat completions endpoint. DeepSeek
// shares this client with a different base URL and key variable.
type openAI struct {
	name    string
	baseURL string
	keyEnv  string
	model   string
}

func newOpenAI(name, baseURL, keyEnv, model string, override config.Provider) *openAI {
	if override.Model != "" {
		model = override.Model
	}
	if override.BaseURL != "" {
		baseURL = override.BaseURL
	}
	return &openAI{name: name, baseURL: baseURL, keyEnv: keyEnv, model: model}
}

func (c *openAI) Name() string { return c.name }

// SupportsUpload is false: file bodies must be embedded in the text query.
func (c *openAI) SupportsUpload() bool { return false }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Stream   bool          `json:"stream"`
	Messages []chatMessage `json:"messages"`
}

func (c *openAI) Stream(ctx context.Context, req *parser.Request) (<-chan stream.Chunk, error) {
	key := os.Getenv(c.keyEnv)
	if key == "" {
		return nil, fmt.Errorf("%s is not set", c.keyEnv)
	}

	payload := chatRequest{
		Model:  c.model,
		Stream: true,
		Messages: []chatMessage{
			{Role: "user", Content: req.TextQuery},
		},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+key)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := getHTTPClient(ctx).Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("%s request failed with status %d: %s", c.name, resp.StatusCode, string(body))
	}

	p := stream.NewParser(ctx)
	go p.ProcessOpenAI(resp.Body)
	return p.Chunks(), nil
}
