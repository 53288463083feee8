package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/ko10ok/doq/internal/config"
	"github.com/ko10ok/doq/internal/parser"
	"github.com/ko10ok/doq/internal/stream"
)

const anthropicVersion = "2023-06-01"

// anthropic talks to the Anthropic Messages API. It is upload-capable:
// files marked as_file travel as document blocks next to the text query
// instead of being embedded in it.
type anthropic struct {
	baseURL string
	model   string
}

func newAnthropic(override config.Provider) *anthropic {
	c := &anthropic{
		baseURL: "https://api.anthropic.com",
		model:   "claude-3-5-sonnet-latest",
	}
	if override.Model != "" {
		c.model = override.Model
	}
	if override.BaseURL != "" {
		c.baseURL = override.BaseURL
	}
	return c
}

func (c *anthropic) Name() string { return "claude" }

func (c *anthropic) SupportsUpload() bool { return true }

type anthropicBlock struct {
	Type   string           `json:"type"`
	Text   string           `json:"text,omitempty"`
	Source *anthropicSource `json:"source,omitempty"`
}

type anthropicSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicMessage struct {
	Role    string           `json:"role"`
	Content []anthropicBlock `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Stream    bool               `json:"stream"`
	Messages  []anthropicMessage `json:"messages"`
}

func (c *anthropic) Stream(ctx context.Context, req *parser.Request) (<-chan stream.Chunk, error) {
	key := os.Getenv("ANTHROPIC_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is not set")
	}

	blocks := []anthropicBlock{{Type: "text", Text: req.TextQuery}}
	for _, fi := range req.Files {
		if fi.IncludeMode != parser.IncludeAsFile {
			continue
		}
		block, err := documentBlock(fi)
		if err != nil {
			fmt.Fprintf(os.Stderr, "doq: skipping %s: %v\n", fi.Path, err)
			continue
		}
		blocks = append(blocks, block)
	}

	payload := anthropicRequest{
		Model:     c.model,
		MaxTokens: 4096,
		Stream:    true,
		Messages: []anthropicMessage{
			{Role: "user", Content: blocks},
		},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("x-api-key", key)
	httpReq.Header.Set("anthropic-version", anthropicVersion)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := getHTTPClient(ctx).Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("claude request failed with status %d: %s", resp.StatusCode, string(body))
	}

	p := stream.NewParser(ctx)
	go p.ProcessAnthropic(resp.Body)
	return p.Chunks(), nil
}

// documentBlock reads an as_file attachment at dispatch time. Text files
// travel as plain-text document sources, binary files as base64.
func documentBlock(fi parser.FileInfo) (anthropicBlock, error) {
	data, err := os.ReadFile(fi.Path)
	if err != nil {
		return anthropicBlock{}, err
	}
	src := &anthropicSource{Type: "text", MediaType: "text/plain", Data: string(data)}
	if fi.IsBinary {
		src = &anthropicSource{
			Type:      "base64",
			MediaType: "application/octet-stream",
			Data:      base64.StdEncoding.EncodeToString(data),
		}
	}
	return anthropicBlock{Type: "document", Source: src}, nil
}
