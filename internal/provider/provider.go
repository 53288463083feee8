// Package provider dispatches assembled requests to remote text-generation
// services, streaming the response back as chunks.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/ko10ok/doq/internal/config"
	"github.com/ko10ok/doq/internal/parser"
	"github.com/ko10ok/doq/internal/stream"
)

// ErrUnknownProvider is returned by New for an unrecognized provider name,
// before any I/O happens.
var ErrUnknownProvider = errors.New("unknown provider")

// Provider streams responses for one dispatch target.
type Provider interface {
	Name() string
	// SupportsUpload reports whether files can be transferred out-of-band
	// instead of being embedded in the text query.
	SupportsUpload() bool
	// Stream dispatches the request and returns a lazy sequence of text
	// chunks. The channel is closed when the response completes.
	Stream(ctx context.Context, req *parser.Request) (<-chan stream.Chunk, error)
}

// New resolves a provider name to a client. The name is the only validation
// the core performs on the --llm flag.
func New(name string, cfg *config.Config) (Provider, error) {
	override := cfg.Providers[name]
	switch name {
	case "claude":
		return newAnthropic(override), nil
	case "openai":
		return newOpenAI("openai", "https://api.openai.com/v1", "OPENAI_API_KEY", "gpt-4o", override), nil
	case "deepseek":
		return newOpenAI("deepseek", "https://api.deepseek.com", "DEEPSEEK_API_KEY", "deepseek-chat", override), nil
	}
	return nil, fmt.Errorf("%w: %s (expected claude, openai or deepseek)", ErrUnknownProvider, name)
}

// getHTTPClient returns a singleton HTTP client shared by all providers.
var (
	httpClient     *http.Client
	httpClientOnce sync.Once
	defaultTimeout = 5 * time.Minute
)

func getHTTPClient(ctx context.Context) *http.Client {
	httpClientOnce.Do(func() {
		transport := &http.Transport{
			MaxIdleConns:       100,
			IdleConnTimeout:    90 * time.Second,
			DisableCompression: false,
			DisableKeepAlives:  false,
			ForceAttemptHTTP2:  true,
		}
		transport.DialContext = (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext

		httpClient = &http.Client{
			Transport: transport,
		}
	})

	clientCopy := *httpClient
	if deadline, ok := ctx.Deadline(); ok {
		clientCopy.Timeout = time.Until(deadline)
	} else {
		clientCopy.Timeout = defaultTimeout
	}
	return &clientCopy
}
