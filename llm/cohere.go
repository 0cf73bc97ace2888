package llm

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
)

// CohereClient implements Client using the Cohere Chat API
// SDK: github.com/cohere-ai/cohere-go/v2
type CohereClient struct {
	client *cohereclient.Client
	model  string
}

// NewCohereClient builds a Cohere-backed judgment client
func NewCohereClient(apiKey, model string) *CohereClient {
	if model == "" {
		model = "command-r-plus"
	}
	// Force HTTP/1.1 to avoid HTTP/2 protocol errors against the Cohere edge
	httpClient := &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			TLSNextProto:      make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
			ForceAttemptHTTP2: false,
		},
	}
	client := cohereclient.NewClient(
		cohereclient.WithToken(apiKey),
		cohereclient.WithHTTPClient(httpClient),
	)
	return &CohereClient{client: client, model: model}
}

func (c *CohereClient) ModelName() string { return c.model }

func (c *CohereClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	temp := 0.0
	req := &cohere.ChatRequest{
		Message:     prompt,
		Model:       &c.model,
		Temperature: &temp,
	}
	if system != "" {
		req.Preamble = &system
	}
	resp, err := c.client.Chat(ctx, req)
	if err != nil {
		return "", fmt.Errorf("cohere chat error: %w", err)
	}
	if resp == nil || resp.Text == "" {
		return "", errors.New("cohere chat returned empty response")
	}
	return resp.Text, nil
}

func (c *CohereClient) CompleteJSON(ctx context.Context, system, prompt string, out interface{}) error {
	text, err := c.Complete(ctx, system, prompt+"\n\nRespond with a single JSON object and nothing else.")
	if err != nil {
		return err
	}
	return decodeJSONResponse(text, out)
}
