package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"vidcheck/config"
)

// OpenAIClient implements Client using the OpenAI Chat Completions API
// Endpoint: POST https://api.openai.com/v1/chat/completions
type OpenAIClient struct {
	apiKey   string
	model    string
	endpoint string
	http     *http.Client
}

// NewOpenAIClient builds an OpenAI-backed judgment client
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	if model == "" {
		model = "gpt-4o"
	}
	return &OpenAIClient{
		apiKey: apiKey,
		model:  model,
		http:   &http.Client{Timeout: 60 * time.Second},
	}
}

func (o *OpenAIClient) ModelName() string { return o.model }

func (o *OpenAIClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	endpoint := o.endpoint
	if endpoint == "" {
		endpoint = "https://api.openai.com/v1/chat/completions"
	}

	messages := []map[string]string{}
	if system != "" {
		messages = append(messages, map[string]string{"role": "system", "content": system})
	}
	messages = append(messages, map[string]string{"role": "user", "content": prompt})

	payload := map[string]interface{}{
		"model":       o.model,
		"messages":    messages,
		"temperature": 0,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 0; attempt <= config.ProviderMaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(config.ProviderRetryBackoff * time.Duration(attempt)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(b))
		if err != nil {
			return "", err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", o.apiKey))

		resp, err := o.http.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			lastErr = fmt.Errorf("openai chat error: status %d", resp.StatusCode)
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			var body map[string]interface{}
			_ = json.NewDecoder(resp.Body).Decode(&body)
			resp.Body.Close()
			return "", fmt.Errorf("openai chat error: status %d: %v", resp.StatusCode, body)
		}

		var parsed struct {
			Choices []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			} `json:"choices"`
		}
		err = json.NewDecoder(resp.Body).Decode(&parsed)
		resp.Body.Close()
		if err != nil {
			return "", err
		}
		if len(parsed.Choices) == 0 {
			return "", errors.New("openai chat returned no choices")
		}
		return parsed.Choices[0].Message.Content, nil
	}
	return "", fmt.Errorf("openai chat failed after retries: %w", lastErr)
}

func (o *OpenAIClient) CompleteJSON(ctx context.Context, system, prompt string, out interface{}) error {
	text, err := o.Complete(ctx, system, prompt+"\n\nRespond with a single JSON object and nothing else.")
	if err != nil {
		return err
	}
	return decodeJSONResponse(text, out)
}
