package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"vidcheck/config"
)

// ErrBadOutput marks a provider response that could not be parsed as the
// requested structure. Never retried.
var ErrBadOutput = errors.New("malformed model output")

// Client abstracts a natural-language judgment provider
// Implementations should be safe for concurrent use.
type Client interface {
	// Complete returns free-form text for a prompt.
	Complete(ctx context.Context, system, prompt string) (string, error)
	// CompleteJSON runs a prompt that must yield a JSON object and decodes
	// it into out. A response without a parseable object is ErrBadOutput.
	CompleteJSON(ctx context.Context, system, prompt string, out interface{}) error
	ModelName() string
}

// NewDefaultClient returns a judgment client for the configured provider,
// or nil when no provider key is set.
func NewDefaultClient(cfg config.Config) Client {
	if strings.EqualFold(cfg.LLMProvider, "cohere") && cfg.CohereKey != "" {
		return NewCohereClient(cfg.CohereKey, cfg.CohereModel)
	}
	if cfg.OpenAIKey != "" {
		return NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIModel)
	}
	if cfg.CohereKey != "" {
		return NewCohereClient(cfg.CohereKey, cfg.CohereModel)
	}
	return nil
}

// decodeJSONResponse pulls the first JSON object out of a completion and
// decodes it. Models often wrap objects in markdown fences or prose.
func decodeJSONResponse(text string, out interface{}) error {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return fmt.Errorf("%w: no JSON object in response", ErrBadOutput)
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadOutput, err)
	}
	return nil
}
