package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAICompat talks to any vendor exposing OpenAI-style chat
// completions. GPT, DeepSeek, Qwen (DashScope compatible mode) and Kimi
// (Moonshot) all share this envelope and differ only in base URL, model
// name and credential.
type OpenAICompat struct {
	cfg    Config
	apiKey string
	client *openai.Client
}

// NewOpenAICompat builds an adapter for one OpenAI-compatible vendor.
// An empty apiKey is allowed; Complete then reports a missing-credential
// result instead of calling out.
func NewOpenAICompat(cfg Config, apiKey string, timeout time.Duration) *OpenAICompat {
	clientConfig := openai.DefaultConfig(apiKey)
	clientConfig.BaseURL = cfg.BaseURL
	clientConfig.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenAICompat{
		cfg:    cfg,
		apiKey: apiKey,
		client: openai.NewClientWithConfig(clientConfig),
	}
}

func (p *OpenAICompat) Key() string   { return p.cfg.Key }
func (p *OpenAICompat) Name() string  { return p.cfg.Name }
func (p *OpenAICompat) Model() string { return p.cfg.Model }

// Complete sends one user message and maps the vendor response into a
// RawResult. Vendor-side refusals and non-2xx statuses are results, not
// errors, so a batch over many providers can keep going.
func (p *OpenAICompat) Complete(ctx context.Context, prompt string) (RawResult, error) {
	if p.apiKey == "" {
		return RawResult{
			Status: StatusMissingCredential,
			Text:   fmt.Sprintf("%s not set", p.cfg.CredentialEnv),
		}, nil
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: p.cfg.MaxTokens,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			message := fmt.Sprintf("Error %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
			if p.cfg.IsRejection(apiErr.HTTPStatusCode, apiErr.Message) {
				return RawResult{Text: message, Usage: Usage{}, Status: StatusRejected}, nil
			}
			return RawResult{Text: message, Status: StatusHTTPError}, nil
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return RawResult{
				Text:   fmt.Sprintf("Error %d: %v", reqErr.HTTPStatusCode, reqErr.Err),
				Status: StatusHTTPError,
			}, nil
		}
		return RawResult{}, fmt.Errorf("%s request failed: %w", p.cfg.Key, err)
	}

	if len(resp.Choices) == 0 {
		return RawResult{}, fmt.Errorf("%s returned no choices", p.cfg.Key)
	}

	return RawResult{
		Text: resp.Choices[0].Message.Content,
		Usage: Usage{
			"prompt_tokens":     resp.Usage.PromptTokens,
			"completion_tokens": resp.Usage.CompletionTokens,
		},
		Status: StatusOK,
	}, nil
}
