package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Gemini talks to the generateContent API, which uses its own request and
// response envelope instead of the OpenAI chat-completions shape.
type Gemini struct {
	cfg    Config
	apiKey string
	client *http.Client
}

// NewGemini builds an adapter for the Gemini-style API.
func NewGemini(cfg Config, apiKey string, timeout time.Duration) *Gemini {
	return &Gemini{
		cfg:    cfg,
		apiKey: apiKey,
		client: &http.Client{Timeout: timeout},
	}
}

func (p *Gemini) Key() string   { return p.cfg.Key }
func (p *Gemini) Name() string  { return p.cfg.Name }
func (p *Gemini) Model() string { return p.cfg.Model }

// geminiPart is a content part in Gemini format.
type geminiPart struct {
	Text string `json:"text"`
}

// geminiContent is a content block in Gemini format.
type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

// geminiGenerationConfig carries the optional generation limits.
type geminiGenerationConfig struct {
	MaxOutputTokens int `json:"maxOutputTokens,omitempty"`
}

// geminiRequest is the request body for generateContent.
type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

// geminiResponse is the response from generateContent.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// Complete sends one user turn to generateContent and maps the response
// into a RawResult. Safety blocks surface as rejections; other non-200
// statuses surface as http_error results with the body attached.
func (p *Gemini) Complete(ctx context.Context, prompt string) (RawResult, error) {
	if p.apiKey == "" {
		return RawResult{
			Status: StatusMissingCredential,
			Text:   fmt.Sprintf("%s not set", p.cfg.CredentialEnv),
		}, nil
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
	}
	if p.cfg.MaxTokens > 0 {
		reqBody.GenerationConfig = &geminiGenerationConfig{MaxOutputTokens: p.cfg.MaxTokens}
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return RawResult{}, fmt.Errorf("encoding gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", p.cfg.BaseURL, p.cfg.Model, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return RawResult{}, fmt.Errorf("building gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return RawResult{}, fmt.Errorf("%s request failed: %w", p.cfg.Key, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return RawResult{}, fmt.Errorf("reading gemini response: %w", err)
	}

	var decoded geminiResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		if resp.StatusCode != http.StatusOK {
			return RawResult{
				Text:   fmt.Sprintf("Error %d: %s", resp.StatusCode, string(raw)),
				Status: StatusHTTPError,
			}, nil
		}
		return RawResult{}, fmt.Errorf("decoding gemini response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		message := string(raw)
		if decoded.Error != nil {
			message = decoded.Error.Message
		}
		if p.cfg.IsRejection(resp.StatusCode, message) {
			return RawResult{
				Text:   fmt.Sprintf("Error %d: %s", resp.StatusCode, message),
				Usage:  Usage{},
				Status: StatusRejected,
			}, nil
		}
		return RawResult{
			Text:   fmt.Sprintf("Error %d: %s", resp.StatusCode, message),
			Status: StatusHTTPError,
		}, nil
	}

	usage := Usage{
		"promptTokenCount":     decoded.UsageMetadata.PromptTokenCount,
		"candidatesTokenCount": decoded.UsageMetadata.CandidatesTokenCount,
	}

	// A 200 with no usable candidate is how Gemini reports prompt-level
	// safety blocks.
	if len(decoded.Candidates) == 0 {
		reason := "no candidates"
		if decoded.PromptFeedback != nil && decoded.PromptFeedback.BlockReason != "" {
			reason = decoded.PromptFeedback.BlockReason
		}
		return RawResult{
			Text:   fmt.Sprintf("Blocked: %s", reason),
			Usage:  usage,
			Status: StatusRejected,
		}, nil
	}
	candidate := decoded.Candidates[0]
	if candidate.FinishReason == "SAFETY" || len(candidate.Content.Parts) == 0 {
		return RawResult{
			Text:   fmt.Sprintf("Blocked: %s", candidate.FinishReason),
			Usage:  usage,
			Status: StatusRejected,
		}, nil
	}

	return RawResult{
		Text:   candidate.Content.Parts[0].Text,
		Usage:  usage,
		Status: StatusOK,
	}, nil
}
