package provider

import "context"

// Status classifies the outcome of a single completion call.
type Status string

const (
	// StatusOK means the provider returned a normal completion.
	StatusOK Status = "ok"
	// StatusHTTPError means the provider answered with a non-success
	// HTTP status that is not a content-policy rejection. The result
	// text carries the response body for diagnostics.
	StatusHTTPError Status = "http_error"
	// StatusRejected means the provider refused the prompt on content
	// grounds. This is a valid, cost-accountable outcome, not a fault.
	StatusRejected Status = "rejected"
	// StatusMissingCredential means the provider's API key environment
	// variable is not set. No network call was made.
	StatusMissingCredential Status = "missing_credential"
)

// Usage holds vendor-shaped token counts exactly as reported. OpenAI-style
// APIs report prompt_tokens/completion_tokens, Gemini reports
// promptTokenCount/candidatesTokenCount. The raw shape is persisted
// verbatim in the run history; the accessors normalize it.
type Usage map[string]int

// InputTokens returns the prompt token count regardless of vendor shape.
func (u Usage) InputTokens() int {
	if v, ok := u["prompt_tokens"]; ok {
		return v
	}
	return u["promptTokenCount"]
}

// OutputTokens returns the completion token count regardless of vendor shape.
func (u Usage) OutputTokens() int {
	if v, ok := u["completion_tokens"]; ok {
		return v
	}
	return u["candidatesTokenCount"]
}

// RawResult is the adapter's direct output for one call.
type RawResult struct {
	Text   string
	Usage  Usage
	Status Status
}

// Provider is one LLM vendor integration. Complete issues exactly one
// outbound request; transport faults come back as errors, everything the
// vendor actually said (including refusals and HTTP error bodies) comes
// back as a RawResult.
type Provider interface {
	Key() string
	Name() string
	Model() string
	Complete(ctx context.Context, prompt string) (RawResult, error)
}
