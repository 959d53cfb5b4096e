package provider

import "strings"

// Variant selects the request/response envelope an adapter speaks.
type Variant string

const (
	VariantOpenAI Variant = "openai"
	VariantGemini Variant = "gemini"
)

// Config describes one provider: where to send requests, which model to
// ask for, and where its credential lives.
type Config struct {
	Key           string  `yaml:"key"`
	Name          string  `yaml:"name"`
	Model         string  `yaml:"model"`
	BaseURL       string  `yaml:"base_url"`
	CredentialEnv string  `yaml:"credential_env"`
	Variant       Variant `yaml:"variant"`
	// MaxTokens caps the completion length when non-zero. Some vendors
	// truncate long HTML answers under their default limit.
	MaxTokens int `yaml:"max_tokens,omitempty"`
	// RejectPhrases are substrings of a 4xx error message that mark the
	// response as a content-policy refusal rather than a request fault.
	// The exact wording differs per vendor and is matched case-insensitively.
	RejectPhrases []string `yaml:"reject_phrases,omitempty"`
}

// IsRejection reports whether an HTTP error from this provider is a
// content-policy refusal. Vendors signal refusals as 400-class errors
// with vendor-specific messages, so the check is a per-provider phrase
// match rather than anything structural.
func (c Config) IsRejection(statusCode int, message string) bool {
	if statusCode < 400 || statusCode >= 500 {
		return false
	}
	lower := strings.ToLower(message)
	phrases := c.RejectPhrases
	if len(phrases) == 0 {
		phrases = genericRejectPhrases
	}
	for _, phrase := range phrases {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}

var genericRejectPhrases = []string{
	"inappropriate content",
	"high risk",
	"safety",
	"content_filter",
	"limited access to this content",
}

// Defaults returns the built-in provider set. Keys and endpoints follow
// each vendor's public API; every OpenAI-compatible entry differs only in
// base URL, model name and credential.
func Defaults() []Config {
	return []Config{
		{
			Key:           "gpt",
			Name:          "GPT-5.2",
			Model:         "gpt-5.2",
			BaseURL:       "https://api.openai.com/v1",
			CredentialEnv: "OPENAI_API_KEY",
			Variant:       VariantOpenAI,
			RejectPhrases: []string{"limited access to this content", "invalid prompt"},
		},
		{
			Key:           "gemini",
			Name:          "Gemini 3 Pro",
			Model:         "gemini-3-pro-preview",
			BaseURL:       "https://generativelanguage.googleapis.com/v1beta",
			CredentialEnv: "GOOGLE_API_KEY",
			Variant:       VariantGemini,
			RejectPhrases: []string{"safety", "blocked"},
		},
		{
			Key:           "deepseek",
			Name:          "DeepSeek V3.2",
			Model:         "deepseek-chat",
			BaseURL:       "https://api.deepseek.com",
			CredentialEnv: "DEEPSEEK_API_KEY",
			Variant:       VariantOpenAI,
			MaxTokens:     8192,
			RejectPhrases: []string{"content exists risk", "risk"},
		},
		{
			Key:           "qwen",
			Name:          "Qwen3-Max",
			Model:         "qwen3-max",
			BaseURL:       "https://dashscope.aliyuncs.com/compatible-mode/v1",
			CredentialEnv: "QWEN_API_KEY",
			Variant:       VariantOpenAI,
			RejectPhrases: []string{"inappropriate content", "data_inspection_failed"},
		},
		{
			Key:           "kimi",
			Name:          "Kimi K2.5",
			Model:         "kimi-k2.5",
			BaseURL:       "https://api.moonshot.ai/v1",
			CredentialEnv: "KIMI_API_KEY",
			Variant:       VariantOpenAI,
			RejectPhrases: []string{"high risk"},
		},
	}
}
