package provider

import "testing"

func TestIsRejection(t *testing.T) {
	cfg := Config{
		Key:           "qwen",
		RejectPhrases: []string{"inappropriate content", "data_inspection_failed"},
	}

	cases := []struct {
		name    string
		status  int
		message string
		want    bool
	}{
		{"matching phrase on 400", 400, "Input data may contain inappropriate content.", true},
		{"matching phrase case-insensitive", 400, "INAPPROPRIATE CONTENT detected", true},
		{"vendor code on 400", 400, "data_inspection_failed", true},
		{"unrelated 400", 400, "model not found", false},
		{"matching phrase on 500", 500, "inappropriate content", false},
		{"matching phrase on 200", 200, "inappropriate content", false},
		{"rate limit 429", 429, "rate limit exceeded", false},
	}

	for _, c := range cases {
		if got := cfg.IsRejection(c.status, c.message); got != c.want {
			t.Errorf("%s: IsRejection(%d, %q) = %v, expected %v", c.name, c.status, c.message, got, c.want)
		}
	}
}

func TestIsRejection_GenericFallback(t *testing.T) {
	cfg := Config{Key: "custom"}

	if !cfg.IsRejection(400, "request blocked by content_filter") {
		t.Error("Expected generic phrase list to apply when none configured")
	}
	if cfg.IsRejection(400, "invalid api key") {
		t.Error("Expected non-refusal 400 to not count as rejection")
	}
}

func TestUsageNormalization(t *testing.T) {
	openaiShape := Usage{"prompt_tokens": 18, "completion_tokens": 97}
	if openaiShape.InputTokens() != 18 {
		t.Errorf("Expected 18 input tokens, got %d", openaiShape.InputTokens())
	}
	if openaiShape.OutputTokens() != 97 {
		t.Errorf("Expected 97 output tokens, got %d", openaiShape.OutputTokens())
	}

	geminiShape := Usage{"promptTokenCount": 12, "candidatesTokenCount": 88}
	if geminiShape.InputTokens() != 12 {
		t.Errorf("Expected 12 input tokens, got %d", geminiShape.InputTokens())
	}
	if geminiShape.OutputTokens() != 88 {
		t.Errorf("Expected 88 output tokens, got %d", geminiShape.OutputTokens())
	}

	empty := Usage{}
	if empty.InputTokens() != 0 || empty.OutputTokens() != 0 {
		t.Errorf("Expected zero tokens for empty usage, got %d/%d", empty.InputTokens(), empty.OutputTokens())
	}
}

func TestDefaults(t *testing.T) {
	configs := Defaults()
	if len(configs) != 5 {
		t.Fatalf("Expected 5 built-in providers, got %d", len(configs))
	}

	byKey := make(map[string]Config, len(configs))
	for _, cfg := range configs {
		byKey[cfg.Key] = cfg
	}

	gemini, ok := byKey["gemini"]
	if !ok {
		t.Fatal("Expected a gemini provider")
	}
	if gemini.Variant != VariantGemini {
		t.Errorf("Expected gemini variant, got %q", gemini.Variant)
	}

	deepseek, ok := byKey["deepseek"]
	if !ok {
		t.Fatal("Expected a deepseek provider")
	}
	if deepseek.Variant != VariantOpenAI {
		t.Errorf("Expected openai variant, got %q", deepseek.Variant)
	}
	if deepseek.MaxTokens != 8192 {
		t.Errorf("Expected deepseek max tokens 8192, got %d", deepseek.MaxTokens)
	}

	for _, cfg := range configs {
		if cfg.CredentialEnv == "" {
			t.Errorf("Provider %q has no credential env", cfg.Key)
		}
		if cfg.BaseURL == "" {
			t.Errorf("Provider %q has no base URL", cfg.Key)
		}
	}
}
