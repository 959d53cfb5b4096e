package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newGeminiProvider(t *testing.T, handler http.HandlerFunc) *Gemini {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/models/gemini-3-pro-preview:generateContent", handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := Config{
		Key:           "gemini",
		Model:         "gemini-3-pro-preview",
		BaseURL:       srv.URL,
		RejectPhrases: []string{"safety", "blocked"},
	}
	return NewGemini(cfg, "test-key", 5*time.Second)
}

func TestGemini_Success(t *testing.T) {
	var gotBody struct {
		Contents []struct {
			Role  string `json:"role"`
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
		GenerationConfig *struct {
			MaxOutputTokens int `json:"maxOutputTokens"`
		} `json:"generationConfig"`
	}
	var gotKey string

	p := newGeminiProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"candidates": [{"content": {"parts": [{"text": "Paris."}]}, "finishReason": "STOP"}],
			"usageMetadata": {"promptTokenCount": 12, "candidatesTokenCount": 88}
		}`))
	})

	res, err := p.Complete(context.Background(), "Capital of France?")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if res.Status != StatusOK {
		t.Errorf("Expected status ok, got %q", res.Status)
	}
	if res.Text != "Paris." {
		t.Errorf("Unexpected text: %q", res.Text)
	}
	if res.Usage["promptTokenCount"] != 12 || res.Usage["candidatesTokenCount"] != 88 {
		t.Errorf("Unexpected usage: %v", res.Usage)
	}

	if gotKey != "test-key" {
		t.Errorf("Expected API key in query string, got %q", gotKey)
	}
	if len(gotBody.Contents) != 1 || gotBody.Contents[0].Role != "user" {
		t.Fatalf("Expected a single user content block, got %+v", gotBody.Contents)
	}
	if gotBody.Contents[0].Parts[0].Text != "Capital of France?" {
		t.Errorf("Unexpected prompt: %q", gotBody.Contents[0].Parts[0].Text)
	}
	if gotBody.GenerationConfig != nil {
		t.Errorf("Expected no generation config without a token cap, got %+v", gotBody.GenerationConfig)
	}
}

func TestGemini_MaxTokensInRequest(t *testing.T) {
	var gotBody struct {
		GenerationConfig *struct {
			MaxOutputTokens int `json:"maxOutputTokens"`
		} `json:"generationConfig"`
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/models/gemini-3-pro-preview:generateContent", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"candidates": [{"content": {"parts": [{"text": "ok"}]}, "finishReason": "STOP"}],
			"usageMetadata": {"promptTokenCount": 1, "candidatesTokenCount": 1}
		}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := Config{Key: "gemini", Model: "gemini-3-pro-preview", BaseURL: srv.URL, MaxTokens: 4096}
	p := NewGemini(cfg, "test-key", 5*time.Second)

	if _, err := p.Complete(context.Background(), "hello"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if gotBody.GenerationConfig == nil {
		t.Fatal("Expected a generation config when a token cap is set")
	}
	if gotBody.GenerationConfig.MaxOutputTokens != 4096 {
		t.Errorf("Expected maxOutputTokens 4096, got %d", gotBody.GenerationConfig.MaxOutputTokens)
	}
}

func TestGemini_SafetyBlockOn200(t *testing.T) {
	p := newGeminiProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"candidates": [],
			"promptFeedback": {"blockReason": "SAFETY"},
			"usageMetadata": {"promptTokenCount": 30, "candidatesTokenCount": 0}
		}`))
	})

	res, err := p.Complete(context.Background(), "something blocked")
	if err != nil {
		t.Fatalf("Expected block as a result, not an error, got: %v", err)
	}

	if res.Status != StatusRejected {
		t.Fatalf("Expected status rejected, got %q", res.Status)
	}
	if res.Text != "Blocked: SAFETY" {
		t.Errorf("Unexpected text: %q", res.Text)
	}
	if res.Usage.InputTokens() != 30 || res.Usage.OutputTokens() != 0 {
		t.Errorf("Unexpected usage: %v", res.Usage)
	}
}

func TestGemini_SafetyFinishReason(t *testing.T) {
	p := newGeminiProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"candidates": [{"content": {"parts": []}, "finishReason": "SAFETY"}],
			"usageMetadata": {"promptTokenCount": 10, "candidatesTokenCount": 0}
		}`))
	})

	res, err := p.Complete(context.Background(), "something blocked")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if res.Status != StatusRejected {
		t.Errorf("Expected status rejected, got %q", res.Status)
	}
}

func TestGemini_ErrorEnvelopeRejection(t *testing.T) {
	p := newGeminiProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"code": 400, "message": "Request blocked for safety reasons", "status": "INVALID_ARGUMENT"}}`))
	})

	res, err := p.Complete(context.Background(), "something blocked")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if res.Status != StatusRejected {
		t.Fatalf("Expected status rejected, got %q", res.Status)
	}
	if res.Text != "Error 400: Request blocked for safety reasons" {
		t.Errorf("Unexpected text: %q", res.Text)
	}
}

func TestGemini_HTTPError(t *testing.T) {
	p := newGeminiProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": {"code": 500, "message": "Internal error", "status": "INTERNAL"}}`))
	})

	res, err := p.Complete(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Expected http error as a result, not an error, got: %v", err)
	}
	if res.Status != StatusHTTPError {
		t.Errorf("Expected status http_error, got %q", res.Status)
	}
	if res.Text != "Error 500: Internal error" {
		t.Errorf("Unexpected text: %q", res.Text)
	}
}

func TestGemini_MissingCredential(t *testing.T) {
	cfg := Config{Key: "gemini", Model: "gemini-3-pro-preview", CredentialEnv: "GOOGLE_API_KEY"}
	p := NewGemini(cfg, "", 5*time.Second)

	res, err := p.Complete(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if res.Status != StatusMissingCredential {
		t.Errorf("Expected status missing_credential, got %q", res.Status)
	}
	if res.Text != "GOOGLE_API_KEY not set" {
		t.Errorf("Unexpected text: %q", res.Text)
	}
}
