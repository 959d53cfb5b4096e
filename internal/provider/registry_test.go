package provider

import (
	"os"
	"testing"
	"time"
)

func TestNewRegistry(t *testing.T) {
	// Save and restore the credential environment touched by the registry.
	originalEnv := map[string]string{}
	for _, cfg := range Defaults() {
		originalEnv[cfg.CredentialEnv] = os.Getenv(cfg.CredentialEnv)
	}
	defer func() {
		for key, value := range originalEnv {
			if value != "" {
				os.Setenv(key, value)
			} else {
				os.Unsetenv(key)
			}
		}
	}()

	os.Setenv("OPENAI_API_KEY", "sk-test")
	os.Unsetenv("DEEPSEEK_API_KEY")

	registry, err := NewRegistry(Defaults(), time.Minute)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	keys := registry.Keys()
	want := []string{"gpt", "gemini", "deepseek", "qwen", "kimi"}
	if len(keys) != len(want) {
		t.Fatalf("Expected %d providers, got %d", len(want), len(keys))
	}
	for i, key := range want {
		if keys[i] != key {
			t.Errorf("Expected key %q at position %d, got %q", key, i, keys[i])
		}
	}

	// A provider without a credential is still registered.
	if _, ok := registry.Get("deepseek"); !ok {
		t.Error("Expected deepseek to be registered without a credential")
	}
}

func TestNewRegistry_DuplicateKeyFails(t *testing.T) {
	configs := []Config{
		{Key: "a", Variant: VariantOpenAI},
		{Key: "a", Variant: VariantOpenAI},
	}
	if _, err := NewRegistry(configs, time.Minute); err == nil {
		t.Error("Expected an error for duplicate provider keys")
	}
}

func TestNewRegistry_UnknownVariantFails(t *testing.T) {
	configs := []Config{{Key: "a", Variant: "grpc"}}
	if _, err := NewRegistry(configs, time.Minute); err == nil {
		t.Error("Expected an error for unknown variant")
	}
}

func TestRegistrySelect(t *testing.T) {
	registry, err := NewRegistry(Defaults(), time.Minute)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	all, err := registry.Select(nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("Expected empty selection to mean all 5 providers, got %d", len(all))
	}

	// Selection order must not matter; configuration order wins.
	subset, err := registry.Select([]string{"kimi", "gpt"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(subset) != 2 {
		t.Fatalf("Expected 2 providers, got %d", len(subset))
	}
	if subset[0].Key() != "gpt" || subset[1].Key() != "kimi" {
		t.Errorf("Expected configuration order gpt,kimi, got %s,%s", subset[0].Key(), subset[1].Key())
	}

	if _, err := registry.Select([]string{"nonesuch"}); err == nil {
		t.Error("Expected an error for unknown provider key")
	}
}
