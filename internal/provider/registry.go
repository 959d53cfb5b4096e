package provider

import (
	"fmt"
	"os"
	"time"
)

// DefaultTimeout bounds one completion call. Some providers stream long
// reasoning output before the final answer, so this is generous.
const DefaultTimeout = 5 * time.Minute

// Registry holds constructed providers in configuration order.
type Registry struct {
	order     []string
	providers map[string]Provider
}

// NewRegistry builds adapters for every config entry, reading each
// provider's credential from its environment variable. A missing
// credential is not an error here: the adapter is still registered and
// reports StatusMissingCredential when used, so one unconfigured vendor
// never blocks the rest.
func NewRegistry(configs []Config, timeout time.Duration) (*Registry, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	r := &Registry{providers: make(map[string]Provider, len(configs))}
	for _, cfg := range configs {
		if _, dup := r.providers[cfg.Key]; dup {
			return nil, fmt.Errorf("duplicate provider key %q", cfg.Key)
		}
		apiKey := os.Getenv(cfg.CredentialEnv)
		var p Provider
		switch cfg.Variant {
		case VariantOpenAI:
			p = NewOpenAICompat(cfg, apiKey, timeout)
		case VariantGemini:
			p = NewGemini(cfg, apiKey, timeout)
		default:
			return nil, fmt.Errorf("provider %q: unknown variant %q", cfg.Key, cfg.Variant)
		}
		r.order = append(r.order, cfg.Key)
		r.providers[cfg.Key] = p
	}
	return r, nil
}

// Keys returns provider keys in configuration order.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.order))
	copy(keys, r.order)
	return keys
}

// Get looks up a provider by key.
func (r *Registry) Get(key string) (Provider, bool) {
	p, ok := r.providers[key]
	return p, ok
}

// Select resolves provider keys to adapters, preserving configuration
// order. An empty selection means all providers.
func (r *Registry) Select(keys []string) ([]Provider, error) {
	if len(keys) == 0 {
		keys = r.order
	}
	wanted := make(map[string]bool, len(keys))
	for _, key := range keys {
		if _, ok := r.providers[key]; !ok {
			return nil, fmt.Errorf("unknown provider %q (available: %v)", key, r.order)
		}
		wanted[key] = true
	}
	var out []Provider
	for _, key := range r.order {
		if wanted[key] {
			out = append(out, r.providers[key])
		}
	}
	return out, nil
}
