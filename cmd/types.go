package main

import (
	"promptarena/internal/catalog"
	"promptarena/internal/history"
	"promptarena/internal/pricing"
	"promptarena/internal/provider"
	"promptarena/internal/runner"
)

// PairReport is one (prompt, provider) row in the run report.
type PairReport struct {
	Prompt       string  `json:"prompt" yaml:"prompt"`
	Provider     string  `json:"provider" yaml:"provider"`
	InputTokens  int     `json:"input_tokens" yaml:"input-tokens"`
	OutputTokens int     `json:"output_tokens" yaml:"output-tokens"`
	Cost         float64 `json:"cost_usd" yaml:"cost-usd"`
	TimeSeconds  float64 `json:"time_seconds" yaml:"time-seconds"`
	Caption      string  `json:"caption" yaml:"caption"`
}

// RunReport is the machine-readable summary printed with --format.
type RunReport struct {
	Prompts   []string       `json:"prompts" yaml:"prompts"`
	Providers []string       `json:"providers" yaml:"providers"`
	Summary   runner.Summary `json:"summary" yaml:"summary"`
	Pairs     []PairReport   `json:"pairs" yaml:"pairs"`
}

// buildReport assembles the report from the freshly merged history, so
// it reflects exactly what was persisted.
func buildReport(prompts []catalog.Prompt, providers []provider.Provider, summary runner.Summary, store *history.Store, prices pricing.Table) (*RunReport, error) {
	h, err := store.Load()
	if err != nil {
		return nil, err
	}

	report := &RunReport{Summary: summary}
	for _, p := range prompts {
		report.Prompts = append(report.Prompts, p.Name)
	}
	for _, p := range providers {
		report.Providers = append(report.Providers, p.Key())
	}
	for _, prompt := range prompts {
		for _, p := range providers {
			entry, ok := h.Get(prompt.Name, p.Key())
			if !ok {
				continue
			}
			in := entry.Usage.InputTokens()
			out := entry.Usage.OutputTokens()
			report.Pairs = append(report.Pairs, PairReport{
				Prompt:       prompt.Name,
				Provider:     p.Key(),
				InputTokens:  in,
				OutputTokens: out,
				Cost:         prices.Cost(p.Key(), in, out),
				TimeSeconds:  entry.TimeSeconds,
				Caption:      prices.Caption(p.Key(), entry),
			})
		}
	}
	return report, nil
}
