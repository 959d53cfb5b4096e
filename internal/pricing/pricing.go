// Package pricing turns vendor token counts into display costs using a
// static per-provider price table. Prices are per million tokens and are
// configured here, never derived from any API.
package pricing

import (
	"fmt"

	"promptarena/internal/history"
)

// Price is a provider's cost per million input and output tokens, USD.
type Price struct {
	Input  float64 `yaml:"input"`
	Output float64 `yaml:"output"`
}

// Table maps provider key to price.
type Table map[string]Price

// Default returns the built-in price table (approximate list prices).
func Default() Table {
	return Table{
		"gpt":      {Input: 2.50, Output: 10.00},
		"gemini":   {Input: 1.25, Output: 5.00},
		"deepseek": {Input: 0.14, Output: 0.28},
		"qwen":     {Input: 0.50, Output: 2.00},
		"kimi":     {Input: 0.14, Output: 0.28},
	}
}

// Cost computes the dollar cost of one call. An unknown provider key
// prices at zero.
func (t Table) Cost(providerKey string, inputTokens, outputTokens int) float64 {
	p := t[providerKey]
	return (float64(inputTokens)*p.Input + float64(outputTokens)*p.Output) / 1_000_000
}

// Caption formats the display line for one history entry:
// "Cost: $0.0002 | 18 in, 97 out | 4.8s". An entry with no usage at all
// is a vendor rejection and shows as zero cost.
func (t Table) Caption(providerKey string, e history.Entry) string {
	if len(e.Usage) == 0 {
		return fmt.Sprintf("Cost: $0.00 (rejected) | %.1fs", e.TimeSeconds)
	}
	in := e.Usage.InputTokens()
	out := e.Usage.OutputTokens()
	cost := t.Cost(providerKey, in, out)
	return fmt.Sprintf("Cost: $%.4f | %d in, %d out | %.1fs", cost, in, out, e.TimeSeconds)
}
