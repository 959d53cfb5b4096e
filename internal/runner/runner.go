// Package runner drives one benchmark batch: it walks the selected
// prompt × provider pairs strictly sequentially, times each call, writes
// the extracted payload to an artifact file, and merges usage/timing
// metadata into the run history at the end.
package runner

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"promptarena/internal/catalog"
	"promptarena/internal/extract"
	"promptarena/internal/history"
	"promptarena/internal/provider"
)

// EventType classifies per-pair progress events.
type EventType string

const (
	EventStarted  EventType = "started"
	EventFinished EventType = "finished"
	EventRejected EventType = "rejected"
	EventFailed   EventType = "failed"
	EventSkipped  EventType = "skipped"
)

// Event is one per-pair progress notification. Consumers (console
// reporter, websocket hub) subscribe to these instead of the runner
// writing output directly.
type Event struct {
	Type        EventType
	PromptName  string
	ProviderKey string
	Pair        int // 1-based pair number
	Total       int
	Elapsed     float64 // seconds, set on finished/rejected/failed
	Reason      string  // failure or skip reason
}

// Reporter receives progress events as pairs complete.
type Reporter interface {
	Event(Event)
}

type nopReporter struct{}

func (nopReporter) Event(Event) {}

// Summary counts outcomes across one batch.
type Summary struct {
	Attempted int `json:"attempted"`
	Completed int `json:"completed"`
	Rejected  int `json:"rejected"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// Usable returns the number of pairs that produced a result worth
// displaying (normal completions plus rejections, which are meaningful
// outcomes).
func (s Summary) Usable() int { return s.Completed + s.Rejected }

// Runner executes a batch. One outbound call is in flight at a time, by
// design: provider rate limits are tight and per-call progress stays
// readable.
type Runner struct {
	Prompts   []catalog.Prompt
	Providers []provider.Provider
	OutputDir string
	Store     *history.Store
	Reporter  Reporter
}

// Run processes every pair and persists the merged history. A fault in a
// single pair never aborts the batch; a fault while persisting the
// history at the end does, since losing the whole run silently would be
// worse.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	reporter := r.Reporter
	if reporter == nil {
		reporter = nopReporter{}
	}

	var summary Summary
	run := history.History{}
	total := len(r.Prompts) * len(r.Providers)
	skipped := make(map[string]string) // provider key -> reason

	pair := 0
	var runErr error

loop:
	for _, prompt := range r.Prompts {
		for _, p := range r.Providers {
			pair++

			select {
			case <-ctx.Done():
				runErr = ctx.Err()
				break loop
			default:
			}

			ev := Event{
				PromptName:  prompt.Name,
				ProviderKey: p.Key(),
				Pair:        pair,
				Total:       total,
			}

			if reason, ok := skipped[p.Key()]; ok {
				summary.Skipped++
				ev.Type = EventSkipped
				ev.Reason = reason
				reporter.Event(ev)
				continue
			}

			summary.Attempted++
			ev.Type = EventStarted
			reporter.Event(ev)

			start := time.Now()
			res, err := p.Complete(ctx, prompt.FullText())
			elapsed := roundToOneDecimal(time.Since(start).Seconds())
			ev.Elapsed = elapsed

			switch {
			case err != nil:
				summary.Failed++
				ev.Type = EventFailed
				ev.Reason = err.Error()
				reporter.Event(ev)

			case res.Status == provider.StatusMissingCredential:
				// Configuration fault: skip this provider for the rest
				// of the batch and keep going with the others.
				summary.Attempted--
				summary.Skipped++
				skipped[p.Key()] = res.Text
				ev.Type = EventSkipped
				ev.Reason = res.Text
				reporter.Event(ev)

			case res.Status == provider.StatusHTTPError:
				summary.Failed++
				ev.Type = EventFailed
				ev.Reason = res.Text
				reporter.Event(ev)

			case res.Status == provider.StatusRejected:
				summary.Rejected++
				if err := r.writeArtifact(prompt, p.Key(), res.Text); err != nil {
					ev.Type = EventFailed
					ev.Reason = err.Error()
					reporter.Event(ev)
					continue
				}
				run.Set(prompt.Name, p.Key(), history.Entry{
					Usage:       res.Usage,
					TimeSeconds: elapsed,
				})
				ev.Type = EventRejected
				ev.Reason = res.Text
				reporter.Event(ev)

			default:
				payload := res.Text
				if prompt.Kind == catalog.KindCoding {
					payload = extract.Payload(res.Text)
				}
				if err := r.writeArtifact(prompt, p.Key(), payload); err != nil {
					summary.Failed++
					ev.Type = EventFailed
					ev.Reason = err.Error()
					reporter.Event(ev)
					continue
				}
				summary.Completed++
				run.Set(prompt.Name, p.Key(), history.Entry{
					Usage:       res.Usage,
					TimeSeconds: elapsed,
				})
				ev.Type = EventFinished
				reporter.Event(ev)
			}
		}
	}

	if r.Store != nil && len(run) > 0 {
		if err := r.Store.Merge(run); err != nil {
			return summary, fmt.Errorf("persisting run history: %w", err)
		}
	}
	return summary, runErr
}

func (r *Runner) writeArtifact(prompt catalog.Prompt, providerKey, payload string) error {
	dir := r.OutputDir
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, prompt.ArtifactName(providerKey))
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		return fmt.Errorf("writing artifact %s: %w", path, err)
	}
	return nil
}

func roundToOneDecimal(f float64) float64 {
	return math.Round(f*10) / 10
}
