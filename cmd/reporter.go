package main

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"

	"promptarena/internal/runner"
)

// consoleReporter renders per-pair progress on stderr: a progress bar
// over the batch plus one line per completed pair.
type consoleReporter struct {
	bar *progressbar.ProgressBar
}

func newConsoleReporter(totalPairs int) *consoleReporter {
	bar := progressbar.NewOptions(totalPairs,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Starting..."),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("pairs"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetRenderBlankState(true),
	)
	return &consoleReporter{bar: bar}
}

func (c *consoleReporter) Event(ev runner.Event) {
	label := fmt.Sprintf("%s × %s", ev.PromptName, ev.ProviderKey)
	switch ev.Type {
	case runner.EventStarted:
		c.bar.Describe(label)
	case runner.EventFinished:
		c.bar.Add(1)
		fmt.Fprintf(os.Stderr, "\n[%d/%d] %s done (%.1fs)\n", ev.Pair, ev.Total, label, ev.Elapsed)
	case runner.EventRejected:
		c.bar.Add(1)
		fmt.Fprintf(os.Stderr, "\n[%d/%d] %s rejected by provider (%.1fs): %s\n", ev.Pair, ev.Total, label, ev.Elapsed, ev.Reason)
	case runner.EventFailed:
		c.bar.Add(1)
		fmt.Fprintf(os.Stderr, "\n[%d/%d] %s FAILED: %s\n", ev.Pair, ev.Total, label, ev.Reason)
	case runner.EventSkipped:
		c.bar.Add(1)
		fmt.Fprintf(os.Stderr, "\n[%d/%d] %s skipped: %s\n", ev.Pair, ev.Total, label, ev.Reason)
	}
}

func (c *consoleReporter) Close() {
	c.bar.Finish()
	c.bar.Close()
	fmt.Fprintln(os.Stderr)
}
