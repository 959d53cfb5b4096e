package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"promptarena/internal/catalog"
	"promptarena/internal/history"
	"promptarena/internal/pricing"
	"promptarena/internal/provider"
	"promptarena/internal/runner"
)

func main() {
	promptNames := pflag.StringSliceP("prompts", "p", nil, "Prompt names to run (default: all)")
	providerKeys := pflag.StringSliceP("models", "m", nil, "Provider keys to test (default: all)")
	outputDir := pflag.StringP("output-dir", "o", ".", "Directory for artifact files")
	statsFile := pflag.String("stats", "stats.json", "Path of the run-history file")
	promptFile := pflag.String("prompt-file", "", "YAML file with a custom prompt catalog")
	timeout := pflag.Duration("timeout", provider.DefaultTimeout, "Per-call timeout")
	format := pflag.StringP("format", "f", "", "Print a run report in this format (json or yaml)")
	list := pflag.Bool("list", false, "List available prompts and providers")
	fix := pflag.Bool("fix", false, "Re-extract existing artifacts that still carry markdown wrapping")
	help := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *help {
		fmt.Printf("Usage of %s:\n", os.Args[0])
		pflag.PrintDefaults()
		os.Exit(0)
	}

	// Credentials come from the process environment; a .env file is a
	// convenience, not a requirement.
	_ = godotenv.Load()

	cat := catalog.Default()
	if *promptFile != "" {
		loaded, err := catalog.LoadFile(*promptFile)
		if err != nil {
			log.Fatalf("Invalid prompt file: %v", err)
		}
		cat = loaded
	}

	registry, err := provider.NewRegistry(provider.Defaults(), *timeout)
	if err != nil {
		log.Fatalf("Invalid provider configuration: %v", err)
	}

	if *list {
		fmt.Printf("Available prompts: %s\n", strings.Join(cat.Names(), ", "))
		fmt.Printf("Available providers: %s\n", strings.Join(registry.Keys(), ", "))
		os.Exit(0)
	}

	prompts, err := cat.Select(*promptNames)
	if err != nil {
		log.Fatalf("Invalid prompt selection: %v", err)
	}
	providers, err := registry.Select(*providerKeys)
	if err != nil {
		log.Fatalf("Invalid provider selection: %v", err)
	}

	if *fix {
		keys := make([]string, 0, len(providers))
		for _, p := range providers {
			keys = append(keys, p.Key())
		}
		fixed, err := runner.FixArtifacts(*outputDir, prompts, keys)
		if err != nil {
			log.Fatalf("Fix pass failed: %v", err)
		}
		for _, name := range fixed {
			fmt.Printf("Fixed %s\n", name)
		}
		fmt.Printf("Fix pass complete: %d file(s) rewritten\n", len(fixed))
		os.Exit(0)
	}

	store := history.NewStore(*statsFile)
	reporter := newConsoleReporter(len(prompts) * len(providers))

	r := &runner.Runner{
		Prompts:   prompts,
		Providers: providers,
		OutputDir: *outputDir,
		Store:     store,
		Reporter:  reporter,
	}

	summary, err := r.Run(context.Background())
	reporter.Close()
	if err != nil {
		log.Fatalf("Run failed: %v", err)
	}

	fmt.Fprintf(os.Stderr, "\nDone: %d/%d pairs produced a usable result (%d completed, %d rejected, %d failed, %d skipped)\n",
		summary.Usable(), summary.Attempted+summary.Skipped,
		summary.Completed, summary.Rejected, summary.Failed, summary.Skipped)
	fmt.Fprintf(os.Stderr, "Stats saved to %s\n", store.Path())

	if *format != "" {
		report, err := buildReport(prompts, providers, summary, store, pricing.Default())
		if err != nil {
			log.Fatalf("Error building run report: %v", err)
		}
		var output string
		switch *format {
		case "json":
			output, err = report.Json()
		case "yaml":
			output, err = report.Yaml()
		default:
			log.Fatalf("Invalid format %q (want json or yaml)", *format)
		}
		if err != nil {
			log.Fatalf("Error formatting run report: %v", err)
		}
		fmt.Println(output)
	}
}
