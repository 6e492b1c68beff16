package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"gocloud.dev/blob"

	"github.com/oklabflensburg/open-parcel-map/internal/batch"
	"github.com/oklabflensburg/open-parcel-map/internal/catalog"
	"github.com/oklabflensburg/open-parcel-map/internal/config"
	"github.com/oklabflensburg/open-parcel-map/internal/diag"
	"github.com/oklabflensburg/open-parcel-map/internal/fetch"
	"github.com/oklabflensburg/open-parcel-map/internal/progress"
	"github.com/oklabflensburg/open-parcel-map/internal/store"
)

func runFetch(args []string) int {
	return fetchCmd("fetch", args, false)
}

// fetchCmd is the shared implementation of the fetch and plan commands.
// forceDryRun is set by plan.
func fetchCmd(name string, args []string, forceDryRun bool) (exitCode int) {
	// Anything unexpected below must not escape as a raw crash; it is
	// reported with context and mapped to a dedicated exit code, distinct
	// from a run that merely had per-item failures.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "[alkisfetch] unexpected failure: %v\n%s", r, debug.Stack())
			exitCode = ExitUnexpected
		}
	}()

	fs := flag.NewFlagSet(name, flag.ExitOnError)

	configPath := fs.String("config", "", "Path to YAML config file")
	catalogSource := fs.String("catalog", "", "Path or URL to the GeoJSON catalog (required)")
	output := fs.String("output", "", "Target directory for downloads")
	startIndex := fs.Int("start-index", 0, "Start index (inclusive) within the catalog")
	endIndex := fs.Int("end-index", config.OpenEnd, "End index (exclusive) within the catalog; -1 means end of catalog")
	workers := fs.Int("workers", 0, "Number of parallel download workers")
	force := fs.Bool("force", false, "Refetch even if the target file already exists")
	dryRun := fs.Bool("dry-run", false, "Only report which files would be downloaded")
	showProgress := fs.Bool("progress", false, "Show progress output")
	timeout := fs.Duration("timeout", 0, "HTTP timeout per attempt")
	retryAttempts := fs.Int("retry-attempts", 0, "Total attempts per archive")
	retryBackoff := fs.Duration("retry-backoff", 0, "Initial delay between attempts")
	retryMaxBackoff := fs.Duration("retry-max-backoff", 0, "Maximum delay between attempts")
	userAgent := fs.String("user-agent", "", "User-Agent header for requests")
	insecure := fs.Bool("insecure", false, "Skip TLS certificate verification")
	verbose := fs.Bool("v", false, "Print more verbose output")
	debugFlag := fs.Bool("d", false, "Print debug output")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: alkisfetch %s [options]

Download the selected range of ALKIS archives listed in a GeoJSON
catalog. Archives whose target file already exists are skipped, so
repeated runs are idempotent.

Options:
`, name)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadFromFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitInvalidArgs
		}
		cfg = loaded
	}
	if err := cfg.LoadFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}

	// Flags set explicitly on the command line win over file and env.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "catalog":
			cfg.Catalog = *catalogSource
		case "output":
			cfg.Output = *output
		case "start-index":
			cfg.StartIndex = *startIndex
		case "end-index":
			cfg.EndIndex = *endIndex
		case "workers":
			cfg.Workers = *workers
		case "force":
			cfg.Force = *force
		case "dry-run":
			cfg.DryRun = *dryRun
		case "progress":
			cfg.Progress = *showProgress
		case "timeout":
			cfg.Timeout = *timeout
		case "retry-attempts":
			cfg.Retry.Attempts = *retryAttempts
		case "retry-backoff":
			cfg.Retry.Backoff = *retryBackoff
		case "retry-max-backoff":
			cfg.Retry.MaxBackoff = *retryMaxBackoff
		case "user-agent":
			cfg.UserAgent = *userAgent
		case "insecure":
			cfg.Insecure = *insecure
		}
	})
	if forceDryRun {
		cfg.DryRun = true
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fs.Usage()
		return ExitInvalidArgs
	}

	level := diag.LevelQuiet
	if *verbose {
		level = diag.LevelInfo
	}
	if *debugFlag {
		level = diag.LevelDebug
	}
	log := diag.New(level, os.Stderr)

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\n[alkisfetch] Received interrupt, shutting down...")
		cancel()
	}()

	items, err := catalog.Load(ctx, cfg.Catalog, catalog.LoadOptions{
		Timeout:   cfg.Timeout,
		UserAgent: cfg.UserAgent,
		Insecure:  cfg.Insecure,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to prepare catalog: %v\n", err)
		return ExitCatalog
	}

	selected, err := catalog.Select(items, cfg.StartIndex, cfg.EndIndex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}

	if len(selected) == 0 {
		log.Infof("no items selected for download")
		fmt.Fprintln(os.Stderr, "[alkisfetch] Nothing to do: empty selection")
		return ExitSuccess
	}

	var bucket *blob.Bucket
	if cfg.DryRun {
		bucket, err = store.OpenForPlan(cfg.Output)
	} else {
		bucket, err = store.Open(cfg.Output)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitStorage
	}
	defer bucket.Close()

	log.Infof("downloading %d item(s) to %s", len(selected), cfg.Output)

	var reporter *progress.Reporter
	if cfg.Progress {
		reporter = progress.NewReporter(progress.Options{
			TotalItems:     len(selected),
			Destination:    cfg.Output,
			UpdateInterval: 5 * time.Second,
		})
		reporter.Start()
		defer reporter.Stop()
	}

	fetcher := fetch.NewClient(fetch.Options{
		Timeout:    cfg.Timeout,
		Attempts:   cfg.Retry.Attempts,
		Backoff:    cfg.Retry.Backoff,
		MaxBackoff: cfg.Retry.MaxBackoff,
		UserAgent:  cfg.UserAgent,
		Insecure:   cfg.Insecure,
	})

	summary, runErr := batch.Run(ctx, selected, bucket, batch.Options{
		Workers:  cfg.Workers,
		Force:    cfg.Force,
		DryRun:   cfg.DryRun,
		Fetcher:  fetcher,
		Log:      log,
		Progress: reporter,
	})

	printSummary(summary, cfg.DryRun)

	if runErr != nil {
		fmt.Fprintln(os.Stderr, "[alkisfetch] Run interrupted before all items were processed")
		return ExitUnexpected
	}

	// Per-item failures are reported above but do not fail the run.
	return ExitSuccess
}

func printSummary(s *batch.Summary, dryRun bool) {
	if dryRun {
		fmt.Fprintf(os.Stderr, "[alkisfetch] Plan: %d to fetch | %d existing | %d without source | %d unresolvable\n",
			s.Planned, s.SkippedExisting, s.SkippedMissing, s.SkippedUnresolvable)
		return
	}

	fmt.Fprintf(os.Stderr, "[alkisfetch] Done: %d fetched (%s) | %d existing | %d without source | %d unresolvable | %d failed\n",
		s.Fetched, progress.FormatBytes(s.Bytes), s.SkippedExisting, s.SkippedMissing, s.SkippedUnresolvable, s.Failed)

	for _, f := range s.Failures {
		fmt.Fprintf(os.Stderr, "[alkisfetch]   failed #%d %s: %v\n", f.Index, f.URL, f.Err)
	}
}
