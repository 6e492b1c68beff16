package batch

import (
	"context"
	"sync"

	"gocloud.dev/blob"

	"github.com/oklabflensburg/open-parcel-map/internal/catalog"
	"github.com/oklabflensburg/open-parcel-map/internal/diag"
	"github.com/oklabflensburg/open-parcel-map/internal/fetch"
	"github.com/oklabflensburg/open-parcel-map/internal/progress"
	"github.com/oklabflensburg/open-parcel-map/internal/resolve"
)

// Options configures a batch run.
type Options struct {
	// Workers is the number of parallel item workers.
	// Default: 1 (sequential)
	Workers int

	// Force refetches items whose destination file already exists.
	Force bool

	// DryRun resolves and checks existence but performs no network I/O
	// and no writes.
	DryRun bool

	// Fetcher downloads archives. Default: fetch.NewClient(fetch.DefaultOptions()).
	Fetcher *fetch.Client

	// Log receives diagnostics. Default: quiet logger to stderr.
	Log *diag.Logger

	// Progress is an optional progress reporter.
	Progress *progress.Reporter
}

type itemResult struct {
	outcome Outcome
	url     string
	bytes   int64
	err     error
}

// Run processes the selected items against the archive store and returns
// the run summary. Per-item failures are counted, never propagated: the
// returned error is non-nil only when the context is cancelled before
// all items were processed.
func Run(ctx context.Context, items []catalog.Item, bucket *blob.Bucket, opts Options) (*Summary, error) {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Fetcher == nil {
		opts.Fetcher = fetch.NewClient(fetch.DefaultOptions())
	}
	if opts.Log == nil {
		opts.Log = diag.New(diag.LevelQuiet, nil)
	}

	// Two items should never legitimately resolve to the same path; a
	// duplicate hints at a bad catalog, so call it out.
	var (
		seenMu sync.Mutex
		seen   = make(map[string]int)
	)
	checkDuplicate := func(idx int, key string) {
		seenMu.Lock()
		defer seenMu.Unlock()
		if prev, ok := seen[key]; ok {
			opts.Log.Warnf("items #%d and #%d both resolve to %s", prev, idx, key)
			return
		}
		seen[key] = idx
	}

	results := make([]itemResult, len(items))

	type job struct {
		idx  int
		item catalog.Item
	}

	jobs := make(chan job)
	var wg sync.WaitGroup

	for w := 0; w < opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.idx] = processItem(ctx, j.idx, j.item, bucket, opts, checkDuplicate)
			}
		}()
	}

feed:
	for i, item := range items {
		select {
		case jobs <- job{idx: i, item: item}:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	summary := &Summary{}
	for i, r := range results {
		summary.record(i, r)
	}

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

// shouldFetch is the existence gate: skip when the destination already
// exists, unless forced. A plain existence test, no content inspection.
func shouldFetch(exists, force bool) bool {
	return force || !exists
}

func processItem(ctx context.Context, idx int, item catalog.Item, bucket *blob.Bucket, opts Options, checkDuplicate func(int, string)) itemResult {
	log := opts.Log

	if item.SourceURL == "" {
		log.Warnf("item #%d has no link_data property; skipping", idx)
		if opts.Progress != nil {
			opts.Progress.ItemSkipped()
		}
		return itemResult{outcome: OutcomeSkippedMissingSource}
	}

	target, err := resolve.Resolve(item)
	if err != nil {
		log.Warnf("item #%d (%s): %v; skipping", idx, item.SourceURL, err)
		if opts.Progress != nil {
			opts.Progress.ItemSkipped()
		}
		return itemResult{outcome: OutcomeSkippedUnresolvable, url: item.SourceURL}
	}

	key := target.Key()
	checkDuplicate(idx, key)

	exists, err := bucket.Exists(ctx, key)
	if err != nil {
		log.Errorf("item #%d: check %s: %v", idx, key, err)
		if opts.Progress != nil {
			opts.Progress.ItemFailed()
		}
		return itemResult{outcome: OutcomeFailed, url: item.SourceURL, err: err}
	}

	if !shouldFetch(exists, opts.Force) {
		log.Infof("skipping existing file %s", key)
		if opts.Progress != nil {
			opts.Progress.ItemSkipped()
		}
		return itemResult{outcome: OutcomeSkippedExisting, url: item.SourceURL}
	}

	if opts.DryRun {
		log.Infof("dry run: would download %s to %s", item.SourceURL, key)
		if opts.Progress != nil {
			opts.Progress.ItemSkipped()
		}
		return itemResult{outcome: OutcomePlanned, url: item.SourceURL}
	}

	log.Debugf("downloading %s to %s", item.SourceURL, key)
	n, err := opts.Fetcher.Fetch(ctx, item.SourceURL, bucket, key)
	if err != nil {
		log.Errorf("failed to download %s: %v", item.SourceURL, err)
		if opts.Progress != nil {
			opts.Progress.ItemFailed()
		}
		return itemResult{outcome: OutcomeFailed, url: item.SourceURL, err: err}
	}

	log.Infof("saved archive to %s", key)
	if opts.Progress != nil {
		opts.Progress.ItemFetched(n)
	}
	return itemResult{outcome: OutcomeFetched, url: item.SourceURL, bytes: n}
}
