package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Options configures the progress reporter.
type Options struct {
	// TotalItems is the number of items in the selected range.
	TotalItems int

	// Output is where to write progress output.
	// Default: os.Stderr
	Output io.Writer

	// UpdateInterval is how often to update the progress display.
	// Default: 500ms
	UpdateInterval time.Duration

	// Destination is the output root (for display).
	Destination string
}

// Reporter outputs human-readable progress information.
type Reporter struct {
	opts Options

	mu      sync.Mutex
	fetched atomic.Int32
	skipped atomic.Int32
	failed  atomic.Int32
	bytes   atomic.Int64

	startTime  time.Time
	lastUpdate time.Time
	lastBytes  int64
	stopCh     chan struct{}
	stopped    bool
}

// NewReporter creates a new progress reporter.
func NewReporter(opts Options) *Reporter {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.UpdateInterval == 0 {
		opts.UpdateInterval = 500 * time.Millisecond
	}

	return &Reporter{
		opts:   opts,
		stopCh: make(chan struct{}),
	}
}

// Start begins outputting progress information.
func (r *Reporter) Start() {
	r.startTime = time.Now()
	r.lastUpdate = r.startTime

	fmt.Fprintf(r.opts.Output, "[alkisfetch] Downloading %d item(s) to %s\n",
		r.opts.TotalItems, r.opts.Destination)

	go r.updateLoop()
}

// Stop stops the progress reporter and prints the final status.
func (r *Reporter) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	r.mu.Unlock()

	close(r.stopCh)
}

// ItemFetched records a downloaded item and its size.
func (r *Reporter) ItemFetched(size int64) {
	r.fetched.Add(1)
	r.bytes.Add(size)
}

// ItemSkipped records an item that required no download.
func (r *Reporter) ItemSkipped() {
	r.skipped.Add(1)
}

// ItemFailed records an item that failed after retries.
func (r *Reporter) ItemFailed() {
	r.failed.Add(1)
}

// Done returns the number of items accounted for so far.
func (r *Reporter) Done() int {
	return int(r.fetched.Load() + r.skipped.Load() + r.failed.Load())
}

// updateLoop periodically updates the progress display.
func (r *Reporter) updateLoop() {
	ticker := time.NewTicker(r.opts.UpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			r.printFinalStatus()
			return
		case <-ticker.C:
			r.printProgress()
		}
	}
}

// printProgress outputs the current progress.
func (r *Reporter) printProgress() {
	now := time.Now()
	bytes := r.bytes.Load()

	elapsed := now.Sub(r.lastUpdate).Seconds()
	if elapsed < 0.1 {
		elapsed = 0.1
	}
	speed := float64(bytes-r.lastBytes) / elapsed

	r.lastUpdate = now
	r.lastBytes = bytes

	fmt.Fprintf(r.opts.Output, "\r[alkisfetch] Progress: %d/%d items | %s | Speed: %s/s    ",
		r.Done(),
		r.opts.TotalItems,
		formatBytes(bytes),
		formatBytes(int64(speed)),
	)
}

// printFinalStatus outputs the final status.
func (r *Reporter) printFinalStatus() {
	duration := time.Since(r.startTime)
	bytes := r.bytes.Load()

	fmt.Fprintf(r.opts.Output, "\r[alkisfetch] Finished: %d fetched | %d skipped | %d failed | %s    \n",
		r.fetched.Load(),
		r.skipped.Load(),
		r.failed.Load(),
		formatBytes(bytes),
	)
	fmt.Fprintf(r.opts.Output, "[alkisfetch] Total time: %s\n", formatDuration(duration))
}

// formatBytes formats bytes as a human-readable string.
func formatBytes(b int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case b >= TB:
		return fmt.Sprintf("%.2f TB", float64(b)/float64(TB))
	case b >= GB:
		return fmt.Sprintf("%.2f GB", float64(b)/float64(GB))
	case b >= MB:
		return fmt.Sprintf("%.2f MB", float64(b)/float64(MB))
	case b >= KB:
		return fmt.Sprintf("%.2f KB", float64(b)/float64(KB))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// formatDuration formats a duration as a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}

// FormatBytes is exported for use by other packages.
func FormatBytes(b int64) string {
	return formatBytes(b)
}
