package batch

import "fmt"

// Outcome classifies the final state of one processed item.
type Outcome int

const (
	// OutcomeUnprocessed means the item was never handed to a worker.
	// This happens when the run is cancelled mid-feed; unprocessed items
	// are excluded from the summary tally. It is the zero value on
	// purpose.
	OutcomeUnprocessed Outcome = iota
	// OutcomeFetched means the archive was downloaded and committed.
	OutcomeFetched
	// OutcomeSkippedExisting means the destination file already existed.
	OutcomeSkippedExisting
	// OutcomeSkippedMissingSource means the item has no source URL.
	OutcomeSkippedMissingSource
	// OutcomeSkippedUnresolvable means no destination file name could be
	// derived for the item.
	OutcomeSkippedUnresolvable
	// OutcomeFailed means the fetch failed after exhausting retries.
	OutcomeFailed
	// OutcomePlanned means a dry run would have fetched the item.
	OutcomePlanned
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnprocessed:
		return "unprocessed"
	case OutcomeFetched:
		return "fetched"
	case OutcomeSkippedExisting:
		return "skipped (existing)"
	case OutcomeSkippedMissingSource:
		return "skipped (no source URL)"
	case OutcomeSkippedUnresolvable:
		return "skipped (unresolvable name)"
	case OutcomeFailed:
		return "failed"
	case OutcomePlanned:
		return "planned"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Failure records one item that failed after exhausting retries.
type Failure struct {
	// Index is the item's position within the selected range.
	Index int
	// URL is the item's source URL.
	URL string
	// Err is the final cause.
	Err error
}

// Summary aggregates the outcomes of one run.
type Summary struct {
	Fetched             int
	SkippedExisting     int
	SkippedMissing      int
	SkippedUnresolvable int
	Failed              int
	Planned             int

	// Bytes is the total size of the fetched archives.
	Bytes int64

	// Failures lists failed items in range order.
	Failures []Failure
}

// Total returns the number of processed items.
func (s *Summary) Total() int {
	return s.Fetched + s.SkippedExisting + s.SkippedMissing + s.SkippedUnresolvable + s.Failed + s.Planned
}

// record tallies one processed item. Unprocessed slots are left out so
// an interrupted run never claims work it did not do.
func (s *Summary) record(idx int, item itemResult) {
	switch item.outcome {
	case OutcomeFetched:
		s.Fetched++
		s.Bytes += item.bytes
	case OutcomeSkippedExisting:
		s.SkippedExisting++
	case OutcomeSkippedMissingSource:
		s.SkippedMissing++
	case OutcomeSkippedUnresolvable:
		s.SkippedUnresolvable++
	case OutcomeFailed:
		s.Failed++
		s.Failures = append(s.Failures, Failure{Index: idx, URL: item.url, Err: item.err})
	case OutcomePlanned:
		s.Planned++
	}
}
