// Package progress provides progress reporting for batch runs.
//
// This package outputs human-readable progress information, including
// item counts per category, downloaded bytes and transfer speed.
//
// # Usage
//
//	reporter := progress.NewReporter(Options{
//	    TotalItems: len(items),
//	    Output:     os.Stderr,
//	})
//
//	reporter.Start()
//	defer reporter.Stop()
//
//	// Update as items finish
//	reporter.ItemFetched(bytesWritten)
//	reporter.ItemSkipped()
//	reporter.ItemFailed()
//
// # Output Format
//
//	[alkisfetch] Downloading 1842 item(s) to data/sh/alkis
//	[alkisfetch] Progress: 120/1842 items | 1.13 GB | Speed: 12.4 MB/s
package progress
