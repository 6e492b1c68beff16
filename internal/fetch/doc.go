// Package fetch downloads archives over HTTP into the archive store.
//
// This package handles:
//   - GET requests with a per-attempt timeout
//   - Retry with bounded, monotonically increasing backoff
//   - Streaming the response body into a blob bucket
//   - Atomic commits: a failed attempt never leaves a partial file under
//     the destination key
//
// # Usage
//
//	client := fetch.NewClient(fetch.DefaultOptions())
//	n, err := client.Fetch(ctx, url, bucket, "2024_2/110-023.xml.gz")
//
// The backoff curve is a pure function of the attempt number, so retry
// timing is testable without wall-clock waits; tests inject a Sleep stub
// through Options.
package fetch
