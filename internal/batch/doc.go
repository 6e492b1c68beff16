// Package batch drives the archive retrieval pipeline over a selected
// catalog range.
//
// For each item the orchestrator resolves the destination, consults the
// existence gate and either records a skip, simulates the fetch (dry
// run) or downloads the archive. Per-item failures are isolated: one
// failing item never blocks the remaining items, and the run summary
// reports counts per category plus the ordered failure list.
//
// # Worker Pool
//
// Items are independent units of work. The reference behavior is
// sequential (Workers = 1), but the pool admits bounded parallelism;
// outcomes are collected positionally so the summary is deterministic
// either way.
package batch
