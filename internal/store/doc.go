// Package store opens the archive store the fetcher writes into.
//
// The store is a gocloud.dev blob bucket. For real runs it is backed by
// the local filesystem (fileblob), which commits each write by renaming a
// temporary file into place, so a reader never observes a partially
// written archive under its final name. Directories for grouped keys are
// created on demand and creation is safe to race.
//
// Dry runs against an output root that does not exist yet fall back to an
// empty in-memory bucket, so planning touches neither the network nor the
// filesystem.
package store
