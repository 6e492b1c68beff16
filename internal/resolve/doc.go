// Package resolve derives deterministic destination paths for catalog items.
//
// The file name is taken from the first non-empty source in a fixed chain:
// the "file" query parameter of the source URL, then the flur, gemarkung
// and schlgmd properties. Items with a quartal property are grouped into a
// subdirectory named after it.
//
// Resolution is a pure function of the item: the same item always yields
// the same target, which is what makes skip-existing idempotent across
// repeated runs.
package resolve
