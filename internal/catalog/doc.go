// Package catalog loads the ALKIS archive catalog.
//
// The catalog is a GeoJSON FeatureCollection where each feature's
// properties describe one downloadable archive: the source URL
// (link_data), an optional period label (quartal) and optional naming
// fields (flur, gemarkung, schlgmd).
//
// # Loading
//
//	items, err := catalog.Load(ctx, "https://example.com/index.geojson", catalog.LoadOptions{})
//	items, err = catalog.Load(ctx, "data/index.geojson", catalog.LoadOptions{})
//
// Local paths and http(s) URLs are accepted transparently. The returned
// slice preserves the feature order of the source document exactly;
// index-based selection depends on it.
//
// # Selection
//
//	selected, err := catalog.Select(items, 100, 200) // features [100, 200)
//	selected, err = catalog.Select(items, 0, catalog.OpenEnd)
package catalog
