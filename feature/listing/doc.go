// Package listing folds the per-item documents of the merged tree into named
// bundle documents under <out>/listing/, and normalizes the upstream listing
// index (<out>/listing.json).
//
// A bundle is either array shaped (one entry per document, walk order) or map
// shaped (keyed by file stem, later folders overwrite earlier ones with a
// collision warning). Bundles are always rewritten from scratch.
package listing
