// Package stats injects supplemental artefact statistics from an external
// stat service into the merged item tree.
//
// The service returns records keyed by id, custom_id or key. Each local item
// under the artefact subtree is indexed by the same identifiers plus its file
// stem, and every matching record becomes one addStat block of range elements
// appended to the item. Stat names are translation messages whose lines come
// from the translation table built over the merged output, completed by the
// service's own localized names.
//
// A failed fetch skips the stage. A failed file write skips that file.
package stats
