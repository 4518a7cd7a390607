// Package snapshot persists the signature of the last published upstream
// snapshot: a remote commit id or, when that is unavailable, a content hash of
// the fetched archive. The value is opaque to this package.
package snapshot
