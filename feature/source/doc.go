// Package source fetches the upstream item database and materialises it as
// the raw working tree.
//
// # Provider
//
// GitHub resolves the branch head commit SHA, used as the snapshot signature,
// and downloads the branch archive. Every request goes through the proxy first
// when one is enabled and then directly. Archive downloads are retried with
// exponential backoff on each route.
//
// # Extraction
//
// Extract keeps the items/ and icons/ folders and listing.json of the
// configured region and writes them under the raw root:
//
//	<repo>-<branch>/<region>/items/...    -> raw/items/...
//	<repo>-<branch>/<region>/icons/...    -> raw/icons/...
//	<repo>-<branch>/<region>/listing.json -> raw/listing.json
//
// Entries resolving outside the raw root are rejected.
package source
