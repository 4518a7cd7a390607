// Package item models the item documents mirrored from the upstream database.
//
// Messages, info blocks and info elements are closed sum types: each is an
// interface with an unexported marker method, implemented only by the concrete
// cases declared here. Consumers switch over the concrete types, and decoding
// rejects tags it does not know except through the Opaque cases, which carry
// unrecognised JSON through unchanged.
//
// Decoding is lenient where the upstream data is: numeric variant values accept
// a single number or an array and drop non-numeric entries. Encoding restores the
// "type" tag on every case and never HTML-escapes strings.
package item
