// Package httpx builds the outbound HTTP clients used to reach GitHub and the
// external stat service.
//
// Every remote call is attempted through each Route in order: through the
// configured proxy first when it is enabled, then directly. Each client has a
// bounded timeout so no fetch blocks indefinitely.
package httpx
