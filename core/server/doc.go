// Package server holds the publish server configuration and constants.
//
// The publish server is a small HTTP endpoint that commits and pushes the
// merged output tree when the sync loop reports a successful run. This package
// only defines its settings; the handler lives in feature/publish.
//
// # Configuration
//
// The Config struct defines the listening port, the shared token expected in
// the x-sync-token header, the advisory lock path and the git repository layout
// (working tree, published sub-path, remote and branch).
package server
