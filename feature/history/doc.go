// Package history journals finished sync runs in a SQL database and serves
// the most recent ones over HTTP.
//
// The journal is optional. When no database is configured the pipeline runs
// without a recorder and the /runs route is not registered.
package history
