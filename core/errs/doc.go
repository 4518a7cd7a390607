// Package errs defines the failure taxonomy shared by every pipeline stage.
//
// Each kind wraps its cause so callers can branch with errors.As while the
// message still carries the underlying error text:
//
//   - TransportError: archive or API fetch failed. Recovered via fallback or stage skip.
//   - ParseError: a single JSON document could not be read or decoded. The file is skipped.
//   - PathSafetyError: a computed output path resolved outside its root. Fatal for that file.
//   - PersistenceError: snapshot or bundle write failed. Surfaces as a failed run.
//
// No kind terminates the long-running process; the orchestrator loop logs and retries.
package errs
