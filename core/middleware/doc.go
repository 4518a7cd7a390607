// Package middleware contains HTTP middleware for the publish server.
//
// # Components
//
//   - auth: validates the shared x-sync-token and answers 403 on mismatch.
//   - rayid: assigns a RayID to every request, exposing it in the response
//     headers and in the context for logger.WithRayID.
package middleware
