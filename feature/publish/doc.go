// Package publish delivers a finished run to its consumers.
//
// # Notifiers
//
// HTTPNotifier signals the publish server with a token-authenticated POST.
// BucketMirror uploads the output tree to object storage and prunes objects
// that are no longer published. Both are fire-and-forget from the pipeline's
// point of view: failures are logged by the caller and never retried.
//
// # Publish server
//
// The server feature exposes POST /sync. A request holding the shared token
// takes an exclusive non-blocking lock (409 "busy" when held), then commits and
// pushes the published folder of the git working tree:
//
//	git status --porcelain --untracked-files=all -- <path>   -> "no changes"
//	git add <path>/
//	git diff --cached --name-only                            -> "nothing staged"
//	git commit -m ... && git push <remote> <branch>          -> "pushed"
package publish
