// Package bridge orchestrates one late-bound invocation: runtime init,
// class resolution, name introspection, argument marshaling, the call
// itself, and guaranteed release/teardown on every exit path.
//
// The pipeline is single-threaded and run-to-completion. Exactly one
// object handle is live at a time, created after Init and released before
// Teardown; the ordering is enforced structurally with defers rather than
// pair-matched calls.
//
// Every failure inside the pipeline carries a Code from the taxonomy in
// errors.go and renders into the JSON error envelope with exit code 1.
// Lifecycle failures are the exception: they abort outside the JSON path
// because the runtime itself can no longer be trusted.
package bridge
