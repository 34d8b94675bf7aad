// Package comauto implements the bridge runtime over Windows COM
// automation using go-ole: single-threaded-apartment lifecycle, ProgID
// resolution and activation, dispatch-table introspection, and named-
// argument invocation.
//
// The named-argument DISPPARAMS call is Windows-only (invoke_windows.go);
// everything else compiles on all platforms through go-ole's stubs, which
// makes Init fail cleanly off-Windows before any object work is attempted.
package comauto
