// Package wait repeats lookups until they succeed or a deadline passes.
//
// Defaults are a 5s timeout and a 50ms poll interval. Positive poll
// intervals under 10ms are clamped to 10ms and negative durations are
// rejected. The deadline is the only way to stop a wait early. Waits must
// not run on the UI goroutine; they fail at once with ErrOnUIThread there.
package wait
