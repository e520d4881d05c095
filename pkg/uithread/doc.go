// Package uithread confines work to a toolkit's single UI goroutine.
//
// Widget state belongs to the UI goroutine. Test code running on any other
// goroutine reads or mutates it through an [Executor], which posts the work
// to the UI goroutine and blocks until it completes:
//
//	text, err := uithread.Query(exec, func() (string, error) {
//		return field.Text(), nil
//	})
//
// A returned error or a panic raised by the work is captured on the UI
// goroutine and handed back as a [*MarshalError] wrapping the cause. Calls
// made from the UI goroutine itself run in place.
//
// There is no timeout: if the UI goroutine hangs, so does the caller. Bounded
// waiting belongs to package wait.
package uithread
