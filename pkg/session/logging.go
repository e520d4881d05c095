package session

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// openLogger returns the session logger: the one given, a file logger, or a
// discarding logger. The returned closer is nil unless a file was opened.
func openLogger(o options) (*log.Logger, io.Closer, error) {
	if o.logger != nil {
		return o.logger, nil, nil
	}
	if o.logFile == "" {
		return log.New(io.Discard, o.logPrefix, log.LstdFlags|log.Lmicroseconds), nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(o.logFile), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(o.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return log.New(f, o.logPrefix, log.LstdFlags|log.Lmicroseconds), f, nil
}
