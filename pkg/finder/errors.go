package finder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ajramos/tuirobot/pkg/component"
)

var (
	// ErrNotFound is matched by lookups that found nothing.
	ErrNotFound = errors.New("component not found")
	// ErrAmbiguous is matched by lookups that found more than one component.
	ErrAmbiguous = errors.New("more than one component found")
)

// LookupError reports a lookup that did not produce exactly one component.
type LookupError struct {
	Matcher   string
	Found     []component.Component
	Hierarchy string
}

func (e *LookupError) Error() string {
	var b strings.Builder
	if len(e.Found) == 0 {
		fmt.Fprintf(&b, "unable to find component using matcher %s", e.Matcher)
	} else {
		fmt.Fprintf(&b, "found %d components using matcher %s", len(e.Found), e.Matcher)
	}
	if e.Hierarchy != "" {
		b.WriteString("\n\nComponent hierarchy:\n")
		b.WriteString(e.Hierarchy)
	}
	return b.String()
}

// Unwrap returns ErrNotFound or ErrAmbiguous.
func (e *LookupError) Unwrap() error {
	if len(e.Found) == 0 {
		return ErrNotFound
	}
	return ErrAmbiguous
}

// Ambiguous reports whether more than one component matched.
func (e *LookupError) Ambiguous() bool { return len(e.Found) > 1 }
