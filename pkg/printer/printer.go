// Package printer renders the component hierarchy as indented text. Lookup
// failures embed its output so a test report shows what was on screen.
package printer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/ajramos/tuirobot/pkg/component"
	"github.com/ajramos/tuirobot/pkg/hierarchy"
	"github.com/ajramos/tuirobot/pkg/uithread"
)

const (
	defaultIndent = "  "
	ellipsis      = "…"
)

// Printer writes hierarchy dumps. Reads happen on the UI goroutine through
// the executor.
type Printer struct {
	in       component.Inspector
	exec     *uithread.Executor
	indent   string
	maxWidth int
}

// Option configures a Printer.
type Option func(*Printer)

// WithIndent sets the per-level indentation. The default is two spaces.
func WithIndent(s string) Option {
	return func(p *Printer) { p.indent = s }
}

// WithMaxWidth truncates each line to n terminal cells. Zero disables it.
func WithMaxWidth(n int) Option {
	return func(p *Printer) {
		if n >= 0 {
			p.maxWidth = n
		}
	}
}

// New returns a printer reading component state through in.
func New(in component.Inspector, exec *uithread.Executor, opts ...Option) *Printer {
	p := &Printer{in: in, exec: exec, indent: defaultIndent}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Fprint writes every component reachable from the roots of h.
func (p *Printer) Fprint(w io.Writer, h hierarchy.Hierarchy) error {
	return p.FprintMatching(w, h, nil)
}

// FprintMatching writes the components of h for which keep returns true,
// keeping the indentation of their depth. A nil keep prints everything.
func (p *Printer) FprintMatching(w io.Writer, h hierarchy.Hierarchy, keep func(component.Component) bool) error {
	var buf bytes.Buffer
	err := p.exec.Run(func() error {
		for _, root := range h.Roots() {
			p.walk(&buf, h, root, 0, keep)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("printing hierarchy: %w", err)
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// Sprint returns the dump of h as a string.
func (p *Printer) Sprint(h hierarchy.Hierarchy) string {
	var sb strings.Builder
	if err := p.Fprint(&sb, h); err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return sb.String()
}

func (p *Printer) walk(buf *bytes.Buffer, h hierarchy.Hierarchy, c component.Component, depth int, keep func(component.Component) bool) {
	if keep == nil || keep(c) {
		buf.WriteString(p.line(c, depth))
		buf.WriteByte('\n')
	}
	for _, child := range h.ChildrenOf(c) {
		p.walk(buf, h, child, depth+1, keep)
	}
}

func (p *Printer) line(c component.Component, depth int) string {
	s := strings.Repeat(p.indent, depth) + component.Describe(p.in, c)
	if p.maxWidth > 0 && runewidth.StringWidth(s) > p.maxWidth {
		s = runewidth.Truncate(s, p.maxWidth, ellipsis)
	}
	return s
}

// Table renders components one per line with their names aligned in a
// fixed-width column followed by the full description.
func (p *Printer) Table(cs []component.Component) string {
	var sb strings.Builder
	_ = p.exec.Run(func() error {
		width := 0
		names := make([]string, len(cs))
		for i, c := range cs {
			names[i] = p.in.Name(c)
			if names[i] == "" {
				names[i] = "-"
			}
			width = max(width, runewidth.StringWidth(names[i]))
		}
		for i, c := range cs {
			sb.WriteString(runewidth.FillRight(names[i], width))
			sb.WriteString("  ")
			sb.WriteString(p.line(c, 0))
			sb.WriteByte('\n')
		}
		return nil
	})
	return sb.String()
}
