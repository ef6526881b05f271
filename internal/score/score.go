// Package score assembles parts into a complete Csound score.
//
// A Score is literal header text, an ordered list of parts and literal
// footer text. Rendering generates every part in order and joins the pieces
// as header + "\n" + parts + "\n" + footer. Parts share no state, so they
// are rendered one after another and always appear in the order they were
// added.
package score

import (
	"fmt"
	"strings"

	"github.com/roach88/csgen/internal/engine"
)

// Score is an ordered collection of parts with header and footer text.
type Score struct {
	header string
	footer string
	parts  []*engine.Part

	rendered    string
	hasRendered bool
}

// New creates a Score.
func New(header, footer string, parts ...*engine.Part) *Score {
	s := &Score{header: header, footer: footer}
	s.parts = append(s.parts, parts...)
	return s
}

// Add appends a part.
func (s *Score) Add(p *engine.Part) {
	s.parts = append(s.parts, p)
}

// Parts returns the parts in render order.
func (s *Score) Parts() []*engine.Part {
	out := make([]*engine.Part, len(s.parts))
	copy(out, s.parts)
	return out
}

// Header returns the literal header text.
func (s *Score) Header() string { return s.header }

// Footer returns the literal footer text.
func (s *Score) Footer() string { return s.footer }

// Render generates every part and returns the complete score text. The
// result is cached and available from Last.
//
// If any part fails, Render returns the error and no text; the cache keeps
// the previous successful render.
func (s *Score) Render() (string, error) {
	var b strings.Builder
	b.WriteString(s.header)
	b.WriteString("\n")
	for i, p := range s.parts {
		text, err := p.Render()
		if err != nil {
			return "", fmt.Errorf("part %d%s: %w", i, partLabel(p), err)
		}
		b.WriteString(text)
	}
	b.WriteString("\n")
	b.WriteString(s.footer)

	s.rendered = b.String()
	s.hasRendered = true
	return s.rendered, nil
}

// Last returns the text of the most recent successful Render.
func (s *Score) Last() (string, bool) {
	return s.rendered, s.hasRendered
}

// Validate checks every part's preconditions without generating anything.
func (s *Score) Validate() error {
	for i, p := range s.parts {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("part %d%s: %w", i, partLabel(p), err)
		}
	}
	return nil
}

// StatementCount returns the statements produced by the last render.
func (s *Score) StatementCount() int {
	n := 0
	for _, p := range s.parts {
		n += len(p.Statements())
	}
	return n
}

func partLabel(p *engine.Part) string {
	if p.Name() == "" {
		return ""
	}
	return fmt.Sprintf(" (%s)", p.Name())
}
