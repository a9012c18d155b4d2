package render

import "strings"

// renderState is the per-invocation accumulating text buffer. The
// indentation cursor is derived from the buffer's last line length, so
// nested renders line up under whatever the caller already printed.
//
// State is local to one walk; concurrent walks must each own their own
// instance.
type renderState struct {
	buf strings.Builder

	// suppress skips all text concatenation while leaving the call graph
	// untouched, so discovery side effects and performance characteristics
	// stay comparable to a printing run.
	suppress bool
}

// app appends text to the buffer.
func (s *renderState) app(text string) {
	if s.suppress {
		return
	}
	s.buf.WriteString(text)
}

// col returns the length of the current (last) line.
func (s *renderState) col() int {
	if s.suppress {
		return 0
	}
	out := s.buf.String()
	if i := strings.LastIndexByte(out, '\n'); i >= 0 {
		return len(out) - i - 1
	}
	return len(out)
}

// newline breaks the line and indents the next one to n columns.
func (s *renderState) newline(n int) {
	if s.suppress {
		return
	}
	s.buf.WriteString("\n")
	s.buf.WriteString(strings.Repeat(" ", n))
}

// String returns the accumulated text, empty when suppressed.
func (s *renderState) String() string {
	return s.buf.String()
}
