// Package statement scans SQL text for positional placeholders.
//
// A placeholder is a '?' that sits outside every quoted span. Single-quoted,
// double-quoted and backtick-quoted spans are skipped as a whole; inside a
// span a backslash escapes the next byte and a doubled quote character stands
// for itself. A quote that is never closed does not open a span.
//
// Comments (--, # and /* */) do not hide placeholders, but their words are
// not statement syntax and are left out of classification.
package statement

import "strings"

type state int

const (
	stateNormal state = iota
	stateSingleQuote
	stateDoubleQuote
	stateBacktick
)

// Statement is a scanned SQL statement.
type Statement struct {
	sql          string
	placeholders []int
	words        []word
}

// word is an unquoted keyword-like token and the parenthesis depth it sits at.
type word struct {
	text  string
	pos   int
	depth int
}

// Parse scans sql and records the offset of every placeholder.
func Parse(sql string) *Statement {
	s := &Statement{sql: sql}
	s.scan()
	return s
}

// SQL returns the statement text as given to Parse.
func (s *Statement) SQL() string {
	return s.sql
}

// Placeholders returns the number of placeholders outside quoted spans.
func (s *Statement) Placeholders() int {
	return len(s.placeholders)
}

// Offsets returns the byte offsets of the placeholders in order.
func (s *Statement) Offsets() []int {
	out := make([]int, len(s.placeholders))
	copy(out, s.placeholders)
	return out
}

func (s *Statement) scan() {
	sql := s.sql
	st := stateNormal
	start, closeAt := 0, -1
	depth := 0
	commentEnd := 0

	for i := 0; i < len(sql); i++ {
		c := sql[i]

		if st == stateNormal && i >= commentEnd {
			commentEnd = commentAt(sql, i)
		}
		inComment := i < commentEnd

		switch st {
		case stateNormal:
			switch {
			case c == '\'':
				st, start, closeAt = stateSingleQuote, i, -1
			case c == '"':
				st, start, closeAt = stateDoubleQuote, i, -1
			case c == '`':
				st, start, closeAt = stateBacktick, i, -1
			case c == '?':
				s.placeholders = append(s.placeholders, i)
			case inComment:
			case c == '(':
				depth++
			case c == ')':
				if depth > 0 {
					depth--
				}
			case isWordStart(c):
				j := i + 1
				for j < len(sql) && isWordPart(sql[j]) {
					j++
				}
				s.words = append(s.words, word{text: strings.ToUpper(sql[i:j]), pos: i, depth: depth})
				i = j - 1
			}

		default:
			q := quoteOf(st)
			switch c {
			case '\\':
				// The escaped byte belongs to the span, whatever it is.
				i++
			case q:
				if i+1 < len(sql) && sql[i+1] == q {
					closeAt = i
					i++
				} else {
					st = stateNormal
				}
			}
		}

		// Ran off the end inside a span. The span ends at the last doubled
		// quote if there was one; otherwise the opening quote was a plain
		// character. Either way scanning resumes right after that point.
		if st != stateNormal && i >= len(sql)-1 {
			st = stateNormal
			if closeAt >= 0 {
				i = closeAt
			} else {
				i = start
			}
		}
	}
}

// commentAt returns the end offset of a comment starting at i, or i when
// none starts there.
func commentAt(sql string, i int) int {
	switch {
	case sql[i] == '#' || strings.HasPrefix(sql[i:], "--"):
		if end := strings.IndexByte(sql[i:], '\n'); end >= 0 {
			return i + end + 1
		}
		return len(sql)
	case strings.HasPrefix(sql[i:], "/*"):
		if end := strings.Index(sql[i+2:], "*/"); end >= 0 {
			return i + 2 + end + 2
		}
		return len(sql)
	}
	return i
}

func quoteOf(st state) byte {
	switch st {
	case stateSingleQuote:
		return '\''
	case stateDoubleQuote:
		return '"'
	default:
		return '`'
	}
}

func isWordStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isWordPart(c byte) bool {
	return isWordStart(c) || (c >= '0' && c <= '9') || c == '$'
}
