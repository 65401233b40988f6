// Package rewrite edits resource references inside page and script sources
// without touching any other byte of the text.
package rewrite

import "strings"

// splicer collects replacements over a source text. Replacements must be
// added in increasing offset order.
type splicer struct {
	src  string
	sb   strings.Builder
	last int
	n    int
}

func (s *splicer) replace(start, end int, repl string) {
	s.sb.WriteString(s.src[s.last:start])
	s.sb.WriteString(repl)
	s.last = end
	s.n++
}

func (s *splicer) String() string {
	if s.n == 0 {
		return s.src
	}
	s.sb.WriteString(s.src[s.last:])
	return s.sb.String()
}

// unquote strips matching single or double quotes. Literals holding escapes
// or line breaks are refused since they can't be rewritten byte for byte.
func unquote(lit []byte) (string, byte, bool) {
	if len(lit) < 2 {
		return "", 0, false
	}
	q := lit[0]
	if (q != '"' && q != '\'') || lit[len(lit)-1] != q {
		return "", 0, false
	}
	v := string(lit[1 : len(lit)-1])
	if strings.ContainsAny(v, "\\\r\n") {
		return "", 0, false
	}
	return v, q, true
}
