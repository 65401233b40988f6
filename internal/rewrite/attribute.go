package rewrite

import (
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/html"
)

// TagAttribute passes the value of every attr attribute found on a tag start
// tag to fn and writes the result back in place, keeping the original quotes.
// Tag and attribute names are compared case-insensitively.
func TagAttribute(text, tag, attr string, fn func(string) string) string {
	tag = strings.ToLower(tag)
	attr = strings.ToLower(attr)

	input := parse.NewInputString(text)
	l := html.NewLexer(input)
	out := &splicer{src: text}
	inTag := false

	for {
		tt, _ := l.Next()
		switch tt {
		case html.ErrorToken:
			return out.String()
		case html.StartTagToken:
			inTag = string(l.Text()) == tag
		case html.StartTagCloseToken, html.StartTagVoidToken:
			inTag = false
		case html.AttributeToken:
			if !inTag || string(l.AttrKey()) != attr {
				continue
			}
			val := l.AttrVal()
			if len(val) == 0 {
				continue
			}
			end := input.Offset()
			start := end - len(val)

			if val[0] == '"' || val[0] == '\'' {
				v, q, ok := unquote(val)
				if !ok {
					continue
				}
				if repl := fn(v); repl != v {
					out.replace(start, end, string(q)+repl+string(q))
				}
				continue
			}

			v := string(val)
			if repl := fn(v); repl != v {
				out.replace(start, end, repl)
			}
		}
	}
}
