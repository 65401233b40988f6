package rewrite

import (
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"
)

type callFrame struct {
	depth int
	array bool // the group opened at depth 1 is an array literal
}

type requireScanner struct {
	prev    js.TokenType
	hasPrev bool

	calls       []callFrame
	pendingCall bool
	inImport    bool
}

// RequireResource rewrites the module identifiers a script depends on.
//
// Identifiers are the string arguments of require() and define() calls, the
// strings of an array passed directly to those calls, and the specifiers of
// import/export statements and dynamic import(). An identifier carrying a
// loader plugin prefix ("css!./a.scss") is only rewritten when the plugin is
// kind, and then fn only sees the resource part. An identifier without a
// plugin prefix is passed to fn whole.
func RequireResource(text, kind string, fn func(string) string) string {
	input := parse.NewInputString(text)
	l := js.NewLexer(input)
	out := &splicer{src: text}
	sc := &requireScanner{}

	for {
		tt, data := l.Next()
		if tt == js.ErrorToken {
			break
		}
		if (tt == js.DivToken || tt == js.DivEqToken) && sc.regexpAllowed() {
			if tt, data = l.RegExp(); tt == js.ErrorToken {
				break
			}
		}

		switch tt {
		case js.WhitespaceToken, js.LineTerminatorToken, js.CommentToken, js.CommentLineTerminatorToken:
			continue
		}

		if sc.step(tt, data) {
			end := input.Offset()
			if repl, ok := rewriteModuleID(data, kind, fn); ok {
				out.replace(end-len(data), end, repl)
			}
		}
		sc.prev, sc.hasPrev = tt, true
	}

	return out.String()
}

// step advances the scanner over a significant token and reports whether the
// token is a module identifier.
func (sc *requireScanner) step(tt js.TokenType, data []byte) bool {
	if sc.pendingCall {
		sc.pendingCall = false
		if tt == js.OpenParenToken {
			if sc.prev == js.ImportToken {
				sc.inImport = false
			}
			sc.calls = append(sc.calls, callFrame{})
			return false
		}
	}

	switch tt {
	case js.IdentifierToken:
		name := string(data)
		if (name == "require" || name == "define") && sc.prev != js.DotToken && sc.prev != js.OptChainToken {
			sc.pendingCall = true
		}
		return false
	case js.ImportToken:
		if sc.prev != js.DotToken && sc.prev != js.OptChainToken {
			sc.pendingCall = true
			sc.inImport = true
		}
		return false
	case js.ExportToken:
		sc.inImport = true
		return false
	case js.SemicolonToken:
		sc.inImport = false
	}

	if len(sc.calls) > 0 {
		top := &sc.calls[len(sc.calls)-1]
		switch tt {
		case js.OpenParenToken, js.OpenBracketToken, js.OpenBraceToken:
			if top.depth == 0 {
				top.array = tt == js.OpenBracketToken
			}
			top.depth++
			return false
		case js.CloseParenToken, js.CloseBracketToken, js.CloseBraceToken:
			if top.depth == 0 {
				if tt == js.CloseParenToken {
					sc.calls = sc.calls[:len(sc.calls)-1]
				}
				return false
			}
			top.depth--
			return false
		case js.StringToken:
			if top.depth == 0 || top.depth == 1 && top.array {
				return true
			}
		}
	}

	if tt == js.StringToken && sc.inImport && (sc.prev == js.ImportToken || sc.prev == js.FromToken) {
		sc.inImport = false
		return true
	}
	return false
}

// regexpAllowed tells a regular expression literal from a division, based on
// the previous significant token.
func (sc *requireScanner) regexpAllowed() bool {
	if !sc.hasPrev {
		return true
	}
	switch sc.prev {
	case js.CloseParenToken, js.CloseBracketToken, js.StringToken, js.TemplateToken, js.TemplateEndToken,
		js.RegExpToken, js.PrivateIdentifierToken, js.ThisToken, js.SuperToken, js.NullToken,
		js.TrueToken, js.FalseToken, js.IncrToken, js.DecrToken:
		return false
	}
	return !js.IsNumeric(sc.prev) && !js.IsIdentifier(sc.prev)
}

func rewriteModuleID(lit []byte, kind string, fn func(string) string) (string, bool) {
	id, q, ok := unquote(lit)
	if !ok {
		return "", false
	}

	var repl string
	if i := strings.IndexByte(id, '!'); i >= 0 {
		if id[:i] != kind {
			return "", false
		}
		repl = id[:i+1] + fn(id[i+1:])
	} else {
		repl = fn(id)
	}

	if repl == id {
		return "", false
	}
	return string(q) + repl + string(q), true
}
