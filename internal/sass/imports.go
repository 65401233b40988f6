package sass

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

var importRules = map[string]bool{
	"@import":  true,
	"@use":     true,
	"@forward": true,
}

// ScanImports lists the stylesheet targets of the @import, @use and @forward
// rules of a scss source, in order of appearance. Plain css imports, url()
// imports and sass: built-in modules are left out.
func ScanImports(src []byte) []string {
	l := css.NewLexer(parse.NewInputBytes(src))

	var out []string
	inRule := false
	lineComment := false
	prevSlash := false

	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			return out
		}

		if lineComment {
			if tt == css.WhitespaceToken && strings.ContainsAny(string(data), "\r\n") {
				lineComment = false
			}
			continue
		}
		if tt == css.DelimToken && string(data) == "/" {
			if prevSlash {
				lineComment = true
				prevSlash = false
				continue
			}
			prevSlash = true
			continue
		}
		prevSlash = false

		switch tt {
		case css.AtKeywordToken:
			inRule = importRules[strings.ToLower(string(data))]
		case css.SemicolonToken, css.LeftBraceToken:
			inRule = false
		case css.StringToken:
			if !inRule || len(data) < 2 {
				continue
			}
			target := string(data[1 : len(data)-1])
			if keepImport(target) {
				out = append(out, target)
			}
		}
	}
}

func keepImport(target string) bool {
	switch {
	case target == "":
		return false
	case strings.HasPrefix(target, "sass:"):
		return false
	case strings.HasPrefix(target, "http://"), strings.HasPrefix(target, "https://"), strings.HasPrefix(target, "//"):
		return false
	case strings.HasSuffix(target, ".css"):
		return false
	}
	return true
}

// ResolveImport finds the file a scss import target refers to, trying the
// importing directory first and then every include path. Partials
// (_name.scss) and index files are honoured. It returns "" when nothing
// matches.
func ResolveImport(fromDir, target string, includePaths []string) string {
	target = filepath.FromSlash(target)
	dirs := append([]string{fromDir}, includePaths...)

	for _, dir := range dirs {
		p := target
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, target)
		}
		for _, candidate := range importCandidates(p) {
			if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
				return candidate
			}
		}
	}
	return ""
}

func importCandidates(p string) []string {
	dir, base := filepath.Split(p)
	if ext := filepath.Ext(base); ext == ".scss" || ext == ".sass" {
		return []string{p, filepath.Join(dir, "_"+base)}
	}
	return []string{
		p + ".scss",
		filepath.Join(dir, "_"+base+".scss"),
		filepath.Join(p, "_index.scss"),
		filepath.Join(p, "index.scss"),
	}
}

// CollectImports walks the import graph of file and returns every stylesheet
// it depends on, directly or not, as absolute paths in discovery order.
// Unreadable or unresolvable imports are skipped.
func CollectImports(file string, includePaths []string) []string {
	seen := map[string]bool{file: true}
	var out []string

	queue := []string{file}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		src, err := os.ReadFile(current)
		if err != nil {
			continue
		}
		for _, target := range ScanImports(src) {
			resolved := ResolveImport(filepath.Dir(current), target, includePaths)
			if resolved == "" || seen[resolved] {
				continue
			}
			seen[resolved] = true
			out = append(out, resolved)
			queue = append(queue, resolved)
		}
	}
	return out
}
