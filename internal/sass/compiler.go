// Package sass compiles scss stylesheets and inspects their imports.
package sass

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	libsass "github.com/wellington/go-libsass"
)

// CompileRequest describes a single stylesheet compilation.
type CompileRequest struct {
	File         string // absolute path of the scss source
	IncludePaths []string
	OutputStyle  string
}

// Compiler turns a scss file into css text.
type Compiler interface {
	Compile(ctx context.Context, req CompileRequest) (string, error)
}

// Style is a libsass output style.
type Style int

const (
	Nested     Style = libsass.NESTED_STYLE
	Expanded   Style = libsass.EXPANDED_STYLE
	Compact    Style = libsass.COMPACT_STYLE
	Compressed Style = libsass.COMPRESSED_STYLE
)

var styles = map[string]Style{
	"nested":     Nested,
	"expanded":   Expanded,
	"compact":    Compact,
	"compressed": Compressed,
}

// DefaultOutputStyle is used when no output style is configured.
const DefaultOutputStyle = "compressed"

// ParseOutputStyle maps a style name to its libsass value.
func ParseOutputStyle(name string) (Style, bool) {
	s, ok := styles[name]
	return s, ok
}

// LibSass compiles through the bundled libsass C library.
type LibSass struct{}

// Compile runs libsass on req.File. The directory of the file is searched
// before req.IncludePaths. libsass itself can't be interrupted, ctx is only
// checked before starting.
func (LibSass) Compile(ctx context.Context, req CompileRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	style, ok := ParseOutputStyle(req.OutputStyle)
	if !ok {
		style = Compressed
	}

	f, err := os.Open(req.File)
	if err != nil {
		return "", err
	}
	defer f.Close()

	includePaths := append([]string{filepath.Dir(req.File)}, req.IncludePaths...)

	var buf bytes.Buffer
	comp, err := libsass.New(&buf, f,
		libsass.Path(req.File),
		libsass.IncludePaths(includePaths),
		libsass.OutputStyle(int(style)),
	)
	if err != nil {
		return "", err
	}
	if err := comp.Run(); err != nil {
		return "", err
	}

	return buf.String(), nil
}
