package builder

import (
	"io"
	"regexp"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

type FileWriter interface {
	Writer(string, io.Writer) io.WriteCloser
	Handles(string) bool
}

var mediaTypes = map[string]string{
	"css":  "text/css",
	"html": "text/html",
	"htm":  "text/html",
	"js":   "application/javascript",
}

// mediaType returns the media type used to pick a minifier for an extension.
func mediaType(ext string) string {
	return mediaTypes[ext]
}

type TDMinifier struct {
	Minifier *minify.M
}

func (m *TDMinifier) Writer(mediatype string, out io.Writer) io.WriteCloser {
	return m.Minifier.Writer(mediatype, out)
}

func (m *TDMinifier) Handles(mediatype string) bool {
	return mediatype != ""
}

type NOOPMinifier struct {
}

func (m *NOOPMinifier) Writer(mediatype string, out io.Writer) io.WriteCloser {
	return nopWriteCloser{out}
}

func (m *NOOPMinifier) Handles(string) bool {
	return false
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func NewTDMinifier() *TDMinifier {
	minifier := minify.New()
	minifier.AddFunc("text/css", css.Minify)
	minifier.Add("text/html", &html.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
	})
	minifier.AddFuncRegexp(regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$"), js.Minify)
	return &TDMinifier{
		Minifier: minifier,
	}
}
