package builder

import (
	"io"
	"os"
	"regexp"

	"github.com/pkg/errors"
)

var crlfRegexp = regexp.MustCompile(`\r\n`)

// textExtnames lists the extensions whose line endings are normalised on load.
var textExtnames = map[string]bool{
	"html": true, "htm": true, "phtml": true, "tpl": true, "vm": true,
	"js": true, "css": true, "scss": true, "sass": true,
	"json": true, "svg": true, "txt": true,
}

func normalizeNewlines(ext string, b []byte) []byte {
	if !textExtnames[ext] {
		return b
	}
	return crlfRegexp.ReplaceAll(b, []byte("\n"))
}

// copyFile copies src to dst keeping the source permissions.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return errors.Errorf("%s is not a regular file", src)
	}

	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer source.Close()

	destination, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	_, err = io.Copy(destination, source)
	if cerr := destination.Close(); err == nil {
		err = cerr
	}
	return errors.Wrapf(err, "copy %s", src)
}
