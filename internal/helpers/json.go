package helpers

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// MarshalJSON encodes v indented, without escaping html characters so
// paths and markup stay readable.
func MarshalJSON(v any) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	err := enc.Encode(v)
	return buf.Bytes(), err
}

// WriteJSONFile writes v to path, creating the parent directories.
func WriteJSONFile(path string, v any) error {
	b, err := MarshalJSON(v)
	if err != nil {
		return errors.Wrap(err, "encode json")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(path, b, 0644), "write %s", path)
}
