package builder

import (
	"os"
	"path"
	"strings"

	"github.com/toastate/sassbuild/internal/tlogger"
)

// FileInfo is a file taking part in the build.
type FileInfo struct {
	Path       string // relative to the source directory, slash separated
	FullPath   string
	OutputPath string // relative to the build directory, empty when the file is dropped
	Extname    string // without the leading dot

	data    string
	loaded  bool
	changed bool
}

func NewFileInfo(relPath, fullPath string) *FileInfo {
	return &FileInfo{
		Path:       relPath,
		FullPath:   fullPath,
		OutputPath: relPath,
		Extname:    strings.TrimPrefix(path.Ext(relPath), "."),
	}
}

// Data returns the file content, read from disk on first use.
func (f *FileInfo) Data() string {
	if !f.loaded {
		b, err := os.ReadFile(f.FullPath)
		if err != nil {
			tlogger.Error("builder", "file", "msg", "file error", "file", f.Path, "err", err)
		}
		f.data = string(normalizeNewlines(f.Extname, b))
		f.loaded = true
	}
	return f.data
}

func (f *FileInfo) SetData(data string) {
	f.data = data
	f.loaded = true
	f.changed = true
}

// Changed reports whether SetData was called since the file was loaded.
func (f *FileInfo) Changed() bool {
	return f.changed
}

// Excluded reports whether the file was dropped from the build output.
func (f *FileInfo) Excluded() bool {
	return f.OutputPath == ""
}
