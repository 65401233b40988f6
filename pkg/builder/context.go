package builder

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/toastate/sassbuild/internal/pattern"
)

// Link records the artifact a source file produced.
type Link struct {
	Source string `json:"source"`
	Output string `json:"output"`
}

// ProcessContext is the state shared by the processors of one build.
type ProcessContext struct {
	SrcDir string

	mu sync.RWMutex

	files []*FileInfo
	index map[string]*FileInfo

	links     map[string]string
	linkOrder []string

	fileDeps map[string]map[string]struct{}
}

func NewProcessContext(srcDir string) *ProcessContext {
	return &ProcessContext{
		SrcDir:   srcDir,
		index:    make(map[string]*FileInfo),
		links:    make(map[string]string),
		fileDeps: make(map[string]map[string]struct{}),
	}
}

func (pc *ProcessContext) AddFile(f *FileInfo) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if _, ok := pc.index[f.Path]; ok {
		return
	}
	pc.index[f.Path] = f
	pc.files = append(pc.files, f)
}

// Files returns every file of the build in discovery order.
func (pc *ProcessContext) Files() []*FileInfo {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	out := make([]*FileInfo, len(pc.files))
	copy(out, pc.files)
	return out
}

func (pc *ProcessContext) GetFileByPath(p string) *FileInfo {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	return pc.index[p]
}

// GetFilesByPatterns returns the files whose path matches patterns, see
// package pattern for the syntax.
func (pc *ProcessContext) GetFilesByPatterns(patterns []string) []*FileInfo {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	out := make([]*FileInfo, 0)
	for _, f := range pc.files {
		if pattern.Match(f.Path, patterns) {
			out = append(out, f)
		}
	}
	return out
}

// AddFileLink records that source produced output. Linking the same source
// again replaces the previous output.
func (pc *ProcessContext) AddFileLink(source, output string) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if _, ok := pc.links[source]; !ok {
		pc.linkOrder = append(pc.linkOrder, source)
	}
	pc.links[source] = output
}

func (pc *ProcessContext) GetFileLink(source string) (string, bool) {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	out, ok := pc.links[source]
	return out, ok
}

// Links returns the link table in insertion order.
func (pc *ProcessContext) Links() []Link {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	out := make([]Link, 0, len(pc.linkOrder))
	for _, src := range pc.linkOrder {
		out = append(out, Link{Source: src, Output: pc.links[src]})
	}
	return out
}

// AddFileDep records that dependent has to be rebuilt when dep changes.
func (pc *ProcessContext) AddFileDep(dep, dependent string) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if _, ok := pc.fileDeps[dep]; ok {
		pc.fileDeps[dep][dependent] = struct{}{}
	} else {
		pc.fileDeps[dep] = map[string]struct{}{dependent: {}}
	}
}

// Dependents returns the sorted list of files depending on dep.
func (pc *ProcessContext) Dependents(dep string) []string {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	out := make([]string, 0, len(pc.fileDeps[dep]))
	for k := range pc.fileDeps[dep] {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// RelPath converts a filesystem path into a source relative, slash separated
// path. Paths outside of the source directory are returned unchanged.
func (pc *ProcessContext) RelPath(p string) string {
	srcDir, err := filepath.Abs(pc.SrcDir)
	if err != nil {
		return p
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	rel, err := filepath.Rel(srcDir, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return p
	}
	return filepath.ToSlash(rel)
}
