package builder

import (
	"context"
	"errors"
)

var ErrSrcNotFound = errors.New("src folder not found")

type Builder struct {
	opts *BuilderOpts

	initialized bool

	rootFolder string
	buildDir   string
	srcDir     string

	processors []Processor
	writer     FileWriter

	pctx *ProcessContext
}

// BuilderOpts overrides the pipeline normally derived from the configuration.
type BuilderOpts struct {
	Processors []Processor
	Writer     FileWriter
}

func NewBuilder(srcDir, buildDir, rootFolder string, opts ...*BuilderOpts) *Builder {
	b := &Builder{
		srcDir:     srcDir,
		buildDir:   buildDir,
		rootFolder: rootFolder,
	}
	if len(opts) > 0 {
		b.opts = opts[0]
	}
	return b
}

func (b *Builder) BuildDir() string {
	return b.buildDir
}

func (b *Builder) SrcDir() string {
	return b.srcDir
}

// Context returns the process context of the last build, nil before the first one.
func (b *Builder) Context() *ProcessContext {
	return b.pctx
}

// Processor is one step of the build pipeline. Process is called once for
// every file matching Files, in the order the files were discovered.
type Processor interface {
	Name() string
	Files() []string
	Process(ctx context.Context, file *FileInfo, pctx *ProcessContext) error
}

// AfterAller is implemented by processors needing a last pass once all the
// files went through Process.
type AfterAller interface {
	AfterAll(pctx *ProcessContext)
}
