package builder

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/toastate/sassbuild/internal/helpers"
	"github.com/toastate/sassbuild/internal/sass"
	"github.com/toastate/sassbuild/internal/tlogger"
	"github.com/toastate/sassbuild/pkg/config"
)

// Init is idempotent, multiple calls will only initialize the builder once
func (b *Builder) Init() error {
	if b.initialized {
		return nil
	}

	if b.rootFolder == "" {
		b.rootFolder = "."
	}

	if b.buildDir == "" {
		b.buildDir = filepath.Join(b.rootFolder, config.Config.BuildDir)
	}
	if b.srcDir == "" {
		b.srcDir = filepath.Join(b.rootFolder, config.Config.SrcDir)
	}

	if _, err := os.Stat(b.srcDir); os.IsNotExist(err) {
		tlogger.Error("msg", "Src folder not found", "path", b.srcDir, "err", err)
		return ErrSrcNotFound
	}

	if b.opts != nil && b.opts.Processors != nil {
		b.processors = b.opts.Processors
	} else {
		b.processors = []Processor{
			NewSassCompiler(SassCompilerOptionsFromConfig(config.Config.Sass), sass.LibSass{}),
		}
	}

	if b.opts != nil && b.opts.Writer != nil {
		b.writer = b.opts.Writer
	} else if config.Config.Minify {
		b.writer = NewTDMinifier()
	} else {
		b.writer = &NOOPMinifier{}
	}

	for _, p := range b.processors {
		tlogger.Debug("builder", p.Name(), "msg", "init", "files", strings.Join(p.Files(), ","))
	}

	b.initialized = true
	return nil
}

func (b *Builder) ShouldHandle(name string) bool {
	folderList := strings.Split(name, string(filepath.Separator))
	for _, v := range folderList {
		if v == "includes" {
			return false
		}
		if len(v) > 0 && (v[0] == '.' || v[0] == '_') {
			return false
		}
	}
	return true
}

func (b *Builder) Build(ctx context.Context) error {
	err := b.Init()
	if err != nil {
		return err
	}

	err = os.RemoveAll(b.buildDir)
	if err != nil {
		<-time.After(time.Millisecond * 20)
		err = os.RemoveAll(b.buildDir)
		if err != nil {
			<-time.After(time.Millisecond * 20)
			err = os.RemoveAll(b.buildDir)
			tlogger.Error("msg", "Failed to remove build folder", "path", b.buildDir, "err", err)
		}
	}

	err = os.MkdirAll(b.buildDir, 0755)
	if err != nil {
		tlogger.Error("msg", "Failed to create build folder", "path", b.buildDir, "err", err)
		return errors.Wrap(err, "create build folder")
	}

	tlogger.Info("msg", "Building started", "path", b.srcDir)
	defer tlogger.Info("msg", "Building finished", "path", b.srcDir)

	pctx, err := b.load()
	if err != nil {
		return err
	}
	b.pctx = pctx

	for _, p := range b.processors {
		err = b.runProcessor(ctx, p, pctx)
		if err != nil {
			return err
		}
	}

	written, dropped := 0, 0
	for _, f := range pctx.Files() {
		if f.Excluded() {
			tlogger.Debug("builder", "output", "msg", "file dropped", "file", f.Path)
			dropped++
			continue
		}
		err = b.writeFile(f)
		if err != nil {
			tlogger.Error("msg", "Error writing file", "path", f.OutputPath, "error", err)
			return err
		}
		written++
	}

	if config.Config.LinksManifest != "" {
		err = b.writeManifest(pctx)
		if err != nil {
			return err
		}
	}

	if tlogger.Verbose() {
		tlogger.Debug("builder", "output", "msg", "file links", "links", spew.Sdump(pctx.Links()))
	}

	tlogger.Info("msg", "Build summary", "written", written, "dropped", dropped, "links", len(pctx.Links()))
	return nil
}

// load walks the source folder and registers every handled file.
func (b *Builder) load() (*ProcessContext, error) {
	pctx := NewProcessContext(b.srcDir)

	err := filepath.Walk(b.srcDir, func(absolutepath string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}

		path, err := filepath.Rel(b.srcDir, absolutepath)
		if err != nil {
			tlogger.Error("msg", "Failed to get relative path", "path", path, "err", err)
			return err
		}
		if path == "." {
			return nil
		}

		if !b.ShouldHandle(path) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}

		pctx.AddFile(NewFileInfo(filepath.ToSlash(path), absolutepath))
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "walk source folder")
	}

	return pctx, nil
}

func (b *Builder) runProcessor(ctx context.Context, p Processor, pctx *ProcessContext) error {
	for _, f := range pctx.GetFilesByPatterns(p.Files()) {
		if f.Excluded() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		tlogger.Debug("builder", p.Name(), "msg", "processing", "file", f.Path)
		err := p.Process(ctx, f, pctx)
		if err != nil {
			tlogger.Error("msg", "Error processing file", "builder", p.Name(), "path", f.Path, "error", err)
			return err
		}
	}

	if a, ok := p.(AfterAller); ok {
		a.AfterAll(pctx)
	}
	return nil
}

func (b *Builder) writeFile(f *FileInfo) error {
	dst := filepath.Join(b.buildDir, filepath.FromSlash(f.OutputPath))
	err := os.MkdirAll(filepath.Dir(dst), 0755)
	if err != nil {
		return err
	}

	mt := mediaType(strings.TrimPrefix(filepath.Ext(dst), "."))
	if !b.writer.Handles(mt) {
		if !f.Changed() {
			return copyFile(f.FullPath, dst)
		}
		return os.WriteFile(dst, []byte(f.Data()), 0644)
	}

	data := f.Data()

	var buf bytes.Buffer
	wr := b.writer.Writer(mt, &buf)
	_, err = io.WriteString(wr, data)
	if err == nil {
		err = wr.Close()
	}
	if err != nil {
		tlogger.Warn("builder", "output", "msg", "minifier failed, writing as is", "file", f.OutputPath, "err", err)
		buf.Reset()
		buf.WriteString(data)
	}

	return os.WriteFile(dst, buf.Bytes(), 0644)
}

func (b *Builder) writeManifest(pctx *ProcessContext) error {
	dst := filepath.Join(b.buildDir, config.Config.LinksManifest)
	err := helpers.WriteJSONFile(dst, pctx.Links())
	if err != nil {
		tlogger.Error("msg", "Failed to write links manifest", "path", dst, "err", err)
		return errors.Wrap(err, "write links manifest")
	}
	return nil
}
