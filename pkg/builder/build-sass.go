package builder

import (
	"context"
	"path/filepath"
	"regexp"

	"github.com/pkg/errors"
	"github.com/toastate/sassbuild/internal/pattern"
	"github.com/toastate/sassbuild/internal/rewrite"
	"github.com/toastate/sassbuild/internal/sass"
	"github.com/toastate/sassbuild/internal/tlogger"
	"github.com/toastate/sassbuild/pkg/config"
)

// DefaultEntryFiles are the files searched for stylesheet references.
var DefaultEntryFiles = []string{"*.html", "*.htm", "*.phtml", "*.tpl", "*.vm", "*.js"}

var sassFiles = []string{"*.scss"}

var (
	scssExtRegexp  = regexp.MustCompile(`\.scss$`)
	scssHrefRegexp = regexp.MustCompile(`\.scss($|\?)`)
)

type SassCompilerOptions struct {
	EntryFiles []string
	// EntryExtnames is the legacy way of setting EntryFiles, it wins when set.
	EntryExtnames  []string
	IncludePaths   []string
	OutputStyle    string
	CompileOptions map[string]interface{}
}

func SassCompilerOptionsFromConfig(c config.SassConfiguration) SassCompilerOptions {
	return SassCompilerOptions{
		EntryFiles:     c.EntryFiles,
		EntryExtnames:  c.EntryExtnames,
		IncludePaths:   c.IncludePaths,
		OutputStyle:    c.OutputStyle,
		CompileOptions: c.CompileOptions,
	}
}

// SassCompiler compiles scss files into css and points the entry files
// referencing them to the compiled output.
type SassCompiler struct {
	entryFiles   []string
	files        []string
	includePaths []string
	outputStyle  string

	compiler sass.Compiler
}

// NewSassCompiler uses libsass when compiler is nil.
func NewSassCompiler(opts SassCompilerOptions, compiler sass.Compiler) *SassCompiler {
	sc := &SassCompiler{
		entryFiles:   DefaultEntryFiles,
		files:        sassFiles,
		includePaths: opts.IncludePaths,
		outputStyle:  opts.OutputStyle,
		compiler:     compiler,
	}

	if len(opts.EntryFiles) > 0 {
		sc.entryFiles = opts.EntryFiles
	}
	if opts.EntryExtnames != nil {
		sc.entryFiles = pattern.FromExtnames(opts.EntryExtnames)
	}

	if sc.outputStyle == "" {
		sc.outputStyle = sass.DefaultOutputStyle
	} else if _, ok := sass.ParseOutputStyle(sc.outputStyle); !ok {
		tlogger.Warn("processor", "SassCompiler", "msg", "unknown output style, using default", "style", sc.outputStyle, "default", sass.DefaultOutputStyle)
		sc.outputStyle = sass.DefaultOutputStyle
	}

	if len(opts.CompileOptions) > 0 {
		tlogger.Debug("processor", "SassCompiler", "msg", "compile options are ignored", "options", len(opts.CompileOptions))
	}

	if sc.compiler == nil {
		sc.compiler = sass.LibSass{}
	}

	return sc
}

func (sc *SassCompiler) Name() string {
	return "SassCompiler"
}

func (sc *SassCompiler) Files() []string {
	return sc.files
}

func (sc *SassCompiler) EntryFiles() []string {
	return sc.entryFiles
}

type compileResult struct {
	css string
	err error
}

func (sc *SassCompiler) Process(ctx context.Context, file *FileInfo, pctx *ProcessContext) error {
	file.OutputPath = scssExtRegexp.ReplaceAllString(file.OutputPath, ".css")
	pctx.AddFileLink(file.Path, file.OutputPath)

	res := sc.compile(ctx, file)
	if res.err != nil {
		tlogger.Fatal("processor", sc.Name(), "msg", "Compile scss failed", "file", file.Path, "err", res.err)
		file.OutputPath = ""
		return nil
	}

	file.SetData(res.css)
	sc.trackImports(file, pctx)
	return nil
}

// compile waits for exactly one result: the css, the compiler error, a
// recovered panic, or the context error.
func (sc *SassCompiler) compile(ctx context.Context, file *FileInfo) compileResult {
	req := sass.CompileRequest{
		File:         file.FullPath,
		IncludePaths: sc.includePaths,
		OutputStyle:  sc.outputStyle,
	}

	done := make(chan compileResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- compileResult{err: errors.Errorf("compiler panic: %v", r)}
			}
		}()
		css, err := sc.compiler.Compile(ctx, req)
		done <- compileResult{css: css, err: err}
	}()

	select {
	case res := <-done:
		return res
	case <-ctx.Done():
		return compileResult{err: ctx.Err()}
	}
}

func (sc *SassCompiler) trackImports(file *FileInfo, pctx *ProcessContext) {
	full, err := filepath.Abs(file.FullPath)
	if err != nil {
		return
	}
	for _, dep := range sass.CollectImports(full, sc.includePaths) {
		pctx.AddFileDep(pctx.RelPath(dep), file.Path)
	}
}

type entryKind int

const (
	entryMarkup entryKind = iota
	entryScript
)

func kindOf(f *FileInfo) entryKind {
	if f.Extname == "js" {
		return entryScript
	}
	return entryMarkup
}

var entryRewriters = map[entryKind]func(string) string{
	entryScript: func(data string) string {
		return rewrite.RequireResource(data, "css", scriptResource)
	},
	entryMarkup: func(data string) string {
		return rewrite.TagAttribute(data, "link", "href", markupHref)
	},
}

func scriptResource(id string) string {
	return scssExtRegexp.ReplaceAllString(id, ".css")
}

func markupHref(href string) string {
	loc := scssHrefRegexp.FindStringSubmatchIndex(href)
	if loc == nil {
		return href
	}
	return href[:loc[0]] + ".css" + href[loc[2]:loc[3]] + href[loc[1]:]
}

// AfterAll points the stylesheet references of every entry file at the
// compiled css.
func (sc *SassCompiler) AfterAll(pctx *ProcessContext) {
	entries := pctx.GetFilesByPatterns(sc.entryFiles)
	if entries == nil {
		return
	}

	for _, f := range entries {
		data := f.Data()
		out := entryRewriters[kindOf(f)](data)
		if out != data {
			tlogger.Debug("processor", sc.Name(), "msg", "rewrote stylesheet references", "file", f.Path)
			f.SetData(out)
		}
	}
}

// Compile-time checks.
var (
	_ Processor  = (*SassCompiler)(nil)
	_ AfterAller = (*SassCompiler)(nil)
)
