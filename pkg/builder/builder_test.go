package builder

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pkg/errors"
	"github.com/toastate/sassbuild/pkg/config"
)

func TestShouldHandle(t *testing.T) {
	b := NewBuilder("src", "build", "")
	tests := map[string]bool{
		"index.html":                           true,
		filepath.Join("css", "main.scss"):      true,
		filepath.Join("css", "_partial.scss"):  false,
		filepath.Join(".git", "config"):        false,
		filepath.Join("includes", "head.html"): false,
		filepath.Join("a", "includes", "x.js"): false,
		filepath.Join("my_includes", "x.js"):   true,
	}
	for name, want := range tests {
		if got := b.ShouldHandle(name); got != want {
			t.Errorf("ShouldHandle(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestBuilderMissingSource(t *testing.T) {
	dir := t.TempDir()
	b := NewBuilder(filepath.Join(dir, "nope"), filepath.Join(dir, "build"), dir)
	if err := b.Build(context.Background()); err != ErrSrcNotFound {
		t.Fatalf("Build = %v, want ErrSrcNotFound", err)
	}
}

func TestBuilderBuild(t *testing.T) {
	saved := *config.Config
	t.Cleanup(func() { *config.Config = saved })
	config.Config.LinksManifest = "links.json"
	captureLog(t)

	root := t.TempDir()
	src := filepath.Join(root, "src")
	build := filepath.Join(root, "build")
	writeSrc(t, src, map[string]string{
		"index.html":        "<html><head>\r\n<link rel=\"stylesheet\" href=\"css/a.scss?v=3\">\r\n</head></html>",
		"app.js":            `require("css!./css/a.scss");`,
		"css/a.scss":        "@import \"partial\";\nbody { color: $red; }\n",
		"css/_partial.scss": "$red: red;\n",
		"broken.scss":       "a {",
		"img/logo.png":      "\x89PNG\r\n",
		".hidden/x.html":    "<p>hidden</p>",
	})
	// a stale artifact from a previous build
	writeSrc(t, build, map[string]string{"old.css": "x"})

	fake := &fakeCompiler{
		css:  map[string]string{"a.scss": "body{color:red}"},
		fail: map[string]error{"broken.scss": errors.New("unexpected end of file")},
	}
	b := NewBuilder(src, build, root, &BuilderOpts{
		Processors: []Processor{NewSassCompiler(SassCompilerOptions{}, fake)},
	})

	if err := b.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}

	read := func(name string) (string, bool) {
		b, err := os.ReadFile(filepath.Join(build, filepath.FromSlash(name)))
		return string(b), err == nil
	}

	expect := map[string]string{
		"index.html":   "<html><head>\n<link rel=\"stylesheet\" href=\"css/a.css?v=3\">\n</head></html>",
		"app.js":       `require("css!./css/a.css");`,
		"css/a.css":    "body{color:red}",
		"img/logo.png": "\x89PNG\r\n",
	}
	for name, want := range expect {
		got, ok := read(name)
		if !ok {
			t.Errorf("%s was not written", name)
			continue
		}
		if got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}

	for _, name := range []string{"broken.css", "broken.scss", "css/a.scss", "css/_partial.scss", ".hidden/x.html", "old.css"} {
		if _, ok := read(name); ok {
			t.Errorf("%s should not be in the build output", name)
		}
	}

	manifest, ok := read("links.json")
	if !ok {
		t.Fatal("links manifest missing")
	}
	var links []Link
	if err := json.Unmarshal([]byte(manifest), &links); err != nil {
		t.Fatalf("manifest: %v", err)
	}
	wantLinks := []Link{{Source: "broken.scss", Output: "broken.css"}, {Source: "css/a.scss", Output: "css/a.css"}}
	if !reflect.DeepEqual(links, wantLinks) {
		t.Errorf("links = %+v, want %+v", links, wantLinks)
	}

	if deps := b.Context().Dependents("css/_partial.scss"); !reflect.DeepEqual(deps, []string{"css/a.scss"}) {
		t.Errorf("Dependents = %v", deps)
	}
}

func TestBuilderMinifiedOutput(t *testing.T) {
	captureLog(t)

	root := t.TempDir()
	src := filepath.Join(root, "src")
	build := filepath.Join(root, "build")
	writeSrc(t, src, map[string]string{
		"a.scss":   "a{}",
		"data.txt": "  keep   me  ",
	})

	fake := &fakeCompiler{css: map[string]string{"a.scss": "body {\n  color: red;\n}\n"}}
	b := NewBuilder(src, build, root, &BuilderOpts{
		Processors: []Processor{NewSassCompiler(SassCompilerOptions{}, fake)},
		Writer:     NewTDMinifier(),
	})
	if err := b.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}

	css, err := os.ReadFile(filepath.Join(build, "a.css"))
	if err != nil {
		t.Fatal(err)
	}
	if string(css) != "body{color:red}" {
		t.Errorf("a.css = %q", css)
	}

	txt, err := os.ReadFile(filepath.Join(build, "data.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(txt) != "  keep   me  " {
		t.Errorf("data.txt = %q", txt)
	}
}
