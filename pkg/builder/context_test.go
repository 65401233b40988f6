package builder

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestProcessContextLinks(t *testing.T) {
	pctx := NewProcessContext("src")
	pctx.AddFileLink("b.scss", "b.css")
	pctx.AddFileLink("a.scss", "a.css")
	pctx.AddFileLink("b.scss", "out/b.css")

	want := []Link{{"b.scss", "out/b.css"}, {"a.scss", "a.css"}}
	if got := pctx.Links(); !reflect.DeepEqual(got, want) {
		t.Errorf("Links = %+v, want %+v", got, want)
	}
	if _, ok := pctx.GetFileLink("c.scss"); ok {
		t.Error("unknown source should not be linked")
	}
}

func TestProcessContextFiles(t *testing.T) {
	pctx := NewProcessContext("src")
	pctx.AddFile(NewFileInfo("pages/index.html", "src/pages/index.html"))
	pctx.AddFile(NewFileInfo("main.js", "src/main.js"))
	pctx.AddFile(NewFileInfo("main.js", "elsewhere/main.js"))

	if n := len(pctx.Files()); n != 2 {
		t.Fatalf("expected duplicates to be ignored, got %d files", n)
	}
	if f := pctx.GetFileByPath("main.js"); f.FullPath != "src/main.js" {
		t.Errorf("first registration should win, got %s", f.FullPath)
	}

	got := pctx.GetFilesByPatterns([]string{"*.html"})
	if len(got) != 1 || got[0].Path != "pages/index.html" {
		t.Errorf("GetFilesByPatterns = %v", got)
	}

	none := pctx.GetFilesByPatterns([]string{"*.tpl"})
	if none == nil || len(none) != 0 {
		t.Errorf("expected an empty non-nil slice, got %#v", none)
	}

	if f := pctx.GetFileByPath("main.js"); f.Extname != "js" || f.OutputPath != "main.js" {
		t.Errorf("unexpected file info %+v", f)
	}
}

func TestProcessContextDeps(t *testing.T) {
	pctx := NewProcessContext("src")
	pctx.AddFileDep("_vars.scss", "b.scss")
	pctx.AddFileDep("_vars.scss", "a.scss")
	pctx.AddFileDep("_vars.scss", "a.scss")

	if got := pctx.Dependents("_vars.scss"); !reflect.DeepEqual(got, []string{"a.scss", "b.scss"}) {
		t.Errorf("Dependents = %v", got)
	}
	if got := pctx.Dependents("other.scss"); len(got) != 0 {
		t.Errorf("Dependents = %v", got)
	}
}

func TestProcessContextRelPath(t *testing.T) {
	dir := t.TempDir()
	pctx := NewProcessContext(filepath.Join(dir, "src"))

	if got := pctx.RelPath(filepath.Join(dir, "src", "css", "_a.scss")); got != "css/_a.scss" {
		t.Errorf("RelPath = %q", got)
	}
	outside := filepath.Join(dir, "vendor", "x.scss")
	if got := pctx.RelPath(outside); got != outside {
		t.Errorf("RelPath outside the source dir = %q", got)
	}
}
