package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestExtnameListUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ExtnameList
	}{
		{"comma string", `"js,html"`, ExtnameList{"js", "html"}},
		{"spaced string", `"js , html,  tpl"`, ExtnameList{"js", "html", "tpl"}},
		{"array", `["vm","phtml"]`, ExtnameList{"vm", "phtml"}},
		{"null", `null`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ExtnameList
			if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.in, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestExtnameListRejectsObjects(t *testing.T) {
	var got ExtnameList
	if err := json.Unmarshal([]byte(`{"js":true}`), &got); err == nil {
		t.Fatal("expected an error for an object value")
	}
}

func TestInitReadsSassSection(t *testing.T) {
	saved := *Config
	t.Cleanup(func() { *Config = saved })

	dir := t.TempDir()
	path := filepath.Join(dir, "sassbuild.json")
	body := `{
		"build_directory": "out",
		"minify": true,
		"sass": {
			"entry_extnames": "js,html",
			"include_paths": ["vendor/scss"],
			"output_style": "expanded"
		}
	}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Init(path); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if Config.BuildDir != "out" {
		t.Errorf("BuildDir = %q, want out", Config.BuildDir)
	}
	if Config.SrcDir != "src" {
		t.Errorf("SrcDir = %q, want default src", Config.SrcDir)
	}
	if !Config.Minify {
		t.Error("Minify should be true")
	}
	if !reflect.DeepEqual(Config.Sass.EntryExtnames, ExtnameList{"js", "html"}) {
		t.Errorf("EntryExtnames = %#v", Config.Sass.EntryExtnames)
	}
	if Config.Sass.OutputStyle != "expanded" {
		t.Errorf("OutputStyle = %q", Config.Sass.OutputStyle)
	}
}

func TestInitMissingFile(t *testing.T) {
	if err := Init(filepath.Join(t.TempDir(), "nope.json")); err != nil {
		t.Fatalf("missing config file should not fail: %v", err)
	}
}
