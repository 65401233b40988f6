package pattern

import (
	"reflect"
	"testing"
)

func TestFromExtnames(t *testing.T) {
	got := FromExtnames([]string{"js", "html"})
	want := []string{"*.js", "*.html"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FromExtnames = %v, want %v", got, want)
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		path     string
		patterns []string
		want     bool
	}{
		{"index.html", []string{"*.html"}, true},
		{"pages/about/index.html", []string{"*.html"}, true},
		{"pages/index.htm", []string{"*.html"}, false},
		{"css/main.scss", []string{"*.scss"}, true},
		{"css/main.scss", []string{"css/*.scss"}, true},
		{"css/deep/main.scss", []string{"css/*.scss"}, false},
		{"css/deep/main.scss", []string{"css/**/*.scss"}, true},
		{"css/main.scss", []string{"./css/*.scss"}, true},
		{"js/app.js", []string{"*.html", "*.js"}, true},
		{"js/vendor/lib.js", []string{"*.js", "!js/vendor/**"}, false},
		{"js/app.js", []string{"*.js", "!js/vendor/**"}, true},
		{"a.js", []string{"!*.html"}, false},
		{"a.js", nil, false},
		{"a.js", []string{"[.js"}, false},
		{"a.js", []string{"*."}, false},
	}

	for _, tt := range tests {
		if got := Match(tt.path, tt.patterns); got != tt.want {
			t.Errorf("Match(%q, %v) = %v, want %v", tt.path, tt.patterns, got, tt.want)
		}
	}
}
