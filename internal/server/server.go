package server

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/toastate/sassbuild/internal/tlogger"
	"github.com/toastate/sassbuild/internal/watcher"
	"github.com/toastate/sassbuild/pkg/builder"
)

const rebuildDelay = 500 * time.Millisecond

type Server struct {
	sourceDir   string
	buildDir    string
	rootDir     string
	port        string
	override404 string
	buildtool   *builder.Builder
}

func NewServer(sourceDir, buildDir, rootDir string, port string, override404 string, opts ...*builder.BuilderOpts) *Server {
	s := &Server{
		sourceDir:   sourceDir,
		rootDir:     rootDir,
		buildDir:    buildDir,
		port:        port,
		override404: override404,
		buildtool:   builder.NewBuilder(sourceDir, buildDir, rootDir, opts...),
	}

	return s
}

// Start serves the build directory. With withBuilder set, the project is built
// first and rebuilt every time the source folder changes.
func (s *Server) Start(ctx context.Context, withBuilder bool) error {
	if withBuilder {
		err := s.buildtool.Build(ctx)
		if err != nil {
			return errors.Wrap(err, "initial build")
		}

		updates, err := watcher.StartWatcher(ctx, s.sourceDir)
		if err != nil {
			return err
		}

		go s.rebuildLoop(ctx, updates)
	}

	srv := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Handler(),
	}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	// We use println here so the address can be copied or opened directly from the terminal
	fmt.Println("Listening on http://localhost:" + s.port)

	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.PathPrefix("/").HandlerFunc(s.fileServer(s.buildDir, s.override404))
	return r
}

// rebuildLoop waits for the changes to settle before rebuilding.
func (s *Server) rebuildLoop(ctx context.Context, updates <-chan string) {
	for {
		var changed []string
		select {
		case <-ctx.Done():
			return
		case p, ok := <-updates:
			if !ok {
				return
			}
			changed = append(changed, p)
		}

	rootFor:
		for {
			select {
			case p, ok := <-updates:
				if !ok {
					return
				}
				changed = append(changed, p)
			case <-time.After(rebuildDelay):
				break rootFor
			}
		}

		s.logDependents(changed)
		if err := s.buildtool.Build(ctx); err != nil {
			tlogger.Error("msg", "Rebuild failed", "err", err)
		}
	}
}

// logDependents reports the stylesheets affected by a changed partial, using
// the imports recorded by the previous build.
func (s *Server) logDependents(changed []string) {
	pctx := s.buildtool.Context()
	if pctx == nil {
		return
	}
	for _, p := range changed {
		rel := pctx.RelPath(p)
		if deps := pctx.Dependents(rel); len(deps) > 0 {
			tlogger.Info("msg", "Stylesheets affected", "path", rel, "dependents", strings.Join(deps, ","))
		}
	}
}

func (s *Server) fileServer(dir string, override404 string) func(http.ResponseWriter, *http.Request) {
	if override404 != "" && !strings.HasPrefix(override404, "/") {
		override404 = "/" + override404
	}

	return func(w http.ResponseWriter, r *http.Request) {
	begin:
		upath := r.URL.Path
		if !strings.HasPrefix(upath, "/") {
			upath = "/" + upath
			r.URL.Path = upath
		}

		fullName, found, err := resolve(dir, upath)
		if err != nil {
			w.WriteHeader(500)
			w.Write([]byte("Internal error: can't open file: " + err.Error()))
			return
		}

		if !found {
			if override404 != "" && r.URL.Path != override404 {
				r.URL.Path = override404
				goto begin
			}
			w.WriteHeader(404)
			w.Write([]byte("404 page not found"))
			return
		}

		content, err := os.Open(fullName)
		if err != nil {
			w.WriteHeader(500)
			w.Write([]byte("Internal error: can't open file"))
			return
		}
		defer content.Close()

		ctype := mime.TypeByExtension(filepath.Ext(fullName))
		if ctype == "" {
			// read a chunk to decide between utf-8 text and binary
			var buf [512]byte
			n, _ := io.ReadFull(content, buf[:])
			ctype = http.DetectContentType(buf[:n])
			_, err := content.Seek(0, io.SeekStart) // rewind to output whole file
			if err != nil {
				w.WriteHeader(500)
				w.Write([]byte("Internal error: can't seek file: " + err.Error()))
				return
			}
		}
		w.Header().Set("Content-Type", ctype)
		_, err = io.Copy(w, content)
		if err != nil {
			tlogger.Debug("msg", "could not write response", "path", upath, "error", err)
		}
	}
}

// resolve maps a url path to a file of dir, trying name, name.html and
// name/index.html in that order.
func resolve(dir, upath string) (string, bool, error) {
	const indexPage = "index.html"

	fullName := filepath.Join(dir, filepath.FromSlash(path.Clean(upath)))
	candidates := []string{fullName, fullName + ".html", filepath.Join(fullName, indexPage)}

	for _, c := range candidates {
		info, err := os.Stat(c)
		if err != nil {
			if !os.IsNotExist(err) {
				return "", false, err
			}
			continue
		}
		if !info.IsDir() {
			return c, true, nil
		}
	}
	return "", false, nil
}
