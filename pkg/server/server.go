package server

import (
	"context"

	"github.com/toastate/sassbuild/internal/server"
)

type Server interface {
	Start(ctx context.Context, withBuilder bool) error
}

func NewServer(sourceDir, buildDir, rootDir string, port string, override404 string) Server {
	return server.NewServer(sourceDir, buildDir, rootDir, port, override404)
}
