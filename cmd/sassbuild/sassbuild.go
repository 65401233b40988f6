package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/toastate/sassbuild/internal/tlogger"
	"github.com/toastate/sassbuild/pkg/builder"
	"github.com/toastate/sassbuild/pkg/config"
	"github.com/toastate/sassbuild/pkg/server"
)

var CLI struct {
	Build CommandBuild `cmd:"" aliases:"b" help:"Compiles the scss files and rewrites their references."`
	Serve CommandServe `cmd:"" aliases:"s" help:"Run a dev server rebuilding on change."`

	ConfigFile string `short:"c" help:"configuration file path (optional)"`
}

type CommandBuild struct {
	SrcDir   string `help:"Source directory." type:"existingdir"`
	BuildDir string `help:"Build output."`

	Verbose int `short:"v" help:"Print verbose output." type:"counter"`
}

type CommandServe struct {
	SrcDir   string `help:"Source directory." type:"existingdir"`
	BuildDir string `help:"Build output."`
	Build    bool   `negatable:"" default:"true" help:"Run the build and watch for changes."`

	Port int `short:"p" help:"Listener port"`

	Verbose int `short:"v" help:"Print verbose output." type:"counter"`
}

func main() {
	kctx := kong.Parse(&CLI, kong.UsageOnError())

	err := config.Init(CLI.ConfigFile)
	tlogger.FatalIf(err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	kctx.BindTo(ctx, (*context.Context)(nil))

	err = kctx.Run()
	if err != nil {
		tlogger.Error("msg", "Command failed", "err", err)
		stop()
		os.Exit(1)
	}
}

func applyVerbose(v int) {
	switch v {
	case 0:
		tlogger.ApplyLogLevel("info")
	case 1:
		tlogger.ApplyLogLevel("debug")
	default:
		tlogger.ApplyLogLevel("all")
	}
}

func dirs(src, build string) (string, string) {
	if src == "" {
		src = config.Config.SrcDir
	}
	if build == "" {
		build = config.Config.BuildDir
	}
	return src, build
}

func (r *CommandBuild) Run(ctx context.Context) error {
	applyVerbose(r.Verbose)

	r.SrcDir, r.BuildDir = dirs(r.SrcDir, r.BuildDir)

	buildtool := builder.NewBuilder(r.SrcDir, r.BuildDir, ".")
	return buildtool.Build(ctx)
}

func (r *CommandServe) Run(ctx context.Context) error {
	applyVerbose(r.Verbose)

	r.SrcDir, r.BuildDir = dirs(r.SrcDir, r.BuildDir)
	if r.Port <= 0 {
		r.Port = config.Config.ServeConfig.Port
	}

	serv := server.NewServer(r.SrcDir, r.BuildDir, ".", strconv.Itoa(r.Port), config.Config.ServeConfig.Redirect404)

	return serv.Start(ctx, r.Build)
}
