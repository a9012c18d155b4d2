package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/typesnap/typesnap/preview"
	"github.com/typesnap/typesnap/provider"
	"github.com/typesnap/typesnap/render"
	"github.com/typesnap/typesnap/sink"
)

type CLI struct {
	Version VersionCmd `cmd:"" help:"Print version information."`
	Snap    SnapCmd    `cmd:"" help:"Render snapshot files for types in Go packages."`
	Serve   ServeCmd   `cmd:"" help:"Start the HTTP preview server."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

type SnapCmd struct {
	Out       string   `arg:"" help:"Output directory for snapshot files."`
	Packages  []string `help:"Go packages to analyze." short:"p" default:"./..."`
	Types     []string `help:"Type names to snapshot (default: all exported struct types)." short:"t"`
	Depth     int      `help:"Maximum traversal depth." default:"5"`
	Width     int      `help:"Maximum types rendered per level." default:"100"`
	Bodies    bool     `help:"Render member bodies under signatures."`
	Qualified bool     `help:"Use namespace-qualified type names."`
}

func (c *SnapCmd) Run() error {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	p := &provider.SourceProvider{}
	descs, err := p.Build(ctx, provider.SourceInputOptions{
		Packages:  c.Packages,
		RootTypes: c.Types,
	})
	if err != nil {
		return fmt.Errorf("failed to build descriptors: %w", err)
	}

	out := sink.NewFilesystemSink(c.Out)
	for _, desc := range descs {
		text, err := render.Walk(desc, render.Options{
			MaxDepth:      c.Depth,
			MaxWidth:      c.Width,
			SignatureOnly: !c.Bodies,
			Qualified:     c.Qualified,
		})
		if err != nil {
			return fmt.Errorf("failed to render %s: %w", desc.Name, err)
		}
		path := desc.Name + ".txt"
		if err := out.WriteSnapshot(ctx, path, []byte(text)); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		logger.Info("snapshot written", "type", desc.Name, "path", path, "bytes", len(text))
	}
	return nil
}

type ServeCmd struct {
	Packages []string `help:"Go packages to analyze." short:"p" default:"./..."`
	Types    []string `help:"Type names to expose (default: all exported struct types)." short:"t"`
	Addr     string   `help:"Address to listen on." default:":9000"`
}

func (c *ServeCmd) Run() error {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	p := &provider.SourceProvider{}
	descs, err := p.Build(ctx, provider.SourceInputOptions{
		Packages:  c.Packages,
		RootTypes: c.Types,
	})
	if err != nil {
		return fmt.Errorf("failed to build descriptors: %w", err)
	}

	return preview.NewServer(descs, logger).ListenAndServe(c.Addr)
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("typesnap"),
		kong.Description("Deterministic snapshots of generated type graphs."),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
