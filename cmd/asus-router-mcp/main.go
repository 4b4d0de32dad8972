// Command asus-router-mcp serves an ASUS router as JSON-RPC tools on stdio,
// or prints a one-shot status report with --show-info.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"

	routermcp "github.com/felixgeelhaar/asus-router-mcp"
	"github.com/felixgeelhaar/asus-router-mcp/config"
	"github.com/felixgeelhaar/asus-router-mcp/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, config.Environ())
	stop()
	os.Exit(code)
}

type flags struct {
	showInfo  bool
	detailed  bool
	overrides config.Overrides
}

func parseFlags(args []string, stderr io.Writer) (flags, error) {
	var f flags
	fs := flag.NewFlagSet("asus-router-mcp", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.BoolVar(&f.showInfo, "show-info", false, "print the router status report and exit")
	fs.BoolVar(&f.showInfo, "cli", false, "alias of --show-info")
	fs.BoolVar(&f.detailed, "detailed", false, "include the client table in the report")
	fs.BoolVar(&f.detailed, "d", false, "alias of --detailed")
	fs.StringVar(&f.overrides.ConfigFile, "config", "", "YAML config file (or "+config.EnvConfigFile+")")
	fs.StringVar(&f.overrides.Transport, "transport", "", "stdio, http or websocket")
	fs.StringVar(&f.overrides.Addr, "addr", "", "listen address for http and websocket")
	fs.StringVar(&f.overrides.LogLevel, "log-level", "", "debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return flags{}, err
	}
	if fs.NArg() > 0 {
		return flags{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return f, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, environ map[string]string) int {
	f, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	cfg, err := config.Load(environ, f.overrides)
	if err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return 1
	}

	logger := newLogger(cfg.Server, stderr)

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry.OTLPEndpoint, cfg.Telemetry.ServiceName, routermcp.Version)
	if err != nil {
		logger.Error("tracing disabled", slog.String("error", err.Error()))
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("flush traces", slog.String("error", err.Error()))
		}
	}()

	app := routermcp.New(cfg, routermcp.WithLogger(logger))
	defer app.Close()

	if f.showInfo {
		fmt.Fprint(stdout, app.Report(ctx, f.detailed))
		return 0
	}

	if err := app.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped", slog.String("error", err.Error()))
		return 1
	}
	return 0
}

// newLogger writes to w, never stdout. The auto format is text on a
// terminal and JSON otherwise.
func newLogger(s config.ServerConfig, w io.Writer) *slog.Logger {
	level, _ := config.ParseLevel(s.LogLevel)
	opts := &slog.HandlerOptions{Level: level}

	format := s.LogFormat
	if format == config.LogFormatAuto {
		format = config.LogFormatJSON
		if file, ok := w.(*os.File); ok && isatty.IsTerminal(file.Fd()) {
			format = config.LogFormatText
		}
	}

	if format == config.LogFormatText {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
