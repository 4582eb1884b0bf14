package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"tsconv/internal/alfred"
	"tsconv/internal/config"
	"tsconv/internal/convert"
	appLog "tsconv/internal/log"
	"tsconv/internal/web"
	"tsconv/internal/workflow"
)

const version = "0.1.0"

// flagConfig holds CLI flag values. Positional arguments form the query.
type flagConfig struct {
	configPath string
	clipboard  string
	listen     string
	serve      bool
	query      string
}

func main() {
	flags, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		os.Exit(2)
	}

	// Best effort; a missing .env is normal.
	if err := config.LoadDotEnv(".env"); err != nil {
		appLog.Error("failed to load .env", err)
	}

	conf, err := config.Load(flags.configPath)
	if err != nil {
		// Keep going with defaults: the launcher must always get items back.
		appLog.Error("failed to load config, using defaults", err, "config_path", flags.configPath)
	}
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	if !flags.serve {
		os.Exit(runQuery(conf, flags, os.Stdout))
	}

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runServe(ctx, conf); err != nil {
		appLog.Error("server failed", err, "listen", conf.Listen)
		stop()
		os.Exit(1)
	}
	appLog.Info("tsconv exiting")
}

func parseFlags(args []string) (flagConfig, error) {
	var cfg flagConfig

	fs := flag.NewFlagSet("tsconv", flag.ContinueOnError)
	fs.StringVar(&cfg.configPath, "config", config.DefaultPath(), "Path to config file")
	fs.StringVar(&cfg.clipboard, "clipboard", "", "Clipboard text, converted when the query is empty")
	fs.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	fs.BoolVar(&cfg.serve, "serve", false, "Serve the HTTP API instead of printing script filter items")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	cfg.query = strings.Join(fs.Args(), " ")
	return cfg, nil
}

// newConverter builds a Converter from the loaded config and applies the
// configured log level.
func newConverter(conf *config.Config) *convert.Converter {
	if level, ok := appLog.ParseLevel(conf.LogLevel); ok {
		appLog.SetLevel(level)
	}

	loc, err := conf.Location()
	if err != nil {
		appLog.Error("invalid timezone, local-time candidate disabled", err, "timezone", conf.Timezone)
		loc = nil
	}

	return convert.New(convert.Options{
		Location:     loc,
		RFC2822:      conf.RFC2822,
		Microseconds: conf.Microseconds,
		Relative:     conf.Relative,
		ICalendar:    conf.ICalendar,
	})
}

// runQuery prints script filter items for one invocation and returns the
// process exit code. A query that matches no format still exits 0 with a
// single error item.
func runQuery(conf *config.Config, flags flagConfig, w io.Writer) int {
	conv := newConverter(conf)
	appLog.Debug("script filter request",
		"version", version,
		"query", flags.query,
		"clipboard", flags.clipboard != "",
		"timezone", conf.Timezone,
	)

	resp := workflow.NewRunner(conv, conf.CurrentTime).Run(workflow.Request{
		Query:     flags.query,
		Clipboard: flags.clipboard,
	})

	out := alfred.FromResponse(resp, alfred.Icons{
		Clock:    conf.Icons.Clock,
		Calendar: conf.Icons.Calendar,
		Error:    conf.Icons.Error,
	})
	if err := alfred.Write(w, out); err != nil {
		appLog.Error("failed to write items", err)
		return 1
	}
	return 0
}

func runServe(ctx context.Context, conf *config.Config) error {
	conv := newConverter(conf)
	appLog.Info("tsconv starting",
		"version", version,
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"rfc2822", conf.RFC2822,
		"microseconds", conf.Microseconds,
		"relative", conf.Relative,
		"icalendar", conf.ICalendar,
		"basic_auth", conf.BasicAuth != nil,
	)

	if err := web.Serve(ctx, conf, conv); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("serve %s: %w", conf.Listen, err)
	}
	return nil
}
