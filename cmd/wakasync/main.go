// Package main is the entry point for wakasync.
//
// wakasync fetches a daily time-tracking summary from a WakaTime-compatible
// API and upserts it into three local CSV files: daily totals, top projects,
// and top languages. Rows are keyed by date (and rank), so running it
// repeatedly from cron replaces the current day's rows in place instead of
// duplicating them. Configuration is read from CLI flags, environment
// variables, a .env file, and an optional YAML config file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"wakasync/internal/config"
	"wakasync/internal/gitsync"
	"wakasync/internal/pipeline"
	"wakasync/internal/wakatime"
)

// errUsage marks configuration mistakes, reported with exit code 2.
var errUsage = errors.New("usage")

func main() {
	err := mainImpl()
	switch {
	case err == nil || errors.Is(err, context.Canceled):
	case errors.Is(err, errUsage):
		fmt.Fprintf(os.Stderr, "wakasync: %v\n", err)
		os.Exit(2)
	default:
		fmt.Fprintf(os.Stderr, "wakasync: %v\n", err)
		os.Exit(1)
	}
}

func mainImpl() error {
	version := flag.Bool("version", false, "Print version and exit")
	configPath := flag.String("config", "", "Path to YAML config file")
	outDir := flag.String("out-dir", "", "Output directory for the CSV files")
	apiURL := flag.String("api-url", "", "WakaTime-compatible API base URL")
	topN := flag.Int("top-n", 0, "How many top projects/languages to record")
	date := flag.String("date", "", "Date stamp to record (YYYY-MM-DD, default today)")
	timeout := flag.Duration("timeout", 0, "HTTP request timeout")
	gitCommit := flag.Bool("git-commit", false, "Commit updated CSV files to a git repo in the output directory")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	flag.Parse()
	if len(flag.Args()) > 0 {
		return fmt.Errorf("%w: unknown arguments: %v", errUsage, flag.Args())
	}

	if *version {
		printVersion()
		return nil
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	// Flags explicitly set on the command line win over everything.
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	if set["out-dir"] {
		cfg.OutDir = *outDir
	}
	if set["api-url"] {
		cfg.APIURL = *apiURL
	}
	if set["top-n"] {
		cfg.TopN = *topN
	}
	if set["date"] {
		cfg.Date = *date
	}
	if set["timeout"] {
		cfg.Timeout = *timeout
	}
	if set["git-commit"] {
		cfg.GitCommit = *gitCommit
	}
	if set["log-level"] {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	ll := &slog.LevelVar{}
	switch cfg.LogLevel {
	case "debug":
		ll.Set(slog.LevelDebug)
	case "info":
		ll.Set(slog.LevelInfo)
	case "warn":
		ll.Set(slog.LevelWarn)
	case "error":
		ll.Set(slog.LevelError)
	}
	logger := slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      ll,
		TimeFormat: "15:04:05.000", // Like time.TimeOnly plus milliseconds.
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))
	slog.SetDefault(logger)

	opts := []wakatime.Option{wakatime.WithHTTPClient(&http.Client{Timeout: cfg.Timeout})}
	if cfg.AccessToken != "" {
		opts = append(opts, wakatime.WithAccessToken(cfg.AccessToken))
	} else {
		opts = append(opts, wakatime.WithAPIKey(cfg.APIKey))
	}
	client := wakatime.New(cfg.APIURL, opts...)

	p := pipeline.New(client, cfg.OutDir, cfg.TopN,
		pipeline.WithDate(cfg.Date),
		pipeline.WithLogger(logger),
	)
	started := time.Now()
	if err := p.Run(ctx); err != nil {
		return err
	}
	logger.Info("sync complete", "date", p.Date(), "out_dir", cfg.OutDir, "took", time.Since(started).Truncate(time.Millisecond))

	if cfg.GitCommit {
		commitLedgers(logger, cfg.OutDir, p.Date())
	}
	return nil
}

// commitLedgers records the updated CSVs in git. Failures are logged, never
// fatal: the ledgers on disk are already up to date.
func commitLedgers(logger *slog.Logger, outDir, date string) {
	s, err := gitsync.Open(outDir, "", "")
	if err != nil {
		logger.Warn("git commit skipped", "error", err)
		return
	}
	msg := "wakasync: update " + date
	if err := s.Commit(msg, pipeline.TotalsFile, pipeline.ProjectsFile, pipeline.LanguagesFile); err != nil {
		logger.Warn("git commit failed", "error", err)
		return
	}
	logger.Info("ledgers committed", "message", msg)
}

func printVersion() {
	version := "dev"
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		version = info.Main.Version
	}
	fmt.Printf("wakasync %s\n", version)
}
