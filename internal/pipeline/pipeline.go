// Package pipeline orchestrates one synchronization pass: fetch the daily
// summary, normalize it, rank the breakdowns, and upsert three CSV ledgers.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/maruel/ksid"

	"wakasync/internal/csvledger"
	"wakasync/internal/wakatime"
)

// File names written under the output directory.
const (
	TotalsFile    = "daily-total.csv"
	ProjectsFile  = "daily-top-projects.csv"
	LanguagesFile = "daily-top-languages.csv"
)

var (
	totalsHeader    = []string{"date", "total_seconds", "total_hours", "projects_count", "languages_count"}
	projectsHeader  = []string{"date", "rank", "project", "seconds", "hours", "percent"}
	languagesHeader = []string{"date", "rank", "language", "seconds", "hours", "percent"}

	totalsKey = []string{"date"}
	rankedKey = []string{"date", "rank"}
)

// Fetcher is the slice of the API client the pipeline needs.
type Fetcher interface {
	StatusBar(ctx context.Context) (*wakatime.StatusBarResponse, error)
	Summaries(ctx context.Context, date string) (*wakatime.SummariesResponse, error)
}

// Pipeline runs fetch → extract → rank → upsert passes against a fixed
// output directory.
type Pipeline struct {
	client Fetcher
	outDir string
	topN   int
	date   string // empty means "today at Run time"
	now    func() time.Time
	logger *slog.Logger
}

// PipelineOption configures a Pipeline during construction.
type PipelineOption func(*Pipeline)

// WithDate pins the date stamp (YYYY-MM-DD) instead of using today.
func WithDate(date string) PipelineOption {
	return func(p *Pipeline) { p.date = date }
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) { p.now = now }
}

// WithLogger replaces the default logger.
func WithLogger(l *slog.Logger) PipelineOption {
	return func(p *Pipeline) { p.logger = l }
}

// New creates a Pipeline writing the three ledgers under outDir, keeping the
// topN highest-seconds projects and languages per day.
func New(client Fetcher, outDir string, topN int, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		client: client,
		outDir: outDir,
		topN:   topN,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Date returns the date stamp the next Run will record.
func (p *Pipeline) Date() string {
	if p.date != "" {
		return p.date
	}
	return LocalDateStamp(p.now())
}

// Run performs a single pass. The three ledger upserts target distinct files
// and run concurrently; a failure on one file does not stop the others, and
// all failures are joined into the returned error.
func (p *Pipeline) Run(ctx context.Context) error {
	runID := ksid.NewID()
	log := p.logger.With("run", runID.String())
	date := p.Date()

	sb, err := p.client.StatusBar(ctx)
	if err != nil {
		return fmt.Errorf("fetch status bar: %w", err)
	}
	sum := wakatime.NormalizeStatusBar(sb)

	// The status-bar endpoint sometimes omits breakdowns; the summaries
	// endpoint for the same date is the fallback source for them.
	if len(sum.Projects) == 0 && len(sum.Languages) == 0 {
		log.Debug("status bar has no breakdowns, falling back to summaries", "date", date)
		if resp, ferr := p.client.Summaries(ctx, date); ferr != nil {
			log.Warn("summaries fallback failed", "date", date, "error", ferr)
		} else {
			sum = wakatime.MergeFallback(sum, wakatime.NormalizeSummaries(resp))
		}
	}

	sortBySeconds(sum.Projects)
	sortBySeconds(sum.Languages)

	targets := []struct {
		file   string
		header []string
		key    []string
		rows   []csvledger.Row
	}{
		{TotalsFile, totalsHeader, totalsKey, []csvledger.Row{totalsRow(date, sum)}},
		{ProjectsFile, projectsHeader, rankedKey, rankedRows(date, "project", PickTop(sum.Projects, p.topN))},
		{LanguagesFile, languagesHeader, rankedKey, rankedRows(date, "language", PickTop(sum.Languages, p.topN))},
	}

	var (
		mu   sync.Mutex
		errs []error
		wg   sync.WaitGroup
	)
	for _, tgt := range targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			path := filepath.Join(p.outDir, tgt.file)
			if uerr := csvledger.Upsert(path, tgt.header, tgt.key, tgt.rows); uerr != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", tgt.file, uerr))
				mu.Unlock()
				return
			}
			log.Info("ledger updated", "file", tgt.file, "date", date, "rows", len(tgt.rows))
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}

// totalsRow builds the daily-total row. The count columns reflect the full
// breakdown lists, not the top-N truncation.
func totalsRow(date string, sum wakatime.Summary) csvledger.Row {
	return csvledger.Row{
		"date":            date,
		"total_seconds":   formatNumber(sum.TotalSeconds),
		"total_hours":     formatNumber(ToHours(sum.TotalSeconds)),
		"projects_count":  strconv.Itoa(len(sum.Projects)),
		"languages_count": strconv.Itoa(len(sum.Languages)),
	}
}

// rankedRows builds one row per breakdown entry, ranks starting at 1.
func rankedRows(date, nameColumn string, items []wakatime.Breakdown) []csvledger.Row {
	rows := make([]csvledger.Row, 0, len(items))
	for i, it := range items {
		rows = append(rows, csvledger.Row{
			"date":     date,
			"rank":     strconv.Itoa(i + 1),
			nameColumn: it.Name,
			"seconds":  formatNumber(it.Seconds),
			"hours":    formatNumber(ToHours(it.Seconds)),
			"percent":  formatNumber(it.Percent),
		})
	}
	return rows
}

func sortBySeconds(items []wakatime.Breakdown) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Seconds > items[j].Seconds
	})
}
