package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"kbostats-backend/lib/csvio"
	"kbostats-backend/lib/kbo"

	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("services/crawler")

// Site is the remote collaborator: it turns a request into the HTML of
// the result pages, or fails with a network or selector error.
type Site interface {
	FetchRecordPages(ctx context.Context, spec kbo.RequestSpec) ([]string, error)
	FetchStandingsPage(ctx context.Context, season int) (string, error)
	FetchSummaryPages(ctx context.Context, kind kbo.SummaryKind, season int) ([]string, error)
}

type Config struct {
	// OutputDir is the root of the season/team tree, "data" by default.
	OutputDir  string         `json:"output_dir"`
	Seasons    []int          `json:"seasons"`
	Teams      []kbo.Team     `json:"teams"`
	Categories []kbo.Category `json:"categories"`
	// Workers bounds concurrent combinations. The default of 1 keeps
	// the crawl strictly sequential; higher values are safe because
	// every combination writes a disjoint file.
	Workers int `json:"workers"`
}

func (c Config) withDefaults() Config {
	if c.OutputDir == "" {
		c.OutputDir = "data"
	}
	if len(c.Seasons) == 0 {
		c.Seasons = kbo.DefaultSeasons()
	}
	if len(c.Teams) == 0 {
		c.Teams = kbo.DefaultTeams()
	}
	if len(c.Categories) == 0 {
		c.Categories = kbo.Categories()
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	return c
}

type Service struct {
	site Site
	cfg  Config
}

func New(cfg Config, site Site) Service {
	return Service{site: site, cfg: cfg.withDefaults()}
}

// schemaTracker remembers the first header seen per category within a
// run, so later combinations can be checked for schema drift.
type schemaTracker struct {
	mu   sync.Mutex
	seen map[kbo.Category][]string
}

func newSchemaTracker() *schemaTracker {
	return &schemaTracker{seen: map[kbo.Category][]string{}}
}

// check records header for cat on first sight and reports whether it
// matches what was recorded earlier.
func (s *schemaTracker) check(cat kbo.Category, header []string) ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	first, ok := s.seen[cat]
	if !ok {
		s.seen[cat] = header
		return header, true
	}
	return first, slices.Equal(first, header)
}

// Run crawls the Cartesian product of the configured seasons, teams
// and categories. A failing combination is recorded and skipped, it
// never aborts the rest of the batch.
func (s Service) Run(ctx context.Context) *Report {
	ctx, span := tracer.Start(ctx, "crawler:Run")
	defer span.End()

	report := newReport()
	schemas := newSchemaTracker()

	var g errgroup.Group
	g.SetLimit(s.cfg.Workers)

	for _, season := range s.cfg.Seasons {
		for _, team := range s.cfg.Teams {
			for _, category := range s.cfg.Categories {
				spec := kbo.RequestSpec{Season: season, Team: team, Category: category}
				g.Go(func() error {
					s.crawlOne(ctx, spec, report, schemas)
					return nil
				})
			}
		}
	}
	g.Wait()

	return report
}

func (s Service) crawlOne(ctx context.Context, spec kbo.RequestSpec, report *Report, schemas *schemaTracker) {
	slog.InfoContext(ctx, "crawling", "spec", spec.String())

	pages, err := s.site.FetchRecordPages(ctx, spec)
	if err != nil {
		report.fail(spec.String(), fetchStage(err), err)
		return
	}

	var tables []kbo.Table
	for i, page := range pages {
		t, err := kbo.ParseRecordPage(page)
		if i > 0 && errors.Is(err, kbo.ErrNoRows) {
			// a trailing pager page can legitimately come back empty
			continue
		}
		if err != nil {
			report.fail(spec.String(), StageExtract, err)
			return
		}
		tables = append(tables, t)
	}

	merged, err := kbo.MergeTables(tables)
	if err != nil {
		report.fail(spec.String(), StageExtract, err)
		return
	}
	merged = kbo.FilterTeam(merged, spec.Team)

	if first, ok := schemas.check(spec.Category, merged.Header); !ok {
		report.warn(fmt.Sprintf(
			"%s: %s header drifted from earlier tables: got %v, first saw %v",
			spec, spec.Category, merged.Header, first,
		))
	}

	path := OutputPath(s.cfg.OutputDir, spec)
	err = csvio.Write(path, merged.Header, merged.Rows)
	if err != nil {
		report.fail(spec.String(), StageWrite, err)
		return
	}
	report.wrote(path)
}

// fetchStage classifies a fetch-path error: selector resolution
// failures are request-building errors, everything else is transport.
func fetchStage(err error) Stage {
	if errors.Is(err, kbo.ErrUnknownOption) ||
		errors.Is(err, kbo.ErrUnknownTeam) ||
		errors.Is(err, kbo.ErrUnknownCategory) {
		return StageRequest
	}
	return StageFetch
}
