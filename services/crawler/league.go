package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"kbostats-backend/lib/csvio"
	"kbostats-backend/lib/kbo"
)

// RunStandings crawls the yearly team rank table for every configured
// season into <out>/<season>/league_info/. Same isolation contract as
// Run: one season failing does not stop the others.
func (s Service) RunStandings(ctx context.Context) *Report {
	ctx, span := tracer.Start(ctx, "crawler:RunStandings")
	defer span.End()

	report := newReport()
	for _, season := range s.cfg.Seasons {
		target := fmt.Sprintf("%d/standings", season)
		slog.InfoContext(ctx, "crawling standings", "season", season)

		html, err := s.site.FetchStandingsPage(ctx, season)
		if err != nil {
			report.fail(target, fetchStage(err), err)
			continue
		}
		t, err := kbo.ParseStatTable(html)
		if err != nil {
			report.fail(target, StageExtract, err)
			continue
		}

		path := StandingsPath(s.cfg.OutputDir, season)
		err = csvio.Write(path, t.Header, t.Rows)
		if err != nil {
			report.fail(target, StageWrite, err)
			continue
		}
		report.wrote(path)
	}
	return report
}

// RunSummaries crawls the league-wide team aggregate tables (hitting,
// pitching, defense, running) for every configured season.
func (s Service) RunSummaries(ctx context.Context) *Report {
	ctx, span := tracer.Start(ctx, "crawler:RunSummaries")
	defer span.End()

	report := newReport()
	for _, season := range s.cfg.Seasons {
		for _, kind := range kbo.SummaryKinds() {
			target := fmt.Sprintf("%d/summary/%s", season, kind)
			slog.InfoContext(ctx, "crawling summary", "season", season, "kind", string(kind))

			pages, err := s.site.FetchSummaryPages(ctx, kind, season)
			if err != nil {
				report.fail(target, fetchStage(err), err)
				continue
			}

			var tables []kbo.Table
			parseFailed := false
			for i, page := range pages {
				t, err := kbo.ParseStatTable(page)
				if i > 0 && errors.Is(err, kbo.ErrNoRows) {
					continue
				}
				if err != nil {
					report.fail(target, StageExtract, err)
					parseFailed = true
					break
				}
				tables = append(tables, t)
			}
			if parseFailed {
				continue
			}

			merged, err := kbo.MergeTables(tables)
			if err != nil {
				report.fail(target, StageExtract, err)
				continue
			}

			path := SummaryPath(s.cfg.OutputDir, kind, season)
			err = csvio.Write(path, merged.Header, merged.Rows)
			if err != nil {
				report.fail(target, StageWrite, err)
				continue
			}
			report.wrote(path)
		}
	}
	return report
}
