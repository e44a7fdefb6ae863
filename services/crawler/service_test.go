package crawler

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kbostats-backend/lib/kbo"

	"github.com/stretchr/testify/require"
)

type fakeSite struct {
	records   func(spec kbo.RequestSpec) ([]string, error)
	standings func(season int) (string, error)
	summaries func(kind kbo.SummaryKind, season int) ([]string, error)
}

func (f fakeSite) FetchRecordPages(_ context.Context, spec kbo.RequestSpec) ([]string, error) {
	if f.records == nil {
		return nil, errors.New("unexpected FetchRecordPages call")
	}
	return f.records(spec)
}

func (f fakeSite) FetchStandingsPage(_ context.Context, season int) (string, error) {
	if f.standings == nil {
		return "", errors.New("unexpected FetchStandingsPage call")
	}
	return f.standings(season)
}

func (f fakeSite) FetchSummaryPages(_ context.Context, kind kbo.SummaryKind, season int) ([]string, error) {
	if f.summaries == nil {
		return nil, errors.New("unexpected FetchSummaryPages call")
	}
	return f.summaries(kind, season)
}

// recordPage builds a minimal result page around a single table.
func recordPage(header []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString("<html><body><table><thead><tr>")
	for _, h := range header {
		fmt.Fprintf(&b, "<th>%s</th>", h)
	}
	b.WriteString("</tr></thead><tbody>")
	for _, row := range rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			fmt.Fprintf(&b, "<td>%s</td>", cell)
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table></body></html>")
	return b.String()
}

var testHeader = []string{"순위", "선수명", "팀명", "AVG"}

func testTeam(name string) kbo.Team {
	return kbo.Team{Name: name, Code: name, Korean: name}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}))
	records, err := csv.NewReader(bytes.NewReader(raw[3:])).ReadAll()
	require.NoError(t, err)
	return records
}

func TestRunIsolatesFailures(t *testing.T) {
	out := t.TempDir()
	site := fakeSite{
		records: func(spec kbo.RequestSpec) ([]string, error) {
			if spec.Team.Name == "KT" {
				return nil, errors.New("connection reset")
			}
			rows := [][]string{
				{"1", "선수A", spec.Team.Name, "0.301"},
				{"2", "선수B", spec.Team.Name, "0.290"},
			}
			return []string{recordPage(testHeader, rows)}, nil
		},
	}

	svc := New(Config{
		OutputDir:  out,
		Seasons:    []int{2023},
		Teams:      []kbo.Team{testTeam("LG"), testTeam("KT"), testTeam("NC")},
		Categories: []kbo.Category{kbo.CategoryHitter},
	}, site)

	report := svc.Run(context.Background())

	require.True(t, report.HasFailures())
	require.Len(t, report.Failures, 1)
	require.Equal(t, "2023/KT/hitter", report.Failures[0].Target)
	require.Equal(t, StageFetch, report.Failures[0].Stage)

	// the failing team must not stop the teams around it
	require.Len(t, report.Written, 2)
	lg := readCSV(t, filepath.Join(out, "2023", "LG", "hitter.csv"))
	require.Len(t, lg, 3)
	require.Equal(t, append([]string{"player_id"}, testHeader...), lg[0])
	require.Equal(t, "선수A", lg[1][2])

	_, err := os.Stat(filepath.Join(out, "2023", "KT", "hitter.csv"))
	require.True(t, os.IsNotExist(err))

	nc := readCSV(t, filepath.Join(out, "2023", "NC", "hitter.csv"))
	require.Len(t, nc, 3)
}

func TestRunEmptyResult(t *testing.T) {
	site := fakeSite{
		records: func(spec kbo.RequestSpec) ([]string, error) {
			return []string{recordPage(testHeader, nil)}, nil
		},
	}
	svc := New(Config{
		OutputDir:  t.TempDir(),
		Seasons:    []int{2023},
		Teams:      []kbo.Team{testTeam("LG")},
		Categories: []kbo.Category{kbo.CategoryHitter},
	}, site)

	report := svc.Run(context.Background())
	require.Len(t, report.Failures, 1)
	require.Equal(t, StageExtract, report.Failures[0].Stage)
	require.ErrorIs(t, report.Failures[0].Err, kbo.ErrNoRows)
	require.Empty(t, report.Written)
}

func TestRunSchemaDriftWarns(t *testing.T) {
	drifted := []string{"순위", "선수명", "팀명", "타율"}
	site := fakeSite{
		records: func(spec kbo.RequestSpec) ([]string, error) {
			header := testHeader
			if spec.Team.Name == "NC" {
				header = drifted
			}
			rows := [][]string{{"1", "선수A", spec.Team.Name, "0.301"}}
			return []string{recordPage(header, rows)}, nil
		},
	}
	svc := New(Config{
		OutputDir:  t.TempDir(),
		Seasons:    []int{2023},
		Teams:      []kbo.Team{testTeam("LG"), testTeam("NC")},
		Categories: []kbo.Category{kbo.CategoryHitter},
	}, site)

	report := svc.Run(context.Background())

	// drift is a warning, both files are still written
	require.False(t, report.HasFailures())
	require.Len(t, report.Written, 2)
	require.Len(t, report.Warnings, 1)
	require.Contains(t, report.Warnings[0], "header drifted")
}

func TestRunTrailingEmptyPagerPage(t *testing.T) {
	site := fakeSite{
		records: func(spec kbo.RequestSpec) ([]string, error) {
			full := recordPage(testHeader, [][]string{
				{"1", "선수A", spec.Team.Name, "0.301"},
			})
			empty := recordPage(testHeader, nil)
			return []string{full, empty}, nil
		},
	}
	out := t.TempDir()
	svc := New(Config{
		OutputDir:  out,
		Seasons:    []int{2023},
		Teams:      []kbo.Team{testTeam("LG")},
		Categories: []kbo.Category{kbo.CategoryHitter},
	}, site)

	report := svc.Run(context.Background())
	require.False(t, report.HasFailures())
	records := readCSV(t, filepath.Join(out, "2023", "LG", "hitter.csv"))
	require.Len(t, records, 2)
}

func TestOutputPath(t *testing.T) {
	spec := kbo.RequestSpec{Season: 2023, Team: testTeam("LG"), Category: kbo.CategoryPitcher}
	require.Equal(t, filepath.Join("data", "2023", "LG", "pitcher.csv"), OutputPath("data", spec))
}

func TestFetchStage(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Stage
	}{
		{"unknown option", fmt.Errorf("wrapped: %w", kbo.ErrUnknownOption), StageRequest},
		{"unknown team", kbo.ErrUnknownTeam, StageRequest},
		{"unknown category", kbo.ErrUnknownCategory, StageRequest},
		{"transport", errors.New("connection reset"), StageFetch},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, fetchStage(c.err))
		})
	}
}

func TestRunStandings(t *testing.T) {
	out := t.TempDir()
	site := fakeSite{
		standings: func(season int) (string, error) {
			if season == 2022 {
				return "", errors.New("timeout")
			}
			return recordPage([]string{"순위", "팀명", "승률"}, [][]string{
				{"1", "LG", "0.606"},
			}), nil
		},
	}
	svc := New(Config{
		OutputDir: out,
		Seasons:   []int{2022, 2023},
		Teams:     []kbo.Team{testTeam("LG")},
	}, site)

	report := svc.RunStandings(context.Background())
	require.Len(t, report.Failures, 1)
	require.Equal(t, "2022/standings", report.Failures[0].Target)
	require.Len(t, report.Written, 1)

	records := readCSV(t, filepath.Join(out, "2023", "league_info", "2023_team_rank.csv"))
	require.Equal(t, [][]string{{"순위", "팀명", "승률"}, {"1", "LG", "0.606"}}, records)
}

func TestRunSummaries(t *testing.T) {
	out := t.TempDir()
	site := fakeSite{
		summaries: func(kind kbo.SummaryKind, season int) ([]string, error) {
			return []string{recordPage([]string{"팀명", "G"}, [][]string{
				{"LG", "144"},
			})}, nil
		},
	}
	svc := New(Config{
		OutputDir: out,
		Seasons:   []int{2023},
		Teams:     []kbo.Team{testTeam("LG")},
	}, site)

	report := svc.RunSummaries(context.Background())
	require.False(t, report.HasFailures())
	require.Len(t, report.Written, len(kbo.SummaryKinds()))

	records := readCSV(t, filepath.Join(out, "2023", "league_info", "2023_hitting_summary.csv"))
	require.Equal(t, [][]string{{"팀명", "G"}, {"LG", "144"}}, records)
}
