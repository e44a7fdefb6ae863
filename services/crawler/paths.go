package crawler

import (
	"fmt"
	"path/filepath"
	"strconv"

	"kbostats-backend/lib/kbo"
)

// OutputPath derives the destination file for one combination:
// <root>/<season>/<team>/<category>.csv
func OutputPath(root string, spec kbo.RequestSpec) string {
	return filepath.Join(
		root,
		strconv.Itoa(spec.Season),
		spec.Team.Name,
		string(spec.Category)+".csv",
	)
}

// StandingsPath derives the destination of a season's standings file.
func StandingsPath(root string, season int) string {
	return filepath.Join(
		root,
		strconv.Itoa(season),
		"league_info",
		fmt.Sprintf("%d_team_rank.csv", season),
	)
}

// SummaryPath derives the destination of one league summary file.
func SummaryPath(root string, kind kbo.SummaryKind, season int) string {
	return filepath.Join(
		root,
		strconv.Itoa(season),
		"league_info",
		fmt.Sprintf("%d_%s_summary.csv", season, kind),
	)
}
