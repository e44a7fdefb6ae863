package commands

import (
	"log/slog"
	"os"
	"time"

	"kbostats-backend/lib/kbo"
	"kbostats-backend/lib/serviceutil"

	"github.com/spf13/cobra"
)

var (
	crawlYear     *int
	crawlTeam     *string
	crawlCategory *string
	crawlWorkers  *int
	crawlOut      *string
)

func init() {
	crawlYear = crawlCmd.Flags().Int("year", 0, "Only crawl this season (e.g. 2025).")
	crawlTeam = crawlCmd.Flags().String("team", "", "Only crawl this team, by english name (e.g. LG).")
	crawlCategory = crawlCmd.Flags().String("category", "", "Only crawl this category (hitter, pitcher, defense, runner).")
	crawlWorkers = crawlCmd.Flags().Int("workers", 0, "Number of combinations to crawl at once.")
	crawlOut = crawlCmd.Flags().String("out", "", "Output directory root (default \"data\").")
	rootCmd.AddCommand(crawlCmd)
}

var crawlCmd = &cobra.Command{
	Use:   "crawl [--year <season>] [--team <name>] [--category <name>]",
	Short: "Crawls per-team player statistics into data/<season>/<team>/<category>.csv.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		if *crawlYear != 0 {
			cfg.Crawler.Seasons = []int{*crawlYear}
		}
		if *crawlTeam != "" {
			teams := cfg.Crawler.Teams
			if len(teams) == 0 {
				teams = kbo.DefaultTeams()
			}
			team, err := kbo.LookupTeam(teams, *crawlTeam)
			if err != nil {
				serviceutil.Fatal("unknown team", err)
			}
			cfg.Crawler.Teams = []kbo.Team{team}
		}
		if *crawlCategory != "" {
			category := kbo.Category(*crawlCategory)
			if !category.Valid() {
				serviceutil.Fatal("unknown category", kbo.ErrUnknownCategory)
			}
			cfg.Crawler.Categories = []kbo.Category{category}
		}
		if *crawlWorkers != 0 {
			cfg.Crawler.Workers = *crawlWorkers
		}
		if *crawlOut != "" {
			cfg.Crawler.OutputDir = *crawlOut
		}

		svc := newService(cfg)

		t1 := time.Now()
		report := svc.Run(cmd.Context())
		t2 := time.Now()

		report.Render(os.Stdout)
		slog.Info("crawl time", "seconds", t2.Sub(t1).Seconds())
		if report.HasFailures() {
			os.Exit(1)
		}
	},
}
