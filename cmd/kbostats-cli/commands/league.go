package commands

import (
	"os"

	"github.com/spf13/cobra"
)

var standingsYear *int
var summaryYear *int

func init() {
	standingsYear = standingsCmd.Flags().Int("year", 0, "Only crawl this season.")
	summaryYear = summaryCmd.Flags().Int("year", 0, "Only crawl this season.")
	rootCmd.AddCommand(standingsCmd)
	rootCmd.AddCommand(summaryCmd)
}

var standingsCmd = &cobra.Command{
	Use:   "standings [--year <season>]",
	Short: "Crawls yearly team standings into data/<season>/league_info/.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if *standingsYear != 0 {
			cfg.Crawler.Seasons = []int{*standingsYear}
		}

		svc := newService(cfg)
		report := svc.RunStandings(cmd.Context())
		report.Render(os.Stdout)
		if report.HasFailures() {
			os.Exit(1)
		}
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary [--year <season>]",
	Short: "Crawls league-wide team aggregate tables into data/<season>/league_info/.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if *summaryYear != 0 {
			cfg.Crawler.Seasons = []int{*summaryYear}
		}

		svc := newService(cfg)
		report := svc.RunSummaries(cmd.Context())
		report.Render(os.Stdout)
		if report.HasFailures() {
			os.Exit(1)
		}
	},
}
