package commands

import (
	"os"

	"kbostats-backend/lib/configutil"
	"kbostats-backend/lib/kbo"
	"kbostats-backend/lib/restyutil"
	"kbostats-backend/lib/serviceutil"
	"kbostats-backend/services/crawler"
)

type Config struct {
	// BaseUrl overrides the production site, mainly for testing
	// against a mirror. Can also come from KBO_BASE_URL (or a .env
	// file).
	BaseUrl string `json:"base_url"`
	// DebugHttpDir, when set, receives a dump of every HTTP exchange.
	DebugHttpDir string         `json:"debug_http_dir"`
	Crawler      crawler.Config `json:"crawler"`
}

// loadConfig reads config.json5 next to the working directory. A
// missing file is fine, the crawler defaults cover the full league.
func loadConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("failed to read config", err)
	}
	if v := os.Getenv("KBO_BASE_URL"); v != "" {
		cfg.BaseUrl = v
	}
	return cfg
}

func newService(cfg Config) crawler.Service {
	var output restyutil.InstrumentOutput
	if cfg.DebugHttpDir != "" {
		output = restyutil.NewFilesystemOutput(cfg.DebugHttpDir)
	}
	client, err := kbo.NewClient(kbo.ClientOptions{
		BaseUrl: cfg.BaseUrl,
		Output:  output,
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize kbo client", err)
	}
	return crawler.New(cfg.Crawler, client)
}
