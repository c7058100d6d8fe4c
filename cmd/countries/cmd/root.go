package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hcsolakoglu/country-list-updated-weekly/lib/configutil"
	"github.com/hcsolakoglu/country-list-updated-weekly/lib/retryutil"
	"github.com/hcsolakoglu/country-list-updated-weekly/lib/scrapers/geonames"
	"github.com/hcsolakoglu/country-list-updated-weekly/services/updater"

	"github.com/spf13/cobra"
)

type Config struct {
	Url           string `json:"url"`
	Output        string `json:"output"`
	Summary       string `json:"summary"`
	MaxRetries    int    `json:"max_retries"`
	BackoffBaseMs int    `json:"backoff_base_ms"`
	MinExpected   int    `json:"min_expected"`
}

func defaultConfig() Config {
	return Config{
		Url:           geonames.DefaultURL,
		Output:        "countries.jsonl",
		Summary:       ".changes_summary.txt",
		MaxRetries:    5,
		BackoffBaseMs: 2000,
		MinExpected:   100,
	}
}

// config.json5 is optional: the defaults plus environment overrides are
// enough for the scheduled run.
func loadConfig() (Config, error) {
	config := defaultConfig()

	fileConfig, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil && !os.IsNotExist(err) {
		return Config{}, err
	}
	if err == nil {
		if fileConfig.Url != "" {
			config.Url = fileConfig.Url
		}
		if fileConfig.Output != "" {
			config.Output = fileConfig.Output
		}
		if fileConfig.Summary != "" {
			config.Summary = fileConfig.Summary
		}
		if fileConfig.MaxRetries > 0 {
			config.MaxRetries = fileConfig.MaxRetries
		}
		if fileConfig.BackoffBaseMs > 0 {
			config.BackoffBaseMs = fileConfig.BackoffBaseMs
		}
		if fileConfig.MinExpected > 0 {
			config.MinExpected = fileConfig.MinExpected
		}
	}

	configutil.OverrideString(&config.Url, "COUNTRIES_URL")
	configutil.OverrideString(&config.Output, "COUNTRIES_OUTPUT")
	configutil.OverrideString(&config.Summary, "COUNTRIES_SUMMARY")
	if err := configutil.OverrideInt(&config.MaxRetries, "COUNTRIES_MAX_RETRIES"); err != nil {
		return Config{}, err
	}
	if err := configutil.OverrideInt(&config.BackoffBaseMs, "COUNTRIES_BACKOFF_BASE_MS"); err != nil {
		return Config{}, err
	}
	if err := configutil.OverrideInt(&config.MinExpected, "COUNTRIES_MIN_EXPECTED"); err != nil {
		return Config{}, err
	}

	return config, nil
}

func newService(config Config) *updater.Service {
	scraper := geonames.NewClient(geonames.ClientOptions{
		URL: config.Url,
		Retry: retryutil.Policy{
			MaxAttempts: config.MaxRetries,
			BaseDelay:   time.Duration(config.BackoffBaseMs) * time.Millisecond,
			MaxDelay:    2 * time.Minute,
			Jitter:      time.Second,
		},
	})
	return updater.NewService(scraper, updater.Options{
		Output:      config.Output,
		Summary:     config.Summary,
		MinExpected: config.MinExpected,
	})
}

func fatal(message string, err error) {
	slog.Error(message, "err", err.Error())
	os.Exit(1)
}

var rootCmd = &cobra.Command{
	Use:   "countries",
	Short: "countries keeps a JSONL snapshot of the geonames country list up to date.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
