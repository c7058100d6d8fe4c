package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/hcsolakoglu/country-list-updated-weekly/lib/telemetry"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetches the country list and rewrites the snapshot if it changed.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		config, err := loadConfig()
		if err != nil {
			fatal("failed to load config", err)
		}

		tel, err := telemetry.SetupFromEnv(ctx, "countries-update")
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			fatal("failed to setup telemetry", err)
		}
		if err == nil {
			defer tel.Shutdown(ctx)
		}

		service := newService(config)
		diff, err := service.Run(ctx)
		if err != nil {
			fatal("update run failed", err)
		}

		fmt.Println(diff.Summary())
	},
}
