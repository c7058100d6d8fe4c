package cmd

import (
	"fmt"

	"github.com/hcsolakoglu/country-list-updated-weekly/internal/countries"
	"github.com/hcsolakoglu/country-list-updated-weekly/internal/snapshot"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Checks an existing snapshot file for data quality problems.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config, err := loadConfig()
		if err != nil {
			fatal("failed to load config", err)
		}

		path := config.Output
		if len(args) > 0 {
			path = args[0]
		}

		records, err := snapshot.Load(path)
		if err != nil {
			fatal("failed to load snapshot", err)
		}
		if records == nil {
			fatal("failed to load snapshot", fmt.Errorf("%s does not exist", path))
		}

		if err := countries.Validate(records, config.MinExpected); err != nil {
			fatal("snapshot is invalid", err)
		}

		fmt.Printf("%s: %d records ok\n", path, len(records))
	},
}
